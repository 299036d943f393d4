package admin

import (
	"flag"
	"testing"

	"github.com/harvestline/kitchenops/internal/kitchen/command"
)

func TestParseConfigFlags(t *testing.T) {
	fs := flag.NewFlagSet("kitchen-admin", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{
		"-db-path", "/tmp/kitchen.db",
		"-tenant", "tenant-1",
		"-actor", "actor-1",
		"-type", "menu.create",
		"-name", "Summer Tasting",
		"-price-per-person", "8500",
		"-max-guests", "80",
	})
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.DBPath != "/tmp/kitchen.db" || cfg.TenantID != "tenant-1" || cfg.CommandType != "menu.create" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.PricePerPerson != 8500 || cfg.MaxGuests != 80 {
		t.Errorf("numeric flags not parsed: %+v", cfg)
	}
}

func TestParseConfigEnvDefault(t *testing.T) {
	t.Setenv("KITCHENOPS_DB_PATH", "/var/lib/kitchen.db")
	t.Setenv("KITCHENOPS_TENANT", "tenant-env")

	fs := flag.NewFlagSet("kitchen-admin", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.DBPath != "/var/lib/kitchen.db" {
		t.Errorf("DBPath = %q, want env value", cfg.DBPath)
	}
	if cfg.TenantID != "tenant-env" {
		t.Errorf("TenantID = %q, want env value", cfg.TenantID)
	}
}

func TestBuildCommand(t *testing.T) {
	cfg := Config{
		TenantID:    "tenant-1",
		ActorID:     "actor-1",
		CommandType: "menu.add_dish",
		AggregateID: "menu-1",
		DishID:      "dish-1",
		Course:      "mains",
	}
	cmd, err := buildCommand(cfg)
	if err != nil {
		t.Fatalf("buildCommand: %v", err)
	}
	payload, ok := cmd.Payload.(command.MenuAddDishPayload)
	if !ok {
		t.Fatalf("payload type = %T", cmd.Payload)
	}
	if payload.DishID != "dish-1" || payload.Course != "mains" {
		t.Errorf("payload = %+v", payload)
	}
}

func TestBuildCommandUnknownType(t *testing.T) {
	if _, err := buildCommand(Config{CommandType: "menu.explode"}); err == nil {
		t.Fatal("expected an error for an unknown type")
	}
}

func TestBuildCommandReorderIDs(t *testing.T) {
	cfg := Config{
		TenantID: "t", ActorID: "a", CommandType: "menu.reorder_dishes",
		AggregateID: "menu-1", IDs: "dish-c, dish-a ,dish-b",
	}
	cmd, err := buildCommand(cfg)
	if err != nil {
		t.Fatalf("buildCommand: %v", err)
	}
	payload := cmd.Payload.(command.MenuReorderDishesPayload)
	want := []string{"dish-c", "dish-a", "dish-b"}
	if len(payload.DishIDs) != len(want) {
		t.Fatalf("DishIDs = %v, want %v", payload.DishIDs, want)
	}
	for i := range want {
		if payload.DishIDs[i] != want[i] {
			t.Errorf("DishIDs[%d] = %q, want %q", i, payload.DishIDs[i], want[i])
		}
	}
}

func TestBuildOverride(t *testing.T) {
	if buildOverride(Config{}) != nil {
		t.Error("no override flags should produce nil")
	}

	override := buildOverride(Config{
		ActorID:         "actor-1",
		OverrideReason:  "time_crunch",
		OverrideDetails: "event moved up a day",
		OverrideAck:     "prep_list.multiplier_excessive",
	})
	if override == nil {
		t.Fatal("expected an override request")
	}
	if override.ReasonCode != command.ReasonTimeCrunch || override.ActorID != "actor-1" {
		t.Errorf("override = %+v", override)
	}
	if len(override.Acknowledged) != 1 || override.Acknowledged[0] != "prep_list.multiplier_excessive" {
		t.Errorf("Acknowledged = %v", override.Acknowledged)
	}
}
