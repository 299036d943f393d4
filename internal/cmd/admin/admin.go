// Package admin parses kitchen-admin command flags and executes one kitchen
// command against the pipeline.
package admin

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/harvestline/kitchenops/internal/kitchen/app"
	"github.com/harvestline/kitchenops/internal/kitchen/command"
	"github.com/harvestline/kitchenops/internal/kitchen/executor"
	entrypoint "github.com/harvestline/kitchenops/internal/platform/cmd"
)

// Config holds kitchen-admin command configuration.
type Config struct {
	DBPath   string `env:"KITCHENOPS_DB_PATH" envDefault:"data/kitchen.db"`
	TenantID string `env:"KITCHENOPS_TENANT"`
	ActorID  string `env:"KITCHENOPS_ACTOR"`

	CommandType string
	AggregateID string

	Name           string
	Description    string
	Category       string
	BasePrice      int64
	PricePerPerson int64
	MinGuests      int
	MaxGuests      int

	Price  int64
	Cost   int64
	Active bool

	DishID string
	Course string
	IDs    string

	EventID    string
	Multiplier float64
	Status     string
	Notes      string

	OverrideReason  string
	OverrideDetails string
	OverrideAck     string

	// Out receives the result report. Defaults to stdout.
	Out io.Writer
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "The kitchen SQLite database path")
	fs.StringVar(&cfg.TenantID, "tenant", cfg.TenantID, "Tenant the command runs under")
	fs.StringVar(&cfg.ActorID, "actor", cfg.ActorID, "Actor submitting the command")
	fs.StringVar(&cfg.CommandType, "type", "", "Command type, e.g. menu.create or prep_list.reorder_items")
	fs.StringVar(&cfg.AggregateID, "id", "", "Target aggregate id (omitted for create commands)")

	fs.StringVar(&cfg.Name, "name", "", "Menu, dish, or prep list name")
	fs.StringVar(&cfg.Description, "description", "", "Menu or dish description")
	fs.StringVar(&cfg.Category, "category", "", "Menu or dish category")
	fs.Int64Var(&cfg.BasePrice, "base-price", 0, "Menu base price in cents")
	fs.Int64Var(&cfg.PricePerPerson, "price-per-person", 0, "Menu per-person price in cents")
	fs.IntVar(&cfg.MinGuests, "min-guests", 0, "Menu minimum guest count")
	fs.IntVar(&cfg.MaxGuests, "max-guests", 0, "Menu maximum guest count")

	fs.Int64Var(&cfg.Price, "price", 0, "Dish price in cents")
	fs.Int64Var(&cfg.Cost, "cost", 0, "Dish cost in cents")
	fs.BoolVar(&cfg.Active, "active", true, "Dish active flag on update")

	fs.StringVar(&cfg.DishID, "dish", "", "Dish id for menu link commands")
	fs.StringVar(&cfg.Course, "course", "", "Course label for menu.add_dish")
	fs.StringVar(&cfg.IDs, "ids", "", "Comma-separated child ids for reorder commands")

	fs.StringVar(&cfg.EventID, "event", "", "Event id for prep_list.create")
	fs.Float64Var(&cfg.Multiplier, "multiplier", 0, "Prep list batch multiplier")
	fs.StringVar(&cfg.Status, "status", "", "Prep list status on update")
	fs.StringVar(&cfg.Notes, "notes", "", "Prep list notes")

	fs.StringVar(&cfg.OverrideReason, "override-reason", "", "Override reason code for resubmitting a blocked command")
	fs.StringVar(&cfg.OverrideDetails, "override-details", "", "Override justification")
	fs.StringVar(&cfg.OverrideAck, "override-ack", "", "Comma-separated constraint ids being overridden")

	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run executes one kitchen command and reports the structured result.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceAdmin, func(ctx context.Context) error {
		out := cfg.Out
		if out == nil {
			out = os.Stdout
		}

		cmd, err := buildCommand(cfg)
		if err != nil {
			return err
		}
		override := buildOverride(cfg)

		runtime, err := app.NewRuntime(app.RuntimeConfig{DBPath: cfg.DBPath, Logger: log.Default()})
		if err != nil {
			return err
		}
		defer func() {
			_ = runtime.Close()
		}()

		var result executor.Result
		if override != nil {
			result = runtime.Executor.ExecuteWithOverride(ctx, cmd, *override)
		} else {
			result = runtime.Executor.Execute(ctx, cmd)
		}
		report(out, result)
		return nil
	})
}

func splitIDs(raw string) []string {
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids
}

// buildCommand maps flags onto the typed payload for the command type.
func buildCommand(cfg Config) (command.Command, error) {
	cmd := command.Command{
		Type:        command.Type(cfg.CommandType),
		TenantID:    cfg.TenantID,
		ActorID:     cfg.ActorID,
		AggregateID: cfg.AggregateID,
	}

	switch cmd.Type {
	case command.TypeMenuCreate:
		cmd.Payload = command.MenuCreatePayload{
			Name: cfg.Name, Description: cfg.Description, Category: cfg.Category,
			BasePrice: cfg.BasePrice, PricePerPerson: cfg.PricePerPerson,
			MinGuests: cfg.MinGuests, MaxGuests: cfg.MaxGuests,
		}
	case command.TypeMenuUpdate:
		cmd.Payload = command.MenuUpdatePayload{
			Name: cfg.Name, Description: cfg.Description, Category: cfg.Category,
			BasePrice: cfg.BasePrice, PricePerPerson: cfg.PricePerPerson,
			MinGuests: cfg.MinGuests, MaxGuests: cfg.MaxGuests,
		}
	case command.TypeMenuActivate, command.TypeMenuDeactivate, command.TypeMenuDelete,
		command.TypeDishDelete, command.TypePrepListDelete:
		// No payload.
	case command.TypeMenuAddDish:
		cmd.Payload = command.MenuAddDishPayload{DishID: cfg.DishID, Course: cfg.Course}
	case command.TypeMenuRemoveDish:
		cmd.Payload = command.MenuRemoveDishPayload{DishID: cfg.DishID}
	case command.TypeMenuReorderDishes:
		cmd.Payload = command.MenuReorderDishesPayload{DishIDs: splitIDs(cfg.IDs)}
	case command.TypeDishCreate:
		cmd.Payload = command.DishCreatePayload{
			Name: cfg.Name, Description: cfg.Description, Category: cfg.Category,
			Price: cfg.Price, Cost: cfg.Cost,
		}
	case command.TypeDishUpdate:
		cmd.Payload = command.DishUpdatePayload{
			Name: cfg.Name, Description: cfg.Description, Category: cfg.Category,
			Price: cfg.Price, Cost: cfg.Cost, Active: cfg.Active,
		}
	case command.TypePrepListCreate:
		cmd.Payload = command.PrepListCreatePayload{
			EventID: cfg.EventID, Name: cfg.Name,
			BatchMultiplier: cfg.Multiplier, Notes: cfg.Notes,
		}
	case command.TypePrepListUpdate:
		cmd.Payload = command.PrepListUpdatePayload{
			Name: cfg.Name, BatchMultiplier: cfg.Multiplier,
			Status: cfg.Status, Notes: cfg.Notes,
		}
	case command.TypePrepListReorder:
		cmd.Payload = command.PrepListReorderItemsPayload{ItemIDs: splitIDs(cfg.IDs)}
	default:
		return command.Command{}, fmt.Errorf("unknown command type %q", cfg.CommandType)
	}
	return cmd, nil
}

func buildOverride(cfg Config) *command.OverrideRequest {
	if cfg.OverrideReason == "" && cfg.OverrideDetails == "" && cfg.OverrideAck == "" {
		return nil
	}
	return &command.OverrideRequest{
		ReasonCode:   command.ReasonCode(cfg.OverrideReason),
		Details:      cfg.OverrideDetails,
		ActorID:      cfg.ActorID,
		Acknowledged: splitIDs(cfg.OverrideAck),
	}
}

func report(out io.Writer, result executor.Result) {
	fmt.Fprintf(out, "status: %s\n", result.Status)
	if result.AggregateID != "" {
		fmt.Fprintf(out, "aggregate: %s\n", result.AggregateID)
	}
	for _, outcome := range result.Outcomes.Triggered() {
		fmt.Fprintf(out, "constraint %s [%s]: %s\n", outcome.ConstraintID, outcome.Severity, outcome.Message)
	}
	for _, constraintID := range result.Overridden {
		fmt.Fprintf(out, "overridden: %s\n", constraintID)
	}
	if result.Rejection != nil {
		fmt.Fprintf(out, "rejected [%s]: %s\n", result.Rejection.Code, result.Rejection.Message)
	}
}
