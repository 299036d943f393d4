package sqlite

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/harvestline/kitchenops/internal/kitchen/domain"
	"github.com/harvestline/kitchenops/internal/kitchen/storage"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "kitchen.sqlite"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func testNow() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func seedMenu(t *testing.T, store *Store, menu domain.Menu) {
	t.Helper()
	err := store.WithinTx(context.Background(), func(uow storage.UnitOfWork) error {
		return uow.CreateMenu(context.Background(), menu)
	})
	if err != nil {
		t.Fatalf("seed menu: %v", err)
	}
}

func seedDish(t *testing.T, store *Store, dish domain.Dish) {
	t.Helper()
	err := store.WithinTx(context.Background(), func(uow storage.UnitOfWork) error {
		return uow.CreateDish(context.Background(), dish)
	})
	if err != nil {
		t.Fatalf("seed dish: %v", err)
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected an error for empty path")
	}
}

func TestMenuRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	menu := domain.Menu{
		ID:             "menu-1",
		TenantID:       "tenant-1",
		Name:           "Summer Tasting",
		Category:       "seasonal",
		BasePrice:      50000,
		PricePerPerson: 8500,
		MinGuests:      10,
		MaxGuests:      80,
		CreatedAt:      testNow(),
		UpdatedAt:      testNow(),
	}
	seedMenu(t, store, menu)

	err := store.WithinTx(ctx, func(uow storage.UnitOfWork) error {
		got, err := uow.GetMenu(ctx, "tenant-1", "menu-1")
		if err != nil {
			return err
		}
		if got.Name != menu.Name || got.PricePerPerson != menu.PricePerPerson {
			t.Errorf("loaded menu = %+v, want %+v", got, menu)
		}
		if !got.CreatedAt.Equal(menu.CreatedAt) {
			t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, menu.CreatedAt)
		}

		got.Name = "Autumn Tasting"
		got.UpdatedAt = testNow().Add(time.Hour)
		if err := uow.UpdateMenu(ctx, got); err != nil {
			return err
		}

		updated, err := uow.GetMenu(ctx, "tenant-1", "menu-1")
		if err != nil {
			return err
		}
		if updated.Name != "Autumn Tasting" {
			t.Errorf("Name = %q after update", updated.Name)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithinTx: %v", err)
	}
}

func TestTenantIsolation(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	seedMenu(t, store, domain.Menu{ID: "menu-1", TenantID: "tenant-1", Name: "Private", CreatedAt: testNow(), UpdatedAt: testNow()})

	err := store.WithinTx(ctx, func(uow storage.UnitOfWork) error {
		if _, err := uow.GetMenu(ctx, "tenant-2", "menu-1"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("cross-tenant GetMenu err = %v, want ErrNotFound", err)
		}
		other := domain.Menu{ID: "menu-1", TenantID: "tenant-2", Name: "Stolen", UpdatedAt: testNow()}
		if err := uow.UpdateMenu(ctx, other); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("cross-tenant UpdateMenu err = %v, want ErrNotFound", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithinTx: %v", err)
	}
}

func TestSoftDeletedMenuInvisible(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	menu := domain.Menu{ID: "menu-1", TenantID: "tenant-1", Name: "Gone", CreatedAt: testNow(), UpdatedAt: testNow()}
	seedMenu(t, store, menu)

	err := store.WithinTx(ctx, func(uow storage.UnitOfWork) error {
		loaded, err := uow.GetMenu(ctx, "tenant-1", "menu-1")
		if err != nil {
			return err
		}
		loaded.SoftDelete(testNow)
		return uow.UpdateMenu(ctx, loaded)
	})
	if err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	err = store.WithinTx(ctx, func(uow storage.UnitOfWork) error {
		_, err := uow.GetMenu(ctx, "tenant-1", "menu-1")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("deleted menu err = %v, want ErrNotFound", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithinTx: %v", err)
	}
}

func TestRollbackDiscardsWrites(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	boom := fmt.Errorf("boom")

	err := store.WithinTx(ctx, func(uow storage.UnitOfWork) error {
		if err := uow.CreateMenu(ctx, domain.Menu{ID: "menu-1", TenantID: "tenant-1", Name: "Doomed", CreatedAt: testNow(), UpdatedAt: testNow()}); err != nil {
			return err
		}
		if err := uow.EnqueueOutboxEvent(ctx, storage.OutboxEvent{
			ID: "evt-1", TenantID: "tenant-1", AggregateType: "menu", AggregateID: "menu-1",
			EventType: "menu.created", Payload: []byte(`{}`), CreatedAt: testNow(),
		}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithinTx err = %v, want boom", err)
	}

	err = store.WithinTx(ctx, func(uow storage.UnitOfWork) error {
		if _, err := uow.GetMenu(ctx, "tenant-1", "menu-1"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("menu survived rollback: err = %v", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithinTx: %v", err)
	}

	pending, err := store.ListPendingOutboxEvents(ctx, 10)
	if err != nil {
		t.Fatalf("ListPendingOutboxEvents: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("outbox rows survived rollback: %v", pending)
	}
}

func TestOutboxEnqueueAndDispatch(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i, eventType := range []string{"menu.created", "menu.updated"} {
		event := storage.OutboxEvent{
			ID:            fmt.Sprintf("evt-%d", i+1),
			TenantID:      "tenant-1",
			AggregateType: "menu",
			AggregateID:   "menu-1",
			EventType:     eventType,
			Payload:       []byte(`{"menuId":"menu-1"}`),
			CreatedAt:     testNow().Add(time.Duration(i) * time.Second),
		}
		err := store.WithinTx(ctx, func(uow storage.UnitOfWork) error {
			return uow.EnqueueOutboxEvent(ctx, event)
		})
		if err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	}

	pending, err := store.ListPendingOutboxEvents(ctx, 10)
	if err != nil {
		t.Fatalf("ListPendingOutboxEvents: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("pending = %d, want 2", len(pending))
	}
	if pending[0].EventType != "menu.created" || pending[1].EventType != "menu.updated" {
		t.Fatalf("pending order = [%s %s], want oldest first", pending[0].EventType, pending[1].EventType)
	}

	dispatchedAt := testNow().Add(time.Minute)
	if err := store.MarkOutboxEventDispatched(ctx, "evt-1", dispatchedAt); err != nil {
		t.Fatalf("MarkOutboxEventDispatched: %v", err)
	}

	pending, err = store.ListPendingOutboxEvents(ctx, 10)
	if err != nil {
		t.Fatalf("ListPendingOutboxEvents: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != "evt-2" {
		t.Fatalf("pending after dispatch = %v, want only evt-2", pending)
	}

	if err := store.MarkOutboxEventDispatched(ctx, "evt-1", dispatchedAt); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("re-dispatch err = %v, want ErrNotFound", err)
	}
}

func TestMenuDishLinks(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	seedMenu(t, store, domain.Menu{ID: "menu-1", TenantID: "tenant-1", Name: "Menu", CreatedAt: testNow(), UpdatedAt: testNow()})
	for _, id := range []string{"dish-a", "dish-b", "dish-c"} {
		seedDish(t, store, domain.Dish{ID: id, TenantID: "tenant-1", Name: id, Active: true, CreatedAt: testNow(), UpdatedAt: testNow()})
	}

	err := store.WithinTx(ctx, func(uow storage.UnitOfWork) error {
		for i, id := range []string{"dish-a", "dish-b", "dish-c"} {
			link := domain.MenuDish{ID: "link-" + id, MenuID: "menu-1", DishID: id, SortOrder: i + 1}
			if err := uow.AddMenuDish(ctx, "tenant-1", link); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("add links: %v", err)
	}

	err = store.WithinTx(ctx, func(uow storage.UnitOfWork) error {
		count, err := uow.CountMenuDishes(ctx, "tenant-1", "menu-1")
		if err != nil {
			return err
		}
		if count != 3 {
			t.Errorf("CountMenuDishes = %d, want 3", count)
		}

		linked, err := uow.CountLinkedMenuDishes(ctx, "tenant-1", "menu-1", []string{"dish-a", "dish-c", "intruder"})
		if err != nil {
			return err
		}
		if linked != 2 {
			t.Errorf("CountLinkedMenuDishes = %d, want 2", linked)
		}

		if err := uow.SetMenuDishPosition(ctx, "tenant-1", "menu-1", "dish-c", 1); err != nil {
			return err
		}
		if err := uow.SetMenuDishPosition(ctx, "tenant-1", "menu-1", "dish-a", 3); err != nil {
			return err
		}

		links, err := uow.ListMenuDishes(ctx, "tenant-1", "menu-1")
		if err != nil {
			return err
		}
		if links[0].DishID != "dish-c" || links[2].DishID != "dish-a" {
			t.Errorf("reorder not applied: %v", links)
		}

		if err := uow.RemoveMenuDish(ctx, "tenant-1", "menu-1", "dish-b", testNow()); err != nil {
			return err
		}
		count, err = uow.CountMenuDishes(ctx, "tenant-1", "menu-1")
		if err != nil {
			return err
		}
		if count != 2 {
			t.Errorf("count after removal = %d, want 2", count)
		}

		if err := uow.RemoveMenuDish(ctx, "tenant-1", "menu-1", "dish-b", testNow()); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("second removal err = %v, want ErrNotFound", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithinTx: %v", err)
	}
}

func TestAddMenuDishRejectsForeignDish(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	seedMenu(t, store, domain.Menu{ID: "menu-1", TenantID: "tenant-1", Name: "Menu", CreatedAt: testNow(), UpdatedAt: testNow()})
	seedDish(t, store, domain.Dish{ID: "dish-x", TenantID: "tenant-2", Name: "Foreign", Active: true, CreatedAt: testNow(), UpdatedAt: testNow()})

	err := store.WithinTx(ctx, func(uow storage.UnitOfWork) error {
		return uow.AddMenuDish(ctx, "tenant-1", domain.MenuDish{ID: "link-1", MenuID: "menu-1", DishID: "dish-x", SortOrder: 1})
	})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound for a foreign dish", err)
	}
}

func TestPrepListItems(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	list := domain.PrepList{
		ID: "list-1", TenantID: "tenant-1", EventID: "event-1", Name: "Gala",
		BatchMultiplier: 2, Status: domain.PrepListStatusDraft,
		CreatedAt: testNow(), UpdatedAt: testNow(),
	}
	err := store.WithinTx(ctx, func(uow storage.UnitOfWork) error {
		if err := uow.CreatePrepList(ctx, list); err != nil {
			return err
		}
		for i, name := range []string{"carrots", "stock", "bread"} {
			item := domain.PrepListItem{
				ID: fmt.Sprintf("item-%d", i+1), PrepListID: "list-1",
				IngredientName: name, Quantity: 1, Unit: "kg", SortOrder: i + 1,
			}
			if err := uow.CreatePrepListItem(ctx, "tenant-1", item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seed prep list: %v", err)
	}

	err = store.WithinTx(ctx, func(uow storage.UnitOfWork) error {
		got, err := uow.GetPrepList(ctx, "tenant-1", "list-1")
		if err != nil {
			return err
		}
		if got.BatchMultiplier != 2 || got.Status != domain.PrepListStatusDraft {
			t.Errorf("loaded list = %+v", got)
		}

		linked, err := uow.CountLinkedPrepListItems(ctx, "tenant-1", "list-1", []string{"item-1", "item-3"})
		if err != nil {
			return err
		}
		if linked != 2 {
			t.Errorf("CountLinkedPrepListItems = %d, want 2", linked)
		}

		if err := uow.SetPrepListItemPosition(ctx, "tenant-1", "list-1", "item-3", 1); err != nil {
			return err
		}
		items, err := uow.ListPrepListItems(ctx, "tenant-1", "list-1")
		if err != nil {
			return err
		}
		if items[0].ID != "item-3" {
			t.Errorf("reorder not applied: %v", items)
		}

		if _, err := uow.GetPrepList(ctx, "tenant-2", "list-1"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("cross-tenant GetPrepList err = %v, want ErrNotFound", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithinTx: %v", err)
	}
}

func TestRecordOverride(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	err := store.WithinTx(ctx, func(uow storage.UnitOfWork) error {
		return uow.RecordOverride(ctx, storage.OverrideRecord{
			ID:            "ovr-1",
			TenantID:      "tenant-1",
			AggregateType: "dish",
			AggregateID:   "dish-1",
			ConstraintID:  "dish.price_below_cost",
			ReasonCode:    "customer_request",
			Details:       "loss leader for the gala",
			ActorID:       "actor-1",
			CreatedAt:     testNow(),
		})
	})
	if err != nil {
		t.Fatalf("RecordOverride: %v", err)
	}

	var count int
	row := store.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM override_audit WHERE tenant_id = ?", "tenant-1")
	if err := row.Scan(&count); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if count != 1 {
		t.Fatalf("override_audit rows = %d, want 1", count)
	}
}
