// Package storage defines the persistence contracts for the kitchen
// pipeline: aggregate reads and writes, the transactional unit of work,
// outbox enqueueing, and override audit rows.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/harvestline/kitchenops/internal/kitchen/domain"
)

// ErrNotFound indicates a row that does not exist or belongs to another
// tenant. Callers cannot distinguish the two cases.
var ErrNotFound = errors.New("not found")

// OutboxEvent is one pending integration event. Payload holds JSON.
type OutboxEvent struct {
	ID            string
	TenantID      string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
	CreatedAt     time.Time
	DispatchedAt  *time.Time
}

// OverrideRecord is the audit row persisted for every suppressed blocking
// constraint.
type OverrideRecord struct {
	ID            string
	TenantID      string
	AggregateType string
	AggregateID   string
	ConstraintID  string
	ReasonCode    string
	Details       string
	ActorID       string
	CreatedAt     time.Time
}

// UnitOfWork is the transactional surface the executor writes through.
// Every method runs inside the same SQLite transaction; reads are scoped to
// the tenant and exclude soft-deleted rows.
type UnitOfWork interface {
	GetMenu(ctx context.Context, tenantID, menuID string) (domain.Menu, error)
	CreateMenu(ctx context.Context, menu domain.Menu) error
	UpdateMenu(ctx context.Context, menu domain.Menu) error

	ListMenuDishes(ctx context.Context, tenantID, menuID string) ([]domain.MenuDish, error)
	CountMenuDishes(ctx context.Context, tenantID, menuID string) (int, error)
	GetMenuDish(ctx context.Context, tenantID, menuID, dishID string) (domain.MenuDish, error)
	AddMenuDish(ctx context.Context, tenantID string, link domain.MenuDish) error
	RemoveMenuDish(ctx context.Context, tenantID, menuID, dishID string, at time.Time) error
	CountLinkedMenuDishes(ctx context.Context, tenantID, menuID string, dishIDs []string) (int, error)
	SetMenuDishPosition(ctx context.Context, tenantID, menuID, dishID string, position int) error

	GetDish(ctx context.Context, tenantID, dishID string) (domain.Dish, error)
	CreateDish(ctx context.Context, dish domain.Dish) error
	UpdateDish(ctx context.Context, dish domain.Dish) error

	GetPrepList(ctx context.Context, tenantID, listID string) (domain.PrepList, error)
	CreatePrepList(ctx context.Context, list domain.PrepList) error
	UpdatePrepList(ctx context.Context, list domain.PrepList) error

	ListPrepListItems(ctx context.Context, tenantID, listID string) ([]domain.PrepListItem, error)
	CreatePrepListItem(ctx context.Context, tenantID string, item domain.PrepListItem) error
	CountLinkedPrepListItems(ctx context.Context, tenantID, listID string, itemIDs []string) (int, error)
	SetPrepListItemPosition(ctx context.Context, tenantID, listID, itemID string, position int) error

	EnqueueOutboxEvent(ctx context.Context, event OutboxEvent) error
	RecordOverride(ctx context.Context, record OverrideRecord) error
}

// Store opens units of work and serves the dispatch side of the outbox.
type Store interface {
	// WithinTx runs fn inside a transaction. A non-nil error from fn rolls
	// the transaction back; otherwise it commits.
	WithinTx(ctx context.Context, fn func(uow UnitOfWork) error) error

	// ListPendingOutboxEvents returns undispatched events oldest first.
	// Consumed by the external dispatcher, never by the write path.
	ListPendingOutboxEvents(ctx context.Context, limit int) ([]OutboxEvent, error)
	// MarkOutboxEventDispatched stamps an event as delivered.
	MarkOutboxEventDispatched(ctx context.Context, eventID string, at time.Time) error
}
