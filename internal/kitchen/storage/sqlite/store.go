// Package sqlite implements kitchen persistence over SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/harvestline/kitchenops/internal/kitchen/storage"
	"github.com/harvestline/kitchenops/internal/kitchen/storage/sqlite/migrations"
	sqlitemigrate "github.com/harvestline/kitchenops/internal/platform/storage/sqlitemigrate"
	_ "modernc.org/sqlite"
)

// toMillis normalizes timestamps into millisecond precision for storage.
func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// fromMillis restores millisecond precision and keeps UTC normalization.
func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// nullableMillis converts an optional timestamp for storage.
func nullableMillis(value *time.Time) any {
	if value == nil {
		return nil
	}
	return toMillis(*value)
}

// fromNullableMillis restores an optional timestamp.
func fromNullableMillis(value sql.NullInt64) *time.Time {
	if !value.Valid {
		return nil
	}
	restored := fromMillis(value.Int64)
	return &restored
}

// Store implements kitchen persistence over SQLite.
//
// A single SQLite file backs all kitchen aggregates so the command write,
// the outbox row, and the override audit share one transaction boundary.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a kitchen SQLite store and applies bundled migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}

	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return store, nil
}

// DB returns the raw database handle for maintenance callers.
func (s *Store) DB() *sql.DB {
	if s == nil {
		return nil
	}
	return s.sqlDB
}

// Close releases the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// tx is the unit of work bound to one SQLite transaction.
type tx struct {
	sqlTx *sql.Tx
}

var _ storage.UnitOfWork = (*tx)(nil)

// WithinTx runs fn inside a transaction, committing on success and rolling
// back on any error or panic.
func (s *Store) WithinTx(ctx context.Context, fn func(uow storage.UnitOfWork) error) error {
	sqlTx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = sqlTx.Rollback()
	}()

	if err := fn(&tx{sqlTx: sqlTx}); err != nil {
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// ListPendingOutboxEvents returns undispatched events oldest first.
func (s *Store) ListPendingOutboxEvents(ctx context.Context, limit int) ([]storage.OutboxEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, tenant_id, aggregate_type, aggregate_id, event_type, payload, created_at, dispatched_at
FROM outbox_events
WHERE dispatched_at IS NULL
ORDER BY created_at ASC, id ASC
LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending outbox events: %w", err)
	}
	defer rows.Close()

	var events []storage.OutboxEvent
	for rows.Next() {
		var event storage.OutboxEvent
		var payload string
		var createdAt int64
		var dispatchedAt sql.NullInt64
		if err := rows.Scan(
			&event.ID,
			&event.TenantID,
			&event.AggregateType,
			&event.AggregateID,
			&event.EventType,
			&payload,
			&createdAt,
			&dispatchedAt,
		); err != nil {
			return nil, fmt.Errorf("scan outbox event: %w", err)
		}
		event.Payload = []byte(payload)
		event.CreatedAt = fromMillis(createdAt)
		event.DispatchedAt = fromNullableMillis(dispatchedAt)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outbox events: %w", err)
	}
	return events, nil
}

// MarkOutboxEventDispatched stamps an event as delivered.
func (s *Store) MarkOutboxEventDispatched(ctx context.Context, eventID string, at time.Time) error {
	result, err := s.sqlDB.ExecContext(ctx, `
UPDATE outbox_events
SET dispatched_at = ?
WHERE id = ? AND dispatched_at IS NULL`, toMillis(at), eventID)
	if err != nil {
		return fmt.Errorf("mark outbox event dispatched: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// EnqueueOutboxEvent appends an event inside the current transaction.
func (t *tx) EnqueueOutboxEvent(ctx context.Context, event storage.OutboxEvent) error {
	_, err := t.sqlTx.ExecContext(ctx, `
INSERT INTO outbox_events (id, tenant_id, aggregate_type, aggregate_id, event_type, payload, created_at, dispatched_at)
VALUES (?, ?, ?, ?, ?, ?, ?, NULL)`,
		event.ID,
		event.TenantID,
		event.AggregateType,
		event.AggregateID,
		event.EventType,
		string(event.Payload),
		toMillis(event.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("enqueue outbox event: %w", err)
	}
	return nil
}

// RecordOverride appends an override audit row inside the current transaction.
func (t *tx) RecordOverride(ctx context.Context, record storage.OverrideRecord) error {
	_, err := t.sqlTx.ExecContext(ctx, `
INSERT INTO override_audit (id, tenant_id, aggregate_type, aggregate_id, constraint_id, reason_code, details, actor_id, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.TenantID,
		record.AggregateType,
		record.AggregateID,
		record.ConstraintID,
		record.ReasonCode,
		record.Details,
		record.ActorID,
		toMillis(record.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("record override: %w", err)
	}
	return nil
}
