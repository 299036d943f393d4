package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/harvestline/kitchenops/internal/kitchen/domain"
	"github.com/harvestline/kitchenops/internal/kitchen/storage"
)

// GetDish loads a live dish scoped to the tenant.
func (t *tx) GetDish(ctx context.Context, tenantID, dishID string) (domain.Dish, error) {
	row := t.sqlTx.QueryRowContext(ctx, `
SELECT id, tenant_id, name, description, category, price, cost, active, created_at, updated_at, deleted_at
FROM dishes
WHERE id = ? AND tenant_id = ? AND deleted_at IS NULL`, dishID, tenantID)

	var dish domain.Dish
	var active int
	var createdAt, updatedAt int64
	var deletedAt sql.NullInt64
	err := row.Scan(
		&dish.ID,
		&dish.TenantID,
		&dish.Name,
		&dish.Description,
		&dish.Category,
		&dish.Price,
		&dish.Cost,
		&active,
		&createdAt,
		&updatedAt,
		&deletedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Dish{}, storage.ErrNotFound
	}
	if err != nil {
		return domain.Dish{}, fmt.Errorf("get dish: %w", err)
	}
	dish.Active = active != 0
	dish.CreatedAt = fromMillis(createdAt)
	dish.UpdatedAt = fromMillis(updatedAt)
	dish.DeletedAt = fromNullableMillis(deletedAt)
	return dish, nil
}

// CreateDish inserts a new dish row.
func (t *tx) CreateDish(ctx context.Context, dish domain.Dish) error {
	_, err := t.sqlTx.ExecContext(ctx, `
INSERT INTO dishes (id, tenant_id, name, description, category, price, cost, active, created_at, updated_at, deleted_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		dish.ID,
		dish.TenantID,
		dish.Name,
		dish.Description,
		dish.Category,
		dish.Price,
		dish.Cost,
		boolToInt(dish.Active),
		toMillis(dish.CreatedAt),
		toMillis(dish.UpdatedAt),
		nullableMillis(dish.DeletedAt),
	)
	if err != nil {
		return fmt.Errorf("create dish: %w", err)
	}
	return nil
}

// UpdateDish replaces the mutable fields of a dish row, including soft
// deletion. The update is tenant-scoped.
func (t *tx) UpdateDish(ctx context.Context, dish domain.Dish) error {
	result, err := t.sqlTx.ExecContext(ctx, `
UPDATE dishes
SET name = ?, description = ?, category = ?, price = ?, cost = ?, active = ?, updated_at = ?, deleted_at = ?
WHERE id = ? AND tenant_id = ?`,
		dish.Name,
		dish.Description,
		dish.Category,
		dish.Price,
		dish.Cost,
		boolToInt(dish.Active),
		toMillis(dish.UpdatedAt),
		nullableMillis(dish.DeletedAt),
		dish.ID,
		dish.TenantID,
	)
	if err != nil {
		return fmt.Errorf("update dish: %w", err)
	}
	return requireAffected(result)
}
