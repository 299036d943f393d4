package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/harvestline/kitchenops/internal/kitchen/domain"
	"github.com/harvestline/kitchenops/internal/kitchen/storage"
)

// GetPrepList loads a live prep list scoped to the tenant.
func (t *tx) GetPrepList(ctx context.Context, tenantID, listID string) (domain.PrepList, error) {
	row := t.sqlTx.QueryRowContext(ctx, `
SELECT id, tenant_id, event_id, name, batch_multiplier, status, total_items, notes,
       created_at, updated_at, deleted_at
FROM prep_lists
WHERE id = ? AND tenant_id = ? AND deleted_at IS NULL`, listID, tenantID)

	var list domain.PrepList
	var status string
	var createdAt, updatedAt int64
	var deletedAt sql.NullInt64
	err := row.Scan(
		&list.ID,
		&list.TenantID,
		&list.EventID,
		&list.Name,
		&list.BatchMultiplier,
		&status,
		&list.TotalItems,
		&list.Notes,
		&createdAt,
		&updatedAt,
		&deletedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.PrepList{}, storage.ErrNotFound
	}
	if err != nil {
		return domain.PrepList{}, fmt.Errorf("get prep list: %w", err)
	}
	list.Status = domain.PrepListStatus(status)
	list.CreatedAt = fromMillis(createdAt)
	list.UpdatedAt = fromMillis(updatedAt)
	list.DeletedAt = fromNullableMillis(deletedAt)
	return list, nil
}

// CreatePrepList inserts a new prep list row.
func (t *tx) CreatePrepList(ctx context.Context, list domain.PrepList) error {
	_, err := t.sqlTx.ExecContext(ctx, `
INSERT INTO prep_lists (id, tenant_id, event_id, name, batch_multiplier, status, total_items, notes,
                        created_at, updated_at, deleted_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		list.ID,
		list.TenantID,
		list.EventID,
		list.Name,
		list.BatchMultiplier,
		string(list.Status),
		list.TotalItems,
		list.Notes,
		toMillis(list.CreatedAt),
		toMillis(list.UpdatedAt),
		nullableMillis(list.DeletedAt),
	)
	if err != nil {
		return fmt.Errorf("create prep list: %w", err)
	}
	return nil
}

// UpdatePrepList replaces the mutable fields of a prep list row, including
// soft deletion. The update is tenant-scoped.
func (t *tx) UpdatePrepList(ctx context.Context, list domain.PrepList) error {
	result, err := t.sqlTx.ExecContext(ctx, `
UPDATE prep_lists
SET name = ?, batch_multiplier = ?, status = ?, total_items = ?, notes = ?, updated_at = ?, deleted_at = ?
WHERE id = ? AND tenant_id = ?`,
		list.Name,
		list.BatchMultiplier,
		string(list.Status),
		list.TotalItems,
		list.Notes,
		toMillis(list.UpdatedAt),
		nullableMillis(list.DeletedAt),
		list.ID,
		list.TenantID,
	)
	if err != nil {
		return fmt.Errorf("update prep list: %w", err)
	}
	return requireAffected(result)
}

// ListPrepListItems returns the live items of a prep list in sort order.
func (t *tx) ListPrepListItems(ctx context.Context, tenantID, listID string) ([]domain.PrepListItem, error) {
	rows, err := t.sqlTx.QueryContext(ctx, `
SELECT i.id, i.prep_list_id, i.station_name, i.ingredient_name, i.quantity, i.unit, i.sort_order, i.deleted_at
FROM prep_list_items i
JOIN prep_lists p ON p.id = i.prep_list_id
WHERE i.prep_list_id = ? AND p.tenant_id = ? AND i.deleted_at IS NULL
ORDER BY i.sort_order ASC, i.id ASC`, listID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list prep list items: %w", err)
	}
	defer rows.Close()

	var items []domain.PrepListItem
	for rows.Next() {
		var item domain.PrepListItem
		var deletedAt sql.NullInt64
		if err := rows.Scan(
			&item.ID,
			&item.PrepListID,
			&item.StationName,
			&item.IngredientName,
			&item.Quantity,
			&item.Unit,
			&item.SortOrder,
			&deletedAt,
		); err != nil {
			return nil, fmt.Errorf("scan prep list item: %w", err)
		}
		item.DeletedAt = fromNullableMillis(deletedAt)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate prep list items: %w", err)
	}
	return items, nil
}

// CreatePrepListItem inserts an item row. The parent list must belong to
// the tenant.
func (t *tx) CreatePrepListItem(ctx context.Context, tenantID string, item domain.PrepListItem) error {
	var exists int
	row := t.sqlTx.QueryRowContext(ctx, `
SELECT COUNT(*)
FROM prep_lists
WHERE id = ? AND tenant_id = ? AND deleted_at IS NULL`, item.PrepListID, tenantID)
	if err := row.Scan(&exists); err != nil {
		return fmt.Errorf("check prep list: %w", err)
	}
	if exists == 0 {
		return storage.ErrNotFound
	}

	_, err := t.sqlTx.ExecContext(ctx, `
INSERT INTO prep_list_items (id, prep_list_id, station_name, ingredient_name, quantity, unit, sort_order, deleted_at)
VALUES (?, ?, ?, ?, ?, ?, ?, NULL)`,
		item.ID,
		item.PrepListID,
		item.StationName,
		item.IngredientName,
		item.Quantity,
		item.Unit,
		item.SortOrder,
	)
	if err != nil {
		return fmt.Errorf("create prep list item: %w", err)
	}
	return nil
}

// CountLinkedPrepListItems counts how many of itemIDs are live items of the
// prep list.
func (t *tx) CountLinkedPrepListItems(ctx context.Context, tenantID, listID string, itemIDs []string) (int, error) {
	if len(itemIDs) == 0 {
		return 0, nil
	}
	query := fmt.Sprintf(`
SELECT COUNT(*)
FROM prep_list_items i
JOIN prep_lists p ON p.id = i.prep_list_id
WHERE i.prep_list_id = ? AND p.tenant_id = ? AND i.deleted_at IS NULL
  AND i.id IN (%s)`, placeholders(len(itemIDs)))

	args := make([]any, 0, len(itemIDs)+2)
	args = append(args, listID, tenantID)
	for _, id := range itemIDs {
		args = append(args, id)
	}

	var count int
	if err := t.sqlTx.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count linked prep list items: %w", err)
	}
	return count, nil
}

// SetPrepListItemPosition assigns a sort order to one live item.
func (t *tx) SetPrepListItemPosition(ctx context.Context, tenantID, listID, itemID string, position int) error {
	result, err := t.sqlTx.ExecContext(ctx, `
UPDATE prep_list_items
SET sort_order = ?
WHERE id = ? AND prep_list_id = ? AND deleted_at IS NULL
  AND prep_list_id IN (SELECT id FROM prep_lists WHERE tenant_id = ?)`,
		position, itemID, listID, tenantID)
	if err != nil {
		return fmt.Errorf("set prep list item position: %w", err)
	}
	return requireAffected(result)
}
