package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harvestline/kitchenops/internal/kitchen/domain"
	"github.com/harvestline/kitchenops/internal/kitchen/storage"
)

// GetMenu loads a live menu scoped to the tenant.
func (t *tx) GetMenu(ctx context.Context, tenantID, menuID string) (domain.Menu, error) {
	row := t.sqlTx.QueryRowContext(ctx, `
SELECT id, tenant_id, name, description, category, active, base_price, price_per_person,
       min_guests, max_guests, created_at, updated_at, deleted_at
FROM menus
WHERE id = ? AND tenant_id = ? AND deleted_at IS NULL`, menuID, tenantID)

	var menu domain.Menu
	var active int
	var createdAt, updatedAt int64
	var deletedAt sql.NullInt64
	err := row.Scan(
		&menu.ID,
		&menu.TenantID,
		&menu.Name,
		&menu.Description,
		&menu.Category,
		&active,
		&menu.BasePrice,
		&menu.PricePerPerson,
		&menu.MinGuests,
		&menu.MaxGuests,
		&createdAt,
		&updatedAt,
		&deletedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Menu{}, storage.ErrNotFound
	}
	if err != nil {
		return domain.Menu{}, fmt.Errorf("get menu: %w", err)
	}
	menu.Active = active != 0
	menu.CreatedAt = fromMillis(createdAt)
	menu.UpdatedAt = fromMillis(updatedAt)
	menu.DeletedAt = fromNullableMillis(deletedAt)
	return menu, nil
}

// CreateMenu inserts a new menu row.
func (t *tx) CreateMenu(ctx context.Context, menu domain.Menu) error {
	_, err := t.sqlTx.ExecContext(ctx, `
INSERT INTO menus (id, tenant_id, name, description, category, active, base_price, price_per_person,
                   min_guests, max_guests, created_at, updated_at, deleted_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		menu.ID,
		menu.TenantID,
		menu.Name,
		menu.Description,
		menu.Category,
		boolToInt(menu.Active),
		menu.BasePrice,
		menu.PricePerPerson,
		menu.MinGuests,
		menu.MaxGuests,
		toMillis(menu.CreatedAt),
		toMillis(menu.UpdatedAt),
		nullableMillis(menu.DeletedAt),
	)
	if err != nil {
		return fmt.Errorf("create menu: %w", err)
	}
	return nil
}

// UpdateMenu replaces the mutable fields of a menu row, including soft
// deletion. The update is tenant-scoped.
func (t *tx) UpdateMenu(ctx context.Context, menu domain.Menu) error {
	result, err := t.sqlTx.ExecContext(ctx, `
UPDATE menus
SET name = ?, description = ?, category = ?, active = ?, base_price = ?, price_per_person = ?,
    min_guests = ?, max_guests = ?, updated_at = ?, deleted_at = ?
WHERE id = ? AND tenant_id = ?`,
		menu.Name,
		menu.Description,
		menu.Category,
		boolToInt(menu.Active),
		menu.BasePrice,
		menu.PricePerPerson,
		menu.MinGuests,
		menu.MaxGuests,
		toMillis(menu.UpdatedAt),
		nullableMillis(menu.DeletedAt),
		menu.ID,
		menu.TenantID,
	)
	if err != nil {
		return fmt.Errorf("update menu: %w", err)
	}
	return requireAffected(result)
}

// ListMenuDishes returns the live dish links for a menu in sort order.
func (t *tx) ListMenuDishes(ctx context.Context, tenantID, menuID string) ([]domain.MenuDish, error) {
	rows, err := t.sqlTx.QueryContext(ctx, `
SELECT md.id, md.menu_id, md.dish_id, md.course, md.sort_order, md.deleted_at
FROM menu_dishes md
JOIN menus m ON m.id = md.menu_id
WHERE md.menu_id = ? AND m.tenant_id = ? AND md.deleted_at IS NULL
ORDER BY md.sort_order ASC, md.id ASC`, menuID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list menu dishes: %w", err)
	}
	defer rows.Close()

	var links []domain.MenuDish
	for rows.Next() {
		var link domain.MenuDish
		var deletedAt sql.NullInt64
		if err := rows.Scan(&link.ID, &link.MenuID, &link.DishID, &link.Course, &link.SortOrder, &deletedAt); err != nil {
			return nil, fmt.Errorf("scan menu dish: %w", err)
		}
		link.DeletedAt = fromNullableMillis(deletedAt)
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate menu dishes: %w", err)
	}
	return links, nil
}

// CountMenuDishes counts the live dish links of a menu.
func (t *tx) CountMenuDishes(ctx context.Context, tenantID, menuID string) (int, error) {
	row := t.sqlTx.QueryRowContext(ctx, `
SELECT COUNT(*)
FROM menu_dishes md
JOIN menus m ON m.id = md.menu_id
WHERE md.menu_id = ? AND m.tenant_id = ? AND md.deleted_at IS NULL`, menuID, tenantID)

	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count menu dishes: %w", err)
	}
	return count, nil
}

// GetMenuDish loads the live link row for one dish in a menu.
func (t *tx) GetMenuDish(ctx context.Context, tenantID, menuID, dishID string) (domain.MenuDish, error) {
	row := t.sqlTx.QueryRowContext(ctx, `
SELECT md.id, md.menu_id, md.dish_id, md.course, md.sort_order, md.deleted_at
FROM menu_dishes md
JOIN menus m ON m.id = md.menu_id
WHERE md.menu_id = ? AND md.dish_id = ? AND m.tenant_id = ? AND md.deleted_at IS NULL`,
		menuID, dishID, tenantID)

	var link domain.MenuDish
	var deletedAt sql.NullInt64
	err := row.Scan(&link.ID, &link.MenuID, &link.DishID, &link.Course, &link.SortOrder, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.MenuDish{}, storage.ErrNotFound
	}
	if err != nil {
		return domain.MenuDish{}, fmt.Errorf("get menu dish: %w", err)
	}
	link.DeletedAt = fromNullableMillis(deletedAt)
	return link, nil
}

// AddMenuDish inserts a dish link row. The dish must belong to the tenant.
func (t *tx) AddMenuDish(ctx context.Context, tenantID string, link domain.MenuDish) error {
	var exists int
	row := t.sqlTx.QueryRowContext(ctx, `
SELECT COUNT(*)
FROM dishes
WHERE id = ? AND tenant_id = ? AND deleted_at IS NULL`, link.DishID, tenantID)
	if err := row.Scan(&exists); err != nil {
		return fmt.Errorf("check dish: %w", err)
	}
	if exists == 0 {
		return storage.ErrNotFound
	}

	_, err := t.sqlTx.ExecContext(ctx, `
INSERT INTO menu_dishes (id, menu_id, dish_id, course, sort_order, deleted_at)
VALUES (?, ?, ?, ?, ?, NULL)`,
		link.ID,
		link.MenuID,
		link.DishID,
		link.Course,
		link.SortOrder,
	)
	if err != nil {
		return fmt.Errorf("add menu dish: %w", err)
	}
	return nil
}

// RemoveMenuDish soft-deletes the live link row for one dish in a menu.
func (t *tx) RemoveMenuDish(ctx context.Context, tenantID, menuID, dishID string, at time.Time) error {
	result, err := t.sqlTx.ExecContext(ctx, `
UPDATE menu_dishes
SET deleted_at = ?
WHERE menu_id = ? AND dish_id = ? AND deleted_at IS NULL
  AND menu_id IN (SELECT id FROM menus WHERE tenant_id = ?)`,
		toMillis(at), menuID, dishID, tenantID)
	if err != nil {
		return fmt.Errorf("remove menu dish: %w", err)
	}
	return requireAffected(result)
}

// CountLinkedMenuDishes counts how many of dishIDs are live links of the menu.
func (t *tx) CountLinkedMenuDishes(ctx context.Context, tenantID, menuID string, dishIDs []string) (int, error) {
	if len(dishIDs) == 0 {
		return 0, nil
	}
	query := fmt.Sprintf(`
SELECT COUNT(*)
FROM menu_dishes md
JOIN menus m ON m.id = md.menu_id
WHERE md.menu_id = ? AND m.tenant_id = ? AND md.deleted_at IS NULL
  AND md.dish_id IN (%s)`, placeholders(len(dishIDs)))

	args := make([]any, 0, len(dishIDs)+2)
	args = append(args, menuID, tenantID)
	for _, id := range dishIDs {
		args = append(args, id)
	}

	var count int
	if err := t.sqlTx.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count linked menu dishes: %w", err)
	}
	return count, nil
}

// SetMenuDishPosition assigns a sort order to one live dish link.
func (t *tx) SetMenuDishPosition(ctx context.Context, tenantID, menuID, dishID string, position int) error {
	result, err := t.sqlTx.ExecContext(ctx, `
UPDATE menu_dishes
SET sort_order = ?
WHERE menu_id = ? AND dish_id = ? AND deleted_at IS NULL
  AND menu_id IN (SELECT id FROM menus WHERE tenant_id = ?)`,
		position, menuID, dishID, tenantID)
	if err != nil {
		return fmt.Errorf("set menu dish position: %w", err)
	}
	return requireAffected(result)
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}
