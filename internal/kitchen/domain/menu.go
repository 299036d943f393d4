package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/harvestline/kitchenops/internal/platform/errors"
	"github.com/harvestline/kitchenops/internal/platform/id"
)

var (
	// ErrMenuNameEmpty indicates a missing menu name.
	ErrMenuNameEmpty = errors.New(errors.CodeMenuNameEmpty, "menu name is required")
	// ErrMenuAlreadyActive indicates an activation of an already active menu.
	ErrMenuAlreadyActive = errors.New(errors.CodeMenuAlreadyActive, "menu is already active")
	// ErrMenuAlreadyInactive indicates a deactivation of an already inactive menu.
	ErrMenuAlreadyInactive = errors.New(errors.CodeMenuAlreadyInactive, "menu is already inactive")
)

// Menu is a tenant-scoped catering menu aggregate.
type Menu struct {
	ID             string
	TenantID       string
	Name           string
	Description    string
	Category       string
	Active         bool
	BasePrice      int64
	PricePerPerson int64
	MinGuests      int
	MaxGuests      int
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time
}

// MenuDish links a dish into a menu with an ordering position.
type MenuDish struct {
	ID        string
	MenuID    string
	DishID    string
	Course    string
	SortOrder int
	DeletedAt *time.Time
}

// CreateMenuInput describes the fields needed to create a menu.
type CreateMenuInput struct {
	TenantID       string
	Name           string
	Description    string
	Category       string
	BasePrice      int64
	PricePerPerson int64
	MinGuests      int
	MaxGuests      int
}

// CreateMenu creates a new inactive menu with a generated ID and timestamps.
func CreateMenu(input CreateMenuInput, now func() time.Time, idGenerator func() (string, error)) (Menu, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	normalized, err := NormalizeCreateMenuInput(input)
	if err != nil {
		return Menu{}, err
	}

	menuID, err := idGenerator()
	if err != nil {
		return Menu{}, fmt.Errorf("generate menu id: %w", err)
	}

	createdAt := now().UTC()
	return Menu{
		ID:             menuID,
		TenantID:       normalized.TenantID,
		Name:           normalized.Name,
		Description:    normalized.Description,
		Category:       normalized.Category,
		Active:         false,
		BasePrice:      normalized.BasePrice,
		PricePerPerson: normalized.PricePerPerson,
		MinGuests:      normalized.MinGuests,
		MaxGuests:      normalized.MaxGuests,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}, nil
}

// NormalizeCreateMenuInput trims and validates menu input fields.
func NormalizeCreateMenuInput(input CreateMenuInput) (CreateMenuInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)
	input.Category = strings.TrimSpace(input.Category)
	if input.Name == "" {
		return CreateMenuInput{}, ErrMenuNameEmpty
	}
	return input, nil
}

// UpdateMenuInput describes the mutable fields of a menu update.
type UpdateMenuInput struct {
	Name           string
	Description    string
	Category       string
	BasePrice      int64
	PricePerPerson int64
	MinGuests      int
	MaxGuests      int
}

// ApplyUpdate replaces the mutable menu fields and bumps UpdatedAt.
func (m *Menu) ApplyUpdate(input UpdateMenuInput, now func() time.Time) error {
	if now == nil {
		now = time.Now
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return ErrMenuNameEmpty
	}
	m.Name = name
	m.Description = strings.TrimSpace(input.Description)
	m.Category = strings.TrimSpace(input.Category)
	m.BasePrice = input.BasePrice
	m.PricePerPerson = input.PricePerPerson
	m.MinGuests = input.MinGuests
	m.MaxGuests = input.MaxGuests
	m.UpdatedAt = now().UTC()
	return nil
}

// Activate marks the menu active. Activating an active menu is an error.
func (m *Menu) Activate(now func() time.Time) error {
	if now == nil {
		now = time.Now
	}
	if m.Active {
		return ErrMenuAlreadyActive
	}
	m.Active = true
	m.UpdatedAt = now().UTC()
	return nil
}

// Deactivate marks the menu inactive. Deactivating an inactive menu is an error.
func (m *Menu) Deactivate(now func() time.Time) error {
	if now == nil {
		now = time.Now
	}
	if !m.Active {
		return ErrMenuAlreadyInactive
	}
	m.Active = false
	m.UpdatedAt = now().UTC()
	return nil
}

// SoftDelete marks the menu deleted without removing the row.
func (m *Menu) SoftDelete(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	deletedAt := now().UTC()
	m.DeletedAt = &deletedAt
	m.UpdatedAt = deletedAt
}

// CreateMenuDish creates a link row placing a dish in a menu at the given
// sort order.
func CreateMenuDish(menuID, dishID, course string, sortOrder int, idGenerator func() (string, error)) (MenuDish, error) {
	if idGenerator == nil {
		idGenerator = id.NewID
	}
	linkID, err := idGenerator()
	if err != nil {
		return MenuDish{}, fmt.Errorf("generate menu dish id: %w", err)
	}
	return MenuDish{
		ID:        linkID,
		MenuID:    menuID,
		DishID:    dishID,
		Course:    strings.TrimSpace(course),
		SortOrder: sortOrder,
	}, nil
}
