package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/harvestline/kitchenops/internal/platform/errors"
	"github.com/harvestline/kitchenops/internal/platform/id"
)

// ErrDishNameEmpty indicates a missing dish name.
var ErrDishNameEmpty = errors.New(errors.CodeDishNameEmpty, "dish name is required")

// Dish is a tenant-scoped dish aggregate with pricing and cost data.
type Dish struct {
	ID          string
	TenantID    string
	Name        string
	Description string
	Category    string
	Price       int64
	Cost        int64
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

// CreateDishInput describes the fields needed to create a dish.
type CreateDishInput struct {
	TenantID    string
	Name        string
	Description string
	Category    string
	Price       int64
	Cost        int64
}

// CreateDish creates a new active dish with a generated ID and timestamps.
func CreateDish(input CreateDishInput, now func() time.Time, idGenerator func() (string, error)) (Dish, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	normalized, err := NormalizeCreateDishInput(input)
	if err != nil {
		return Dish{}, err
	}

	dishID, err := idGenerator()
	if err != nil {
		return Dish{}, fmt.Errorf("generate dish id: %w", err)
	}

	createdAt := now().UTC()
	return Dish{
		ID:          dishID,
		TenantID:    normalized.TenantID,
		Name:        normalized.Name,
		Description: normalized.Description,
		Category:    normalized.Category,
		Price:       normalized.Price,
		Cost:        normalized.Cost,
		Active:      true,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}, nil
}

// NormalizeCreateDishInput trims and validates dish input fields.
func NormalizeCreateDishInput(input CreateDishInput) (CreateDishInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)
	input.Category = strings.TrimSpace(input.Category)
	if input.Name == "" {
		return CreateDishInput{}, ErrDishNameEmpty
	}
	return input, nil
}

// UpdateDishInput describes the mutable fields of a dish update.
type UpdateDishInput struct {
	Name        string
	Description string
	Category    string
	Price       int64
	Cost        int64
	Active      bool
}

// ApplyUpdate replaces the mutable dish fields and bumps UpdatedAt.
func (d *Dish) ApplyUpdate(input UpdateDishInput, now func() time.Time) error {
	if now == nil {
		now = time.Now
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return ErrDishNameEmpty
	}
	d.Name = name
	d.Description = strings.TrimSpace(input.Description)
	d.Category = strings.TrimSpace(input.Category)
	d.Price = input.Price
	d.Cost = input.Cost
	d.Active = input.Active
	d.UpdatedAt = now().UTC()
	return nil
}

// SoftDelete marks the dish deleted without removing the row.
func (d *Dish) SoftDelete(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	deletedAt := now().UTC()
	d.DeletedAt = &deletedAt
	d.UpdatedAt = deletedAt
}
