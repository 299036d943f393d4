package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/harvestline/kitchenops/internal/platform/errors"
	"github.com/harvestline/kitchenops/internal/platform/id"
)

var (
	// ErrPrepListNameEmpty indicates a missing prep list name.
	ErrPrepListNameEmpty = errors.New(errors.CodePrepListNameEmpty, "prep list name is required")
	// ErrPrepListEventEmpty indicates a missing event reference.
	ErrPrepListEventEmpty = errors.New(errors.CodePrepListEventEmpty, "prep list event id is required")
	// ErrPrepListStatusInvalid indicates a status outside the closed set.
	ErrPrepListStatusInvalid = errors.New(errors.CodePrepListStatusInvalid, "prep list status is not recognized")
)

// PrepListStatus describes the lifecycle stage of a prep list.
type PrepListStatus string

const (
	PrepListStatusDraft      PrepListStatus = "draft"
	PrepListStatusInProgress PrepListStatus = "in_progress"
	PrepListStatusCompleted  PrepListStatus = "completed"
)

// ValidPrepListStatus reports whether status belongs to the closed set.
func ValidPrepListStatus(status PrepListStatus) bool {
	switch status {
	case PrepListStatusDraft, PrepListStatusInProgress, PrepListStatusCompleted:
		return true
	default:
		return false
	}
}

// PrepList is a tenant-scoped prep list for a catering event.
type PrepList struct {
	ID              string
	TenantID        string
	EventID         string
	Name            string
	BatchMultiplier float64
	Status          PrepListStatus
	TotalItems      int
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       *time.Time
}

// PrepListItem is a single prep task grouped under a station.
type PrepListItem struct {
	ID             string
	PrepListID     string
	StationName    string
	IngredientName string
	Quantity       float64
	Unit           string
	SortOrder      int
	DeletedAt      *time.Time
}

// CreatePrepListInput describes the fields needed to create a prep list.
type CreatePrepListInput struct {
	TenantID        string
	EventID         string
	Name            string
	BatchMultiplier float64
	Notes           string
}

// CreatePrepList creates a new draft prep list with a generated ID and timestamps.
// A zero batch multiplier defaults to 1.
func CreatePrepList(input CreatePrepListInput, now func() time.Time, idGenerator func() (string, error)) (PrepList, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	normalized, err := NormalizeCreatePrepListInput(input)
	if err != nil {
		return PrepList{}, err
	}

	listID, err := idGenerator()
	if err != nil {
		return PrepList{}, fmt.Errorf("generate prep list id: %w", err)
	}

	createdAt := now().UTC()
	return PrepList{
		ID:              listID,
		TenantID:        normalized.TenantID,
		EventID:         normalized.EventID,
		Name:            normalized.Name,
		BatchMultiplier: normalized.BatchMultiplier,
		Status:          PrepListStatusDraft,
		Notes:           normalized.Notes,
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}, nil
}

// NormalizeCreatePrepListInput trims and validates prep list input fields.
func NormalizeCreatePrepListInput(input CreatePrepListInput) (CreatePrepListInput, error) {
	input.EventID = strings.TrimSpace(input.EventID)
	input.Name = strings.TrimSpace(input.Name)
	input.Notes = strings.TrimSpace(input.Notes)
	if input.EventID == "" {
		return CreatePrepListInput{}, ErrPrepListEventEmpty
	}
	if input.Name == "" {
		return CreatePrepListInput{}, ErrPrepListNameEmpty
	}
	if input.BatchMultiplier == 0 {
		input.BatchMultiplier = 1
	}
	return input, nil
}

// UpdatePrepListInput describes the mutable fields of a prep list update.
type UpdatePrepListInput struct {
	Name            string
	BatchMultiplier float64
	Status          PrepListStatus
	Notes           string
}

// ApplyUpdate replaces the mutable prep list fields and bumps UpdatedAt.
func (p *PrepList) ApplyUpdate(input UpdatePrepListInput, now func() time.Time) error {
	if now == nil {
		now = time.Now
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return ErrPrepListNameEmpty
	}
	p.Name = name
	p.Notes = strings.TrimSpace(input.Notes)
	if input.BatchMultiplier != 0 {
		p.BatchMultiplier = input.BatchMultiplier
	}
	if input.Status != "" {
		if !ValidPrepListStatus(input.Status) {
			return ErrPrepListStatusInvalid
		}
		p.Status = input.Status
	}
	p.UpdatedAt = now().UTC()
	return nil
}

// SoftDelete marks the prep list deleted without removing the row.
func (p *PrepList) SoftDelete(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	deletedAt := now().UTC()
	p.DeletedAt = &deletedAt
	p.UpdatedAt = deletedAt
}

// CreatePrepListItem creates an item row under a prep list at the given
// sort order.
func CreatePrepListItem(prepListID, stationName, ingredientName string, quantity float64, unit string, sortOrder int, idGenerator func() (string, error)) (PrepListItem, error) {
	if idGenerator == nil {
		idGenerator = id.NewID
	}
	itemID, err := idGenerator()
	if err != nil {
		return PrepListItem{}, fmt.Errorf("generate prep list item id: %w", err)
	}
	return PrepListItem{
		ID:             itemID,
		PrepListID:     prepListID,
		StationName:    strings.TrimSpace(stationName),
		IngredientName: strings.TrimSpace(ingredientName),
		Quantity:       quantity,
		Unit:           strings.TrimSpace(unit),
		SortOrder:      sortOrder,
	}, nil
}
