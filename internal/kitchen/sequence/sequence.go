// Package sequence reorders child collections (menu dishes, prep list items)
// atomically. A reorder either repositions every listed child or changes
// nothing.
package sequence

import (
	"context"
	"fmt"

	"github.com/harvestline/kitchenops/internal/platform/errors"
)

// Memberships is the storage surface a reorder runs against. Both methods
// are tenant-scoped and must execute inside the caller's transaction.
type Memberships interface {
	// CountChildren returns how many of childIDs are live members of the
	// parent collection for the tenant.
	CountChildren(ctx context.Context, tenantID, parentID string, childIDs []string) (int, error)
	// SetPosition assigns a 1-based position to one child.
	SetPosition(ctx context.Context, tenantID, parentID, childID string, position int) error
}

// Reorder assigns positions 1..n to childIDs in the given order. Every child
// must be a live member of the parent collection; a single foreign or missing
// ID rejects the whole request before any position changes.
func Reorder(ctx context.Context, store Memberships, tenantID, parentID string, childIDs []string) error {
	if len(childIDs) == 0 {
		return errors.New(errors.CodeSequenceEmpty, "reorder requires at least one child id")
	}

	seen := make(map[string]struct{}, len(childIDs))
	for _, childID := range childIDs {
		if _, dup := seen[childID]; dup {
			return errors.WithMetadata(errors.CodeSequenceDuplicateChild, "duplicate child id in reorder",
				map[string]string{"ChildID": childID})
		}
		seen[childID] = struct{}{}
	}

	count, err := store.CountChildren(ctx, tenantID, parentID, childIDs)
	if err != nil {
		return fmt.Errorf("count children: %w", err)
	}
	if count != len(childIDs) {
		return errors.New(errors.CodeSequenceMembership, "one or more children not found in parent or access denied")
	}

	for i, childID := range childIDs {
		if err := store.SetPosition(ctx, tenantID, parentID, childID, i+1); err != nil {
			return fmt.Errorf("set position for %s: %w", childID, err)
		}
	}
	return nil
}
