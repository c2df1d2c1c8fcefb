package vitals

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, e *Entry) error

	// GetByID retrieves an entry scoped to its owner. Returns
	// ErrEntryNotFound when absent or owned by someone else.
	GetByID(ctx context.Context, id, userID uuid.UUID) (*Entry, error)

	// Update applies partial updates to an owner-scoped entry.
	Update(ctx context.Context, id, userID uuid.UUID, cmd *UpdateEntryCommand) (*Entry, error)

	// Delete hard-deletes an owner-scoped entry.
	Delete(ctx context.Context, id, userID uuid.UUID) error

	// List returns a paginated page with family member names resolved.
	List(ctx context.Context, q *ListEntriesQuery) (*PagedEntries, error)

	// FindRange returns entries matching the range query, sorted by
	// measurement date.
	FindRange(ctx context.Context, q *RangeQuery) ([]*Entry, error)

	// Count counts entries matching the range query, ignoring Skip/Limit.
	Count(ctx context.Context, q *RangeQuery) (int64, error)

	// Latest returns the most recently measured entry for the owner, or
	// (nil, nil) when the owner has none.
	Latest(ctx context.Context, userID uuid.UUID) (*Entry, error)

	// LatestDate returns the most recent measurement date for the given
	// owner/family-member scope, or (nil, nil) when no entry exists.
	LatestDate(ctx context.Context, userID uuid.UUID, familyMemberID *uuid.UUID) (*time.Time, error)
}
