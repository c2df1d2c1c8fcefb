package family

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, m *Member) error

	// GetByID retrieves a member scoped to the managing user. Returns
	// ErrMemberNotFound when absent or managed by someone else.
	GetByID(ctx context.Context, id, managedBy uuid.UUID) (*Member, error)

	// GetActiveByID is GetByID restricted to active members.
	GetActiveByID(ctx context.Context, id, managedBy uuid.UUID) (*Member, error)

	// Update applies partial updates to a manager-scoped member.
	Update(ctx context.Context, id, managedBy uuid.UUID, cmd *UpdateMemberCommand) (*Member, error)

	// SoftDelete marks the member inactive; health records are kept.
	SoftDelete(ctx context.Context, id, managedBy uuid.UUID) error

	// ListActive returns the user's active members sorted by relationship
	// then name.
	ListActive(ctx context.Context, managedBy uuid.UUID) ([]*Member, error)

	// CountByUser counts all members (active or not) managed by the user.
	CountByUser(ctx context.Context, managedBy uuid.UUID) (int64, error)
}
