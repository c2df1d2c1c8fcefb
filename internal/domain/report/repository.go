package report

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, r *Report) error

	// GetByID retrieves an owner-scoped report with its AI insight
	// preloaded. Returns ErrReportNotFound when absent or not owned.
	GetByID(ctx context.Context, id, userID uuid.UUID) (*Report, error)

	// Delete hard-deletes an owner-scoped report record. The caller is
	// responsible for the insight row and the remote object.
	Delete(ctx context.Context, id, userID uuid.UUID) error

	// List returns a paginated page with insights and family member
	// names resolved, optionally filtered by report type.
	List(ctx context.Context, q *ListReportsQuery) (*PagedReports, error)

	// FindRange returns reports matching the range query, sorted by
	// upload date, with insights preloaded when requested.
	FindRange(ctx context.Context, q *RangeQuery) ([]*Report, error)

	// Count counts reports matching the range query, ignoring Skip/Limit.
	Count(ctx context.Context, q *RangeQuery) (int64, error)

	// LatestUploadDate returns the most recent upload date for the given
	// owner/family-member scope, or (nil, nil) when no report exists.
	LatestUploadDate(ctx context.Context, userID uuid.UUID, familyMemberID *uuid.UUID) (*time.Time, error)

	// CountByType groups the owner's lifetime reports by type, sorted
	// descending by count.
	CountByType(ctx context.Context, userID uuid.UUID) ([]TypeCount, error)

	// CreateInsight persists a new AI insight and attaches it to its
	// report, marking the report processed.
	CreateInsight(ctx context.Context, ins *AIInsight) error

	// DeleteInsight removes an insight row.
	DeleteInsight(ctx context.Context, id uuid.UUID) error
}
