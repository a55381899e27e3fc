package impact

import (
	"context"
	"time"
)

// AssessmentStore persists assessment records.
type AssessmentStore interface {
	Create(ctx context.Context, r *Record) error
	// List returns records newest first along with the total count.
	List(ctx context.Context, limit, offset int) ([]*Record, int, error)
	// ListBetween returns records created in [from, to), oldest first.
	ListBetween(ctx context.Context, from, to time.Time) ([]*Record, error)
}
