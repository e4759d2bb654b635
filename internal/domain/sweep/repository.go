package sweep

import (
	"context"
	"time"
)

// Repository stores sweep run history
type Repository interface {
	Create(ctx context.Context, r *Run) error
	Update(ctx context.Context, r *Run) error
	GetByID(ctx context.Context, id string) (*Run, error)
	// ListRecent returns runs newest first
	ListRecent(ctx context.Context, limit int) ([]*Run, error)
	// FailStale marks RUNNING runs started before cutoff as FAILED
	FailStale(ctx context.Context, cutoff, at time.Time) (int64, error)
	// DeleteOlderThan removes finished runs started before cutoff
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
