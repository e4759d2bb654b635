package entitlement

import (
	"context"
	"time"
)

// Service resolves whether a user may access a training. It never mutates state.
type Service interface {
	HasAccess(ctx context.Context, userID, trainingID string, asOf time.Time) (bool, error)
	Resolve(ctx context.Context, userID, trainingID string, asOf time.Time) (*Decision, error)
	// AccessibleTrainings lists every training the user can access at asOf
	AccessibleTrainings(ctx context.Context, userID string, asOf time.Time) ([]string, error)
}
