package subscription

import (
	"context"
	"time"
)

// Repository defines the subscription data access interface
type Repository interface {
	// Create inserts an ACTIVE subscription. A second ACTIVE row for the same
	// account is rejected by storage and reported as a conflict error.
	Create(ctx context.Context, s *Subscription) error
	GetByID(ctx context.Context, id string) (*Subscription, error)
	// GetActiveByAccount returns nil, nil when the account has no ACTIVE subscription
	GetActiveByAccount(ctx context.Context, accountID string) (*Subscription, error)
	ListByAccount(ctx context.Context, accountID string) ([]*Subscription, error)
	// ListExpirable returns ACTIVE subscriptions whose EndDate is before now
	ListExpirable(ctx context.Context, now time.Time, limit int) ([]*Subscription, error)
	// Transition moves id from one status to another only if it is still in
	// from. It reports false when another writer got there first.
	Transition(ctx context.Context, id string, from, to Status, at time.Time) (bool, error)
}
