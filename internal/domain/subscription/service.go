package subscription

import "context"

// Service defines the subscription lifecycle interface
type Service interface {
	Create(ctx context.Context, accountID, planID string, origin Origin) (*Subscription, error)
	Cancel(ctx context.Context, id string) error
	// Renew starts a RENEWAL subscription for the same account and plan
	Renew(ctx context.Context, id string) (*Subscription, error)
	Get(ctx context.Context, id string) (*Subscription, error)
	ListByAccount(ctx context.Context, accountID string) ([]*Subscription, error)
}
