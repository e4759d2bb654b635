package account

import "context"

// Service defines the account business logic interface
type Service interface {
	// EnsurePersonal returns the user's personal account, creating it on first call
	EnsurePersonal(ctx context.Context, userID string) (*Account, error)
	Get(ctx context.Context, id string) (*Account, error)
	GetPersonal(ctx context.Context, userID string) (*Account, error)
	GetForOrganization(ctx context.Context, organizationID string) (*Account, error)
}
