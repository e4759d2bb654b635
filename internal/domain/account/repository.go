package account

import "context"

// Repository defines the account data access interface
type Repository interface {
	Create(ctx context.Context, a *Account) error
	GetByID(ctx context.Context, id string) (*Account, error)
	// GetPersonal returns the personal account of a user
	GetPersonal(ctx context.Context, userID string) (*Account, error)
	GetByOrganization(ctx context.Context, organizationID string) (*Account, error)
}
