package membership

import "context"

// Service defines the membership business logic interface
type Service interface {
	Add(ctx context.Context, userID, organizationID string, role Role) (*Membership, error)
	Remove(ctx context.Context, userID, organizationID string) error
	ChangeRole(ctx context.Context, userID, organizationID string, role Role) error
	ListByUser(ctx context.Context, userID string) ([]*Membership, error)
	ListByOrganization(ctx context.Context, organizationID string) ([]*Membership, error)
}
