package membership

import "context"

// Repository defines the membership data access interface
type Repository interface {
	// Create fails with a conflict error when the user already belongs to the organization
	Create(ctx context.Context, m *Membership) error
	Get(ctx context.Context, userID, organizationID string) (*Membership, error)
	ListByUser(ctx context.Context, userID string) ([]*Membership, error)
	ListByOrganization(ctx context.Context, organizationID string) ([]*Membership, error)
	// Delete removes the membership; removing the last ORG_ADMIN is refused atomically
	Delete(ctx context.Context, userID, organizationID string) error
	// UpdateRole changes the role; demoting the last ORG_ADMIN is refused atomically
	UpdateRole(ctx context.Context, userID, organizationID string, role Role) error
}
