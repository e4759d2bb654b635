package membership

import "time"

// Membership links a user to an organization with a role
type Membership struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id" validate:"required"`
	OrganizationID string    `json:"organization_id" validate:"required"`
	Role           Role      `json:"role" validate:"required,oneof=ORG_ADMIN ORG_MEMBER"`
	CreatedAt      time.Time `json:"created_at"`
}

// Role is the role of a member within an organization
type Role string

const (
	RoleOrgAdmin  Role = "ORG_ADMIN"
	RoleOrgMember Role = "ORG_MEMBER"
)

// IsValid checks if the role is known
func (r Role) IsValid() bool {
	return r == RoleOrgAdmin || r == RoleOrgMember
}
