package account

import (
	"fmt"
	"time"
)

// Account is the billing and entitlement unit. It is owned either by a user
// (PERSONAL) or by an organization (ORGANIZATIONAL), never both.
type Account struct {
	ID             string    `json:"id"`
	Kind           Kind      `json:"kind"`
	UserID         string    `json:"user_id,omitempty"`
	OrganizationID string    `json:"organization_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Kind tags which owner reference an account carries
type Kind string

const (
	KindPersonal       Kind = "PERSONAL"
	KindOrganizational Kind = "ORGANIZATIONAL"
)

// IsValid checks if the kind is known
func (k Kind) IsValid() bool {
	return k == KindPersonal || k == KindOrganizational
}

// NewPersonal builds the personal account of a user
func NewPersonal(userID string) *Account {
	return &Account{Kind: KindPersonal, UserID: userID}
}

// NewOrganizational builds the account owned by an organization
func NewOrganizational(organizationID string) *Account {
	return &Account{Kind: KindOrganizational, OrganizationID: organizationID}
}

// Validate enforces that exactly the owner reference matching Kind is set
func (a *Account) Validate() error {
	switch a.Kind {
	case KindPersonal:
		if a.UserID == "" || a.OrganizationID != "" {
			return fmt.Errorf("personal account must reference exactly one user")
		}
	case KindOrganizational:
		if a.OrganizationID == "" || a.UserID != "" {
			return fmt.Errorf("organizational account must reference exactly one organization")
		}
	default:
		return fmt.Errorf("invalid account kind: %q", a.Kind)
	}
	return nil
}

// Owner returns the owning user or organization id
func (a *Account) Owner() string {
	if a.Kind == KindPersonal {
		return a.UserID
	}
	return a.OrganizationID
}
