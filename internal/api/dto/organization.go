package dto

import (
	"time"

	"github.com/pratik-mahalle/trainhub/internal/domain/account"
	"github.com/pratik-mahalle/trainhub/internal/domain/membership"
	"github.com/pratik-mahalle/trainhub/internal/domain/organization"
)

// OrganizationDTO represents an organization in API responses
type OrganizationDTO struct {
	ID          string    `json:"id"`
	RazaoSocial string    `json:"razaoSocial"`
	CNPJ        string    `json:"cnpj"`
	Status      string    `json:"status"`
	AccountID   string    `json:"accountId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CreateOrganizationRequest registers an organization
type CreateOrganizationRequest struct {
	RazaoSocial string `json:"razaoSocial" validate:"required,max=255"`
	CNPJ        string `json:"cnpj" validate:"required"`
}

// MembershipDTO represents a membership in API responses
type MembershipDTO struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	OrganizationID string    `json:"organizationId"`
	Role           string    `json:"role"`
	CreatedAt      time.Time `json:"createdAt"`
}

// AddMemberRequest adds a user to an organization
type AddMemberRequest struct {
	UserID string `json:"userId" validate:"required"`
	Role   string `json:"role" validate:"required,oneof=ORG_ADMIN ORG_MEMBER"`
}

// ChangeRoleRequest changes a member's role
type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=ORG_ADMIN ORG_MEMBER"`
}

// AccountDTO represents an account in API responses
type AccountDTO struct {
	ID             string    `json:"id"`
	Kind           string    `json:"kind"`
	UserID         string    `json:"userId,omitempty"`
	OrganizationID string    `json:"organizationId,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// NewOrganizationDTO maps a domain organization
func NewOrganizationDTO(o *organization.Organization) OrganizationDTO {
	return OrganizationDTO{
		ID:          o.ID,
		RazaoSocial: o.RazaoSocial,
		CNPJ:        o.CNPJ,
		Status:      string(o.Status),
		AccountID:   o.AccountID,
		CreatedAt:   o.CreatedAt,
	}
}

// NewMembershipDTOs maps a list of domain memberships
func NewMembershipDTOs(ms []*membership.Membership) []MembershipDTO {
	out := make([]MembershipDTO, 0, len(ms))
	for _, m := range ms {
		out = append(out, NewMembershipDTO(m))
	}
	return out
}

// NewMembershipDTO maps a domain membership
func NewMembershipDTO(m *membership.Membership) MembershipDTO {
	return MembershipDTO{
		ID:             m.ID,
		UserID:         m.UserID,
		OrganizationID: m.OrganizationID,
		Role:           string(m.Role),
		CreatedAt:      m.CreatedAt,
	}
}

// NewAccountDTO maps a domain account
func NewAccountDTO(a *account.Account) AccountDTO {
	return AccountDTO{
		ID:             a.ID,
		Kind:           string(a.Kind),
		UserID:         a.UserID,
		OrganizationID: a.OrganizationID,
		CreatedAt:      a.CreatedAt,
	}
}
