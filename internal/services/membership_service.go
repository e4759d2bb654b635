package services

import (
	"context"

	"github.com/pratik-mahalle/trainhub/internal/domain/membership"
	"github.com/pratik-mahalle/trainhub/internal/domain/organization"
	"github.com/pratik-mahalle/trainhub/internal/pkg/errors"
	"github.com/pratik-mahalle/trainhub/internal/pkg/logger"
	"github.com/pratik-mahalle/trainhub/internal/pkg/validator"
)

// MembershipService implements membership.Service
type MembershipService struct {
	repo      membership.Repository
	orgRepo   organization.Repository
	validator *validator.Validator
	logger    *logger.Logger
}

// NewMembershipService creates a new membership service
func NewMembershipService(repo membership.Repository, orgRepo organization.Repository, log *logger.Logger) membership.Service {
	return &MembershipService{
		repo:      repo,
		orgRepo:   orgRepo,
		validator: validator.New(),
		logger:    log,
	}
}

// Add makes a user a member of an organization
func (s *MembershipService) Add(ctx context.Context, userID, organizationID string, role membership.Role) (*membership.Membership, error) {
	m := &membership.Membership{
		UserID:         userID,
		OrganizationID: organizationID,
		Role:           role,
	}
	if errs := s.validator.Validate(m); len(errs) > 0 {
		return nil, errors.ValidationError("Invalid membership", errs)
	}

	if _, err := s.orgRepo.GetByID(ctx, organizationID); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id":         userID,
		"organization_id": organizationID,
		"role":            role,
	}).Info("Member added")

	return m, nil
}

// Remove deletes a membership; access through the organization ends immediately
func (s *MembershipService) Remove(ctx context.Context, userID, organizationID string) error {
	if err := s.repo.Delete(ctx, userID, organizationID); err != nil {
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id":         userID,
		"organization_id": organizationID,
	}).Info("Member removed")

	return nil
}

// ChangeRole updates the role of a member
func (s *MembershipService) ChangeRole(ctx context.Context, userID, organizationID string, role membership.Role) error {
	if !role.IsValid() {
		return errors.BadRequest("Invalid role: " + string(role))
	}

	if err := s.repo.UpdateRole(ctx, userID, organizationID, role); err != nil {
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id":         userID,
		"organization_id": organizationID,
		"role":            role,
	}).Info("Member role changed")

	return nil
}

// ListByUser returns the memberships of a user
func (s *MembershipService) ListByUser(ctx context.Context, userID string) ([]*membership.Membership, error) {
	return s.repo.ListByUser(ctx, userID)
}

// ListByOrganization returns the members of an organization
func (s *MembershipService) ListByOrganization(ctx context.Context, organizationID string) ([]*membership.Membership, error) {
	if _, err := s.orgRepo.GetByID(ctx, organizationID); err != nil {
		return nil, err
	}
	return s.repo.ListByOrganization(ctx, organizationID)
}
