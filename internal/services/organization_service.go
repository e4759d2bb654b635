package services

import (
	"context"
	"strings"

	"github.com/pratik-mahalle/trainhub/internal/domain/account"
	"github.com/pratik-mahalle/trainhub/internal/domain/organization"
	"github.com/pratik-mahalle/trainhub/internal/pkg/errors"
	"github.com/pratik-mahalle/trainhub/internal/pkg/logger"
	"github.com/pratik-mahalle/trainhub/internal/pkg/validator"
)

// OrganizationService implements organization.Service
type OrganizationService struct {
	repo      organization.Repository
	validator *validator.Validator
	logger    *logger.Logger
}

// NewOrganizationService creates a new organization service
func NewOrganizationService(repo organization.Repository, log *logger.Logger) organization.Service {
	return &OrganizationService{
		repo:      repo,
		validator: validator.New(),
		logger:    log,
	}
}

// Create registers an organization together with its account
func (s *OrganizationService) Create(ctx context.Context, razaoSocial, cnpj string) (*organization.Organization, error) {
	o := &organization.Organization{
		RazaoSocial: strings.TrimSpace(razaoSocial),
		CNPJ:        NormalizeCNPJ(cnpj),
		Status:      organization.StatusActive,
	}
	if errs := s.validator.Validate(o); len(errs) > 0 {
		return nil, errors.ValidationError("Invalid organization", errs)
	}

	if err := s.repo.CreateWithAccount(ctx, o, &account.Account{}); err != nil {
		if !errors.IsConflict(err) {
			s.logger.ErrorWithErr(err, "Failed to create organization")
		}
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"organization_id": o.ID,
		"account_id":      o.AccountID,
	}).Info("Organization created")

	return o, nil
}

// Get retrieves an organization by ID
func (s *OrganizationService) Get(ctx context.Context, id string) (*organization.Organization, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByCNPJ retrieves an organization by CNPJ, accepting formatted input
func (s *OrganizationService) GetByCNPJ(ctx context.Context, cnpj string) (*organization.Organization, error) {
	return s.repo.GetByCNPJ(ctx, NormalizeCNPJ(cnpj))
}

// Suspend marks an organization as suspended
func (s *OrganizationService) Suspend(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, organization.StatusSuspended)
}

// Activate reactivates a suspended organization
func (s *OrganizationService) Activate(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, organization.StatusActive)
}

func (s *OrganizationService) setStatus(ctx context.Context, id string, status organization.Status) error {
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"organization_id": id,
		"status":          status,
	}).Info("Organization status changed")

	return nil
}

// NormalizeCNPJ strips the usual punctuation from a formatted CNPJ
func NormalizeCNPJ(cnpj string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '/', '-', ' ':
			return -1
		}
		return r
	}, cnpj)
}
