package services

import (
	"context"

	"github.com/pratik-mahalle/trainhub/internal/domain/account"
	"github.com/pratik-mahalle/trainhub/internal/pkg/errors"
	"github.com/pratik-mahalle/trainhub/internal/pkg/logger"
)

// AccountService implements account.Service
type AccountService struct {
	repo   account.Repository
	logger *logger.Logger
}

// NewAccountService creates a new account service
func NewAccountService(repo account.Repository, log *logger.Logger) account.Service {
	return &AccountService{
		repo:   repo,
		logger: log,
	}
}

// EnsurePersonal returns the personal account of a user, creating it on first use
func (s *AccountService) EnsurePersonal(ctx context.Context, userID string) (*account.Account, error) {
	if userID == "" {
		return nil, errors.BadRequest("User ID is required")
	}

	a, err := s.repo.GetPersonal(ctx, userID)
	if err == nil {
		return a, nil
	}
	if !errors.IsNotFound(err) {
		return nil, err
	}

	a = account.NewPersonal(userID)
	if err := s.repo.Create(ctx, a); err != nil {
		// Lost a race with a concurrent registration of the same user
		if errors.IsConflict(err) {
			return s.repo.GetPersonal(ctx, userID)
		}
		s.logger.ErrorWithErr(err, "Failed to create personal account")
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"account_id": a.ID,
		"user_id":    userID,
	}).Info("Personal account created")

	return a, nil
}

// Get retrieves an account by ID
func (s *AccountService) Get(ctx context.Context, id string) (*account.Account, error) {
	return s.repo.GetByID(ctx, id)
}

// GetPersonal retrieves the personal account of a user
func (s *AccountService) GetPersonal(ctx context.Context, userID string) (*account.Account, error) {
	return s.repo.GetPersonal(ctx, userID)
}

// GetForOrganization retrieves the account owned by an organization
func (s *AccountService) GetForOrganization(ctx context.Context, organizationID string) (*account.Account, error) {
	return s.repo.GetByOrganization(ctx, organizationID)
}
