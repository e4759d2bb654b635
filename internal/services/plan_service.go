package services

import (
	"context"

	"github.com/pratik-mahalle/trainhub/internal/domain/plan"
	"github.com/pratik-mahalle/trainhub/internal/pkg/errors"
	"github.com/pratik-mahalle/trainhub/internal/pkg/logger"
	"github.com/pratik-mahalle/trainhub/internal/pkg/validator"
)

// PlanService implements plan.Service
type PlanService struct {
	repo      plan.Repository
	validator *validator.Validator
	logger    *logger.Logger
}

// NewPlanService creates a new plan service
func NewPlanService(repo plan.Repository, log *logger.Logger) plan.Service {
	return &PlanService{
		repo:      repo,
		validator: validator.New(),
		logger:    log,
	}
}

// Create adds a plan to the catalog. New plans are open for subscription
// until deactivated.
func (s *PlanService) Create(ctx context.Context, p *plan.Plan) (*plan.Plan, error) {
	p.IsActive = true
	if errs := s.validator.Validate(p); len(errs) > 0 {
		return nil, errors.ValidationError("Invalid plan", errs)
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.ErrorWithErr(err, "Failed to create plan")
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"plan_id":   p.ID,
		"name":      p.Name,
		"trainings": len(p.TrainingIDs),
	}).Info("Plan created")

	return p, nil
}

// Get retrieves a plan by ID
func (s *PlanService) Get(ctx context.Context, id string) (*plan.Plan, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns the catalog
func (s *PlanService) List(ctx context.Context, activeOnly bool) ([]*plan.Plan, error) {
	return s.repo.List(ctx, activeOnly)
}

// Deactivate stops new subscriptions to a plan. Existing subscriptions keep their grants.
func (s *PlanService) Deactivate(ctx context.Context, id string) error {
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"plan_id": id,
	}).Info("Plan deactivated")

	return nil
}

// SetTrainings replaces the trainings granted by a plan
func (s *PlanService) SetTrainings(ctx context.Context, id string, trainingIDs []string) (*plan.Plan, error) {
	if err := s.validator.ValidateVar(trainingIDs, "dive,required"); err != nil {
		return nil, errors.BadRequest("Training IDs must not be empty")
	}

	if err := s.repo.SetTrainings(ctx, id, trainingIDs); err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"plan_id":   id,
		"trainings": len(trainingIDs),
	}).Info("Plan trainings updated")

	return s.repo.GetByID(ctx, id)
}
