package services

import (
	"context"
	"time"

	"github.com/pratik-mahalle/trainhub/internal/domain/account"
	"github.com/pratik-mahalle/trainhub/internal/domain/plan"
	"github.com/pratik-mahalle/trainhub/internal/domain/subscription"
	"github.com/pratik-mahalle/trainhub/internal/pkg/errors"
	"github.com/pratik-mahalle/trainhub/internal/pkg/logger"
	"github.com/pratik-mahalle/trainhub/internal/pkg/metrics"
)

// SubscriptionService implements subscription.Service
type SubscriptionService struct {
	repo        subscription.Repository
	accountRepo account.Repository
	planRepo    plan.Repository
	logger      *logger.Logger
	now         func() time.Time
}

// NewSubscriptionService creates a new subscription service
func NewSubscriptionService(
	repo subscription.Repository,
	accountRepo account.Repository,
	planRepo plan.Repository,
	log *logger.Logger,
	opts ...Option,
) subscription.Service {
	o := buildOptions(opts)
	return &SubscriptionService{
		repo:        repo,
		accountRepo: accountRepo,
		planRepo:    planRepo,
		logger:      log,
		now:         o.now,
	}
}

// Create starts a subscription of planID for accountID beginning now
func (s *SubscriptionService) Create(ctx context.Context, accountID, planID string, origin subscription.Origin) (*subscription.Subscription, error) {
	if !origin.IsValid() {
		return nil, errors.BadRequest("Invalid subscription origin: " + string(origin))
	}
	return s.start(ctx, accountID, planID, origin, "")
}

// Cancel ends an ACTIVE subscription. EndDate is kept for audit.
func (s *SubscriptionService) Cancel(ctx context.Context, id string) error {
	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !sub.Status.CanTransitionTo(subscription.StatusCanceled) {
		return errors.InvalidState("Cannot cancel a " + string(sub.Status) + " subscription")
	}

	ok, err := s.repo.Transition(ctx, id, subscription.StatusActive, subscription.StatusCanceled, s.now())
	if err != nil {
		s.logger.WithFields(map[string]interface{}{
			"subscription_id": id,
		}).ErrorWithErr(err, "Failed to cancel subscription")
		return err
	}
	if !ok {
		// The sweeper or another cancel moved it first
		return errors.InvalidState("Subscription is no longer active")
	}

	metrics.RecordSubscriptionCanceled()
	s.logger.WithFields(map[string]interface{}{
		"subscription_id": id,
		"account_id":      sub.AccountID,
	}).Info("Subscription canceled")

	return nil
}

// Renew starts a RENEWAL subscription for the same account and plan once the
// previous one has ended
func (s *SubscriptionService) Renew(ctx context.Context, id string) (*subscription.Subscription, error) {
	prev, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if prev.Status == subscription.StatusActive {
		if !prev.PastEnd(now) {
			return nil, errors.Conflict("Subscription is still running until " + prev.EndDate.Format(time.RFC3339))
		}
		if err := s.expireLagging(ctx, prev, now); err != nil {
			return nil, err
		}
	}

	return s.start(ctx, prev.AccountID, prev.PlanID, subscription.OriginRenewal, prev.ID)
}

// Get retrieves a subscription by ID
func (s *SubscriptionService) Get(ctx context.Context, id string) (*subscription.Subscription, error) {
	return s.repo.GetByID(ctx, id)
}

// ListByAccount returns the subscription history of an account
func (s *SubscriptionService) ListByAccount(ctx context.Context, accountID string) ([]*subscription.Subscription, error) {
	if _, err := s.accountRepo.GetByID(ctx, accountID); err != nil {
		return nil, err
	}
	return s.repo.ListByAccount(ctx, accountID)
}

func (s *SubscriptionService) start(ctx context.Context, accountID, planID string, origin subscription.Origin, renewedFrom string) (*subscription.Subscription, error) {
	if _, err := s.accountRepo.GetByID(ctx, accountID); err != nil {
		return nil, err
	}

	p, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, errors.NotFound("Active plan")
	}

	now := s.now()

	current, err := s.repo.GetActiveByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if current != nil {
		if !current.PastEnd(now) {
			metrics.RecordSubscriptionConflict()
			return nil, errors.Conflict("Account already has an active subscription")
		}
		if err := s.expireLagging(ctx, current, now); err != nil {
			return nil, err
		}
	}

	sub := &subscription.Subscription{
		AccountID:     accountID,
		PlanID:        planID,
		StartDate:     now,
		EndDate:       p.EndFor(now),
		Status:        subscription.StatusActive,
		Origin:        origin,
		RenewedFromID: renewedFrom,
	}

	// The storage uniqueness guarantee settles concurrent creators
	if err := s.repo.Create(ctx, sub); err != nil {
		if errors.IsConflict(err) {
			metrics.RecordSubscriptionConflict()
		} else {
			s.logger.ErrorWithErr(err, "Failed to create subscription")
		}
		return nil, err
	}

	metrics.RecordSubscriptionCreated(string(origin))
	s.logger.WithFields(map[string]interface{}{
		"subscription_id": sub.ID,
		"account_id":      accountID,
		"plan_id":         planID,
		"origin":          origin,
		"end_date":        sub.EndDate,
	}).Info("Subscription created")

	return sub, nil
}

// expireLagging moves an ACTIVE subscription that already ended to EXPIRED
// without waiting for the sweeper. Losing the race to the sweeper is fine.
func (s *SubscriptionService) expireLagging(ctx context.Context, sub *subscription.Subscription, now time.Time) error {
	ok, err := s.repo.Transition(ctx, sub.ID, subscription.StatusActive, subscription.StatusExpired, now)
	if err != nil {
		return err
	}
	if ok {
		s.logger.WithFields(map[string]interface{}{
			"subscription_id": sub.ID,
		}).Debug("Expired subscription ahead of sweeper")
	}
	return nil
}
