package services

import (
	"context"
	"sort"
	"time"

	"github.com/pratik-mahalle/trainhub/internal/domain/account"
	"github.com/pratik-mahalle/trainhub/internal/domain/entitlement"
	"github.com/pratik-mahalle/trainhub/internal/pkg/logger"
	"github.com/pratik-mahalle/trainhub/internal/pkg/metrics"
)

// EntitlementService implements entitlement.Service
type EntitlementService struct {
	repo   entitlement.Repository
	logger *logger.Logger
	now    func() time.Time
}

// NewEntitlementService creates a new entitlement service
func NewEntitlementService(repo entitlement.Repository, log *logger.Logger, opts ...Option) entitlement.Service {
	o := buildOptions(opts)
	return &EntitlementService{
		repo:   repo,
		logger: log,
		now:    o.now,
	}
}

// HasAccess reports whether userID may access trainingID at asOf
func (s *EntitlementService) HasAccess(ctx context.Context, userID, trainingID string, asOf time.Time) (bool, error) {
	d, err := s.Resolve(ctx, userID, trainingID, asOf)
	if err != nil {
		return false, err
	}
	return d.Granted, nil
}

// Resolve decides access and names the subscription that grants it.
// A zero asOf means now.
func (s *EntitlementService) Resolve(ctx context.Context, userID, trainingID string, asOf time.Time) (*entitlement.Decision, error) {
	denied := entitlement.Denied()
	if userID == "" || trainingID == "" {
		return &denied, nil
	}
	if asOf.IsZero() {
		asOf = s.now()
	}

	start := time.Now()
	snap, err := s.repo.Snapshot(ctx, userID, trainingID)
	if err != nil {
		s.logger.WithFields(map[string]interface{}{
			"user_id":     userID,
			"training_id": trainingID,
		}).ErrorWithErr(err, "Failed to load entitlements")
		return nil, err
	}

	decision := decide(snap, trainingID, asOf)
	metrics.RecordAccessCheck(decision.Granted, string(decision.Via), time.Since(start))

	s.logger.WithFields(map[string]interface{}{
		"user_id":         userID,
		"training_id":     trainingID,
		"granted":         decision.Granted,
		"subscription_id": decision.SubscriptionID,
	}).Debug("Access resolved")

	return &decision, nil
}

// AccessibleTrainings lists every training the user can access at asOf, sorted
func (s *EntitlementService) AccessibleTrainings(ctx context.Context, userID string, asOf time.Time) ([]string, error) {
	if userID == "" {
		return []string{}, nil
	}
	if asOf.IsZero() {
		asOf = s.now()
	}

	snap, err := s.repo.Snapshot(ctx, userID, "")
	if err != nil {
		return nil, err
	}

	reachable := reachableAccounts(snap)
	seen := make(map[string]bool)
	trainings := []string{}
	for _, g := range snap.Grants {
		if _, ok := reachable[g.Subscription.AccountID]; !ok || !g.Subscription.GrantsAt(asOf) {
			continue
		}
		for _, id := range g.TrainingIDs {
			if !seen[id] {
				seen[id] = true
				trainings = append(trainings, id)
			}
		}
	}
	sort.Strings(trainings)
	return trainings, nil
}

// decide applies the access rule over a snapshot. The time bound is always
// checked here because status lags real time until the sweeper runs.
// A personal grant wins over an organizational one when both apply.
func decide(snap *entitlement.Snapshot, trainingID string, asOf time.Time) entitlement.Decision {
	reachable := reachableAccounts(snap)

	best := entitlement.Denied()
	for _, g := range snap.Grants {
		acc, ok := reachable[g.Subscription.AccountID]
		if !ok || !g.Subscription.GrantsAt(asOf) || !contains(g.TrainingIDs, trainingID) {
			continue
		}

		candidate := entitlement.Decision{
			Granted:        true,
			Via:            acc.Kind,
			AccountID:      acc.ID,
			OrganizationID: acc.OrganizationID,
			SubscriptionID: g.Subscription.ID,
		}
		if acc.Kind == account.KindPersonal {
			return candidate
		}
		if !best.Granted {
			best = candidate
		}
	}
	return best
}

// reachableAccounts keeps the snapshot accounts the user can inherit from:
// their own personal account and accounts of organizations they belong to
func reachableAccounts(snap *entitlement.Snapshot) map[string]account.Account {
	orgs := make(map[string]bool, len(snap.OrganizationIDs))
	for _, id := range snap.OrganizationIDs {
		orgs[id] = true
	}

	reachable := make(map[string]account.Account, len(snap.Accounts))
	for _, a := range snap.Accounts {
		switch a.Kind {
		case account.KindPersonal:
			if a.UserID != snap.UserID {
				continue
			}
		case account.KindOrganizational:
			if !orgs[a.OrganizationID] {
				continue
			}
		default:
			continue
		}
		reachable[a.ID] = a
	}
	return reachable
}

func contains(ids []string, want string) bool {
	for _, id := range ids {
		if id == want {
			return true
		}
	}
	return false
}
