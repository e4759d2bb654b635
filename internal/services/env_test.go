package services

import (
	"context"
	"testing"
	"time"

	"github.com/pratik-mahalle/trainhub/internal/domain/account"
	"github.com/pratik-mahalle/trainhub/internal/domain/entitlement"
	"github.com/pratik-mahalle/trainhub/internal/domain/membership"
	"github.com/pratik-mahalle/trainhub/internal/domain/organization"
	"github.com/pratik-mahalle/trainhub/internal/domain/plan"
	"github.com/pratik-mahalle/trainhub/internal/domain/subscription"
	"github.com/pratik-mahalle/trainhub/internal/pkg/logger"
	"github.com/pratik-mahalle/trainhub/internal/repository/postgres"
	"github.com/pratik-mahalle/trainhub/internal/testutil"
	"github.com/stretchr/testify/require"
)

// testEnv wires the services over an in-memory database and a movable clock
type testEnv struct {
	now time.Time

	accounts      account.Service
	plans         plan.Service
	organizations organization.Service
	memberships   membership.Service
	subscriptions subscription.Service
	entitlements  entitlement.Service

	subscriptionRepo subscription.Repository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewTestDB(t)
	t.Cleanup(func() { testutil.CleanupDB(db) })

	log := logger.New(logger.Config{Level: "error", Format: "json"})
	env := &testEnv{now: testutil.Date(2024, 1, 1, 0, 0, 0)}
	clock := WithClock(func() time.Time { return env.now })

	accountRepo := postgres.NewAccountRepository(db)
	planRepo := postgres.NewPlanRepository(db)
	orgRepo := postgres.NewOrganizationRepository(db)
	env.subscriptionRepo = postgres.NewSubscriptionRepository(db)

	env.accounts = NewAccountService(accountRepo, log)
	env.plans = NewPlanService(planRepo, log)
	env.organizations = NewOrganizationService(orgRepo, log)
	env.memberships = NewMembershipService(postgres.NewMembershipRepository(db), orgRepo, log)
	env.subscriptions = NewSubscriptionService(env.subscriptionRepo, accountRepo, planRepo, log, clock)
	env.entitlements = NewEntitlementService(postgres.NewEntitlementRepository(db), log, clock)
	return env
}

func (e *testEnv) plan(t *testing.T, days int, trainings ...string) *plan.Plan {
	t.Helper()
	p, err := e.plans.Create(context.Background(), &plan.Plan{
		Name:               "Plan",
		OriginalPriceCents: 9900,
		CurrentPriceCents:  9900,
		DurationInDays:     days,
		IsActive:           true,
		TrainingIDs:        trainings,
	})
	require.NoError(t, err)
	return p
}

func (e *testEnv) personal(t *testing.T, userID string) *account.Account {
	t.Helper()
	a, err := e.accounts.EnsurePersonal(context.Background(), userID)
	require.NoError(t, err)
	return a
}

func (e *testEnv) organization(t *testing.T, cnpj string, members ...string) *organization.Organization {
	t.Helper()
	ctx := context.Background()
	o, err := e.organizations.Create(ctx, "Acme Treinamentos LTDA", cnpj)
	require.NoError(t, err)
	for i, userID := range members {
		role := membership.RoleOrgMember
		if i == 0 {
			role = membership.RoleOrgAdmin
		}
		_, err := e.memberships.Add(ctx, userID, o.ID, role)
		require.NoError(t, err)
	}
	return o
}

func (e *testEnv) subscribe(t *testing.T, accountID, planID string) *subscription.Subscription {
	t.Helper()
	s, err := e.subscriptions.Create(context.Background(), accountID, planID, subscription.OriginPurchase)
	require.NoError(t, err)
	return s
}
