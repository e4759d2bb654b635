package integration

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pratik-mahalle/trainhub/internal/domain/account"
	"github.com/pratik-mahalle/trainhub/internal/domain/entitlement"
	"github.com/pratik-mahalle/trainhub/internal/domain/membership"
	"github.com/pratik-mahalle/trainhub/internal/domain/organization"
	"github.com/pratik-mahalle/trainhub/internal/domain/plan"
	"github.com/pratik-mahalle/trainhub/internal/domain/subscription"
	"github.com/pratik-mahalle/trainhub/internal/domain/sweep"
	"github.com/pratik-mahalle/trainhub/internal/pkg/errors"
	"github.com/pratik-mahalle/trainhub/internal/pkg/logger"
	"github.com/pratik-mahalle/trainhub/internal/repository/postgres"
	"github.com/pratik-mahalle/trainhub/internal/services"
	"github.com/pratik-mahalle/trainhub/internal/testutil"
	"github.com/pratik-mahalle/trainhub/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// platform wires every service and the sweeper over one database and clock
type platform struct {
	mu  sync.Mutex
	now time.Time

	accounts      account.Service
	plans         plan.Service
	organizations organization.Service
	memberships   membership.Service
	subscriptions subscription.Service
	entitlements  entitlement.Service
	sweeper       *worker.ExpirationSweeper
}

func (p *platform) clock() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.now
}

func (p *platform) advance(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.now = p.now.Add(d)
}

func setupPlatform(t *testing.T) *platform {
	t.Helper()

	db := testutil.NewTestDB(t)
	t.Cleanup(func() { testutil.CleanupDB(db) })

	log := logger.New(logger.Config{Level: "error", Format: "json"})
	p := &platform{now: testutil.Date(2024, 5, 1, 9, 0, 0)}
	clock := services.WithClock(p.clock)

	accountRepo := postgres.NewAccountRepository(db)
	planRepo := postgres.NewPlanRepository(db)
	orgRepo := postgres.NewOrganizationRepository(db)
	subRepo := postgres.NewSubscriptionRepository(db)

	p.accounts = services.NewAccountService(accountRepo, log)
	p.plans = services.NewPlanService(planRepo, log)
	p.organizations = services.NewOrganizationService(orgRepo, log)
	p.memberships = services.NewMembershipService(postgres.NewMembershipRepository(db), orgRepo, log)
	p.subscriptions = services.NewSubscriptionService(subRepo, accountRepo, planRepo, log, clock)
	p.entitlements = services.NewEntitlementService(postgres.NewEntitlementRepository(db), log, clock)
	p.sweeper = worker.NewExpirationSweeper(subRepo, postgres.NewSweepRunRepository(db), log,
		worker.WithClock(p.clock), worker.WithBatchSize(2))
	return p
}

func (p *platform) catalogPlan(t *testing.T, days int, trainings ...string) *plan.Plan {
	t.Helper()
	created, err := p.plans.Create(context.Background(), &plan.Plan{
		Name:               "Plan",
		OriginalPriceCents: 19900,
		CurrentPriceCents:  14900,
		DurationInDays:     days,
		TrainingIDs:        trainings,
	})
	require.NoError(t, err)
	return created
}

func (p *platform) access(t *testing.T, userID, trainingID string) bool {
	t.Helper()
	ok, err := p.entitlements.HasAccess(context.Background(), userID, trainingID, p.clock())
	require.NoError(t, err)
	return ok
}

// TestEntitlementLifecycle follows a user through personal and organizational
// access while the sweeper retires lapsed subscriptions
func TestEntitlementLifecycle(t *testing.T) {
	p := setupPlatform(t)
	ctx := context.Background()

	monthly := p.catalogPlan(t, 30, "go-101", "go-201")
	yearly := p.catalogPlan(t, 365, "k8s-101")

	alice, err := p.accounts.EnsurePersonal(ctx, "alice")
	require.NoError(t, err)
	personal, err := p.subscriptions.Create(ctx, alice.ID, monthly.ID, subscription.OriginPurchase)
	require.NoError(t, err)

	org, err := p.organizations.Create(ctx, "Acme Treinamentos Ltda", "11.444.777/0001-61")
	require.NoError(t, err)
	_, err = p.memberships.Add(ctx, "alice", org.ID, membership.RoleOrgMember)
	require.NoError(t, err)
	orgAccount, err := p.accounts.GetForOrganization(ctx, org.ID)
	require.NoError(t, err)
	_, err = p.subscriptions.Create(ctx, orgAccount.ID, yearly.ID, subscription.OriginAdminGrant)
	require.NoError(t, err)

	assert.True(t, p.access(t, "alice", "go-101"))
	assert.True(t, p.access(t, "alice", "k8s-101"))
	assert.False(t, p.access(t, "bob", "k8s-101"))

	// A day past the monthly end the sweeper retires only the personal subscription
	p.advance(31 * 24 * time.Hour)
	run, err := p.sweeper.Run(ctx, sweep.TriggerManual)
	require.NoError(t, err)
	assert.Equal(t, sweep.StatusCompleted, run.Status)
	assert.Equal(t, 1, run.Result.Expired)

	expired, err := p.subscriptions.Get(ctx, personal.ID)
	require.NoError(t, err)
	assert.Equal(t, subscription.StatusExpired, expired.Status)
	assert.False(t, p.access(t, "alice", "go-101"))
	assert.True(t, p.access(t, "alice", "k8s-101"))

	// Renewal restores personal access from now
	renewed, err := p.subscriptions.Renew(ctx, personal.ID)
	require.NoError(t, err)
	assert.Equal(t, subscription.OriginRenewal, renewed.Origin)
	assert.Equal(t, personal.ID, renewed.RenewedFromID)
	assert.True(t, p.access(t, "alice", "go-201"))

	trainings, err := p.entitlements.AccessibleTrainings(ctx, "alice", p.clock())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"go-101", "go-201", "k8s-101"}, trainings)

	// Leaving the organization revokes its trainings immediately
	require.NoError(t, p.memberships.Remove(ctx, "alice", org.ID))
	assert.False(t, p.access(t, "alice", "k8s-101"))

	history, err := p.sweeper.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, sweep.TriggerManual, history[0].Trigger)
}

// TestSweeperBatchesOverDatabase expires more rows than one batch holds
func TestSweeperBatchesOverDatabase(t *testing.T) {
	p := setupPlatform(t)
	ctx := context.Background()
	short := p.catalogPlan(t, 1, "intro")

	users := []string{"u1", "u2", "u3", "u4", "u5"}
	for _, u := range users {
		a, err := p.accounts.EnsurePersonal(ctx, u)
		require.NoError(t, err)
		_, err = p.subscriptions.Create(ctx, a.ID, short.ID, subscription.OriginPurchase)
		require.NoError(t, err)
	}

	p.advance(48 * time.Hour)
	res, err := p.sweeper.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(users), res.Expired)

	// Nothing left to do on a second pass
	res, err = p.sweeper.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Scanned)

	for _, u := range users {
		assert.False(t, p.access(t, u, "intro"), u)
	}
}

// TestCancelRacesSweeper lets an admin cancel while the sweeper expires the
// same lapsed subscription; exactly one terminal status must win
func TestCancelRacesSweeper(t *testing.T) {
	for i := 0; i < 5; i++ {
		p := setupPlatform(t)
		ctx := context.Background()
		pl := p.catalogPlan(t, 7, "sec-101")

		a, err := p.accounts.EnsurePersonal(ctx, "carol")
		require.NoError(t, err)
		sub, err := p.subscriptions.Create(ctx, a.ID, pl.ID, subscription.OriginPurchase)
		require.NoError(t, err)
		p.advance(8 * 24 * time.Hour)

		var wg sync.WaitGroup
		var cancelErr, sweepErr error
		wg.Add(2)
		go func() {
			defer wg.Done()
			cancelErr = p.subscriptions.Cancel(ctx, sub.ID)
		}()
		go func() {
			defer wg.Done()
			_, sweepErr = p.sweeper.RunOnce(ctx)
		}()
		wg.Wait()

		require.NoError(t, sweepErr)
		final, err := p.subscriptions.Get(ctx, sub.ID)
		require.NoError(t, err)

		switch final.Status {
		case subscription.StatusCanceled:
			assert.NoError(t, cancelErr)
		case subscription.StatusExpired:
			assert.True(t, errors.IsInvalidState(cancelErr), "cancel error = %v", cancelErr)
		default:
			t.Fatalf("subscription left in %s", final.Status)
		}
		assert.False(t, p.access(t, "carol", "sec-101"))
	}
}
