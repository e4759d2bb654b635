package worker

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/pratik-mahalle/trainhub/internal/domain/account"
	"github.com/pratik-mahalle/trainhub/internal/domain/plan"
	"github.com/pratik-mahalle/trainhub/internal/domain/subscription"
	"github.com/pratik-mahalle/trainhub/internal/domain/sweep"
	"github.com/pratik-mahalle/trainhub/internal/pkg/errors"
	"github.com/pratik-mahalle/trainhub/internal/pkg/logger"
	"github.com/pratik-mahalle/trainhub/internal/repository/postgres"
	"github.com/pratik-mahalle/trainhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMockSubscriptions(repo *testutil.MockSubscriptionRepository, now time.Time, ended, running int) {
	for i := 0; i < ended; i++ {
		id := fmt.Sprintf("ended-%d", i)
		repo.Subscriptions[id] = &subscription.Subscription{
			ID: id, AccountID: "acc-" + id, Status: subscription.StatusActive,
			StartDate: now.AddDate(0, -2, 0), EndDate: now.Add(-time.Duration(ended-i) * time.Hour),
		}
	}
	for i := 0; i < running; i++ {
		id := fmt.Sprintf("running-%d", i)
		repo.Subscriptions[id] = &subscription.Subscription{
			ID: id, AccountID: "acc-" + id, Status: subscription.StatusActive,
			StartDate: now.AddDate(0, -1, 0), EndDate: now.AddDate(0, 0, i+1),
		}
	}
}

func TestExpirationSweeper_RunOnce(t *testing.T) {
	now := testutil.Date(2024, 2, 1, 0, 0, 0)
	repo := testutil.NewMockSubscriptionRepository()
	seedMockSubscriptions(repo, now, 5, 3)

	sweeper := NewExpirationSweeper(repo, nil, logger.Nop(), WithClock(testutil.FixedClock(now)), WithBatchSize(2))

	result, err := sweeper.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sweep.Result{Scanned: 5, Expired: 5}, result)

	for id, s := range repo.Subscriptions {
		want := subscription.StatusActive
		if s.EndDate.Before(now) {
			want = subscription.StatusExpired
		}
		assert.Equal(t, want, s.Status, id)
	}

	// A second pass over the same data changes nothing
	result, err = sweeper.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sweep.Result{}, result)
}

func TestExpirationSweeper_ContinuesPastRowFailures(t *testing.T) {
	now := testutil.Date(2024, 2, 1, 0, 0, 0)
	repo := testutil.NewMockSubscriptionRepository()
	seedMockSubscriptions(repo, now, 4, 0)
	// The oldest rows fail so they come back at the head of every batch
	repo.TransitionErrors["ended-0"] = errors.DatabaseError("Failed to update subscription", fmt.Errorf("disk I/O error"))
	repo.TransitionErrors["ended-1"] = errors.DatabaseError("Failed to update subscription", fmt.Errorf("disk I/O error"))

	sweeper := NewExpirationSweeper(repo, nil, logger.Nop(), WithClock(testutil.FixedClock(now)), WithBatchSize(1))

	result, err := sweeper.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sweep.Result{Scanned: 4, Expired: 2, Failed: 2}, result)
	assert.Equal(t, subscription.StatusActive, repo.Subscriptions["ended-0"].Status)
	assert.Equal(t, subscription.StatusExpired, repo.Subscriptions["ended-3"].Status)
}

func TestExpirationSweeper_ListFailureAborts(t *testing.T) {
	repo := testutil.NewMockSubscriptionRepository()
	repo.ListError = errors.DatabaseError("Failed to list expirable subscriptions", fmt.Errorf("connection refused"))

	sweeper := NewExpirationSweeper(repo, nil, logger.Nop())
	_, err := sweeper.RunOnce(context.Background())
	assert.Error(t, err)
}

func TestExpirationSweeper_ConcurrentSweepers(t *testing.T) {
	now := testutil.Date(2024, 2, 1, 0, 0, 0)
	repo := testutil.NewMockSubscriptionRepository()
	seedMockSubscriptions(repo, now, 20, 5)

	var wg sync.WaitGroup
	results := make([]sweep.Result, 3)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s := NewExpirationSweeper(repo, nil, logger.Nop(), WithClock(testutil.FixedClock(now)), WithBatchSize(3))
			r, err := s.RunOnce(context.Background())
			assert.NoError(t, err)
			results[i] = r
		}(i)
	}
	wg.Wait()

	expired := 0
	for _, r := range results {
		expired += r.Expired
		assert.Zero(t, r.Failed)
	}
	assert.Equal(t, 20, expired, "each ended subscription is expired exactly once")
}

func TestExpirationSweeper_RecordsHistory(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)
	ctx := context.Background()

	accounts := postgres.NewAccountRepository(db)
	plans := postgres.NewPlanRepository(db)
	subs := postgres.NewSubscriptionRepository(db)
	runs := postgres.NewSweepRunRepository(db)

	p := &plan.Plan{Name: "Basic", DurationInDays: 30, IsActive: true, TrainingIDs: []string{"T1"}}
	require.NoError(t, plans.Create(ctx, p))

	start := testutil.Date(2024, 1, 1, 0, 0, 0)
	for _, user := range []string{"alice", "bob"} {
		a := account.NewPersonal(user)
		require.NoError(t, accounts.Create(ctx, a))
		require.NoError(t, subs.Create(ctx, &subscription.Subscription{
			AccountID: a.ID, PlanID: p.ID, StartDate: start, EndDate: p.EndFor(start),
			Status: subscription.StatusActive, Origin: subscription.OriginPurchase,
		}))
	}

	// Exactly at the end date nothing is swept yet
	atEnd := NewExpirationSweeper(subs, runs, logger.Nop(), WithClock(testutil.FixedClock(p.EndFor(start))))
	run, err := atEnd.Run(ctx, sweep.TriggerManual)
	require.NoError(t, err)
	assert.Equal(t, 0, run.Result.Expired)

	after := NewExpirationSweeper(subs, runs, logger.Nop(), WithClock(testutil.FixedClock(testutil.Date(2024, 2, 1, 0, 0, 0))))
	run, err = after.Run(ctx, sweep.TriggerManual)
	require.NoError(t, err)
	assert.Equal(t, sweep.StatusCompleted, run.Status)
	assert.Equal(t, 2, run.Result.Expired)

	run, err = after.Run(ctx, sweep.TriggerScheduled)
	require.NoError(t, err)
	assert.Equal(t, sweep.Result{}, run.Result)

	history, err := after.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, history, 3)
	for _, h := range history {
		assert.Equal(t, sweep.StatusCompleted, h.Status)
	}
}

func TestExpirationSweeper_StartStops(t *testing.T) {
	repo := testutil.NewMockSubscriptionRepository()
	sweeper := NewExpirationSweeper(repo, nil, logger.Nop(), WithSchedule("@every 1h"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sweeper.Start(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start() did not return after cancel")
	}

	bad := NewExpirationSweeper(repo, nil, logger.Nop(), WithSchedule("whenever"))
	assert.Error(t, bad.Start(context.Background()))
}
