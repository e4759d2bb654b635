package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pratik-mahalle/trainhub/internal/domain/subscription"
	"github.com/pratik-mahalle/trainhub/internal/pkg/errors"
	"github.com/pratik-mahalle/trainhub/internal/testutil"
)

func TestSubscriptionRepository_CreateRoundTrip(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	repo := NewSubscriptionRepository(db)
	ctx := context.Background()

	acc := seedPersonalAccount(t, db, "user-1")
	p := seedPlan(t, db, "Basic", 30, "nr-10")

	start := time.Date(2024, 1, 1, 0, 0, 0, 123456789, time.UTC)
	s := seedSubscription(t, db, acc.ID, p.ID, start, p.EndFor(start))

	got, err := repo.GetByID(ctx, s.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if !got.StartDate.Equal(start.Truncate(time.Microsecond)) {
		t.Errorf("StartDate = %v, want microsecond precision of %v", got.StartDate, start)
	}
	if !got.EndDate.Equal(s.EndDate) {
		t.Errorf("EndDate = %v, want %v", got.EndDate, s.EndDate)
	}
	if got.Status != subscription.StatusActive || got.Origin != subscription.OriginPurchase {
		t.Errorf("GetByID() = %+v", got)
	}
	if got.CanceledAt != nil || got.ExpiredAt != nil {
		t.Errorf("terminal stamps set on a new subscription: %+v", got)
	}

	active, err := repo.GetActiveByAccount(ctx, acc.ID)
	if err != nil || active == nil || active.ID != s.ID {
		t.Errorf("GetActiveByAccount() = %+v, %v", active, err)
	}

	none, err := repo.GetActiveByAccount(ctx, "other")
	if err != nil || none != nil {
		t.Errorf("GetActiveByAccount(other) = %+v, %v, want nil, nil", none, err)
	}
}

func TestSubscriptionRepository_SecondActiveConflicts(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	repo := NewSubscriptionRepository(db)
	ctx := context.Background()

	acc := seedPersonalAccount(t, db, "user-1")
	p := seedPlan(t, db, "Basic", 30, "nr-10")
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	first := seedSubscription(t, db, acc.ID, p.ID, start, p.EndFor(start))

	second := &subscription.Subscription{
		AccountID: acc.ID, PlanID: p.ID, StartDate: start, EndDate: p.EndFor(start),
		Status: subscription.StatusActive, Origin: subscription.OriginPurchase,
	}
	if err := repo.Create(ctx, second); !errors.IsConflict(err) {
		t.Fatalf("Create() second ACTIVE error = %v, want conflict", err)
	}

	// A terminal predecessor frees the slot
	ok, err := repo.Transition(ctx, first.ID, subscription.StatusActive, subscription.StatusCanceled, start.Add(time.Hour))
	if err != nil || !ok {
		t.Fatalf("Transition() = %v, %v", ok, err)
	}
	second.ID = ""
	if err := repo.Create(ctx, second); err != nil {
		t.Fatalf("Create() after cancel error = %v", err)
	}

	history, err := repo.ListByAccount(ctx, acc.ID)
	if err != nil {
		t.Fatalf("ListByAccount() error = %v", err)
	}
	if len(history) != 2 {
		t.Errorf("ListByAccount() returned %d, want 2", len(history))
	}
}

func TestSubscriptionRepository_ConcurrentCreate(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	repo := NewSubscriptionRepository(db)
	acc := seedPersonalAccount(t, db, "user-1")
	p := seedPlan(t, db, "Basic", 30, "nr-10")
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.Create(context.Background(), &subscription.Subscription{
				AccountID: acc.ID, PlanID: p.ID, StartDate: start, EndDate: p.EndFor(start),
				Status: subscription.StatusActive, Origin: subscription.OriginPurchase,
			})
		}()
	}
	wg.Wait()
	close(errs)

	succeeded, conflicts := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.IsConflict(err):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 || conflicts != attempts-1 {
		t.Errorf("succeeded = %d, conflicts = %d; want 1 and %d", succeeded, conflicts, attempts-1)
	}
}

func TestSubscriptionRepository_Transition(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	repo := NewSubscriptionRepository(db)
	ctx := context.Background()

	acc := seedPersonalAccount(t, db, "user-1")
	p := seedPlan(t, db, "Basic", 30, "nr-10")
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := seedSubscription(t, db, acc.ID, p.ID, start, p.EndFor(start))
	at := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	ok, err := repo.Transition(ctx, s.ID, subscription.StatusActive, subscription.StatusExpired, at)
	if err != nil || !ok {
		t.Fatalf("Transition() = %v, %v, want true", ok, err)
	}

	// Losing writer sees the row already moved
	ok, err = repo.Transition(ctx, s.ID, subscription.StatusActive, subscription.StatusCanceled, at)
	if err != nil || ok {
		t.Errorf("second Transition() = %v, %v, want false, nil", ok, err)
	}

	got, _ := repo.GetByID(ctx, s.ID)
	if got.Status != subscription.StatusExpired || got.ExpiredAt == nil || !got.ExpiredAt.Equal(at) {
		t.Errorf("after expire = %+v", got)
	}
	if got.CanceledAt != nil {
		t.Errorf("CanceledAt = %v, want nil", got.CanceledAt)
	}
	if !got.EndDate.Equal(s.EndDate) {
		t.Errorf("EndDate changed to %v", got.EndDate)
	}

	if _, err := repo.Transition(ctx, s.ID, subscription.StatusExpired, subscription.StatusActive, at); !errors.IsInvalidState(err) {
		t.Errorf("Transition(EXPIRED->ACTIVE) error = %v, want invalid state", err)
	}
}

func TestSubscriptionRepository_ListExpirable(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	repo := NewSubscriptionRepository(db)
	ctx := context.Background()
	p := seedPlan(t, db, "Basic", 30, "nr-10")
	now := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	ended := seedSubscription(t, db, seedPersonalAccount(t, db, "u1").ID, p.ID, now.AddDate(0, -2, 0), now.Add(-time.Microsecond))
	seedSubscription(t, db, seedPersonalAccount(t, db, "u2").ID, p.ID, now.AddDate(0, -1, 0), now)
	seedSubscription(t, db, seedPersonalAccount(t, db, "u3").ID, p.ID, now, now.AddDate(0, 1, 0))
	canceled := seedSubscription(t, db, seedPersonalAccount(t, db, "u4").ID, p.ID, now.AddDate(0, -3, 0), now.AddDate(0, -2, 0))
	if _, err := repo.Transition(ctx, canceled.ID, subscription.StatusActive, subscription.StatusCanceled, now); err != nil {
		t.Fatalf("Transition() error = %v", err)
	}

	got, err := repo.ListExpirable(ctx, now, 100)
	if err != nil {
		t.Fatalf("ListExpirable() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != ended.ID {
		t.Errorf("ListExpirable() = %d rows, want only the one ended before now", len(got))
	}

	limited, err := repo.ListExpirable(ctx, now.AddDate(1, 0, 0), 2)
	if err != nil {
		t.Fatalf("ListExpirable(limit) error = %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("ListExpirable(limit 2) = %d rows", len(limited))
	}
}
