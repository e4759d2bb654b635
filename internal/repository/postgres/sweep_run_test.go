package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pratik-mahalle/trainhub/internal/domain/sweep"
	"github.com/pratik-mahalle/trainhub/internal/testutil"
)

func TestSweepRunRepository_Lifecycle(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	repo := NewSweepRunRepository(db)
	ctx := context.Background()
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	run := &sweep.Run{Trigger: sweep.TriggerManual, StartedAt: start}
	if err := repo.Create(ctx, run); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if run.Status != sweep.StatusRunning {
		t.Errorf("Status = %s, want RUNNING", run.Status)
	}

	run.Result = sweep.Result{Scanned: 3, Expired: 2, Skipped: 1}
	run.Finish(start.Add(2*time.Second), nil)
	if err := repo.Update(ctx, run); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := repo.GetByID(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Status != sweep.StatusCompleted || got.Result != run.Result || got.DurationMs != 2000 {
		t.Errorf("GetByID() = %+v", got)
	}
}

func TestSweepRunRepository_Housekeeping(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	repo := NewSweepRunRepository(db)
	ctx := context.Background()
	now := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	stale := &sweep.Run{Trigger: sweep.TriggerScheduled, StartedAt: now.Add(-48 * time.Hour)}
	old := &sweep.Run{Trigger: sweep.TriggerScheduled, StartedAt: now.AddDate(0, -2, 0)}
	recent := &sweep.Run{Trigger: sweep.TriggerScheduled, StartedAt: now.Add(-time.Hour)}
	for _, r := range []*sweep.Run{stale, old, recent} {
		if err := repo.Create(ctx, r); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}
	old.Finish(old.StartedAt.Add(time.Second), errors.New("boom"))
	if err := repo.Update(ctx, old); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	n, err := repo.FailStale(ctx, now.Add(-24*time.Hour), now)
	if err != nil || n != 1 {
		t.Errorf("FailStale() = %d, %v, want 1", n, err)
	}

	n, err = repo.DeleteOlderThan(ctx, now.AddDate(0, -1, 0))
	if err != nil || n != 1 {
		t.Errorf("DeleteOlderThan() = %d, %v, want 1", n, err)
	}

	runs, err := repo.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(runs) != 2 || runs[0].ID != recent.ID || runs[1].Status != sweep.StatusFailed {
		t.Errorf("ListRecent() = %+v", runs)
	}
}
