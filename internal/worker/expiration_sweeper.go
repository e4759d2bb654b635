package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pratik-mahalle/trainhub/internal/domain/subscription"
	"github.com/pratik-mahalle/trainhub/internal/domain/sweep"
	"github.com/pratik-mahalle/trainhub/internal/pkg/logger"
	"github.com/pratik-mahalle/trainhub/internal/pkg/metrics"
	"github.com/robfig/cron/v3"
)

const (
	// DefaultSchedule runs the sweeper hourly
	DefaultSchedule  = "@every 1h"
	DefaultBatchSize = 500

	staleRunAfter = 24 * time.Hour
	keepRunsFor   = 30 * 24 * time.Hour
)

// ExpirationSweeper moves ACTIVE subscriptions whose end date has passed to
// EXPIRED. Every row is transitioned on its own with a conditional write, so
// concurrent sweepers and crashes mid-run leave a valid state.
type ExpirationSweeper struct {
	subscriptions subscription.Repository
	runs          sweep.Repository
	schedule      string
	batchSize     int
	logger        *logger.Logger
	now           func() time.Time

	scheduler *cron.Cron
	mu        sync.Mutex
}

// SweeperOption configures an ExpirationSweeper
type SweeperOption func(*ExpirationSweeper)

// WithSchedule sets the cron schedule of the sweeper
func WithSchedule(schedule string) SweeperOption {
	return func(s *ExpirationSweeper) {
		if schedule != "" {
			s.schedule = schedule
		}
	}
}

// WithBatchSize sets how many subscriptions are loaded per query
func WithBatchSize(n int) SweeperOption {
	return func(s *ExpirationSweeper) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithClock overrides the wall clock
func WithClock(now func() time.Time) SweeperOption {
	return func(s *ExpirationSweeper) {
		if now != nil {
			s.now = now
		}
	}
}

// NewExpirationSweeper creates a new sweeper. runs may be nil to skip run history.
func NewExpirationSweeper(
	subscriptions subscription.Repository,
	runs sweep.Repository,
	log *logger.Logger,
	opts ...SweeperOption,
) *ExpirationSweeper {
	s := &ExpirationSweeper{
		subscriptions: subscriptions,
		runs:          runs,
		schedule:      DefaultSchedule,
		batchSize:     DefaultBatchSize,
		logger:        log,
		now:           func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start schedules the sweeper and blocks until ctx is canceled
func (s *ExpirationSweeper) Start(ctx context.Context) error {
	s.logger.WithFields(map[string]interface{}{
		"schedule":   s.schedule,
		"batch_size": s.batchSize,
	}).Info("Starting expiration sweeper")

	if s.runs != nil {
		now := s.now()
		if n, err := s.runs.FailStale(ctx, now.Add(-staleRunAfter), now); err != nil {
			s.logger.WarnWithErr(err, "Failed to close abandoned sweep runs")
		} else if n > 0 {
			s.logger.With("runs", n).Warn("Closed abandoned sweep runs")
		}
	}

	s.scheduler = cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := s.scheduler.AddFunc(s.schedule, func() {
		if _, err := s.Run(ctx, sweep.TriggerScheduled); err != nil {
			s.logger.ErrorWithErr(err, "Scheduled sweep failed")
		}
		s.pruneHistory(ctx)
	})
	if err != nil {
		return fmt.Errorf("invalid sweeper schedule %q: %w", s.schedule, err)
	}

	s.scheduler.Start()
	<-ctx.Done()

	<-s.scheduler.Stop().Done()
	s.logger.Info("Expiration sweeper stopped")
	return nil
}

// Run performs one sweep and records it in the run history
func (s *ExpirationSweeper) Run(ctx context.Context, trigger sweep.Trigger) (*sweep.Run, error) {
	run := &sweep.Run{
		Trigger:   trigger,
		Status:    sweep.StatusRunning,
		StartedAt: s.now(),
	}
	if s.runs != nil {
		if err := s.runs.Create(ctx, run); err != nil {
			s.logger.WarnWithErr(err, "Failed to record sweep run start")
		}
	}

	result, err := s.RunOnce(ctx)
	run.Result = result
	run.Finish(s.now(), err)

	if s.runs != nil && run.ID != "" {
		// Record the outcome even if the caller's context is gone
		if uerr := s.runs.Update(context.WithoutCancel(ctx), run); uerr != nil {
			s.logger.WarnWithErr(uerr, "Failed to record sweep run result")
		}
	}

	metrics.RecordSweep(string(run.Status), result.Expired, result.Skipped, result.Failed,
		time.Duration(run.DurationMs)*time.Millisecond)

	return run, err
}

// RunOnce expires every ACTIVE subscription whose end date is before now.
// Per-row failures are logged and counted; only a failure to list
// candidates aborts the sweep. Running it again on the same data is a no-op.
func (s *ExpirationSweeper) RunOnce(ctx context.Context) (sweep.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var total sweep.Result
	attempted := make(map[string]bool)

	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		// Failed rows stay ACTIVE and are listed again, so widen the window past them
		limit := s.batchSize + total.Failed
		batch, err := s.subscriptions.ListExpirable(ctx, now, limit)
		if err != nil {
			s.logger.ErrorWithErr(err, "Failed to list expirable subscriptions")
			return total, err
		}

		var result sweep.Result
		for _, sub := range batch {
			// Rows that failed earlier in this run come back; try each once
			if attempted[sub.ID] {
				continue
			}
			attempted[sub.ID] = true
			result.Scanned++

			ok, err := s.subscriptions.Transition(ctx, sub.ID, subscription.StatusActive, subscription.StatusExpired, now)
			if err != nil {
				result.Failed++
				s.logger.WithFields(map[string]interface{}{
					"subscription_id": sub.ID,
					"account_id":      sub.AccountID,
				}).ErrorWithErr(err, "Failed to expire subscription")
				continue
			}
			if !ok {
				result.Skipped++
				continue
			}
			result.Expired++
		}
		total.Add(result)

		if len(batch) < limit || result.Scanned == 0 {
			break
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"scanned": total.Scanned,
		"expired": total.Expired,
		"skipped": total.Skipped,
		"failed":  total.Failed,
	}).Info("Expiration sweep completed")

	return total, nil
}

// History returns the latest sweep runs, newest first
func (s *ExpirationSweeper) History(ctx context.Context, limit int) ([]*sweep.Run, error) {
	if s.runs == nil {
		return []*sweep.Run{}, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.runs.ListRecent(ctx, limit)
}

func (s *ExpirationSweeper) pruneHistory(ctx context.Context) {
	if s.runs == nil {
		return
	}
	n, err := s.runs.DeleteOlderThan(ctx, s.now().Add(-keepRunsFor))
	if err != nil {
		s.logger.WarnWithErr(err, "Failed to prune sweep history")
		return
	}
	if n > 0 {
		s.logger.With("runs", n).Debug("Pruned sweep history")
	}
}
