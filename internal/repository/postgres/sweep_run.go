package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pratik-mahalle/trainhub/internal/domain/sweep"
	"github.com/pratik-mahalle/trainhub/internal/pkg/errors"
)

// SweepRunRepository implements sweep.Repository
type SweepRunRepository struct {
	store
}

// NewSweepRunRepository creates a new sweep run repository
func NewSweepRunRepository(db *sql.DB) sweep.Repository {
	return &SweepRunRepository{store: newStore(db)}
}

const sweepRunColumns = `id, trigger_kind, status, started_at, completed_at, duration_ms,
	scanned, expired, skipped, failed, error_message`

// Create records the start of a sweep run
func (r *SweepRunRepository) Create(ctx context.Context, run *sweep.Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.Status == "" {
		run.Status = sweep.StatusRunning
	}

	_, err := r.db.ExecContext(ctx, r.rebind(`
		INSERT INTO sweep_runs (`+sweepRunColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), run.ID, string(run.Trigger), string(run.Status), toMicros(run.StartedAt), nullableMicros(run.CompletedAt),
		run.DurationMs, run.Result.Scanned, run.Result.Expired, run.Result.Skipped, run.Result.Failed,
		run.ErrorMessage)
	if err != nil {
		return errors.DatabaseError("Failed to create sweep run", err)
	}
	return nil
}

// Update stores the outcome of a sweep run
func (r *SweepRunRepository) Update(ctx context.Context, run *sweep.Run) error {
	result, err := r.db.ExecContext(ctx, r.rebind(`
		UPDATE sweep_runs
		SET status = ?, completed_at = ?, duration_ms = ?, scanned = ?, expired = ?, skipped = ?, failed = ?, error_message = ?
		WHERE id = ?
	`), string(run.Status), nullableMicros(run.CompletedAt), run.DurationMs,
		run.Result.Scanned, run.Result.Expired, run.Result.Skipped, run.Result.Failed, run.ErrorMessage, run.ID)
	if err != nil {
		return errors.DatabaseError("Failed to update sweep run", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return errors.NotFound("Sweep run")
	}
	return nil
}

// GetByID retrieves a sweep run by ID
func (r *SweepRunRepository) GetByID(ctx context.Context, id string) (*sweep.Run, error) {
	row := r.db.QueryRowContext(ctx, r.rebind(`SELECT `+sweepRunColumns+` FROM sweep_runs WHERE id = ?`), id)
	return scanSweepRun(row)
}

// ListRecent returns the latest runs, newest first
func (r *SweepRunRepository) ListRecent(ctx context.Context, limit int) ([]*sweep.Run, error) {
	rows, err := r.db.QueryContext(ctx, r.rebind(`
		SELECT `+sweepRunColumns+` FROM sweep_runs
		ORDER BY started_at DESC, id
		LIMIT ?
	`), limit)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list sweep runs", err)
	}
	defer rows.Close()

	var runs []*sweep.Run
	for rows.Next() {
		run, err := scanSweepRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to list sweep runs", err)
	}
	return runs, nil
}

// FailStale marks runs left RUNNING by a crashed process as FAILED
func (r *SweepRunRepository) FailStale(ctx context.Context, cutoff, at time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, r.rebind(`
		UPDATE sweep_runs SET status = ?, completed_at = ?, error_message = ?
		WHERE status = ? AND started_at < ?
	`), string(sweep.StatusFailed), toMicros(at), "abandoned while running",
		string(sweep.StatusRunning), toMicros(cutoff))
	if err != nil {
		return 0, errors.DatabaseError("Failed to fail stale sweep runs", err)
	}

	rowsAffected, _ := result.RowsAffected()
	return rowsAffected, nil
}

// DeleteOlderThan removes finished runs that started before cutoff
func (r *SweepRunRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, r.rebind(`
		DELETE FROM sweep_runs WHERE status <> ? AND started_at < ?
	`), string(sweep.StatusRunning), toMicros(cutoff))
	if err != nil {
		return 0, errors.DatabaseError("Failed to clean up sweep runs", err)
	}

	rowsAffected, _ := result.RowsAffected()
	return rowsAffected, nil
}

func scanSweepRun(row rowScanner) (*sweep.Run, error) {
	var run sweep.Run
	var trigger, status string
	var startedAt int64
	var completedAt sql.NullInt64

	err := row.Scan(&run.ID, &trigger, &status, &startedAt, &completedAt, &run.DurationMs,
		&run.Result.Scanned, &run.Result.Expired, &run.Result.Skipped, &run.Result.Failed, &run.ErrorMessage)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Sweep run")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get sweep run", err)
	}

	run.Trigger = sweep.Trigger(trigger)
	run.Status = sweep.Status(status)
	run.StartedAt = fromMicros(startedAt)
	run.CompletedAt = timePtr(completedAt)
	return &run, nil
}
