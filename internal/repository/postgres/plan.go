package postgres

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pratik-mahalle/trainhub/internal/domain/plan"
	"github.com/pratik-mahalle/trainhub/internal/pkg/errors"
)

// PlanRepository implements plan.Repository
type PlanRepository struct {
	store
}

// NewPlanRepository creates a new plan repository
func NewPlanRepository(db *sql.DB) plan.Repository {
	return &PlanRepository{store: newStore(db)}
}

const planColumns = `id, name, original_price_cents, current_price_cents, duration_in_days, is_active, created_at, updated_at`

// Create stores a plan and its training set
func (r *PlanRepository) Create(ctx context.Context, p *plan.Plan) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.TrainingIDs = dedupe(p.TrainingIDs)

	return r.withTx(ctx, nil, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, r.rebind(`
			INSERT INTO plans (`+planColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`), p.ID, p.Name, p.OriginalPriceCents, p.CurrentPriceCents, p.DurationInDays, p.IsActive,
			toMicros(now), toMicros(now))
		if err != nil {
			if isUniqueViolation(err) {
				return errors.Conflict("Plan already exists")
			}
			return errors.DatabaseError("Failed to create plan", err)
		}
		return r.insertTrainings(ctx, tx, p.ID, p.TrainingIDs)
	})
}

// GetByID retrieves a plan with its training set
func (r *PlanRepository) GetByID(ctx context.Context, id string) (*plan.Plan, error) {
	row := r.db.QueryRowContext(ctx, r.rebind(`SELECT `+planColumns+` FROM plans WHERE id = ?`), id)
	p, err := scanPlan(row)
	if err != nil {
		return nil, err
	}

	trainings, err := r.trainingsFor(ctx, r.db, []string{p.ID})
	if err != nil {
		return nil, err
	}
	p.TrainingIDs = trainings[p.ID]
	return p, nil
}

// List returns plans ordered by name
func (r *PlanRepository) List(ctx context.Context, activeOnly bool) ([]*plan.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans`
	var args []interface{}
	if activeOnly {
		query += ` WHERE is_active = ?`
		args = append(args, true)
	}
	query += ` ORDER BY name, id`

	rows, err := r.db.QueryContext(ctx, r.rebind(query), args...)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list plans", err)
	}
	defer rows.Close()

	var plans []*plan.Plan
	var ids []string
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to list plans", err)
	}
	rows.Close()

	trainings, err := r.trainingsFor(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	for _, p := range plans {
		p.TrainingIDs = trainings[p.ID]
	}
	return plans, nil
}

// SetActive toggles whether a plan can be subscribed to
func (r *PlanRepository) SetActive(ctx context.Context, id string, active bool) error {
	result, err := r.db.ExecContext(ctx, r.rebind(`
		UPDATE plans SET is_active = ?, updated_at = ? WHERE id = ?
	`), active, toMicros(time.Now()), id)
	if err != nil {
		return errors.DatabaseError("Failed to update plan", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return errors.NotFound("Plan")
	}
	return nil
}

// SetTrainings replaces the training set of a plan
func (r *PlanRepository) SetTrainings(ctx context.Context, id string, trainingIDs []string) error {
	return r.withTx(ctx, nil, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, r.rebind(`UPDATE plans SET updated_at = ? WHERE id = ?`),
			toMicros(time.Now()), id)
		if err != nil {
			return errors.DatabaseError("Failed to update plan", err)
		}
		if n, _ := result.RowsAffected(); n == 0 {
			return errors.NotFound("Plan")
		}

		if _, err := tx.ExecContext(ctx, r.rebind(`DELETE FROM plan_trainings WHERE plan_id = ?`), id); err != nil {
			return errors.DatabaseError("Failed to clear plan trainings", err)
		}
		return r.insertTrainings(ctx, tx, id, dedupe(trainingIDs))
	})
}

func (r *PlanRepository) insertTrainings(ctx context.Context, q querier, planID string, trainingIDs []string) error {
	for _, trainingID := range trainingIDs {
		_, err := q.ExecContext(ctx, r.rebind(`
			INSERT INTO plan_trainings (plan_id, training_id) VALUES (?, ?)
		`), planID, trainingID)
		if err != nil {
			return errors.DatabaseError("Failed to store plan training", err)
		}
	}
	return nil
}

// trainingsFor loads the training sets of the given plans keyed by plan id
func (r *PlanRepository) trainingsFor(ctx context.Context, q querier, planIDs []string) (map[string][]string, error) {
	return loadPlanTrainings(ctx, r.store, q, planIDs, "")
}

func loadPlanTrainings(ctx context.Context, s store, q querier, planIDs []string, onlyTraining string) (map[string][]string, error) {
	result := make(map[string][]string, len(planIDs))
	if len(planIDs) == 0 {
		return result, nil
	}

	query := `SELECT plan_id, training_id FROM plan_trainings WHERE plan_id IN (` + placeholders(len(planIDs)) + `)`
	args := make([]interface{}, 0, len(planIDs)+1)
	for _, id := range planIDs {
		args = append(args, id)
	}
	if onlyTraining != "" {
		query += ` AND training_id = ?`
		args = append(args, onlyTraining)
	}
	query += ` ORDER BY plan_id, training_id`

	rows, err := q.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, errors.DatabaseError("Failed to load plan trainings", err)
	}
	defer rows.Close()

	for rows.Next() {
		var planID, trainingID string
		if err := rows.Scan(&planID, &trainingID); err != nil {
			return nil, errors.DatabaseError("Failed to scan plan training", err)
		}
		result[planID] = append(result[planID], trainingID)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to load plan trainings", err)
	}
	return result, nil
}

func scanPlan(row rowScanner) (*plan.Plan, error) {
	var p plan.Plan
	var createdAt, updatedAt int64

	err := row.Scan(&p.ID, &p.Name, &p.OriginalPriceCents, &p.CurrentPriceCents, &p.DurationInDays,
		&p.IsActive, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Plan")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get plan", err)
	}

	p.CreatedAt = fromMicros(createdAt)
	p.UpdatedAt = fromMicros(updatedAt)
	return &p, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
