package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/pratik-mahalle/trainhub/internal/domain/account"
	"github.com/pratik-mahalle/trainhub/internal/domain/entitlement"
	"github.com/pratik-mahalle/trainhub/internal/domain/subscription"
	"github.com/pratik-mahalle/trainhub/internal/pkg/errors"
	"github.com/pratik-mahalle/trainhub/internal/pkg/metrics"
)

// EntitlementRepository implements entitlement.Repository
type EntitlementRepository struct {
	store
}

// NewEntitlementRepository creates a new entitlement repository
func NewEntitlementRepository(db *sql.DB) entitlement.Repository {
	return &EntitlementRepository{store: newStore(db)}
}

// Snapshot reads the accounts reachable from a user and their ACTIVE
// subscriptions in a single read transaction.
func (r *EntitlementRepository) Snapshot(ctx context.Context, userID, trainingID string) (*entitlement.Snapshot, error) {
	snap := &entitlement.Snapshot{UserID: userID}
	if userID == "" {
		return snap, nil
	}
	defer func(start time.Time) {
		metrics.RecordDBQuery("entitlement_snapshot", time.Since(start))
	}(time.Now())

	err := r.withTx(ctx, r.readTxOptions(), func(tx *sql.Tx) error {
		orgIDs, err := r.organizationsOf(ctx, tx, userID)
		if err != nil {
			return err
		}
		snap.OrganizationIDs = orgIDs

		accounts, err := r.accountsOf(ctx, tx, userID)
		if err != nil {
			return err
		}
		snap.Accounts = accounts
		if len(accounts) == 0 {
			return nil
		}

		subs, err := r.activeSubscriptions(ctx, tx, accounts, trainingID)
		if err != nil {
			return err
		}
		if len(subs) == 0 {
			return nil
		}

		planIDs := make([]string, 0, len(subs))
		for _, s := range subs {
			planIDs = append(planIDs, s.PlanID)
		}
		trainings, err := loadPlanTrainings(ctx, r.store, tx, dedupe(planIDs), trainingID)
		if err != nil {
			return err
		}

		for _, s := range subs {
			snap.Grants = append(snap.Grants, entitlement.Grant{
				Subscription: *s,
				TrainingIDs:  trainings[s.PlanID],
			})
		}
		return nil
	})
	if err != nil {
		if _, ok := errors.As(err); ok {
			return nil, err
		}
		return nil, errors.DatabaseError("Failed to read entitlements", err)
	}
	return snap, nil
}

func (r *EntitlementRepository) organizationsOf(ctx context.Context, tx *sql.Tx, userID string) ([]string, error) {
	rows, err := tx.QueryContext(ctx, r.rebind(`
		SELECT organization_id FROM memberships WHERE user_id = ? ORDER BY organization_id
	`), userID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to load memberships", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.DatabaseError("Failed to scan membership", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to load memberships", err)
	}
	return ids, nil
}

// accountsOf returns the personal account of the user and the accounts of
// every organization the user belongs to
func (r *EntitlementRepository) accountsOf(ctx context.Context, tx *sql.Tx, userID string) ([]account.Account, error) {
	rows, err := tx.QueryContext(ctx, r.rebind(`
		SELECT `+accountColumns+` FROM accounts
		WHERE (kind = ? AND user_id = ?)
		   OR (kind = ? AND organization_id IN (SELECT organization_id FROM memberships WHERE user_id = ?))
		ORDER BY kind DESC, id
	`), string(account.KindPersonal), userID, string(account.KindOrganizational), userID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to load accounts", err)
	}
	defer rows.Close()

	var accounts []account.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to load accounts", err)
	}
	return accounts, nil
}

func (r *EntitlementRepository) activeSubscriptions(ctx context.Context, tx *sql.Tx, accounts []account.Account, trainingID string) ([]*subscription.Subscription, error) {
	args := []interface{}{string(subscription.StatusActive)}
	for _, a := range accounts {
		args = append(args, a.ID)
	}

	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions
		WHERE status = ? AND account_id IN (` + placeholders(len(accounts)) + `)`
	if trainingID != "" {
		query += ` AND plan_id IN (SELECT plan_id FROM plan_trainings WHERE training_id = ?)`
		args = append(args, trainingID)
	}
	query += ` ORDER BY end_at DESC, id`

	rows, err := tx.QueryContext(ctx, r.rebind(query), args...)
	if err != nil {
		return nil, errors.DatabaseError("Failed to load subscriptions", err)
	}
	defer rows.Close()
	return scanSubscriptions(rows)
}
