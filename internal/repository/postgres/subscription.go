package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pratik-mahalle/trainhub/internal/domain/subscription"
	"github.com/pratik-mahalle/trainhub/internal/pkg/errors"
)

// SubscriptionRepository implements subscription.Repository
type SubscriptionRepository struct {
	store
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *sql.DB) subscription.Repository {
	return &SubscriptionRepository{store: newStore(db)}
}

const subscriptionColumns = `id, account_id, plan_id, start_at, end_at, status, origin, renewed_from_id,
	canceled_at, expired_at, created_at, updated_at`

// Create inserts a new subscription
func (r *SubscriptionRepository) Create(ctx context.Context, s *subscription.Subscription) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.Status == "" {
		s.Status = subscription.StatusActive
	}
	// Storage keeps microsecond precision
	s.StartDate = s.StartDate.UTC().Truncate(time.Microsecond)
	s.EndDate = s.EndDate.UTC().Truncate(time.Microsecond)
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, r.rebind(`
		INSERT INTO subscriptions (`+subscriptionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), s.ID, s.AccountID, s.PlanID, toMicros(s.StartDate), toMicros(s.EndDate),
		string(s.Status), string(s.Origin), nullableString(s.RenewedFromID),
		nullableMicros(s.CanceledAt), nullableMicros(s.ExpiredAt), toMicros(now), toMicros(now))
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Conflict("Account already has an active subscription")
		}
		return errors.DatabaseError("Failed to create subscription", err)
	}
	return nil
}

// GetByID retrieves a subscription by ID
func (r *SubscriptionRepository) GetByID(ctx context.Context, id string) (*subscription.Subscription, error) {
	row := r.db.QueryRowContext(ctx, r.rebind(`SELECT `+subscriptionColumns+` FROM subscriptions WHERE id = ?`), id)
	return scanSubscription(row)
}

// GetActiveByAccount returns the ACTIVE subscription of an account, or nil
func (r *SubscriptionRepository) GetActiveByAccount(ctx context.Context, accountID string) (*subscription.Subscription, error) {
	row := r.db.QueryRowContext(ctx, r.rebind(`
		SELECT `+subscriptionColumns+` FROM subscriptions WHERE account_id = ? AND status = ?
	`), accountID, string(subscription.StatusActive))
	s, err := scanSubscription(row)
	if errors.IsNotFound(err) {
		return nil, nil
	}
	return s, err
}

// ListByAccount returns the subscription history of an account, newest first
func (r *SubscriptionRepository) ListByAccount(ctx context.Context, accountID string) ([]*subscription.Subscription, error) {
	rows, err := r.db.QueryContext(ctx, r.rebind(`
		SELECT `+subscriptionColumns+` FROM subscriptions
		WHERE account_id = ?
		ORDER BY start_at DESC, created_at DESC
	`), accountID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list subscriptions", err)
	}
	defer rows.Close()
	return scanSubscriptions(rows)
}

// ListExpirable returns ACTIVE subscriptions that ended strictly before now
func (r *SubscriptionRepository) ListExpirable(ctx context.Context, now time.Time, limit int) ([]*subscription.Subscription, error) {
	rows, err := r.db.QueryContext(ctx, r.rebind(`
		SELECT `+subscriptionColumns+` FROM subscriptions
		WHERE status = ? AND end_at < ?
		ORDER BY end_at, id
		LIMIT ?
	`), string(subscription.StatusActive), toMicros(now), limit)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list expirable subscriptions", err)
	}
	defer rows.Close()
	return scanSubscriptions(rows)
}

// Transition moves a subscription between statuses only while it is still in from
func (r *SubscriptionRepository) Transition(ctx context.Context, id string, from, to subscription.Status, at time.Time) (bool, error) {
	if !from.CanTransitionTo(to) {
		return false, errors.InvalidState("Subscription cannot move from " + string(from) + " to " + string(to))
	}

	var stampColumn string
	switch to {
	case subscription.StatusCanceled:
		stampColumn = "canceled_at"
	case subscription.StatusExpired:
		stampColumn = "expired_at"
	}

	result, err := r.db.ExecContext(ctx, r.rebind(`
		UPDATE subscriptions SET status = ?, `+stampColumn+` = ?, updated_at = ?
		WHERE id = ? AND status = ?
	`), string(to), toMicros(at), toMicros(time.Now()), id, string(from))
	if err != nil {
		return false, errors.DatabaseError("Failed to update subscription", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, errors.DatabaseError("Failed to update subscription", err)
	}
	return rowsAffected == 1, nil
}

func scanSubscriptions(rows *sql.Rows) ([]*subscription.Subscription, error) {
	var subs []*subscription.Subscription
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to read subscriptions", err)
	}
	return subs, nil
}

func scanSubscription(row rowScanner) (*subscription.Subscription, error) {
	var s subscription.Subscription
	var status, origin string
	var startAt, endAt, createdAt, updatedAt int64
	var renewedFrom sql.NullString
	var canceledAt, expiredAt sql.NullInt64

	err := row.Scan(&s.ID, &s.AccountID, &s.PlanID, &startAt, &endAt, &status, &origin, &renewedFrom,
		&canceledAt, &expiredAt, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Subscription")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get subscription", err)
	}

	s.StartDate = fromMicros(startAt)
	s.EndDate = fromMicros(endAt)
	s.Status = subscription.Status(status)
	s.Origin = subscription.Origin(origin)
	s.RenewedFromID = renewedFrom.String
	s.CanceledAt = timePtr(canceledAt)
	s.ExpiredAt = timePtr(expiredAt)
	s.CreatedAt = fromMicros(createdAt)
	s.UpdatedAt = fromMicros(updatedAt)
	return &s, nil
}
