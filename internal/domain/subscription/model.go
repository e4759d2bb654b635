package subscription

import "time"

// Subscription is a time-bounded grant of a plan to an account.
// StartDate and EndDate are fixed at creation; only Status moves.
type Subscription struct {
	ID            string     `json:"id"`
	AccountID     string     `json:"account_id"`
	PlanID        string     `json:"plan_id"`
	StartDate     time.Time  `json:"start_date"`
	EndDate       time.Time  `json:"end_date"`
	Status        Status     `json:"status"`
	Origin        Origin     `json:"origin"`
	RenewedFromID string     `json:"renewed_from_id,omitempty"`
	CanceledAt    *time.Time `json:"canceled_at,omitempty"`
	ExpiredAt     *time.Time `json:"expired_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Status is the lifecycle state of a subscription
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusExpired  Status = "EXPIRED"
	StatusCanceled Status = "CANCELED"
)

// Origin records how a subscription came to exist
type Origin string

const (
	OriginPurchase   Origin = "PURCHASE"
	OriginAdminGrant Origin = "ADMIN_GRANT"
	OriginRenewal    Origin = "RENEWAL"
)

// IsValid checks if the origin is known
func (o Origin) IsValid() bool {
	switch o {
	case OriginPurchase, OriginAdminGrant, OriginRenewal:
		return true
	default:
		return false
	}
}

// IsValid checks if the status is known
func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusExpired || s == StatusCanceled
}

// IsTerminal checks if no transition leaves the status
func (s Status) IsTerminal() bool {
	return s == StatusExpired || s == StatusCanceled
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next
func (s Status) CanTransitionTo(next Status) bool {
	return s == StatusActive && next.IsTerminal()
}

// Covers reports whether asOf falls within [StartDate, EndDate], both inclusive
func (s *Subscription) Covers(asOf time.Time) bool {
	return !asOf.Before(s.StartDate) && !asOf.After(s.EndDate)
}

// GrantsAt reports whether the subscription is in force at asOf. Status alone
// lags real time until the sweeper runs, so the time bound is always checked too.
func (s *Subscription) GrantsAt(asOf time.Time) bool {
	return s.Status == StatusActive && s.Covers(asOf)
}

// PastEnd reports whether asOf is strictly after EndDate
func (s *Subscription) PastEnd(asOf time.Time) bool {
	return asOf.After(s.EndDate)
}
