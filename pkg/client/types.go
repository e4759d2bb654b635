package client

import "time"

// Subscription origins accepted by CreateSubscription
const (
	OriginPurchase   = "PURCHASE"
	OriginAdminGrant = "ADMIN_GRANT"
	OriginRenewal    = "RENEWAL"
)

// Subscription is a time-bounded right of an account to a plan
type Subscription struct {
	ID            string     `json:"id"`
	AccountID     string     `json:"accountId"`
	PlanID        string     `json:"planId"`
	StartDate     time.Time  `json:"startDate"`
	EndDate       time.Time  `json:"endDate"`
	Status        string     `json:"status"` // ACTIVE, CANCELED, EXPIRED
	Origin        string     `json:"origin"`
	RenewedFromID string     `json:"renewedFromId,omitempty"`
	CanceledAt    *time.Time `json:"canceledAt,omitempty"`
	ExpiredAt     *time.Time `json:"expiredAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// AccessDecision is the answer to "may this user access this training"
type AccessDecision struct {
	UserID         string    `json:"userId"`
	TrainingID     string    `json:"trainingId"`
	Granted        bool      `json:"granted"`
	Via            string    `json:"via,omitempty"` // PERSONAL, ORGANIZATION
	AccountID      string    `json:"accountId,omitempty"`
	OrganizationID string    `json:"organizationId,omitempty"`
	SubscriptionID string    `json:"subscriptionId,omitempty"`
	AsOf           time.Time `json:"asOf"`
}

// AccessibleTrainings lists every training a user may access
type AccessibleTrainings struct {
	UserID      string    `json:"userId"`
	TrainingIDs []string  `json:"trainingIds"`
	AsOf        time.Time `json:"asOf"`
}

// SweepRun records one pass of the expiration sweeper
type SweepRun struct {
	ID           string     `json:"id"`
	Trigger      string     `json:"trigger"`
	Status       string     `json:"status"`
	StartedAt    time.Time  `json:"startedAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	DurationMs   int64      `json:"durationMs"`
	Scanned      int        `json:"scanned"`
	Expired      int        `json:"expired"`
	Skipped      int        `json:"skipped"`
	Failed       int        `json:"failed"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
}

// CreateSubscriptionRequest represents a request to start a subscription
type CreateSubscriptionRequest struct {
	AccountID string `json:"accountId"`
	PlanID    string `json:"planId"`
	Origin    string `json:"origin,omitempty"`
}

// CheckAccessOptions narrows an access check
type CheckAccessOptions struct {
	UserID string    // Another user to check; requires an admin token
	AsOf   time.Time // Instant to evaluate; zero means now
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}
