package entitlement

import (
	"github.com/pratik-mahalle/trainhub/internal/domain/account"
	"github.com/pratik-mahalle/trainhub/internal/domain/subscription"
)

// Grant is a candidate subscription together with the trainings its plan grants
type Grant struct {
	Subscription subscription.Subscription
	TrainingIDs  []string
}

// Snapshot is everything needed to decide a user's access, read atomically
type Snapshot struct {
	UserID string
	// Accounts holds the user's personal account and the accounts of every
	// organization the user is a member of
	Accounts []account.Account
	// OrganizationIDs lists the organizations the user currently belongs to
	OrganizationIDs []string
	// Grants holds ACTIVE subscriptions of Accounts; the time bound is not applied
	Grants []Grant
}

// Decision is the outcome of an access check
type Decision struct {
	Granted        bool         `json:"granted"`
	Via            account.Kind `json:"via,omitempty"`
	AccountID      string       `json:"account_id,omitempty"`
	OrganizationID string       `json:"organization_id,omitempty"`
	SubscriptionID string       `json:"subscription_id,omitempty"`
}

// Denied returns the decision for a user no path grants access to
func Denied() Decision {
	return Decision{Granted: false}
}
