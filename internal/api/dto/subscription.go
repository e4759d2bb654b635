package dto

import (
	"time"

	"github.com/pratik-mahalle/trainhub/internal/domain/subscription"
)

// SubscriptionDTO represents a subscription in API responses
type SubscriptionDTO struct {
	ID            string     `json:"id"`
	AccountID     string     `json:"accountId"`
	PlanID        string     `json:"planId"`
	StartDate     time.Time  `json:"startDate"`
	EndDate       time.Time  `json:"endDate"`
	Status        string     `json:"status"`
	Origin        string     `json:"origin"`
	RenewedFromID string     `json:"renewedFromId,omitempty"`
	CanceledAt    *time.Time `json:"canceledAt,omitempty"`
	ExpiredAt     *time.Time `json:"expiredAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// CreateSubscriptionRequest starts a subscription for an account
type CreateSubscriptionRequest struct {
	AccountID string `json:"accountId" validate:"required"`
	PlanID    string `json:"planId" validate:"required"`
	// Origin defaults to PURCHASE
	Origin string `json:"origin,omitempty" validate:"omitempty,oneof=PURCHASE ADMIN_GRANT RENEWAL"`
}

// NewSubscriptionDTO maps a domain subscription
func NewSubscriptionDTO(s *subscription.Subscription) SubscriptionDTO {
	return SubscriptionDTO{
		ID:            s.ID,
		AccountID:     s.AccountID,
		PlanID:        s.PlanID,
		StartDate:     s.StartDate,
		EndDate:       s.EndDate,
		Status:        string(s.Status),
		Origin:        string(s.Origin),
		RenewedFromID: s.RenewedFromID,
		CanceledAt:    s.CanceledAt,
		ExpiredAt:     s.ExpiredAt,
		CreatedAt:     s.CreatedAt,
	}
}

// NewSubscriptionDTOs maps a list of domain subscriptions
func NewSubscriptionDTOs(subs []*subscription.Subscription) []SubscriptionDTO {
	out := make([]SubscriptionDTO, 0, len(subs))
	for _, s := range subs {
		out = append(out, NewSubscriptionDTO(s))
	}
	return out
}
