package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// SubscriptionService handles the subscription lifecycle. Mutations need an
// admin token.
type SubscriptionService struct {
	client *Client
}

// Create starts a subscription of a plan for an account
func (s *SubscriptionService) Create(ctx context.Context, req CreateSubscriptionRequest) (*Subscription, error) {
	var sub Subscription
	if err := s.client.doRequest(ctx, http.MethodPost, "/api/v1/subscriptions", req, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// Get retrieves a subscription by ID
func (s *SubscriptionService) Get(ctx context.Context, id string) (*Subscription, error) {
	var sub Subscription
	path := fmt.Sprintf("/api/v1/subscriptions/%s", url.PathEscape(id))
	if err := s.client.doRequest(ctx, http.MethodGet, path, nil, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// ListByAccount lists an account's subscriptions, newest first
func (s *SubscriptionService) ListByAccount(ctx context.Context, accountID string) ([]Subscription, error) {
	var subs []Subscription
	path := fmt.Sprintf("/api/v1/accounts/%s/subscriptions", url.PathEscape(accountID))
	if err := s.client.doRequest(ctx, http.MethodGet, path, nil, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

// Cancel cancels an ACTIVE subscription
func (s *SubscriptionService) Cancel(ctx context.Context, id string) error {
	path := fmt.Sprintf("/api/v1/subscriptions/%s/cancel", url.PathEscape(id))
	return s.client.doRequest(ctx, http.MethodPost, path, nil, nil)
}

// Renew starts a RENEWAL subscription following id
func (s *SubscriptionService) Renew(ctx context.Context, id string) (*Subscription, error) {
	var sub Subscription
	path := fmt.Sprintf("/api/v1/subscriptions/%s/renew", url.PathEscape(id))
	if err := s.client.doRequest(ctx, http.MethodPost, path, nil, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// CreateSubscription is a shorthand for Subscriptions().Create
func (c *Client) CreateSubscription(ctx context.Context, accountID, planID, origin string) (*Subscription, error) {
	return c.Subscriptions().Create(ctx, CreateSubscriptionRequest{AccountID: accountID, PlanID: planID, Origin: origin})
}

// CancelSubscription is a shorthand for Subscriptions().Cancel
func (c *Client) CancelSubscription(ctx context.Context, id string) error {
	return c.Subscriptions().Cancel(ctx, id)
}

// RenewSubscription is a shorthand for Subscriptions().Renew
func (c *Client) RenewSubscription(ctx context.Context, id string) (*Subscription, error) {
	return c.Subscriptions().Renew(ctx, id)
}
