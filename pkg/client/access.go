package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// AccessService handles entitlement queries
type AccessService struct {
	client *Client
}

// Check asks whether a user may access a training
func (s *AccessService) Check(ctx context.Context, trainingID string, opts *CheckAccessOptions) (*AccessDecision, error) {
	query := url.Values{}
	if opts != nil {
		if opts.UserID != "" {
			query.Set("userId", opts.UserID)
		}
		if !opts.AsOf.IsZero() {
			query.Set("asOf", opts.AsOf.UTC().Format(time.RFC3339Nano))
		}
	}

	path := "/api/v1/access/" + url.PathEscape(trainingID)
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var decision AccessDecision
	if err := s.client.doRequest(ctx, http.MethodGet, path, nil, &decision); err != nil {
		return nil, err
	}
	return &decision, nil
}

// MyTrainings lists the trainings the token holder may access now
func (s *AccessService) MyTrainings(ctx context.Context) (*AccessibleTrainings, error) {
	var out AccessibleTrainings
	if err := s.client.doRequest(ctx, http.MethodGet, "/api/v1/me/trainings", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckAccess is a shorthand for Access().Check
func (c *Client) CheckAccess(ctx context.Context, userID, trainingID string) (bool, error) {
	d, err := c.Access().Check(ctx, trainingID, &CheckAccessOptions{UserID: userID})
	if err != nil {
		return false, fmt.Errorf("check access: %w", err)
	}
	return d.Granted, nil
}
