package client

import (
	"context"
	"net/http"
	"strconv"
)

// SweepService drives the expiration sweeper. Requires an admin token.
type SweepService struct {
	client *Client
}

// Trigger runs one sweep and returns its record
func (s *SweepService) Trigger(ctx context.Context) (*SweepRun, error) {
	var run SweepRun
	if err := s.client.doRequest(ctx, http.MethodPost, "/api/v1/admin/sweeps", nil, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// History lists recent sweeps, newest first. limit <= 0 uses the server default.
func (s *SweepService) History(ctx context.Context, limit int) ([]SweepRun, error) {
	path := "/api/v1/admin/sweeps"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	var runs []SweepRun
	if err := s.client.doRequest(ctx, http.MethodGet, path, nil, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}

// TriggerSweep is a shorthand for Sweeps().Trigger
func (c *Client) TriggerSweep(ctx context.Context) (*SweepRun, error) {
	return c.Sweeps().Trigger(ctx)
}

// ListSweepRuns is a shorthand for Sweeps().History
func (c *Client) ListSweepRuns(ctx context.Context, limit int) ([]SweepRun, error) {
	return c.Sweeps().History(ctx, limit)
}
