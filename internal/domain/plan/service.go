package plan

import "context"

// Service defines the plan catalog business logic interface
type Service interface {
	Create(ctx context.Context, p *Plan) (*Plan, error)
	Get(ctx context.Context, id string) (*Plan, error)
	List(ctx context.Context, activeOnly bool) ([]*Plan, error)
	Deactivate(ctx context.Context, id string) error
	SetTrainings(ctx context.Context, id string, trainingIDs []string) (*Plan, error)
}
