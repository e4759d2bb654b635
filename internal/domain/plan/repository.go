package plan

import "context"

// Repository defines the plan data access interface
type Repository interface {
	// Create stores the plan together with its training set
	Create(ctx context.Context, p *Plan) error
	GetByID(ctx context.Context, id string) (*Plan, error)
	List(ctx context.Context, activeOnly bool) ([]*Plan, error)
	SetActive(ctx context.Context, id string, active bool) error
	// SetTrainings replaces the training set of a plan
	SetTrainings(ctx context.Context, id string, trainingIDs []string) error
}
