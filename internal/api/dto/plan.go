package dto

import (
	"time"

	"github.com/pratik-mahalle/trainhub/internal/domain/plan"
)

// PlanDTO represents a catalog plan in API responses
type PlanDTO struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	OriginalPriceCents int64     `json:"originalPriceCents"`
	CurrentPriceCents  int64     `json:"currentPriceCents"`
	DurationInDays     int       `json:"durationInDays"`
	IsActive           bool      `json:"isActive"`
	TrainingIDs        []string  `json:"trainingIds"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// CreatePlanRequest represents a plan creation request
type CreatePlanRequest struct {
	Name               string   `json:"name" validate:"required,max=255"`
	OriginalPriceCents int64    `json:"originalPriceCents" validate:"gte=0"`
	CurrentPriceCents  int64    `json:"currentPriceCents" validate:"gte=0"`
	DurationInDays     int      `json:"durationInDays" validate:"required,gt=0"`
	TrainingIDs        []string `json:"trainingIds" validate:"dive,required"`
}

// SetPlanTrainingsRequest replaces the trainings a plan grants
type SetPlanTrainingsRequest struct {
	TrainingIDs []string `json:"trainingIds" validate:"dive,required"`
}

// ToPlan builds the domain plan from the request
func (r CreatePlanRequest) ToPlan() *plan.Plan {
	return &plan.Plan{
		Name:               r.Name,
		OriginalPriceCents: r.OriginalPriceCents,
		CurrentPriceCents:  r.CurrentPriceCents,
		DurationInDays:     r.DurationInDays,
		TrainingIDs:        r.TrainingIDs,
	}
}

// NewPlanDTO maps a domain plan
func NewPlanDTO(p *plan.Plan) PlanDTO {
	trainings := p.TrainingIDs
	if trainings == nil {
		trainings = []string{}
	}
	return PlanDTO{
		ID:                 p.ID,
		Name:               p.Name,
		OriginalPriceCents: p.OriginalPriceCents,
		CurrentPriceCents:  p.CurrentPriceCents,
		DurationInDays:     p.DurationInDays,
		IsActive:           p.IsActive,
		TrainingIDs:        trainings,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}
