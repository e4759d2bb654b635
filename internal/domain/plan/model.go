package plan

import "time"

// Plan is a purchasable catalog entry granting access to a set of trainings
type Plan struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name" validate:"required,max=255"`
	OriginalPriceCents int64     `json:"original_price_cents" validate:"gte=0"`
	CurrentPriceCents  int64     `json:"current_price_cents" validate:"gte=0"`
	DurationInDays     int       `json:"duration_in_days" validate:"gt=0"`
	IsActive           bool      `json:"is_active"`
	TrainingIDs        []string  `json:"training_ids" validate:"dive,required"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Duration returns how long a subscription to this plan lasts
func (p *Plan) Duration() time.Duration {
	return time.Duration(p.DurationInDays) * 24 * time.Hour
}

// EndFor computes the end instant of a subscription starting at start
func (p *Plan) EndFor(start time.Time) time.Time {
	return start.Add(p.Duration())
}

// Grants reports whether the plan includes the training
func (p *Plan) Grants(trainingID string) bool {
	for _, id := range p.TrainingIDs {
		if id == trainingID {
			return true
		}
	}
	return false
}
