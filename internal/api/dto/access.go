package dto

import (
	"time"

	"github.com/pratik-mahalle/trainhub/internal/domain/entitlement"
	"github.com/pratik-mahalle/trainhub/internal/domain/sweep"
)

// AccessDecisionDTO is the answer to an access check
type AccessDecisionDTO struct {
	UserID         string    `json:"userId"`
	TrainingID     string    `json:"trainingId"`
	Granted        bool      `json:"granted"`
	Via            string    `json:"via,omitempty"`
	AccountID      string    `json:"accountId,omitempty"`
	OrganizationID string    `json:"organizationId,omitempty"`
	SubscriptionID string    `json:"subscriptionId,omitempty"`
	AsOf           time.Time `json:"asOf"`
}

// AccessibleTrainingsDTO lists the trainings a user can open
type AccessibleTrainingsDTO struct {
	UserID      string    `json:"userId"`
	TrainingIDs []string  `json:"trainingIds"`
	AsOf        time.Time `json:"asOf"`
}

// TrainingContentDTO is returned once the paywall lets a request through
type TrainingContentDTO struct {
	TrainingID string `json:"trainingId"`
	StreamURL  string `json:"streamUrl"`
}

// SweepRunDTO represents a sweeper run
type SweepRunDTO struct {
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

// NewAccessDecisionDTO maps an entitlement decision
func NewAccessDecisionDTO(userID, trainingID string, asOf time.Time, d *entitlement.Decision) AccessDecisionDTO {
	return AccessDecisionDTO{
		UserID:         userID,
		TrainingID:     trainingID,
		Granted:        d.Granted,
		Via:            string(d.Via),
		AccountID:      d.AccountID,
		OrganizationID: d.OrganizationID,
		SubscriptionID: d.SubscriptionID,
		AsOf:           asOf,
	}
}

// NewSweepRunDTO maps a sweep run
func NewSweepRunDTO(r *sweep.Run) SweepRunDTO {
	return SweepRunDTO{
		ID:           r.ID,
		Trigger:      string(r.Trigger),
		Status:       string(r.Status),
		StartedAt:    r.StartedAt,
		CompletedAt:  r.CompletedAt,
		DurationMs:   r.DurationMs,
		Scanned:      r.Result.Scanned,
		Expired:      r.Result.Expired,
		Skipped:      r.Result.Skipped,
		Failed:       r.Result.Failed,
		ErrorMessage: r.ErrorMessage,
	}
}
