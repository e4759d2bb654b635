package sweep

import "time"

// Result counts what a single sweep did
type Result struct {
	Scanned int `json:"scanned"`
	Expired int `json:"expired"`
	// Skipped rows were already moved out of ACTIVE by another writer
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// Add accumulates another batch into r
func (r *Result) Add(other Result) {
	r.Scanned += other.Scanned
	r.Expired += other.Expired
	r.Skipped += other.Skipped
	r.Failed += other.Failed
}

// Run records one execution of the expiration sweeper
type Run struct {
	ID           string     `json:"id"`
	Trigger      Trigger    `json:"trigger"`
	Status       Status     `json:"status"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	DurationMs   int64      `json:"duration_ms"`
	Result       Result     `json:"result"`
	ErrorMessage string     `json:"error_message,omitempty"`
}

// Trigger records what started a run
type Trigger string

const (
	TriggerScheduled Trigger = "SCHEDULED"
	TriggerManual    Trigger = "MANUAL"
)

// Status of a sweep run
type Status string

const (
	StatusRunning   Status = "RUNNING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// IsTerminal checks if the run has finished
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Finish stamps the run as done at the given instant
func (r *Run) Finish(at time.Time, err error) {
	r.CompletedAt = &at
	r.DurationMs = at.Sub(r.StartedAt).Milliseconds()
	if err != nil {
		r.Status = StatusFailed
		r.ErrorMessage = err.Error()
		return
	}
	r.Status = StatusCompleted
}
