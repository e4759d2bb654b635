package organization

import "time"

// Organization is a legal entity that owns exactly one account
type Organization struct {
	ID          string    `json:"id"`
	RazaoSocial string    `json:"razao_social" validate:"required,max=255"`
	CNPJ        string    `json:"cnpj" validate:"required,cnpj"`
	Status      Status    `json:"status"`
	AccountID   string    `json:"account_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Status of an organization
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusSuspended Status = "SUSPENDED"
)

// IsValid checks if the status is known
func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusSuspended
}
