package organization

import (
	"context"

	"github.com/pratik-mahalle/trainhub/internal/domain/account"
)

// Repository defines the organization data access interface
type Repository interface {
	// CreateWithAccount stores the organization and its account in one transaction
	CreateWithAccount(ctx context.Context, o *Organization, a *account.Account) error
	GetByID(ctx context.Context, id string) (*Organization, error)
	GetByCNPJ(ctx context.Context, cnpj string) (*Organization, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
}
