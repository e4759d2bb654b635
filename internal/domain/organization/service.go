package organization

import "context"

// Service defines the organization business logic interface
type Service interface {
	Create(ctx context.Context, razaoSocial, cnpj string) (*Organization, error)
	Get(ctx context.Context, id string) (*Organization, error)
	GetByCNPJ(ctx context.Context, cnpj string) (*Organization, error)
	Suspend(ctx context.Context, id string) error
	Activate(ctx context.Context, id string) error
}
