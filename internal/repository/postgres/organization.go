package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pratik-mahalle/trainhub/internal/domain/account"
	"github.com/pratik-mahalle/trainhub/internal/domain/organization"
	"github.com/pratik-mahalle/trainhub/internal/pkg/errors"
)

// OrganizationRepository implements organization.Repository
type OrganizationRepository struct {
	store
}

// NewOrganizationRepository creates a new organization repository
func NewOrganizationRepository(db *sql.DB) organization.Repository {
	return &OrganizationRepository{store: newStore(db)}
}

// CreateWithAccount stores the organization and its owning account atomically
func (r *OrganizationRepository) CreateWithAccount(ctx context.Context, o *organization.Organization, a *account.Account) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	if o.Status == "" {
		o.Status = organization.StatusActive
	}
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now

	a.Kind = account.KindOrganizational
	a.OrganizationID = o.ID
	a.UserID = ""

	err := r.withTx(ctx, nil, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, r.rebind(`
			INSERT INTO organizations (id, razao_social, cnpj, status, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`), o.ID, o.RazaoSocial, o.CNPJ, string(o.Status), toMicros(now), toMicros(now))
		if err != nil {
			if isUniqueViolation(err) {
				return errors.Conflict("An organization with this CNPJ already exists")
			}
			return errors.DatabaseError("Failed to create organization", err)
		}
		return insertAccount(ctx, r.store, tx, a)
	})
	if err != nil {
		return err
	}

	o.AccountID = a.ID
	return nil
}

const organizationSelect = `
	SELECT o.id, o.razao_social, o.cnpj, o.status, o.created_at, o.updated_at, COALESCE(a.id, '')
	FROM organizations o
	LEFT JOIN accounts a ON a.organization_id = o.id
`

// GetByID retrieves an organization by ID
func (r *OrganizationRepository) GetByID(ctx context.Context, id string) (*organization.Organization, error) {
	row := r.db.QueryRowContext(ctx, r.rebind(organizationSelect+` WHERE o.id = ?`), id)
	return scanOrganization(row)
}

// GetByCNPJ retrieves an organization by its CNPJ
func (r *OrganizationRepository) GetByCNPJ(ctx context.Context, cnpj string) (*organization.Organization, error) {
	row := r.db.QueryRowContext(ctx, r.rebind(organizationSelect+` WHERE o.cnpj = ?`), cnpj)
	return scanOrganization(row)
}

// UpdateStatus sets the organization status
func (r *OrganizationRepository) UpdateStatus(ctx context.Context, id string, status organization.Status) error {
	result, err := r.db.ExecContext(ctx, r.rebind(`
		UPDATE organizations SET status = ?, updated_at = ? WHERE id = ?
	`), string(status), toMicros(time.Now()), id)
	if err != nil {
		return errors.DatabaseError("Failed to update organization", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return errors.NotFound("Organization")
	}
	return nil
}

func scanOrganization(row rowScanner) (*organization.Organization, error) {
	var o organization.Organization
	var status string
	var createdAt, updatedAt int64

	err := row.Scan(&o.ID, &o.RazaoSocial, &o.CNPJ, &status, &createdAt, &updatedAt, &o.AccountID)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Organization")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get organization", err)
	}

	o.Status = organization.Status(status)
	o.CreatedAt = fromMicros(createdAt)
	o.UpdatedAt = fromMicros(updatedAt)
	return &o, nil
}
