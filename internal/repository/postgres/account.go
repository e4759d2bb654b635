package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pratik-mahalle/trainhub/internal/domain/account"
	"github.com/pratik-mahalle/trainhub/internal/pkg/errors"
)

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// AccountRepository implements account.Repository
type AccountRepository struct {
	store
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *sql.DB) account.Repository {
	return &AccountRepository{store: newStore(db)}
}

const accountColumns = `id, kind, user_id, organization_id, created_at`

// Create inserts a new account
func (r *AccountRepository) Create(ctx context.Context, a *account.Account) error {
	return insertAccount(ctx, r.store, r.db, a)
}

func insertAccount(ctx context.Context, s store, q querier, a *account.Account) error {
	if err := a.Validate(); err != nil {
		return errors.ValidationError("Invalid account", err.Error())
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	a.CreatedAt = time.Now().UTC()

	_, err := q.ExecContext(ctx, s.rebind(`
		INSERT INTO accounts (`+accountColumns+`)
		VALUES (?, ?, ?, ?, ?)
	`), a.ID, string(a.Kind), nullableString(a.UserID), nullableString(a.OrganizationID), toMicros(a.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Conflict("Account already exists for this owner")
		}
		return errors.DatabaseError("Failed to create account", err)
	}
	return nil
}

// GetByID retrieves an account by ID
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*account.Account, error) {
	row := r.db.QueryRowContext(ctx, r.rebind(`SELECT `+accountColumns+` FROM accounts WHERE id = ?`), id)
	return scanAccount(row)
}

// GetPersonal retrieves the personal account of a user
func (r *AccountRepository) GetPersonal(ctx context.Context, userID string) (*account.Account, error) {
	row := r.db.QueryRowContext(ctx, r.rebind(`
		SELECT `+accountColumns+` FROM accounts WHERE kind = ? AND user_id = ?
	`), string(account.KindPersonal), userID)
	return scanAccount(row)
}

// GetByOrganization retrieves the account owned by an organization
func (r *AccountRepository) GetByOrganization(ctx context.Context, organizationID string) (*account.Account, error) {
	row := r.db.QueryRowContext(ctx, r.rebind(`
		SELECT `+accountColumns+` FROM accounts WHERE kind = ? AND organization_id = ?
	`), string(account.KindOrganizational), organizationID)
	return scanAccount(row)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAccount(row rowScanner) (*account.Account, error) {
	var a account.Account
	var kind string
	var userID, orgID sql.NullString
	var createdAt int64

	err := row.Scan(&a.ID, &kind, &userID, &orgID, &createdAt)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Account")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get account", err)
	}

	a.Kind = account.Kind(kind)
	a.UserID = userID.String
	a.OrganizationID = orgID.String
	a.CreatedAt = fromMicros(createdAt)
	return &a, nil
}
