package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pratik-mahalle/trainhub/internal/domain/membership"
	"github.com/pratik-mahalle/trainhub/internal/pkg/errors"
)

// MembershipRepository implements membership.Repository
type MembershipRepository struct {
	store
}

// NewMembershipRepository creates a new membership repository
func NewMembershipRepository(db *sql.DB) membership.Repository {
	return &MembershipRepository{store: newStore(db)}
}

const membershipColumns = `id, user_id, organization_id, role, created_at`

// Create adds a user to an organization
func (r *MembershipRepository) Create(ctx context.Context, m *membership.Membership) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	m.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, r.rebind(`
		INSERT INTO memberships (`+membershipColumns+`)
		VALUES (?, ?, ?, ?, ?)
	`), m.ID, m.UserID, m.OrganizationID, string(m.Role), toMicros(m.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Conflict("User is already a member of this organization")
		}
		return errors.DatabaseError("Failed to create membership", err)
	}
	return nil
}

// Get retrieves the membership of a user in an organization
func (r *MembershipRepository) Get(ctx context.Context, userID, organizationID string) (*membership.Membership, error) {
	row := r.db.QueryRowContext(ctx, r.rebind(`
		SELECT `+membershipColumns+` FROM memberships WHERE user_id = ? AND organization_id = ?
	`), userID, organizationID)
	return scanMembership(row)
}

// ListByUser returns every membership held by a user
func (r *MembershipRepository) ListByUser(ctx context.Context, userID string) ([]*membership.Membership, error) {
	return r.list(ctx, `WHERE user_id = ? ORDER BY created_at, id`, userID)
}

// ListByOrganization returns every member of an organization
func (r *MembershipRepository) ListByOrganization(ctx context.Context, organizationID string) ([]*membership.Membership, error) {
	return r.list(ctx, `WHERE organization_id = ? ORDER BY created_at, id`, organizationID)
}

func (r *MembershipRepository) list(ctx context.Context, where string, arg string) ([]*membership.Membership, error) {
	rows, err := r.db.QueryContext(ctx, r.rebind(`SELECT `+membershipColumns+` FROM memberships `+where), arg)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list memberships", err)
	}
	defer rows.Close()

	var memberships []*membership.Membership
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, err
		}
		memberships = append(memberships, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to list memberships", err)
	}
	return memberships, nil
}

// Delete removes a membership unless it is the last ORG_ADMIN of the organization
func (r *MembershipRepository) Delete(ctx context.Context, userID, organizationID string) error {
	return r.withTx(ctx, nil, func(tx *sql.Tx) error {
		if err := r.guardLastAdmin(ctx, tx, userID, organizationID); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, r.rebind(`
			DELETE FROM memberships WHERE user_id = ? AND organization_id = ?
		`), userID, organizationID)
		if err != nil {
			return errors.DatabaseError("Failed to delete membership", err)
		}
		if n, _ := result.RowsAffected(); n == 0 {
			return errors.NotFound("Membership")
		}
		return nil
	})
}

// UpdateRole changes a member's role; demoting the last ORG_ADMIN is refused
func (r *MembershipRepository) UpdateRole(ctx context.Context, userID, organizationID string, role membership.Role) error {
	return r.withTx(ctx, nil, func(tx *sql.Tx) error {
		if role != membership.RoleOrgAdmin {
			if err := r.guardLastAdmin(ctx, tx, userID, organizationID); err != nil {
				return err
			}
		}

		result, err := tx.ExecContext(ctx, r.rebind(`
			UPDATE memberships SET role = ? WHERE user_id = ? AND organization_id = ?
		`), string(role), userID, organizationID)
		if err != nil {
			return errors.DatabaseError("Failed to update membership", err)
		}
		if n, _ := result.RowsAffected(); n == 0 {
			return errors.NotFound("Membership")
		}
		return nil
	})
}

// guardLastAdmin refuses the change when userID is the only ORG_ADMIN left.
// The admin rows are locked on postgres so two concurrent demotions serialize.
func (r *MembershipRepository) guardLastAdmin(ctx context.Context, tx *sql.Tx, userID, organizationID string) error {
	query := `SELECT user_id FROM memberships WHERE organization_id = ? AND role = ?`
	if r.postgres {
		query += ` FOR UPDATE`
	}

	rows, err := tx.QueryContext(ctx, r.rebind(query), organizationID, string(membership.RoleOrgAdmin))
	if err != nil {
		return errors.DatabaseError("Failed to count organization admins", err)
	}
	defer rows.Close()

	admins := 0
	isAdmin := false
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return errors.DatabaseError("Failed to count organization admins", err)
		}
		admins++
		if id == userID {
			isAdmin = true
		}
	}
	if err := rows.Err(); err != nil {
		return errors.DatabaseError("Failed to count organization admins", err)
	}

	if isAdmin && admins == 1 {
		return errors.InvalidState("Organization must keep at least one ORG_ADMIN")
	}
	return nil
}

func scanMembership(row rowScanner) (*membership.Membership, error) {
	var m membership.Membership
	var role string
	var createdAt int64

	err := row.Scan(&m.ID, &m.UserID, &m.OrganizationID, &role, &createdAt)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Membership")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get membership", err)
	}

	m.Role = membership.Role(role)
	m.CreatedAt = fromMicros(createdAt)
	return &m, nil
}
