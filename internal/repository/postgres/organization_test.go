package postgres

import (
	"context"
	"testing"

	"github.com/pratik-mahalle/trainhub/internal/domain/account"
	"github.com/pratik-mahalle/trainhub/internal/domain/organization"
	"github.com/pratik-mahalle/trainhub/internal/pkg/errors"
	"github.com/pratik-mahalle/trainhub/internal/testutil"
)

func TestOrganizationRepository_CreateWithAccount(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	repo := NewOrganizationRepository(db)
	ctx := context.Background()

	o := &organization.Organization{RazaoSocial: "Acme Treinamentos LTDA", CNPJ: "12345678000195"}
	a := &account.Account{}
	if err := repo.CreateWithAccount(ctx, o, a); err != nil {
		t.Fatalf("CreateWithAccount() error = %v", err)
	}

	if o.ID == "" || a.ID == "" {
		t.Fatal("CreateWithAccount() did not set ids")
	}
	if o.Status != organization.StatusActive {
		t.Errorf("Status = %s, want ACTIVE", o.Status)
	}
	if o.AccountID != a.ID || a.OrganizationID != o.ID || a.Kind != account.KindOrganizational {
		t.Errorf("organization and account not linked: org=%+v account=%+v", o, a)
	}

	got, err := repo.GetByCNPJ(ctx, "12345678000195")
	if err != nil {
		t.Fatalf("GetByCNPJ() error = %v", err)
	}
	if got.ID != o.ID || got.AccountID != a.ID {
		t.Errorf("GetByCNPJ() = %+v", got)
	}
}

func TestOrganizationRepository_DuplicateCNPJ(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	repo := NewOrganizationRepository(db)
	ctx := context.Background()

	seedOrganization(t, db, "12345678000195")

	dup := &organization.Organization{RazaoSocial: "Other", CNPJ: "12345678000195"}
	err := repo.CreateWithAccount(ctx, dup, &account.Account{})
	if !errors.IsConflict(err) {
		t.Fatalf("CreateWithAccount() error = %v, want conflict", err)
	}

	var accounts int
	if err := db.QueryRow(`SELECT COUNT(*) FROM accounts`).Scan(&accounts); err != nil {
		t.Fatalf("count accounts: %v", err)
	}
	if accounts != 1 {
		t.Errorf("accounts = %d, want 1 (failed create must not leave an account)", accounts)
	}
}

func TestOrganizationRepository_UpdateStatus(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	repo := NewOrganizationRepository(db)
	ctx := context.Background()
	o := seedOrganization(t, db, "12345678000195")

	if err := repo.UpdateStatus(ctx, o.ID, organization.StatusSuspended); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}

	got, err := repo.GetByID(ctx, o.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Status != organization.StatusSuspended {
		t.Errorf("Status = %s, want SUSPENDED", got.Status)
	}

	if err := repo.UpdateStatus(ctx, "missing", organization.StatusActive); !errors.IsNotFound(err) {
		t.Errorf("UpdateStatus(missing) error = %v, want not found", err)
	}
}
