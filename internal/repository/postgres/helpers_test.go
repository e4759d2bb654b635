package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/pratik-mahalle/trainhub/internal/domain/account"
	"github.com/pratik-mahalle/trainhub/internal/domain/organization"
	"github.com/pratik-mahalle/trainhub/internal/domain/plan"
	"github.com/pratik-mahalle/trainhub/internal/domain/subscription"
)

func seedPersonalAccount(t *testing.T, db *sql.DB, userID string) *account.Account {
	t.Helper()
	a := account.NewPersonal(userID)
	if err := NewAccountRepository(db).Create(context.Background(), a); err != nil {
		t.Fatalf("seed personal account: %v", err)
	}
	return a
}

func seedOrganization(t *testing.T, db *sql.DB, cnpj string) *organization.Organization {
	t.Helper()
	o := &organization.Organization{RazaoSocial: "Acme Treinamentos LTDA", CNPJ: cnpj}
	if err := NewOrganizationRepository(db).CreateWithAccount(context.Background(), o, &account.Account{}); err != nil {
		t.Fatalf("seed organization: %v", err)
	}
	return o
}

func seedPlan(t *testing.T, db *sql.DB, name string, days int, trainings ...string) *plan.Plan {
	t.Helper()
	p := &plan.Plan{
		Name:               name,
		OriginalPriceCents: 19900,
		CurrentPriceCents:  14900,
		DurationInDays:     days,
		IsActive:           true,
		TrainingIDs:        trainings,
	}
	if err := NewPlanRepository(db).Create(context.Background(), p); err != nil {
		t.Fatalf("seed plan: %v", err)
	}
	return p
}

func seedSubscription(t *testing.T, db *sql.DB, accountID, planID string, start, end time.Time) *subscription.Subscription {
	t.Helper()
	s := &subscription.Subscription{
		AccountID: accountID,
		PlanID:    planID,
		StartDate: start,
		EndDate:   end,
		Status:    subscription.StatusActive,
		Origin:    subscription.OriginPurchase,
	}
	if err := NewSubscriptionRepository(db).Create(context.Background(), s); err != nil {
		t.Fatalf("seed subscription: %v", err)
	}
	return s
}
