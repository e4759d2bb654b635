package postgres

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/pratik-mahalle/trainhub/internal/domain/account"
	"github.com/pratik-mahalle/trainhub/internal/domain/membership"
	"github.com/pratik-mahalle/trainhub/internal/domain/subscription"
	"github.com/pratik-mahalle/trainhub/internal/testutil"
)

func TestEntitlementRepository_Snapshot(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	repo := NewEntitlementRepository(db)
	ctx := context.Background()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	personal := seedPersonalAccount(t, db, "user-1")
	org := seedOrganization(t, db, "12345678000195")
	other := seedOrganization(t, db, "98765432000198")
	if err := NewMembershipRepository(db).Create(ctx, &membership.Membership{
		UserID: "user-1", OrganizationID: org.ID, Role: membership.RoleOrgMember,
	}); err != nil {
		t.Fatalf("seed membership: %v", err)
	}

	nr10 := seedPlan(t, db, "NR-10", 30, "nr-10")
	bundle := seedPlan(t, db, "Bundle", 365, "nr-10", "nr-35")

	personalSub := seedSubscription(t, db, personal.ID, nr10.ID, start, nr10.EndFor(start))
	orgSub := seedSubscription(t, db, org.AccountID, bundle.ID, start, bundle.EndFor(start))
	seedSubscription(t, db, other.AccountID, bundle.ID, start, bundle.EndFor(start))

	snap, err := repo.Snapshot(ctx, "user-1", "")
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if len(snap.Accounts) != 2 {
		t.Fatalf("Accounts = %+v, want personal and org account", snap.Accounts)
	}
	if snap.Accounts[0].Kind != account.KindPersonal {
		t.Errorf("personal account should come first: %+v", snap.Accounts)
	}
	if !reflect.DeepEqual(snap.OrganizationIDs, []string{org.ID}) {
		t.Errorf("OrganizationIDs = %v", snap.OrganizationIDs)
	}
	if len(snap.Grants) != 2 {
		t.Fatalf("Grants = %d, want 2", len(snap.Grants))
	}

	snap, err = repo.Snapshot(ctx, "user-1", "nr-35")
	if err != nil {
		t.Fatalf("Snapshot(nr-35) error = %v", err)
	}
	if len(snap.Grants) != 1 || snap.Grants[0].Subscription.ID != orgSub.ID {
		t.Fatalf("Snapshot(nr-35) grants = %+v, want the org subscription", snap.Grants)
	}
	if !reflect.DeepEqual(snap.Grants[0].TrainingIDs, []string{"nr-35"}) {
		t.Errorf("TrainingIDs = %v", snap.Grants[0].TrainingIDs)
	}

	// Terminal subscriptions are not candidates
	if _, err := NewSubscriptionRepository(db).Transition(ctx, personalSub.ID,
		subscription.StatusActive, subscription.StatusCanceled, start.Add(time.Hour)); err != nil {
		t.Fatalf("Transition() error = %v", err)
	}
	snap, err = repo.Snapshot(ctx, "user-1", "nr-10")
	if err != nil {
		t.Fatalf("Snapshot(nr-10) error = %v", err)
	}
	if len(snap.Grants) != 1 || snap.Grants[0].Subscription.ID != orgSub.ID {
		t.Errorf("Snapshot(nr-10) after cancel = %+v", snap.Grants)
	}
}

func TestEntitlementRepository_SnapshotUnknownUser(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	repo := NewEntitlementRepository(db)

	for _, userID := range []string{"", "nobody"} {
		snap, err := repo.Snapshot(context.Background(), userID, "nr-10")
		if err != nil {
			t.Fatalf("Snapshot(%q) error = %v", userID, err)
		}
		if len(snap.Accounts) != 0 || len(snap.Grants) != 0 {
			t.Errorf("Snapshot(%q) = %+v, want empty", userID, snap)
		}
	}
}
