package services

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/pratik-mahalle/trainhub/internal/domain/account"
	"github.com/pratik-mahalle/trainhub/internal/domain/entitlement"
	"github.com/pratik-mahalle/trainhub/internal/domain/subscription"
	"github.com/pratik-mahalle/trainhub/internal/pkg/logger"
	"github.com/pratik-mahalle/trainhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntitlementService_AccessPaths(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	nr10 := env.plan(t, 30, "nr-10")
	nr35 := env.plan(t, 30, "nr-35")

	// personal only
	env.subscribe(t, env.personal(t, "alice").ID, nr10.ID)
	// organization only
	org := env.organization(t, "11222333000181", "bob", "carol")
	env.subscribe(t, org.AccountID, nr35.ID)
	// both
	env.subscribe(t, env.personal(t, "carol").ID, nr10.ID)
	// neither
	env.personal(t, "dave")

	asOf := testutil.Date(2024, 1, 15, 0, 0, 0)
	tests := []struct {
		name     string
		user     string
		training string
		want     bool
		via      account.Kind
	}{
		{name: "personal grant", user: "alice", training: "nr-10", want: true, via: account.KindPersonal},
		{name: "personal plan lacks training", user: "alice", training: "nr-35", want: false},
		{name: "organizational grant", user: "bob", training: "nr-35", want: true, via: account.KindOrganizational},
		{name: "org plan lacks training", user: "bob", training: "nr-10", want: false},
		{name: "both paths, personal", user: "carol", training: "nr-10", want: true, via: account.KindPersonal},
		{name: "both paths, organizational", user: "carol", training: "nr-35", want: true, via: account.KindOrganizational},
		{name: "no path", user: "dave", training: "nr-10", want: false},
		{name: "unknown user", user: "mallory", training: "nr-10", want: false},
		{name: "unknown training", user: "alice", training: "nr-99", want: false},
		{name: "empty user", user: "", training: "nr-10", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := env.entitlements.HasAccess(ctx, tt.user, tt.training, asOf)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			d, err := env.entitlements.Resolve(ctx, tt.user, tt.training, asOf)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Granted)
			assert.Equal(t, tt.via, d.Via)
			if tt.want {
				assert.NotEmpty(t, d.SubscriptionID)
			}
		})
	}
}

func TestEntitlementService_TimeBounds(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p := env.plan(t, 30, "T1")
	sub := env.subscribe(t, env.personal(t, "alice").ID, p.ID)

	start := testutil.Date(2024, 1, 1, 0, 0, 0)
	end := testutil.Date(2024, 1, 31, 0, 0, 0)
	require.True(t, sub.EndDate.Equal(end), "end date = %v", sub.EndDate)

	tests := []struct {
		name string
		asOf time.Time
		want bool
	}{
		{name: "before start", asOf: start.Add(-time.Microsecond), want: false},
		{name: "at start", asOf: start, want: true},
		{name: "mid period", asOf: testutil.Date(2024, 1, 15, 0, 0, 0), want: true},
		{name: "exactly at end", asOf: end, want: true},
		{name: "one microsecond past end", asOf: end.Add(time.Microsecond), want: false},
		// Status is still ACTIVE here because no sweep ran
		{name: "after end, not yet swept", asOf: testutil.Date(2024, 2, 1, 0, 0, 0), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := env.entitlements.HasAccess(ctx, "alice", "T1", tt.asOf)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	stored, err := env.subscriptions.Get(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, subscription.StatusActive, stored.Status, "resolver must not mutate state")
}

func TestEntitlementService_MembershipRemovalRevokes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p := env.plan(t, 30, "nr-35")
	org := env.organization(t, "11222333000181", "admin", "bob")
	env.subscribe(t, org.AccountID, p.ID)

	asOf := testutil.Date(2024, 1, 10, 0, 0, 0)
	ok, err := env.entitlements.HasAccess(ctx, "bob", "nr-35", asOf)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, env.memberships.Remove(ctx, "bob", org.ID))

	ok, err = env.entitlements.HasAccess(ctx, "bob", "nr-35", asOf)
	require.NoError(t, err)
	assert.False(t, ok, "removed member keeps access")
}

func TestEntitlementService_CanceledDenies(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p := env.plan(t, 30, "T1")
	sub := env.subscribe(t, env.personal(t, "alice").ID, p.ID)

	env.now = testutil.Date(2024, 1, 5, 0, 0, 0)
	require.NoError(t, env.subscriptions.Cancel(ctx, sub.ID))

	ok, err := env.entitlements.HasAccess(ctx, "alice", "T1", testutil.Date(2024, 1, 10, 0, 0, 0))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEntitlementService_AccessibleTrainings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.subscribe(t, env.personal(t, "carol").ID, env.plan(t, 30, "nr-10", "nr-12").ID)
	org := env.organization(t, "11222333000181", "carol")
	env.subscribe(t, org.AccountID, env.plan(t, 365, "nr-35", "nr-10").ID)

	got, err := env.entitlements.AccessibleTrainings(ctx, "carol", testutil.Date(2024, 1, 15, 0, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, []string{"nr-10", "nr-12", "nr-35"}, got)

	// Personal plan ended, organizational one still runs
	got, err = env.entitlements.AccessibleTrainings(ctx, "carol", testutil.Date(2024, 3, 1, 0, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, []string{"nr-10", "nr-35"}, got)

	got, err = env.entitlements.AccessibleTrainings(ctx, "nobody", time.Time{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEntitlementService_IgnoresUnreachableAccounts(t *testing.T) {
	repo := testutil.NewMockEntitlementRepository()
	start := testutil.Date(2024, 1, 1, 0, 0, 0)
	grant := func(id, accountID string) entitlement.Grant {
		return entitlement.Grant{
			Subscription: subscription.Subscription{
				ID: id, AccountID: accountID, Status: subscription.StatusActive,
				StartDate: start, EndDate: start.AddDate(0, 1, 0),
			},
			TrainingIDs: []string{"T1"},
		}
	}

	// A snapshot carrying accounts the user does not own or belong to
	repo.Snapshots["alice"] = &entitlement.Snapshot{
		UserID: "alice",
		Accounts: []account.Account{
			{ID: "acc-bob", Kind: account.KindPersonal, UserID: "bob"},
			{ID: "acc-org", Kind: account.KindOrganizational, OrganizationID: "org-1"},
		},
		Grants: []entitlement.Grant{grant("s1", "acc-bob"), grant("s2", "acc-org"), grant("s3", "acc-unknown")},
	}

	svc := NewEntitlementService(repo, logger.Nop())
	ok, err := svc.HasAccess(context.Background(), "alice", "T1", start.AddDate(0, 0, 10))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEntitlementService_StorageErrorPropagates(t *testing.T) {
	repo := testutil.NewMockEntitlementRepository()
	repo.SnapshotError = stderrors.New("connection refused")

	svc := NewEntitlementService(repo, logger.Nop())
	ok, err := svc.HasAccess(context.Background(), "alice", "T1", time.Now())
	assert.Error(t, err)
	assert.False(t, ok)

	// Empty identifiers never reach storage
	_, err = svc.HasAccess(context.Background(), "", "T1", time.Now())
	assert.NoError(t, err)
	assert.Equal(t, 1, repo.Calls)
}
