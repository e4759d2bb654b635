package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/pratik-mahalle/trainhub/internal/domain/account"
	"github.com/pratik-mahalle/trainhub/internal/domain/entitlement"
	"github.com/pratik-mahalle/trainhub/internal/domain/plan"
	"github.com/pratik-mahalle/trainhub/internal/domain/subscription"
	"github.com/pratik-mahalle/trainhub/internal/pkg/errors"
)

// MockAccountRepository is a mock implementation of account.Repository
type MockAccountRepository struct {
	mu          sync.Mutex
	Accounts    map[string]*account.Account
	NextID      int
	CreateError error
	GetError    error
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		Accounts: make(map[string]*account.Account),
		NextID:   1,
	}
}

func (m *MockAccountRepository) Create(ctx context.Context, a *account.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateError != nil {
		return m.CreateError
	}
	for _, existing := range m.Accounts {
		if existing.Kind == a.Kind && existing.Owner() == a.Owner() {
			return errors.Conflict("Account already exists for this owner")
		}
	}
	if a.ID == "" {
		a.ID = fmt.Sprintf("acc-%d", m.NextID)
		m.NextID++
	}
	m.Accounts[a.ID] = a
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*account.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetError != nil {
		return nil, m.GetError
	}
	a, ok := m.Accounts[id]
	if !ok {
		return nil, errors.NotFound("Account")
	}
	return a, nil
}

func (m *MockAccountRepository) GetPersonal(ctx context.Context, userID string) (*account.Account, error) {
	return m.find(account.KindPersonal, userID)
}

func (m *MockAccountRepository) GetByOrganization(ctx context.Context, organizationID string) (*account.Account, error) {
	return m.find(account.KindOrganizational, organizationID)
}

func (m *MockAccountRepository) find(kind account.Kind, owner string) (*account.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetError != nil {
		return nil, m.GetError
	}
	for _, a := range m.Accounts {
		if a.Kind == kind && a.Owner() == owner {
			return a, nil
		}
	}
	return nil, errors.NotFound("Account")
}

// MockPlanRepository is a mock implementation of plan.Repository
type MockPlanRepository struct {
	mu          sync.Mutex
	Plans       map[string]*plan.Plan
	NextID      int
	CreateError error
	GetError    error
}

func NewMockPlanRepository() *MockPlanRepository {
	return &MockPlanRepository{
		Plans:  make(map[string]*plan.Plan),
		NextID: 1,
	}
}

func (m *MockPlanRepository) Create(ctx context.Context, p *plan.Plan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateError != nil {
		return m.CreateError
	}
	if p.ID == "" {
		p.ID = fmt.Sprintf("plan-%d", m.NextID)
		m.NextID++
	}
	m.Plans[p.ID] = p
	return nil
}

func (m *MockPlanRepository) GetByID(ctx context.Context, id string) (*plan.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetError != nil {
		return nil, m.GetError
	}
	p, ok := m.Plans[id]
	if !ok {
		return nil, errors.NotFound("Plan")
	}
	return p, nil
}

func (m *MockPlanRepository) List(ctx context.Context, activeOnly bool) ([]*plan.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*plan.Plan
	for _, p := range m.Plans {
		if activeOnly && !p.IsActive {
			continue
		}
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *MockPlanRepository) SetActive(ctx context.Context, id string, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.Plans[id]
	if !ok {
		return errors.NotFound("Plan")
	}
	p.IsActive = active
	return nil
}

func (m *MockPlanRepository) SetTrainings(ctx context.Context, id string, trainingIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.Plans[id]
	if !ok {
		return errors.NotFound("Plan")
	}
	p.TrainingIDs = append([]string(nil), trainingIDs...)
	return nil
}

// MockSubscriptionRepository is a mock implementation of subscription.Repository.
// TransitionErrors fails Transition for specific subscription ids.
type MockSubscriptionRepository struct {
	mu               sync.Mutex
	Subscriptions    map[string]*subscription.Subscription
	NextID           int
	CreateError      error
	ListError        error
	TransitionErrors map[string]error
	TransitionCalls  int
}

func NewMockSubscriptionRepository() *MockSubscriptionRepository {
	return &MockSubscriptionRepository{
		Subscriptions:    make(map[string]*subscription.Subscription),
		TransitionErrors: make(map[string]error),
		NextID:           1,
	}
}

func (m *MockSubscriptionRepository) Create(ctx context.Context, s *subscription.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateError != nil {
		return m.CreateError
	}
	for _, existing := range m.Subscriptions {
		if existing.AccountID == s.AccountID && existing.Status == subscription.StatusActive {
			return errors.Conflict("Account already has an active subscription")
		}
	}
	if s.ID == "" {
		s.ID = fmt.Sprintf("sub-%d", m.NextID)
		m.NextID++
	}
	if s.Status == "" {
		s.Status = subscription.StatusActive
	}
	m.Subscriptions[s.ID] = s
	return nil
}

func (m *MockSubscriptionRepository) GetByID(ctx context.Context, id string) (*subscription.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.Subscriptions[id]
	if !ok {
		return nil, errors.NotFound("Subscription")
	}
	copied := *s
	return &copied, nil
}

func (m *MockSubscriptionRepository) GetActiveByAccount(ctx context.Context, accountID string) (*subscription.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.Subscriptions {
		if s.AccountID == accountID && s.Status == subscription.StatusActive {
			copied := *s
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *MockSubscriptionRepository) ListByAccount(ctx context.Context, accountID string) ([]*subscription.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*subscription.Subscription
	for _, s := range m.Subscriptions {
		if s.AccountID == accountID {
			copied := *s
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartDate.After(result[j].StartDate) })
	return result, nil
}

func (m *MockSubscriptionRepository) ListExpirable(ctx context.Context, now time.Time, limit int) ([]*subscription.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListError != nil {
		return nil, m.ListError
	}
	var result []*subscription.Subscription
	for _, s := range m.Subscriptions {
		if s.Status == subscription.StatusActive && s.EndDate.Before(now) {
			copied := *s
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].EndDate.Equal(result[j].EndDate) {
			return result[i].ID < result[j].ID
		}
		return result[i].EndDate.Before(result[j].EndDate)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *MockSubscriptionRepository) Transition(ctx context.Context, id string, from, to subscription.Status, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TransitionCalls++
	if err := m.TransitionErrors[id]; err != nil {
		return false, err
	}
	s, ok := m.Subscriptions[id]
	if !ok || s.Status != from {
		return false, nil
	}
	s.Status = to
	stamp := at
	switch to {
	case subscription.StatusExpired:
		s.ExpiredAt = &stamp
	case subscription.StatusCanceled:
		s.CanceledAt = &stamp
	}
	return true, nil
}

// MockEntitlementRepository is a mock implementation of entitlement.Repository
// returning a fixed snapshot per user
type MockEntitlementRepository struct {
	Snapshots     map[string]*entitlement.Snapshot
	SnapshotError error
	Calls         int
}

func NewMockEntitlementRepository() *MockEntitlementRepository {
	return &MockEntitlementRepository{Snapshots: make(map[string]*entitlement.Snapshot)}
}

func (m *MockEntitlementRepository) Snapshot(ctx context.Context, userID, trainingID string) (*entitlement.Snapshot, error) {
	m.Calls++
	if m.SnapshotError != nil {
		return nil, m.SnapshotError
	}
	snap, ok := m.Snapshots[userID]
	if !ok {
		return &entitlement.Snapshot{UserID: userID}, nil
	}
	if trainingID == "" {
		return snap, nil
	}

	filtered := &entitlement.Snapshot{
		UserID:          snap.UserID,
		Accounts:        snap.Accounts,
		OrganizationIDs: snap.OrganizationIDs,
	}
	for _, g := range snap.Grants {
		for _, id := range g.TrainingIDs {
			if id == trainingID {
				filtered.Grants = append(filtered.Grants, entitlement.Grant{
					Subscription: g.Subscription,
					TrainingIDs:  []string{trainingID},
				})
				break
			}
		}
	}
	return filtered, nil
}
