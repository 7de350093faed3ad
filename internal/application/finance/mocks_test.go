package finance

import (
	"context"

	"github.com/dukkan/backend/internal/domain/finance"
	"github.com/dukkan/backend/internal/domain/identity"
	"github.com/dukkan/backend/internal/domain/partner"
	"github.com/dukkan/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// mockRepos bundles the mock repositories behind TransactionalRepositories
// and plugs into NoOpTransactionScope for service tests.
type mockRepos struct {
	accounts  *MockAccountRepository
	ledger    *MockAccountMovementRepository
	payments  *MockPaymentRepository
	customers *MockCustomerRepository
}

func newMockRepos() *mockRepos {
	return &mockRepos{
		accounts:  new(MockAccountRepository),
		ledger:    new(MockAccountMovementRepository),
		payments:  new(MockPaymentRepository),
		customers: new(MockCustomerRepository),
	}
}

func (r *mockRepos) Accounts() finance.AccountRepository { return r.accounts }
func (r *mockRepos) AccountMovements() finance.AccountMovementRepository {
	return r.ledger
}
func (r *mockRepos) Payments() finance.PaymentRepository   { return r.payments }
func (r *mockRepos) Customers() partner.CustomerRepository { return r.customers }

// MockAccountRepository mocks finance.AccountRepository
type MockAccountRepository struct{ mock.Mock }

func (m *MockAccountRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.Account, error) {
	args := m.Called(ctx, tenantID, id)
	if a := args.Get(0); a != nil {
		return a.(*finance.Account), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockAccountRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.Account, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]finance.Account), args.Error(1)
}
func (m *MockAccountRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockAccountRepository) Save(ctx context.Context, account *finance.Account) error {
	return m.Called(ctx, account).Error(0)
}
func (m *MockAccountRepository) SaveWithLock(ctx context.Context, account *finance.Account, expectedVersion int) error {
	return m.Called(ctx, account, expectedVersion).Error(0)
}

// MockAccountMovementRepository mocks finance.AccountMovementRepository
type MockAccountMovementRepository struct{ mock.Mock }

func (m *MockAccountMovementRepository) FindByAccountForTenant(ctx context.Context, tenantID, accountID uuid.UUID, filter shared.Filter) ([]finance.AccountMovement, error) {
	args := m.Called(ctx, tenantID, accountID, filter)
	return args.Get(0).([]finance.AccountMovement), args.Error(1)
}
func (m *MockAccountMovementRepository) CountByAccountForTenant(ctx context.Context, tenantID, accountID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, accountID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockAccountMovementRepository) Create(ctx context.Context, movement *finance.AccountMovement) error {
	return m.Called(ctx, movement).Error(0)
}

// MockPaymentRepository mocks finance.PaymentRepository
type MockPaymentRepository struct{ mock.Mock }

func (m *MockPaymentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.Payment, error) {
	args := m.Called(ctx, tenantID, id)
	if p := args.Get(0); p != nil {
		return p.(*finance.Payment), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockPaymentRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.Payment, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]finance.Payment), args.Error(1)
}
func (m *MockPaymentRepository) FindBySaleForTenant(ctx context.Context, tenantID, saleID uuid.UUID) ([]finance.Payment, error) {
	args := m.Called(ctx, tenantID, saleID)
	return args.Get(0).([]finance.Payment), args.Error(1)
}
func (m *MockPaymentRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockPaymentRepository) Save(ctx context.Context, payment *finance.Payment) error {
	return m.Called(ctx, payment).Error(0)
}

// MockCustomerRepository mocks partner.CustomerRepository
type MockCustomerRepository struct{ mock.Mock }

func (m *MockCustomerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, tenantID, id)
	if c := args.Get(0); c != nil {
		return c.(*partner.Customer), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockCustomerRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]partner.Customer), args.Error(1)
}
func (m *MockCustomerRepository) FindWithOpenBalanceForTenant(ctx context.Context, tenantID uuid.UUID) ([]partner.Customer, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]partner.Customer), args.Error(1)
}
func (m *MockCustomerRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	return m.Called(ctx, customer).Error(0)
}

// MockTenantRepository mocks identity.TenantRepository
type MockTenantRepository struct{ mock.Mock }

func (m *MockTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	args := m.Called(ctx, id)
	if t := args.Get(0); t != nil {
		return t.(*identity.Tenant), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockTenantRepository) FindByCode(ctx context.Context, code string) (*identity.Tenant, error) {
	args := m.Called(ctx, code)
	if t := args.Get(0); t != nil {
		return t.(*identity.Tenant), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockTenantRepository) FindByDomain(ctx context.Context, domain string) (*identity.Tenant, error) {
	args := m.Called(ctx, domain)
	if t := args.Get(0); t != nil {
		return t.(*identity.Tenant), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockTenantRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.Tenant, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.Tenant), args.Error(1)
}
func (m *MockTenantRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockTenantRepository) Save(ctx context.Context, tenant *identity.Tenant) error {
	return m.Called(ctx, tenant).Error(0)
}
