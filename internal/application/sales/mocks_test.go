package sales

import (
	"context"

	"github.com/dukkan/backend/internal/domain/catalog"
	"github.com/dukkan/backend/internal/domain/finance"
	"github.com/dukkan/backend/internal/domain/identity"
	"github.com/dukkan/backend/internal/domain/inventory"
	"github.com/dukkan/backend/internal/domain/partner"
	"github.com/dukkan/backend/internal/domain/sales"
	"github.com/dukkan/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// mockRepos bundles all mock repositories behind TransactionalRepositories
// and plugs into NoOpTransactionScope for service tests.
type mockRepos struct {
	products  *MockProductRepository
	sales     *MockSaleRepository
	returns   *MockReturnRepository
	quotes    *MockQuoteRepository
	movements *MockStockMovementRepository
	accounts  *MockAccountRepository
	ledger    *MockAccountMovementRepository
	payments  *MockPaymentRepository
	customers *MockCustomerRepository
}

func newMockRepos() *mockRepos {
	return &mockRepos{
		products:  new(MockProductRepository),
		sales:     new(MockSaleRepository),
		returns:   new(MockReturnRepository),
		quotes:    new(MockQuoteRepository),
		movements: new(MockStockMovementRepository),
		accounts:  new(MockAccountRepository),
		ledger:    new(MockAccountMovementRepository),
		payments:  new(MockPaymentRepository),
		customers: new(MockCustomerRepository),
	}
}

func (r *mockRepos) Products() catalog.ProductRepository               { return r.products }
func (r *mockRepos) Sales() sales.SaleRepository                      { return r.sales }
func (r *mockRepos) Returns() sales.ReturnRepository                  { return r.returns }
func (r *mockRepos) Quotes() sales.QuoteRepository                    { return r.quotes }
func (r *mockRepos) StockMovements() inventory.StockMovementRepository { return r.movements }
func (r *mockRepos) Accounts() finance.AccountRepository              { return r.accounts }
func (r *mockRepos) AccountMovements() finance.AccountMovementRepository {
	return r.ledger
}
func (r *mockRepos) Payments() finance.PaymentRepository   { return r.payments }
func (r *mockRepos) Customers() partner.CustomerRepository { return r.customers }

// MockProductRepository mocks catalog.ProductRepository
type MockProductRepository struct{ mock.Mock }

func (m *MockProductRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, tenantID, id)
	if p := args.Get(0); p != nil {
		return p.(*catalog.Product), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockProductRepository) FindByBarcodeForTenant(ctx context.Context, tenantID uuid.UUID, barcode string) (*catalog.Product, error) {
	args := m.Called(ctx, tenantID, barcode)
	if p := args.Get(0); p != nil {
		return p.(*catalog.Product), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockProductRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}
func (m *MockProductRepository) FindLowStockForTenant(ctx context.Context, tenantID uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]catalog.Product), args.Error(1)
}
func (m *MockProductRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return m.Called(ctx, product).Error(0)
}
func (m *MockProductRepository) SaveWithLock(ctx context.Context, product *catalog.Product, expectedVersion int) error {
	return m.Called(ctx, product, expectedVersion).Error(0)
}

// MockSaleRepository mocks sales.SaleRepository
type MockSaleRepository struct{ mock.Mock }

func (m *MockSaleRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*sales.Sale, error) {
	args := m.Called(ctx, tenantID, id)
	if s := args.Get(0); s != nil {
		return s.(*sales.Sale), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockSaleRepository) FindByInvoiceNumberForTenant(ctx context.Context, tenantID uuid.UUID, invoiceNumber string) (*sales.Sale, error) {
	args := m.Called(ctx, tenantID, invoiceNumber)
	if s := args.Get(0); s != nil {
		return s.(*sales.Sale), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockSaleRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]sales.Sale, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]sales.Sale), args.Error(1)
}
func (m *MockSaleRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockSaleRepository) CountThisMonthForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockSaleRepository) Save(ctx context.Context, sale *sales.Sale) error {
	return m.Called(ctx, sale).Error(0)
}
func (m *MockSaleRepository) SaveWithLock(ctx context.Context, sale *sales.Sale, expectedVersion int) error {
	return m.Called(ctx, sale, expectedVersion).Error(0)
}
func (m *MockSaleRepository) GenerateInvoiceNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

// MockReturnRepository mocks sales.ReturnRepository
type MockReturnRepository struct{ mock.Mock }

func (m *MockReturnRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*sales.Return, error) {
	args := m.Called(ctx, tenantID, id)
	if r := args.Get(0); r != nil {
		return r.(*sales.Return), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockReturnRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]sales.Return, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]sales.Return), args.Error(1)
}
func (m *MockReturnRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockReturnRepository) Save(ctx context.Context, ret *sales.Return) error {
	return m.Called(ctx, ret).Error(0)
}
func (m *MockReturnRepository) SumReturnedQuantitiesBySale(ctx context.Context, tenantID, saleID uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, saleID)
	if v := args.Get(0); v != nil {
		return v.(map[uuid.UUID]decimal.Decimal), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockReturnRepository) GenerateReturnNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

// MockQuoteRepository mocks sales.QuoteRepository
type MockQuoteRepository struct{ mock.Mock }

func (m *MockQuoteRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*sales.Quote, error) {
	args := m.Called(ctx, tenantID, id)
	if q := args.Get(0); q != nil {
		return q.(*sales.Quote), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockQuoteRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]sales.Quote, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]sales.Quote), args.Error(1)
}
func (m *MockQuoteRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockQuoteRepository) Save(ctx context.Context, quote *sales.Quote) error {
	return m.Called(ctx, quote).Error(0)
}
func (m *MockQuoteRepository) SaveWithLock(ctx context.Context, quote *sales.Quote, expectedVersion int) error {
	return m.Called(ctx, quote, expectedVersion).Error(0)
}
func (m *MockQuoteRepository) GenerateQuoteNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

// MockStockMovementRepository mocks inventory.StockMovementRepository
type MockStockMovementRepository struct{ mock.Mock }

func (m *MockStockMovementRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.StockMovement, error) {
	args := m.Called(ctx, tenantID, id)
	if mv := args.Get(0); mv != nil {
		return mv.(*inventory.StockMovement), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockStockMovementRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.StockMovement, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]inventory.StockMovement), args.Error(1)
}
func (m *MockStockMovementRepository) FindByProductForTenant(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) ([]inventory.StockMovement, error) {
	args := m.Called(ctx, tenantID, productID, filter)
	return args.Get(0).([]inventory.StockMovement), args.Error(1)
}
func (m *MockStockMovementRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockStockMovementRepository) Create(ctx context.Context, movement *inventory.StockMovement) error {
	return m.Called(ctx, movement).Error(0)
}

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

// noopPublisher swallows events in tests
type noopPublisher struct{}

func (noopPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error { return nil }
