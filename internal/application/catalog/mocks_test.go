package catalog

import (
	"context"

	"github.com/dukkan/backend/internal/domain/catalog"
	"github.com/dukkan/backend/internal/domain/identity"
	"github.com/dukkan/backend/internal/domain/inventory"
	"github.com/dukkan/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// mockCatalogRepos plugs the mocks into NoOpTransactionScope
type mockCatalogRepos struct {
	products  *MockProductRepository
	movements *MockStockMovementRepository
}

func (r *mockCatalogRepos) Products() catalog.ProductRepository { return r.products }
func (r *mockCatalogRepos) StockMovements() inventory.StockMovementRepository {
	return r.movements
}

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

// MockCategoryRepository mocks catalog.CategoryRepository
type MockCategoryRepository struct{ mock.Mock }

func (m *MockCategoryRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Category, error) {
	args := m.Called(ctx, tenantID, id)
	if c := args.Get(0); c != nil {
		return c.(*catalog.Category), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockCategoryRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Category, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]catalog.Category), args.Error(1)
}
func (m *MockCategoryRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	return m.Called(ctx, category).Error(0)
}
func (m *MockCategoryRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
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
