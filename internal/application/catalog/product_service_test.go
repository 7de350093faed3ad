package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appidentity "github.com/dukkan/backend/internal/application/identity"
	"github.com/dukkan/backend/internal/domain/catalog"
	"github.com/dukkan/backend/internal/domain/identity"
	"github.com/dukkan/backend/internal/domain/inventory"
	"github.com/dukkan/backend/internal/domain/shared"
)

type productServiceFixture struct {
	products   *MockProductRepository
	categories *MockCategoryRepository
	movements  *MockStockMovementRepository
	service    *ProductService
	tenant     *identity.Tenant
	userID     uuid.UUID
}

func newProductServiceFixture(t *testing.T) *productServiceFixture {
	t.Helper()

	tenant, err := identity.NewTenant("ACME", "Acme Trading")
	require.NoError(t, err)
	tenant.ClearDomainEvents()

	f := &productServiceFixture{
		products:   new(MockProductRepository),
		categories: new(MockCategoryRepository),
		movements:  new(MockStockMovementRepository),
		tenant:     tenant,
		userID:     uuid.New(),
	}

	tenants := new(MockTenantRepository)
	tenants.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil).Maybe()
	capability := appidentity.NewCapabilityService(tenants)

	scope := &NoOpTransactionScope{Repos: &mockCatalogRepos{
		products:  f.products,
		movements: f.movements,
	}}
	f.service = NewProductService(scope, f.products, f.categories, f.movements, capability, zap.NewNop())
	return f
}

func (f *productServiceFixture) existingProduct(t *testing.T, stock int64) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(f.tenant.ID, "Ceramic Mug", "8690000000001",
		decimal.NewFromInt(100), decimal.NewFromInt(20))
	require.NoError(t, err)
	if stock > 0 {
		require.NoError(t, product.IncreaseStock(decimal.NewFromInt(stock)))
	}
	return product
}

func TestProductService_CreateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a product with initial stock and a movement", func(t *testing.T) {
		f := newProductServiceFixture(t)

		f.products.On("CountForTenant", mock.Anything, f.tenant.ID, shared.Filter{}).Return(int64(5), nil)
		f.products.On("FindByBarcodeForTenant", mock.Anything, f.tenant.ID, "8690000000002").Return(nil, nil)
		f.products.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)

		var movement *inventory.StockMovement
		f.movements.On("Create", mock.Anything, mock.AnythingOfType("*inventory.StockMovement")).
			Run(func(args mock.Arguments) {
				movement = args.Get(1).(*inventory.StockMovement)
			}).Return(nil)

		dto, err := f.service.CreateProduct(ctx, f.tenant.ID, f.userID, CreateProductInput{
			Name:          "Tea Glass",
			Barcode:       "8690000000002",
			SalePrice:     decimal.NewFromInt(45),
			VATRate:       decimal.NewFromInt(20),
			InitialStock:  decimal.NewFromInt(24),
			MinStockLevel: decimal.NewFromInt(6),
		})
		require.NoError(t, err)

		assert.Equal(t, "Tea Glass", dto.Name)
		assert.True(t, dto.StockQuantity.Equal(decimal.NewFromInt(24)))
		require.NotNil(t, movement)
		assert.Equal(t, inventory.MovementTypeInitial, movement.Type)
		assert.True(t, movement.Quantity.Equal(decimal.NewFromInt(24)))
	})

	t.Run("zero initial stock writes no movement", func(t *testing.T) {
		f := newProductServiceFixture(t)

		f.products.On("CountForTenant", mock.Anything, f.tenant.ID, shared.Filter{}).Return(int64(0), nil)
		f.products.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)

		_, err := f.service.CreateProduct(ctx, f.tenant.ID, f.userID, CreateProductInput{
			Name:      "Service Fee",
			SalePrice: decimal.NewFromInt(10),
			VATRate:   decimal.NewFromInt(20),
		})
		require.NoError(t, err)
		f.movements.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects a duplicate barcode", func(t *testing.T) {
		f := newProductServiceFixture(t)
		existing := f.existingProduct(t, 0)

		f.products.On("CountForTenant", mock.Anything, f.tenant.ID, shared.Filter{}).Return(int64(1), nil)
		f.products.On("FindByBarcodeForTenant", mock.Anything, f.tenant.ID, existing.Barcode).Return(existing, nil)

		_, err := f.service.CreateProduct(ctx, f.tenant.ID, f.userID, CreateProductInput{
			Name:      "Another Mug",
			Barcode:   existing.Barcode,
			SalePrice: decimal.NewFromInt(90),
			VATRate:   decimal.NewFromInt(20),
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "BARCODE_EXISTS", domainErr.Code)
	})

	t.Run("rejects creation beyond the plan product limit", func(t *testing.T) {
		f := newProductServiceFixture(t)

		// Free plan caps products at 100.
		f.products.On("CountForTenant", mock.Anything, f.tenant.ID, shared.Filter{}).Return(int64(100), nil)

		_, err := f.service.CreateProduct(ctx, f.tenant.ID, f.userID, CreateProductInput{
			Name:      "One Too Many",
			SalePrice: decimal.NewFromInt(10),
			VATRate:   decimal.NewFromInt(20),
		})
		assert.ErrorIs(t, err, shared.ErrLimitExceeded)
	})

	t.Run("rejects an unknown category", func(t *testing.T) {
		f := newProductServiceFixture(t)
		categoryID := uuid.New()

		f.products.On("CountForTenant", mock.Anything, f.tenant.ID, shared.Filter{}).Return(int64(0), nil)
		f.categories.On("FindByIDForTenant", mock.Anything, f.tenant.ID, categoryID).Return(nil, nil)

		_, err := f.service.CreateProduct(ctx, f.tenant.ID, f.userID, CreateProductInput{
			Name:       "Orphan",
			CategoryID: &categoryID,
			SalePrice:  decimal.NewFromInt(10),
			VATRate:    decimal.NewFromInt(20),
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_FOUND", domainErr.Code)
	})
}

func TestProductService_AdjustStock(t *testing.T) {
	ctx := context.Background()

	t.Run("positive adjustment adds stock", func(t *testing.T) {
		f := newProductServiceFixture(t)
		product := f.existingProduct(t, 10)

		f.products.On("FindByIDForTenant", mock.Anything, f.tenant.ID, product.ID).Return(product, nil)
		f.products.On("SaveWithLock", mock.Anything, product, product.Version).Return(nil)

		var movement *inventory.StockMovement
		f.movements.On("Create", mock.Anything, mock.AnythingOfType("*inventory.StockMovement")).
			Run(func(args mock.Arguments) {
				movement = args.Get(1).(*inventory.StockMovement)
			}).Return(nil)

		dto, err := f.service.AdjustStock(ctx, f.tenant.ID, product.ID, AdjustStockInput{
			Quantity: decimal.NewFromInt(5),
			Note:     "found in back room",
		})
		require.NoError(t, err)

		assert.True(t, dto.StockQuantity.Equal(decimal.NewFromInt(15)))
		require.NotNil(t, movement)
		assert.Equal(t, inventory.MovementTypeAdjustment, movement.Type)
		assert.True(t, movement.StockAfter.Equal(decimal.NewFromInt(15)))
	})

	t.Run("negative adjustment cannot drive stock below zero", func(t *testing.T) {
		f := newProductServiceFixture(t)
		product := f.existingProduct(t, 3)

		f.products.On("FindByIDForTenant", mock.Anything, f.tenant.ID, product.ID).Return(product, nil)

		_, err := f.service.AdjustStock(ctx, f.tenant.ID, product.ID, AdjustStockInput{
			Quantity: decimal.NewFromInt(-5),
			Note:     "shrinkage",
		})
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.True(t, product.StockQuantity.Equal(decimal.NewFromInt(3)))
	})
}

func TestProductService_ArchiveRestore(t *testing.T) {
	ctx := context.Background()
	f := newProductServiceFixture(t)
	product := f.existingProduct(t, 0)

	f.products.On("FindByIDForTenant", mock.Anything, f.tenant.ID, product.ID).Return(product, nil)
	f.products.On("SaveWithLock", mock.Anything, product, mock.AnythingOfType("int")).Return(nil)

	require.NoError(t, f.service.ArchiveProduct(ctx, f.tenant.ID, product.ID))
	assert.False(t, product.IsActive)

	require.NoError(t, f.service.RestoreProduct(ctx, f.tenant.ID, product.ID))
	assert.True(t, product.IsActive)
}

func TestProductService_GetProductByBarcode(t *testing.T) {
	ctx := context.Background()
	f := newProductServiceFixture(t)
	product := f.existingProduct(t, 4)

	f.products.On("FindByBarcodeForTenant", mock.Anything, f.tenant.ID, product.Barcode).Return(product, nil)
	f.products.On("FindByBarcodeForTenant", mock.Anything, f.tenant.ID, "0000000000000").Return(nil, nil)

	dto, err := f.service.GetProductByBarcode(ctx, f.tenant.ID, product.Barcode)
	require.NoError(t, err)
	assert.Equal(t, product.ID, dto.ID)

	_, err = f.service.GetProductByBarcode(ctx, f.tenant.ID, "0000000000000")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
