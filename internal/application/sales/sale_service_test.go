package sales

import (
	"context"
	"testing"

	appidentity "github.com/dukkan/backend/internal/application/identity"
	"github.com/dukkan/backend/internal/domain/catalog"
	"github.com/dukkan/backend/internal/domain/finance"
	"github.com/dukkan/backend/internal/domain/identity"
	"github.com/dukkan/backend/internal/domain/inventory"
	"github.com/dukkan/backend/internal/domain/partner"
	"github.com/dukkan/backend/internal/domain/sales"
	"github.com/dukkan/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type saleServiceFixture struct {
	repos   *mockRepos
	tenants *MockTenantRepository
	service *SaleService
	tenant  *identity.Tenant
	userID  uuid.UUID
}

func newSaleServiceFixture(t *testing.T) *saleServiceFixture {
	t.Helper()

	tenant, err := identity.NewTenant("ACME", "Acme Trading")
	require.NoError(t, err)
	tenant.ClearDomainEvents()

	repos := newMockRepos()
	tenants := new(MockTenantRepository)
	tenants.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil).Maybe()

	scope := &NoOpTransactionScope{Repos: repos}
	capability := appidentity.NewCapabilityService(tenants)
	service := NewSaleService(scope, repos.sales, capability, noopPublisher{}, zap.NewNop())

	return &saleServiceFixture{
		repos:   repos,
		tenants: tenants,
		service: service,
		tenant:  tenant,
		userID:  uuid.New(),
	}
}

func (f *saleServiceFixture) productInStock(t *testing.T, stock int64) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(f.tenant.ID, "Ceramic Mug", "8690000000001",
		decimal.NewFromInt(100), decimal.NewFromInt(20))
	require.NoError(t, err)
	require.NoError(t, product.IncreaseStock(decimal.NewFromInt(stock)))
	return product
}

func (f *saleServiceFixture) cashAccount(t *testing.T) *finance.Account {
	t.Helper()
	account, err := finance.NewAccount(f.tenant.ID, "Register", finance.AccountTypeCash, "TRY")
	require.NoError(t, err)
	return account
}

func TestSaleService_CreateSale(t *testing.T) {
	ctx := context.Background()

	t.Run("cash sale writes items, stock movements, payment and ledger entry", func(t *testing.T) {
		f := newSaleServiceFixture(t)
		product := f.productInStock(t, 10)
		account := f.cashAccount(t)

		f.repos.sales.On("CountThisMonthForTenant", mock.Anything, f.tenant.ID).Return(int64(3), nil)
		f.repos.sales.On("GenerateInvoiceNumber", mock.Anything, f.tenant.ID).Return("SL-2026-00042", nil)
		f.repos.products.On("FindByIDForTenant", mock.Anything, f.tenant.ID, product.ID).Return(product, nil)
		f.repos.products.On("SaveWithLock", mock.Anything, product, product.Version).Return(nil)

		var recordedMovement *inventory.StockMovement
		f.repos.movements.On("Create", mock.Anything, mock.AnythingOfType("*inventory.StockMovement")).
			Run(func(args mock.Arguments) {
				recordedMovement = args.Get(1).(*inventory.StockMovement)
			}).Return(nil)

		f.repos.sales.On("Save", mock.Anything, mock.AnythingOfType("*sales.Sale")).Return(nil)
		f.repos.accounts.On("FindByIDForTenant", mock.Anything, f.tenant.ID, account.ID).Return(account, nil)
		f.repos.accounts.On("SaveWithLock", mock.Anything, account, account.Version).Return(nil)
		f.repos.ledger.On("Create", mock.Anything, mock.AnythingOfType("*finance.AccountMovement")).Return(nil)
		f.repos.payments.On("Save", mock.Anything, mock.AnythingOfType("*finance.Payment")).Return(nil)

		dto, err := f.service.CreateSale(ctx, f.tenant.ID, f.userID, CreateSaleInput{
			Items: []CreateSaleItemInput{
				{ProductID: product.ID, Quantity: decimal.NewFromInt(2)},
			},
			VATIncluded:   true,
			PaymentMethod: sales.PaymentMethodCash,
			AccountID:     &account.ID,
		})
		require.NoError(t, err)

		assert.Equal(t, "SL-2026-00042", dto.InvoiceNumber)
		assert.True(t, dto.Subtotal.Equal(decimal.NewFromInt(200)))
		assert.True(t, dto.VATTotal.Equal(decimal.NewFromInt(40)))
		assert.True(t, dto.GrandTotal.Equal(decimal.NewFromInt(240)))

		assert.True(t, product.StockQuantity.Equal(decimal.NewFromInt(8)))
		require.NotNil(t, recordedMovement)
		assert.Equal(t, inventory.MovementTypeSale, recordedMovement.Type)
		assert.True(t, recordedMovement.Quantity.Equal(decimal.NewFromInt(-2)))
		assert.True(t, recordedMovement.StockAfter.Equal(decimal.NewFromInt(8)))

		assert.True(t, account.Balance.Equal(decimal.NewFromInt(240)))
		f.repos.payments.AssertNumberOfCalls(t, "Save", 1)
	})

	t.Run("credit sale adds a receivable instead of touching accounts", func(t *testing.T) {
		f := newSaleServiceFixture(t)
		product := f.productInStock(t, 5)
		customer := newTestCustomer(t, f.tenant.ID)

		f.repos.sales.On("CountThisMonthForTenant", mock.Anything, f.tenant.ID).Return(int64(0), nil)
		f.repos.sales.On("GenerateInvoiceNumber", mock.Anything, f.tenant.ID).Return("SL-2026-00043", nil)
		f.repos.customers.On("FindByIDForTenant", mock.Anything, f.tenant.ID, customer.ID).Return(customer, nil)
		f.repos.products.On("FindByIDForTenant", mock.Anything, f.tenant.ID, product.ID).Return(product, nil)
		f.repos.products.On("SaveWithLock", mock.Anything, product, product.Version).Return(nil)
		f.repos.movements.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.repos.sales.On("Save", mock.Anything, mock.Anything).Return(nil)
		f.repos.customers.On("Save", mock.Anything, customer).Return(nil)

		dto, err := f.service.CreateSale(ctx, f.tenant.ID, f.userID, CreateSaleInput{
			CustomerID: &customer.ID,
			Items: []CreateSaleItemInput{
				{ProductID: product.ID, Quantity: decimal.NewFromInt(1)},
			},
			VATIncluded:   true,
			PaymentMethod: sales.PaymentMethodCredit,
		})
		require.NoError(t, err)

		assert.True(t, customer.OpenBalance.Equal(dto.GrandTotal))
		f.repos.accounts.AssertNotCalled(t, "FindByIDForTenant", mock.Anything, mock.Anything, mock.Anything)
		f.repos.payments.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects immediate payment without an account", func(t *testing.T) {
		f := newSaleServiceFixture(t)
		product := f.productInStock(t, 5)

		_, err := f.service.CreateSale(ctx, f.tenant.ID, f.userID, CreateSaleInput{
			Items:         []CreateSaleItemInput{{ProductID: product.ID, Quantity: decimal.NewFromInt(1)}},
			PaymentMethod: sales.PaymentMethodCash,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "account")
	})

	t.Run("rejects when the monthly sales limit is reached", func(t *testing.T) {
		f := newSaleServiceFixture(t)
		product := f.productInStock(t, 5)
		account := f.cashAccount(t)

		// free plan caps monthly sales at 500
		f.repos.sales.On("CountThisMonthForTenant", mock.Anything, f.tenant.ID).Return(int64(500), nil)

		_, err := f.service.CreateSale(ctx, f.tenant.ID, f.userID, CreateSaleInput{
			Items:         []CreateSaleItemInput{{ProductID: product.ID, Quantity: decimal.NewFromInt(1)}},
			PaymentMethod: sales.PaymentMethodCash,
			AccountID:     &account.ID,
		})
		require.ErrorIs(t, err, shared.ErrLimitExceeded)
		f.repos.sales.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("fails when stock is insufficient", func(t *testing.T) {
		f := newSaleServiceFixture(t)
		product := f.productInStock(t, 1)
		account := f.cashAccount(t)

		f.repos.sales.On("CountThisMonthForTenant", mock.Anything, f.tenant.ID).Return(int64(0), nil)
		f.repos.sales.On("GenerateInvoiceNumber", mock.Anything, f.tenant.ID).Return("SL-2026-00044", nil)
		f.repos.products.On("FindByIDForTenant", mock.Anything, f.tenant.ID, product.ID).Return(product, nil)

		_, err := f.service.CreateSale(ctx, f.tenant.ID, f.userID, CreateSaleInput{
			Items:         []CreateSaleItemInput{{ProductID: product.ID, Quantity: decimal.NewFromInt(3)}},
			PaymentMethod: sales.PaymentMethodCash,
			AccountID:     &account.ID,
		})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
		f.repos.sales.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects archived products", func(t *testing.T) {
		f := newSaleServiceFixture(t)
		product := f.productInStock(t, 5)
		require.NoError(t, product.Archive())
		account := f.cashAccount(t)

		f.repos.sales.On("CountThisMonthForTenant", mock.Anything, f.tenant.ID).Return(int64(0), nil)
		f.repos.sales.On("GenerateInvoiceNumber", mock.Anything, f.tenant.ID).Return("SL-2026-00045", nil)
		f.repos.products.On("FindByIDForTenant", mock.Anything, f.tenant.ID, product.ID).Return(product, nil)

		_, err := f.service.CreateSale(ctx, f.tenant.ID, f.userID, CreateSaleInput{
			Items:         []CreateSaleItemInput{{ProductID: product.ID, Quantity: decimal.NewFromInt(1)}},
			PaymentMethod: sales.PaymentMethodCash,
			AccountID:     &account.ID,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Archived")
	})

	t.Run("rejects an empty item list", func(t *testing.T) {
		f := newSaleServiceFixture(t)
		_, err := f.service.CreateSale(ctx, f.tenant.ID, f.userID, CreateSaleInput{
			PaymentMethod: sales.PaymentMethodCredit,
		})
		require.Error(t, err)
	})
}

func TestSaleService_CancelSale(t *testing.T) {
	ctx := context.Background()

	t.Run("restores stock and debits the account", func(t *testing.T) {
		f := newSaleServiceFixture(t)
		product := f.productInStock(t, 8)
		account := f.cashAccount(t)
		_, err := account.Credit(decimal.NewFromInt(240), finance.MovementSourceSale, nil, "seed")
		require.NoError(t, err)
		accountVersion := account.Version

		sale := completedCashSale(t, f.tenant.ID, product, decimal.NewFromInt(2))
		payment, err := finance.NewPayment(f.tenant.ID, account.ID, &sale.ID, nil,
			string(sales.PaymentMethodCash), sale.GrandTotal, "")
		require.NoError(t, err)

		f.repos.sales.On("FindByIDForTenant", mock.Anything, f.tenant.ID, sale.ID).Return(sale, nil)
		f.repos.sales.On("SaveWithLock", mock.Anything, sale, sale.Version).Return(nil)
		f.repos.products.On("FindByIDForTenant", mock.Anything, f.tenant.ID, product.ID).Return(product, nil)
		f.repos.products.On("SaveWithLock", mock.Anything, product, product.Version).Return(nil)

		var reversal *inventory.StockMovement
		f.repos.movements.On("Create", mock.Anything, mock.AnythingOfType("*inventory.StockMovement")).
			Run(func(args mock.Arguments) {
				reversal = args.Get(1).(*inventory.StockMovement)
			}).Return(nil)

		f.repos.payments.On("FindBySaleForTenant", mock.Anything, f.tenant.ID, sale.ID).
			Return([]finance.Payment{*payment}, nil)
		f.repos.accounts.On("FindByIDForTenant", mock.Anything, f.tenant.ID, account.ID).Return(account, nil)
		f.repos.accounts.On("SaveWithLock", mock.Anything, account, accountVersion).Return(nil)
		f.repos.ledger.On("Create", mock.Anything, mock.AnythingOfType("*finance.AccountMovement")).Return(nil)

		dto, err := f.service.CancelSale(ctx, f.tenant.ID, sale.ID)
		require.NoError(t, err)

		assert.Equal(t, sales.SaleStatusCancelled, dto.Status)
		assert.NotNil(t, dto.CancelledAt)
		assert.True(t, product.StockQuantity.Equal(decimal.NewFromInt(10)))
		require.NotNil(t, reversal)
		assert.Equal(t, inventory.MovementTypeSaleCancel, reversal.Type)
		assert.True(t, reversal.Quantity.Equal(decimal.NewFromInt(2)))
		assert.True(t, account.Balance.Equal(decimal.Zero))
	})

	t.Run("cancelling twice fails", func(t *testing.T) {
		f := newSaleServiceFixture(t)
		product := f.productInStock(t, 8)
		sale := completedCashSale(t, f.tenant.ID, product, decimal.NewFromInt(1))
		require.NoError(t, sale.Cancel())

		f.repos.sales.On("FindByIDForTenant", mock.Anything, f.tenant.ID, sale.ID).Return(sale, nil)

		_, err := f.service.CancelSale(ctx, f.tenant.ID, sale.ID)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "SALE_NOT_CANCELLABLE", domainErr.Code)
		f.repos.sales.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown sale yields not found", func(t *testing.T) {
		f := newSaleServiceFixture(t)
		f.repos.sales.On("FindByIDForTenant", mock.Anything, f.tenant.ID, mock.Anything).Return(nil, nil)

		_, err := f.service.CancelSale(ctx, f.tenant.ID, uuid.New())
		require.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func newTestCustomer(t *testing.T, tenantID uuid.UUID) *partner.Customer {
	t.Helper()
	customer, err := partner.NewCustomer(tenantID, "Ayşe Yılmaz")
	require.NoError(t, err)
	return customer
}

// completedCashSale builds a cash sale of the given quantity against the
// product without touching its stock.
func completedCashSale(t *testing.T, tenantID uuid.UUID, product *catalog.Product, qty decimal.Decimal) *sales.Sale {
	t.Helper()
	sale, err := sales.NewSale(tenantID, "SL-2026-00099", nil, sales.PaymentMethodCash, true)
	require.NoError(t, err)
	require.NoError(t, sale.AddItem(product.ID, product.Name, qty, product.SalePrice, decimal.Zero, product.VATRate))
	return sale
}
