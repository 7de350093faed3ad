package persistence

import (
	"context"

	"gorm.io/gorm"

	appcatalog "github.com/dukkan/backend/internal/application/catalog"
	appfinance "github.com/dukkan/backend/internal/application/finance"
	appsales "github.com/dukkan/backend/internal/application/sales"
	"github.com/dukkan/backend/internal/domain/catalog"
	"github.com/dukkan/backend/internal/domain/finance"
	"github.com/dukkan/backend/internal/domain/inventory"
	"github.com/dukkan/backend/internal/domain/partner"
	"github.com/dukkan/backend/internal/domain/sales"
)

// gormTxRepositories exposes every repository bound to one open transaction.
// Its method set covers the sales, finance and catalog transaction contexts,
// so each scope type below can hand the same bundle to its callers.
type gormTxRepositories struct {
	tx *gorm.DB
}

func (r *gormTxRepositories) Products() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

func (r *gormTxRepositories) Sales() sales.SaleRepository {
	return NewGormSaleRepository(r.tx)
}

func (r *gormTxRepositories) Returns() sales.ReturnRepository {
	return NewGormReturnRepository(r.tx)
}

func (r *gormTxRepositories) Quotes() sales.QuoteRepository {
	return NewGormQuoteRepository(r.tx)
}

func (r *gormTxRepositories) StockMovements() inventory.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

func (r *gormTxRepositories) Accounts() finance.AccountRepository {
	return NewGormAccountRepository(r.tx)
}

func (r *gormTxRepositories) AccountMovements() finance.AccountMovementRepository {
	return NewGormAccountMovementRepository(r.tx)
}

func (r *gormTxRepositories) Payments() finance.PaymentRepository {
	return NewGormPaymentRepository(r.tx)
}

func (r *gormTxRepositories) Customers() partner.CustomerRepository {
	return NewGormCustomerRepository(r.tx)
}

// SalesTransactionScope implements the sales-context TransactionScope using
// GORM transactions.
type SalesTransactionScope struct {
	db *gorm.DB
}

// NewSalesTransactionScope creates a SalesTransactionScope
func NewSalesTransactionScope(db *gorm.DB) *SalesTransactionScope {
	return &SalesTransactionScope{db: db}
}

// Execute runs fn inside a database transaction
func (s *SalesTransactionScope) Execute(ctx context.Context, fn func(repos appsales.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTxRepositories{tx: tx})
	})
}

// FinanceTransactionScope implements the finance-context TransactionScope
// using GORM transactions.
type FinanceTransactionScope struct {
	db *gorm.DB
}

// NewFinanceTransactionScope creates a FinanceTransactionScope
func NewFinanceTransactionScope(db *gorm.DB) *FinanceTransactionScope {
	return &FinanceTransactionScope{db: db}
}

// Execute runs fn inside a database transaction
func (s *FinanceTransactionScope) Execute(ctx context.Context, fn func(repos appfinance.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTxRepositories{tx: tx})
	})
}

// CatalogTransactionScope implements the catalog-context TransactionScope
// using GORM transactions.
type CatalogTransactionScope struct {
	db *gorm.DB
}

// NewCatalogTransactionScope creates a CatalogTransactionScope
func NewCatalogTransactionScope(db *gorm.DB) *CatalogTransactionScope {
	return &CatalogTransactionScope{db: db}
}

// Execute runs fn inside a database transaction
func (s *CatalogTransactionScope) Execute(ctx context.Context, fn func(repos appcatalog.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTxRepositories{tx: tx})
	})
}

var (
	_ appsales.TransactionScope   = (*SalesTransactionScope)(nil)
	_ appfinance.TransactionScope = (*FinanceTransactionScope)(nil)
	_ appcatalog.TransactionScope = (*CatalogTransactionScope)(nil)

	_ appsales.TransactionalRepositories   = (*gormTxRepositories)(nil)
	_ appfinance.TransactionalRepositories = (*gormTxRepositories)(nil)
	_ appcatalog.TransactionalRepositories = (*gormTxRepositories)(nil)
)
