package sales

import (
	"context"

	"github.com/dukkan/backend/internal/domain/catalog"
	"github.com/dukkan/backend/internal/domain/finance"
	"github.com/dukkan/backend/internal/domain/inventory"
	"github.com/dukkan/backend/internal/domain/partner"
	"github.com/dukkan/backend/internal/domain/sales"
)

// TransactionScope provides transactional access to the repositories touched
// by a sale, return or quote-conversion write. All repository operations
// inside Execute belong to the same database transaction: they commit or
// roll back together, so a failed multi-row write leaves no partial rows.
type TransactionScope interface {
	// Execute runs fn inside a database transaction. A returned error rolls
	// the transaction back; nil commits it.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories participating in a
// sales-context transaction. All returned repositories share one transaction.
type TransactionalRepositories interface {
	Products() catalog.ProductRepository
	Sales() sales.SaleRepository
	Returns() sales.ReturnRepository
	Quotes() sales.QuoteRepository
	StockMovements() inventory.StockMovementRepository
	Accounts() finance.AccountRepository
	AccountMovements() finance.AccountMovementRepository
	Payments() finance.PaymentRepository
	Customers() partner.CustomerRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Used in tests where the repositories are mocks.
type NoOpTransactionScope struct {
	Repos TransactionalRepositories
}

// Execute runs fn directly against the configured repositories.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s.Repos)
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
