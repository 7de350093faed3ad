package catalog

import (
	"context"

	"github.com/dukkan/backend/internal/domain/catalog"
	"github.com/dukkan/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access for stock adjustments: the
// product stock update and its movement row commit or roll back together.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories participating in a
// catalog-context transaction.
type TransactionalRepositories interface {
	Products() catalog.ProductRepository
	StockMovements() inventory.StockMovementRepository
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
