package finance

import (
	"context"

	"github.com/dukkan/backend/internal/domain/finance"
	"github.com/dukkan/backend/internal/domain/partner"
)

// TransactionScope provides transactional access to the repositories touched
// by a money write. A transfer debits one account and credits another; both
// movements commit or roll back together.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories participating in a
// finance-context transaction.
type TransactionalRepositories interface {
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
