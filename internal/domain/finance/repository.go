package finance

import (
	"context"

	"github.com/dukkan/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AccountRepository defines persistence for accounts
type AccountRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Account, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Account, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, account *Account) error
	// SaveWithLock persists the account only if the stored version matches
	// expectedVersion, returning ErrConcurrencyConflict otherwise.
	SaveWithLock(ctx context.Context, account *Account, expectedVersion int) error
}

// AccountMovementRepository is append-only
type AccountMovementRepository interface {
	FindByAccountForTenant(ctx context.Context, tenantID, accountID uuid.UUID, filter shared.Filter) ([]AccountMovement, error)
	CountByAccountForTenant(ctx context.Context, tenantID, accountID uuid.UUID) (int64, error)
	Create(ctx context.Context, movement *AccountMovement) error
}

// PaymentRepository defines persistence for payments
type PaymentRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Payment, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Payment, error)
	FindBySaleForTenant(ctx context.Context, tenantID, saleID uuid.UUID) ([]Payment, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, payment *Payment) error
}
