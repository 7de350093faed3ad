package inventory

import (
	"context"

	"github.com/dukkan/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// StockMovementRepository is append-only: movements are never updated or
// deleted once written.
type StockMovementRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*StockMovement, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]StockMovement, error)
	FindByProductForTenant(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) ([]StockMovement, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Create(ctx context.Context, movement *StockMovement) error
}
