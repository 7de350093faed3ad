package catalog

import (
	"context"

	"github.com/dukkan/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductRepository defines persistence for products
type ProductRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)
	FindByBarcodeForTenant(ctx context.Context, tenantID uuid.UUID, barcode string) (*Product, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Product, error)
	FindLowStockForTenant(ctx context.Context, tenantID uuid.UUID) ([]Product, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, product *Product) error
	// SaveWithLock persists the product only if the stored version matches
	// expectedVersion, returning ErrConcurrencyConflict otherwise.
	SaveWithLock(ctx context.Context, product *Product, expectedVersion int) error
}

// CategoryRepository defines persistence for categories
type CategoryRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Category, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Category, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, category *Category) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
