package sales

import (
	"context"

	"github.com/dukkan/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleRepository defines persistence for sales
type SaleRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Sale, error)
	FindByInvoiceNumberForTenant(ctx context.Context, tenantID uuid.UUID, invoiceNumber string) (*Sale, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Sale, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	// CountThisMonthForTenant counts sales created in the current calendar
	// month, used for plan limit checks.
	CountThisMonthForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
	Save(ctx context.Context, sale *Sale) error
	// SaveWithLock persists the sale only if the stored version matches
	// expectedVersion, returning ErrConcurrencyConflict otherwise.
	SaveWithLock(ctx context.Context, sale *Sale, expectedVersion int) error
	// GenerateInvoiceNumber produces the next invoice number for the tenant,
	// formatted SL-YYYY-NNNNN.
	GenerateInvoiceNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}

// ReturnRepository defines persistence for returns
type ReturnRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Return, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Return, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, ret *Return) error
	// SumReturnedQuantitiesBySale returns, for every sale item of the given
	// sale, the total quantity already returned against it.
	SumReturnedQuantitiesBySale(ctx context.Context, tenantID, saleID uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)
	// GenerateReturnNumber produces the next return number for the tenant,
	// formatted RT-YYYY-NNNNN.
	GenerateReturnNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}

// QuoteRepository defines persistence for quotes
type QuoteRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Quote, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Quote, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, quote *Quote) error
	// SaveWithLock persists the quote only if the stored version matches
	// expectedVersion, returning ErrConcurrencyConflict otherwise.
	SaveWithLock(ctx context.Context, quote *Quote, expectedVersion int) error
	// GenerateQuoteNumber produces the next quote number for the tenant,
	// formatted QT-YYYY-NNNNN.
	GenerateQuoteNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}
