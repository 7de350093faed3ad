package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dukkan/backend/internal/domain/sales"
	"github.com/dukkan/backend/internal/domain/shared"
)

// GormQuoteRepository implements QuoteRepository using GORM
type GormQuoteRepository struct {
	db *gorm.DB
}

// NewGormQuoteRepository creates a new GormQuoteRepository
func NewGormQuoteRepository(db *gorm.DB) *GormQuoteRepository {
	return &GormQuoteRepository{db: db}
}

// FindByIDForTenant finds a quote with its items by ID within a tenant
func (r *GormQuoteRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*sales.Quote, error) {
	var quote sales.Quote
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&quote).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &quote, nil
}

// FindAllForTenant finds all quotes for a tenant matching the filter
func (r *GormQuoteRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]sales.Quote, error) {
	var quotes []sales.Quote
	query := r.db.WithContext(ctx).Model(&sales.Quote{}).Preload("Items").Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)
	query = applyOrdering(query, filter, quoteSortFields, "created_at")
	query = applyPagination(query, filter)

	if err := query.Find(&quotes).Error; err != nil {
		return nil, err
	}
	return quotes, nil
}

// CountForTenant counts quotes for a tenant matching the filter
func (r *GormQuoteRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&sales.Quote{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a quote together with its items
func (r *GormQuoteRepository) Save(ctx context.Context, quote *sales.Quote) error {
	return r.db.WithContext(ctx).Save(quote).Error
}

// SaveWithLock persists the quote header only if the stored version matches
// expectedVersion. Items are not modified by status transitions.
func (r *GormQuoteRepository) SaveWithLock(ctx context.Context, quote *sales.Quote, expectedVersion int) error {
	result := r.db.WithContext(ctx).
		Model(&sales.Quote{}).
		Where("id = ? AND tenant_id = ? AND version = ?", quote.ID, quote.TenantID, expectedVersion).
		Updates(map[string]interface{}{
			"status":            quote.Status,
			"valid_until":       quote.ValidUntil,
			"converted_sale_id": quote.ConvertedSaleID,
			"note":              quote.Note,
			"version":           quote.Version,
			"updated_at":        quote.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// GenerateQuoteNumber produces the next quote number, formatted QT-YYYY-NNNNN
func (r *GormQuoteRepository) GenerateQuoteNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	return nextDocumentNumber(ctx, r.db, "quotes", "quote_number", tenantID, "QT")
}

func (r *GormQuoteRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("quote_number ILIKE ?", "%"+filter.Search+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		}
	}
	return query
}

// Ensure GormQuoteRepository implements QuoteRepository
var _ sales.QuoteRepository = (*GormQuoteRepository)(nil)
