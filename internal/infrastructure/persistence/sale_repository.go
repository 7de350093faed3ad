package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dukkan/backend/internal/domain/sales"
	"github.com/dukkan/backend/internal/domain/shared"
)

// GormSaleRepository implements SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// FindByIDForTenant finds a sale with its items by ID within a tenant
func (r *GormSaleRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*sales.Sale, error) {
	var sale sales.Sale
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&sale).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sale, nil
}

// FindByInvoiceNumberForTenant finds a sale by invoice number within a tenant
func (r *GormSaleRepository) FindByInvoiceNumberForTenant(ctx context.Context, tenantID uuid.UUID, invoiceNumber string) (*sales.Sale, error) {
	var sale sales.Sale
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND invoice_number = ?", tenantID, invoiceNumber).
		First(&sale).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sale, nil
}

// FindAllForTenant finds all sales for a tenant matching the filter
func (r *GormSaleRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]sales.Sale, error) {
	var result []sales.Sale
	query := r.db.WithContext(ctx).Model(&sales.Sale{}).Preload("Items").Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)
	query = applyOrdering(query, filter, saleSortFields, "sold_at")
	query = applyPagination(query, filter)

	if err := query.Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// CountForTenant counts sales for a tenant matching the filter
func (r *GormSaleRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&sales.Sale{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountThisMonthForTenant counts sales created in the current calendar month.
// Cancelled sales still count: the plan limit is on creations, not on what
// survived.
func (r *GormSaleRepository) CountThisMonthForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&sales.Sale{}).
		Where("tenant_id = ? AND sold_at >= ?", tenantID, monthStart).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a sale together with its items
func (r *GormSaleRepository) Save(ctx context.Context, sale *sales.Sale) error {
	return r.db.WithContext(ctx).Save(sale).Error
}

// SaveWithLock persists the sale header only if the stored version matches
// expectedVersion. Items are immutable after creation and are not touched.
func (r *GormSaleRepository) SaveWithLock(ctx context.Context, sale *sales.Sale, expectedVersion int) error {
	result := r.db.WithContext(ctx).
		Model(&sales.Sale{}).
		Where("id = ? AND tenant_id = ? AND version = ?", sale.ID, sale.TenantID, expectedVersion).
		Updates(map[string]interface{}{
			"status":       sale.Status,
			"note":         sale.Note,
			"cancelled_at": sale.CancelledAt,
			"version":      sale.Version,
			"updated_at":   sale.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// GenerateInvoiceNumber produces the next invoice number, formatted SL-YYYY-NNNNN
func (r *GormSaleRepository) GenerateInvoiceNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	return nextDocumentNumber(ctx, r.db, "sales", "invoice_number", tenantID, "SL")
}

func (r *GormSaleRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("invoice_number ILIKE ?", "%"+filter.Search+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "payment_method":
			query = query.Where("payment_method = ?", value)
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "sold_from":
			query = query.Where("sold_at >= ?", value)
		case "sold_to":
			query = query.Where("sold_at < ?", value)
		}
	}
	return query
}

// Ensure GormSaleRepository implements SaleRepository
var _ sales.SaleRepository = (*GormSaleRepository)(nil)
