package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dukkan/backend/internal/domain/sales"
	"github.com/dukkan/backend/internal/domain/shared"
)

// GormReturnRepository implements ReturnRepository using GORM
type GormReturnRepository struct {
	db *gorm.DB
}

// NewGormReturnRepository creates a new GormReturnRepository
func NewGormReturnRepository(db *gorm.DB) *GormReturnRepository {
	return &GormReturnRepository{db: db}
}

// FindByIDForTenant finds a return with its items by ID within a tenant
func (r *GormReturnRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*sales.Return, error) {
	var ret sales.Return
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&ret).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ret, nil
}

// FindAllForTenant finds all returns for a tenant matching the filter
func (r *GormReturnRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]sales.Return, error) {
	var returns []sales.Return
	query := r.db.WithContext(ctx).Model(&sales.Return{}).Preload("Items").Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)
	query = applyOrdering(query, filter, returnSortFields, "returned_at")
	query = applyPagination(query, filter)

	if err := query.Find(&returns).Error; err != nil {
		return nil, err
	}
	return returns, nil
}

// CountForTenant counts returns for a tenant matching the filter
func (r *GormReturnRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&sales.Return{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a return together with its items
func (r *GormReturnRepository) Save(ctx context.Context, ret *sales.Return) error {
	return r.db.WithContext(ctx).Save(ret).Error
}

// returnedQuantityRow is the scan target for SumReturnedQuantitiesBySale
type returnedQuantityRow struct {
	SaleItemID uuid.UUID
	Total      decimal.Decimal
}

// SumReturnedQuantitiesBySale totals, per sale item, the quantity already
// returned against the given sale. Freestanding return lines carry no sale
// item reference and are excluded.
func (r *GormReturnRepository) SumReturnedQuantitiesBySale(ctx context.Context, tenantID, saleID uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	var rows []returnedQuantityRow
	err := r.db.WithContext(ctx).
		Table("return_items").
		Select("return_items.sale_item_id AS sale_item_id, SUM(return_items.quantity) AS total").
		Joins("JOIN returns ON returns.id = return_items.return_id").
		Where("returns.tenant_id = ? AND returns.sale_id = ? AND return_items.sale_item_id IS NOT NULL", tenantID, saleID).
		Group("return_items.sale_item_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	totals := make(map[uuid.UUID]decimal.Decimal, len(rows))
	for _, row := range rows {
		totals[row.SaleItemID] = row.Total
	}
	return totals, nil
}

// GenerateReturnNumber produces the next return number, formatted RT-YYYY-NNNNN
func (r *GormReturnRepository) GenerateReturnNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	return nextDocumentNumber(ctx, r.db, "returns", "return_number", tenantID, "RT")
}

func (r *GormReturnRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("return_number ILIKE ?", "%"+filter.Search+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "sale_id":
			query = query.Where("sale_id = ?", value)
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "returned_from":
			query = query.Where("returned_at >= ?", value)
		case "returned_to":
			query = query.Where("returned_at < ?", value)
		}
	}
	return query
}

// Ensure GormReturnRepository implements ReturnRepository
var _ sales.ReturnRepository = (*GormReturnRepository)(nil)
