package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dukkan/backend/internal/domain/finance"
	"github.com/dukkan/backend/internal/domain/shared"
)

// GormAccountMovementRepository implements AccountMovementRepository using
// GORM. The ledger is insert-only.
type GormAccountMovementRepository struct {
	db *gorm.DB
}

// NewGormAccountMovementRepository creates a new GormAccountMovementRepository
func NewGormAccountMovementRepository(db *gorm.DB) *GormAccountMovementRepository {
	return &GormAccountMovementRepository{db: db}
}

// FindByAccountForTenant finds the movements of an account, newest first
func (r *GormAccountMovementRepository) FindByAccountForTenant(ctx context.Context, tenantID, accountID uuid.UUID, filter shared.Filter) ([]finance.AccountMovement, error) {
	var movements []finance.AccountMovement
	query := r.db.WithContext(ctx).
		Model(&finance.AccountMovement{}).
		Where("tenant_id = ? AND account_id = ?", tenantID, accountID)
	query = r.applyFilter(query, filter)
	query = applyOrdering(query, filter, accountMovementSortFields, "moved_at")
	query = applyPagination(query, filter)

	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// CountByAccountForTenant counts the movements of an account
func (r *GormAccountMovementRepository) CountByAccountForTenant(ctx context.Context, tenantID, accountID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&finance.AccountMovement{}).
		Where("tenant_id = ? AND account_id = ?", tenantID, accountID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts a ledger row
func (r *GormAccountMovementRepository) Create(ctx context.Context, movement *finance.AccountMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

func (r *GormAccountMovementRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "direction":
			query = query.Where("direction = ?", value)
		case "source_type":
			query = query.Where("source_type = ?", value)
		case "moved_from":
			query = query.Where("moved_at >= ?", value)
		case "moved_to":
			query = query.Where("moved_at < ?", value)
		}
	}
	return query
}

// Ensure GormAccountMovementRepository implements AccountMovementRepository
var _ finance.AccountMovementRepository = (*GormAccountMovementRepository)(nil)
