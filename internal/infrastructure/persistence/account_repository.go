package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dukkan/backend/internal/domain/finance"
	"github.com/dukkan/backend/internal/domain/shared"
)

// GormAccountRepository implements AccountRepository using GORM
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// FindByIDForTenant finds an account by ID within a tenant
func (r *GormAccountRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.Account, error) {
	var account finance.Account
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// FindAllForTenant finds all accounts for a tenant
func (r *GormAccountRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.Account, error) {
	var accounts []finance.Account
	query := r.db.WithContext(ctx).Model(&finance.Account{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)
	query = applyOrdering(query, filter, accountSortFields, "name")
	query = applyPagination(query, filter)

	if err := query.Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// CountForTenant counts accounts for a tenant
func (r *GormAccountRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&finance.Account{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an account
func (r *GormAccountRepository) Save(ctx context.Context, account *finance.Account) error {
	return r.db.WithContext(ctx).Save(account).Error
}

// SaveWithLock persists the account only if the stored version matches
// expectedVersion. The version check is what keeps concurrent balance
// mutations from overwriting each other.
func (r *GormAccountRepository) SaveWithLock(ctx context.Context, account *finance.Account, expectedVersion int) error {
	result := r.db.WithContext(ctx).
		Model(&finance.Account{}).
		Where("id = ? AND tenant_id = ? AND version = ?", account.ID, account.TenantID, expectedVersion).
		Updates(map[string]interface{}{
			"name":       account.Name,
			"balance":    account.Balance,
			"is_active":  account.IsActive,
			"version":    account.Version,
			"updated_at": account.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

func (r *GormAccountRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "type":
			query = query.Where("type = ?", value)
		case "is_active":
			query = query.Where("is_active = ?", value)
		}
	}
	return query
}

// Ensure GormAccountRepository implements AccountRepository
var _ finance.AccountRepository = (*GormAccountRepository)(nil)
