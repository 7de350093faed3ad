package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dukkan/backend/internal/domain/edocument"
	"github.com/dukkan/backend/internal/domain/shared"
)

// GormEDocumentRepository implements EDocumentRepository using GORM
type GormEDocumentRepository struct {
	db *gorm.DB
}

// NewGormEDocumentRepository creates a new GormEDocumentRepository
func NewGormEDocumentRepository(db *gorm.DB) *GormEDocumentRepository {
	return &GormEDocumentRepository{db: db}
}

// FindByIDForTenant finds an e-document with its logs by ID within a tenant
func (r *GormEDocumentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*edocument.EDocument, error) {
	var doc edocument.EDocument
	if err := r.db.WithContext(ctx).
		Preload("Logs", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

// FindBySaleForTenant finds the e-documents created for a sale
func (r *GormEDocumentRepository) FindBySaleForTenant(ctx context.Context, tenantID, saleID uuid.UUID) ([]edocument.EDocument, error) {
	var docs []edocument.EDocument
	if err := r.db.WithContext(ctx).
		Preload("Logs").
		Where("tenant_id = ? AND sale_id = ?", tenantID, saleID).
		Order("created_at ASC").
		Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// FindAllForTenant finds all e-documents for a tenant matching the filter
func (r *GormEDocumentRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]edocument.EDocument, error) {
	var docs []edocument.EDocument
	query := r.db.WithContext(ctx).Model(&edocument.EDocument{}).Preload("Logs").Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)
	query = applyOrdering(query, filter, edocumentSortFields, "created_at")
	query = applyPagination(query, filter)

	if err := query.Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// CountForTenant counts e-documents for a tenant matching the filter
func (r *GormEDocumentRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&edocument.EDocument{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an e-document together with its logs
func (r *GormEDocumentRepository) Save(ctx context.Context, doc *edocument.EDocument) error {
	return r.db.WithContext(ctx).Save(doc).Error
}

// SaveWithLock persists the document header under a version check and appends
// any new log rows, in one transaction so a status change can never land
// without its log row. Existing log rows are never rewritten: the insert
// skips conflicts on the primary key.
func (r *GormEDocumentRepository) SaveWithLock(ctx context.Context, doc *edocument.EDocument, expectedVersion int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.
			Model(&edocument.EDocument{}).
			Where("id = ? AND tenant_id = ? AND version = ?", doc.ID, doc.TenantID, expectedVersion).
			Updates(map[string]interface{}{
				"status":        doc.Status,
				"external_uuid": doc.ExternalUUID,
				"response_code": doc.ResponseCode,
				"submitted_at":  doc.SubmittedAt,
				"finalized_at":  doc.FinalizedAt,
				"version":       doc.Version,
				"updated_at":    doc.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		if len(doc.Logs) > 0 {
			if err := tx.
				Clauses(clause.OnConflict{DoNothing: true}).
				Create(&doc.Logs).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *GormEDocumentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "type":
			query = query.Where("type = ?", value)
		case "sale_id":
			query = query.Where("sale_id = ?", value)
		}
	}
	return query
}

// Ensure GormEDocumentRepository implements EDocumentRepository
var _ edocument.EDocumentRepository = (*GormEDocumentRepository)(nil)
