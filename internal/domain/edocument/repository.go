package edocument

import (
	"context"

	"github.com/dukkan/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// EDocumentRepository defines persistence for e-documents and their logs.
// Logs are persisted together with the aggregate; existing log rows are
// never modified.
type EDocumentRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*EDocument, error)
	FindBySaleForTenant(ctx context.Context, tenantID, saleID uuid.UUID) ([]EDocument, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]EDocument, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, doc *EDocument) error
	// SaveWithLock persists the document only if the stored version matches
	// expectedVersion, returning ErrConcurrencyConflict otherwise.
	SaveWithLock(ctx context.Context, doc *EDocument, expectedVersion int) error
}
