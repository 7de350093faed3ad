package edocument

import (
	"context"

	"github.com/dukkan/backend/internal/domain/edocument"
	"github.com/dukkan/backend/internal/domain/sales"
	"github.com/dukkan/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClearingClient is the outbound port to the government clearing system.
// Send hands a pending document over and returns the external UUID assigned
// by the clearing side.
type ClearingClient interface {
	Send(ctx context.Context, doc *edocument.EDocument) (externalUUID string, err error)
}

// EDocumentService manages the e-document lifecycle. Approval and rejection
// arrive asynchronously via clearing callbacks; the service only records
// them, it never decides them.
type EDocumentService struct {
	docRepo  edocument.EDocumentRepository
	saleRepo sales.SaleRepository
	clearing ClearingClient
	logger   *zap.Logger
}

// NewEDocumentService creates an EDocumentService
func NewEDocumentService(
	docRepo edocument.EDocumentRepository,
	saleRepo sales.SaleRepository,
	clearing ClearingClient,
	logger *zap.Logger,
) *EDocumentService {
	return &EDocumentService{
		docRepo:  docRepo,
		saleRepo: saleRepo,
		clearing: clearing,
		logger:   logger,
	}
}

// CreateFromSale creates a draft e-document for a completed sale. A sale may
// only carry one document that is not cancelled or rejected.
func (s *EDocumentService) CreateFromSale(ctx context.Context, tenantID, userID uuid.UUID, input CreateDocumentInput) (*DocumentDTO, error) {
	sale, err := s.saleRepo.FindByIDForTenant(ctx, tenantID, input.SaleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, shared.ErrNotFound
	}
	if sale.Status != sales.SaleStatusCompleted {
		return nil, shared.NewDomainError("SALE_NOT_COMPLETED", "E-documents require a completed sale")
	}

	existing, err := s.docRepo.FindBySaleForTenant(ctx, tenantID, sale.ID)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		status := existing[i].Status
		if status != edocument.DocumentStatusCancelled && status != edocument.DocumentStatusRejected {
			return nil, shared.NewDomainError("DOCUMENT_EXISTS", "Sale already has an active e-document")
		}
	}

	doc, err := edocument.NewEDocument(tenantID, sale.ID, input.Type, sale.GrandTotal)
	if err != nil {
		return nil, err
	}
	doc.SetCreatedBy(userID)

	if err := s.docRepo.Save(ctx, doc); err != nil {
		return nil, err
	}
	s.logger.Info("e-document created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("sale_id", sale.ID.String()),
		zap.String("type", string(doc.Type)),
	)
	return ToDocumentDTO(doc), nil
}

// Submit queues a draft document for sending
func (s *EDocumentService) Submit(ctx context.Context, tenantID, docID uuid.UUID) (*DocumentDTO, error) {
	return s.transition(ctx, tenantID, docID, func(doc *edocument.EDocument) error {
		return doc.Submit()
	})
}

// Send hands a pending document to the clearing system. The document moves
// to sent only after the clearing side acknowledged and assigned a UUID.
func (s *EDocumentService) Send(ctx context.Context, tenantID, docID uuid.UUID) (*DocumentDTO, error) {
	doc, err := s.docRepo.FindByIDForTenant(ctx, tenantID, docID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, shared.ErrNotFound
	}
	if !doc.Status.CanTransitionTo(edocument.DocumentStatusSent) {
		return nil, shared.NewDomainError("INVALID_DOCUMENT_TRANSITION",
			"E-document cannot move from "+string(doc.Status)+" to sent")
	}

	externalUUID, err := s.clearing.Send(ctx, doc)
	if err != nil {
		s.logger.Warn("clearing submission failed",
			zap.String("tenant_id", tenantID.String()),
			zap.String("document_id", docID.String()),
			zap.Error(err),
		)
		return nil, shared.NewDomainError("CLEARING_UNAVAILABLE", "Clearing system rejected the submission")
	}

	loadedVersion := doc.Version
	if err := doc.MarkSent(externalUUID); err != nil {
		return nil, err
	}
	if err := s.docRepo.SaveWithLock(ctx, doc, loadedVersion); err != nil {
		return nil, err
	}
	return ToDocumentDTO(doc), nil
}

// RecordApproval records clearing-system approval of a sent document
func (s *EDocumentService) RecordApproval(ctx context.Context, tenantID, docID uuid.UUID, input ClearingResultInput) (*DocumentDTO, error) {
	return s.transition(ctx, tenantID, docID, func(doc *edocument.EDocument) error {
		return doc.Approve(input.ResponseCode)
	})
}

// RecordRejection records clearing-system rejection of a sent document
func (s *EDocumentService) RecordRejection(ctx context.Context, tenantID, docID uuid.UUID, input ClearingResultInput) (*DocumentDTO, error) {
	return s.transition(ctx, tenantID, docID, func(doc *edocument.EDocument) error {
		return doc.Reject(input.ResponseCode, input.Reason)
	})
}

// Cancel withdraws a document that has not been sent yet
func (s *EDocumentService) Cancel(ctx context.Context, tenantID, docID uuid.UUID) (*DocumentDTO, error) {
	return s.transition(ctx, tenantID, docID, func(doc *edocument.EDocument) error {
		return doc.Cancel()
	})
}

func (s *EDocumentService) transition(ctx context.Context, tenantID, docID uuid.UUID, apply func(*edocument.EDocument) error) (*DocumentDTO, error) {
	doc, err := s.docRepo.FindByIDForTenant(ctx, tenantID, docID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, shared.ErrNotFound
	}

	loadedVersion := doc.Version
	if err := apply(doc); err != nil {
		return nil, err
	}
	if err := s.docRepo.SaveWithLock(ctx, doc, loadedVersion); err != nil {
		return nil, err
	}
	return ToDocumentDTO(doc), nil
}

// GetDocument returns an e-document with its transition logs
func (s *EDocumentService) GetDocument(ctx context.Context, tenantID, docID uuid.UUID) (*DocumentDTO, error) {
	doc, err := s.docRepo.FindByIDForTenant(ctx, tenantID, docID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, shared.ErrNotFound
	}
	return ToDocumentDTO(doc), nil
}

// ListDocuments returns a page of e-documents
func (s *EDocumentService) ListDocuments(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[DocumentDTO], error) {
	items, err := s.docRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.docRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	dtos := make([]DocumentDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, *ToDocumentDTO(&items[i]))
	}
	page := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &page, nil
}

// ListBySale returns all e-documents of one sale
func (s *EDocumentService) ListBySale(ctx context.Context, tenantID, saleID uuid.UUID) ([]DocumentDTO, error) {
	items, err := s.docRepo.FindBySaleForTenant(ctx, tenantID, saleID)
	if err != nil {
		return nil, err
	}
	dtos := make([]DocumentDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, *ToDocumentDTO(&items[i]))
	}
	return dtos, nil
}
