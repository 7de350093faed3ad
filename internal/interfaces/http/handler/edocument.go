package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appedocument "github.com/dukkan/backend/internal/application/edocument"
	"github.com/dukkan/backend/internal/domain/edocument"
)

// EDocumentHandler serves the e-document endpoints
type EDocumentHandler struct {
	BaseHandler
	documents *appedocument.EDocumentService
}

// NewEDocumentHandler creates an EDocumentHandler
func NewEDocumentHandler(documents *appedocument.EDocumentService) *EDocumentHandler {
	return &EDocumentHandler{documents: documents}
}

// RegisterRoutes registers the e-document endpoints
func (h *EDocumentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/e-documents")
	group.GET("", h.List)
	group.POST("", h.Create)
	group.GET("/:id", h.Get)
	group.POST("/:id/submit", h.Submit)
	group.POST("/:id/send", h.Send)
	group.POST("/:id/approve", h.Approve)
	group.POST("/:id/reject", h.Reject)
	group.POST("/:id/cancel", h.Cancel)
}

type createDocumentRequest struct {
	SaleID uuid.UUID `json:"sale_id" binding:"required"`
	Type   string    `json:"type" binding:"required,oneof=e_invoice e_archive"`
}

// Create drafts an e-document for a completed sale
func (h *EDocumentHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.Identity(c)
	if !ok {
		return
	}

	var req createDocumentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.documents.CreateFromSale(c.Request.Context(), tenantID, userID, appedocument.CreateDocumentInput{
		SaleID: req.SaleID,
		Type:   edocument.DocumentType(req.Type),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, doc)
}

// Submit moves a draft document to pending
func (h *EDocumentHandler) Submit(c *gin.Context) {
	h.transition(c, h.documents.Submit)
}

// Send transmits a pending document to the clearing system
func (h *EDocumentHandler) Send(c *gin.Context) {
	h.transition(c, h.documents.Send)
}

// Cancel cancels a draft or pending document
func (h *EDocumentHandler) Cancel(c *gin.Context) {
	h.transition(c, h.documents.Cancel)
}

func (h *EDocumentHandler) transition(
	c *gin.Context,
	op func(ctx context.Context, tenantID, docID uuid.UUID) (*appedocument.DocumentDTO, error),
) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}
	docID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	doc, err := op(c.Request.Context(), tenantID, docID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, doc)
}

type clearingResultRequest struct {
	ResponseCode string `json:"response_code" binding:"max=50"`
	Reason       string `json:"reason" binding:"max=500"`
}

// Approve records the clearing system's approval of a sent document
func (h *EDocumentHandler) Approve(c *gin.Context) {
	h.recordResult(c, h.documents.RecordApproval)
}

// Reject records the clearing system's rejection of a sent document
func (h *EDocumentHandler) Reject(c *gin.Context) {
	h.recordResult(c, h.documents.RecordRejection)
}

func (h *EDocumentHandler) recordResult(
	c *gin.Context,
	op func(ctx context.Context, tenantID, docID uuid.UUID, input appedocument.ClearingResultInput) (*appedocument.DocumentDTO, error),
) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}
	docID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	var req clearingResultRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := op(c.Request.Context(), tenantID, docID, appedocument.ClearingResultInput{
		ResponseCode: req.ResponseCode,
		Reason:       req.Reason,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, doc)
}

// Get returns one e-document with its transition log
func (h *EDocumentHandler) Get(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}
	docID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	doc, err := h.documents.GetDocument(c.Request.Context(), tenantID, docID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, doc)
}

// List returns a page of e-documents
func (h *EDocumentHandler) List(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}

	filter, ok := h.ListFilter(c)
	if !ok {
		return
	}
	if v := c.Query("status"); v != "" {
		filter.Filters["status"] = v
	}
	if v := c.Query("type"); v != "" {
		filter.Filters["type"] = v
	}
	if v := c.Query("sale_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			filter.Filters["sale_id"] = id
		}
	}

	page, err := h.documents.ListDocuments(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	OKPaginated(c, page)
}
