package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appsales "github.com/dukkan/backend/internal/application/sales"
	"github.com/dukkan/backend/internal/domain/sales"
)

// QuoteHandler serves the quote endpoints
type QuoteHandler struct {
	BaseHandler
	quotes *appsales.QuoteService
}

// NewQuoteHandler creates a QuoteHandler
func NewQuoteHandler(quotes *appsales.QuoteService) *QuoteHandler {
	return &QuoteHandler{quotes: quotes}
}

// RegisterRoutes registers the quote endpoints
func (h *QuoteHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/quotes")
	group.GET("", h.List)
	group.POST("", h.Create)
	group.GET("/:id", h.Get)
	group.PUT("/:id/status", h.UpdateStatus)
	group.POST("/:id/convert", h.Convert)
}

type quoteItemRequest struct {
	ProductID    uuid.UUID        `json:"product_id" binding:"required"`
	Quantity     decimal.Decimal  `json:"quantity" binding:"required"`
	UnitPrice    *decimal.Decimal `json:"unit_price"`
	DiscountRate decimal.Decimal  `json:"discount_rate"`
}

type createQuoteRequest struct {
	CustomerID     *uuid.UUID         `json:"customer_id"`
	Items          []quoteItemRequest `json:"items" binding:"required,min=1,dive"`
	GlobalDiscount decimal.Decimal    `json:"global_discount"`
	VATIncluded    bool               `json:"vat_included"`
	ValidUntil     *time.Time         `json:"valid_until"`
	Note           string             `json:"note" binding:"max=1000"`
}

// Create records a quote. Quotes never touch stock.
func (h *QuoteHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.Identity(c)
	if !ok {
		return
	}

	var req createQuoteRequest
	if !h.BindJSON(c, &req) {
		return
	}

	items := make([]appsales.CreateQuoteItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, appsales.CreateQuoteItemInput{
			ProductID:    item.ProductID,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			DiscountRate: item.DiscountRate,
		})
	}

	quote, err := h.quotes.CreateQuote(c.Request.Context(), tenantID, userID, appsales.CreateQuoteInput{
		CustomerID:     req.CustomerID,
		Items:          items,
		GlobalDiscount: req.GlobalDiscount,
		VATIncluded:    req.VATIncluded,
		ValidUntil:     req.ValidUntil,
		Note:           req.Note,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, quote)
}

type quoteStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=sent accepted rejected expired"`
}

// UpdateStatus moves a quote along its lifecycle
func (h *QuoteHandler) UpdateStatus(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}
	quoteID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	var req quoteStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	quote, err := h.quotes.UpdateStatus(c.Request.Context(), tenantID, quoteID, sales.QuoteStatus(req.Status))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, quote)
}

type convertQuoteRequest struct {
	PaymentMethod string     `json:"payment_method" binding:"required,oneof=cash card transfer credit"`
	AccountID     *uuid.UUID `json:"account_id"`
}

// Convert turns a quote into a sale exactly once, re-validating stock
func (h *QuoteHandler) Convert(c *gin.Context) {
	tenantID, userID, ok := h.Identity(c)
	if !ok {
		return
	}
	quoteID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	var req convertQuoteRequest
	if !h.BindJSON(c, &req) {
		return
	}

	sale, err := h.quotes.ConvertQuote(c.Request.Context(), tenantID, userID, quoteID, appsales.ConvertQuoteInput{
		PaymentMethod: sales.PaymentMethod(req.PaymentMethod),
		AccountID:     req.AccountID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sale)
}

// Get returns one quote with its items
func (h *QuoteHandler) Get(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}
	quoteID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	quote, err := h.quotes.GetQuote(c.Request.Context(), tenantID, quoteID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, quote)
}

// List returns a page of quotes
func (h *QuoteHandler) List(c *gin.Context) {
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
	if v := c.Query("customer_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			filter.Filters["customer_id"] = id
		}
	}

	page, err := h.quotes.ListQuotes(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	OKPaginated(c, page)
}
