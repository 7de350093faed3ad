package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appsales "github.com/dukkan/backend/internal/application/sales"
	"github.com/dukkan/backend/internal/domain/sales"
)

// SaleHandler serves the sale endpoints
type SaleHandler struct {
	BaseHandler
	sales *appsales.SaleService
}

// NewSaleHandler creates a SaleHandler
func NewSaleHandler(sales *appsales.SaleService) *SaleHandler {
	return &SaleHandler{sales: sales}
}

// RegisterRoutes registers the sale endpoints
func (h *SaleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/sales")
	group.GET("", h.List)
	group.POST("", h.Create)
	group.GET("/:id", h.Get)
	group.POST("/:id/cancel", h.Cancel)
}

type saleItemRequest struct {
	ProductID    uuid.UUID        `json:"product_id" binding:"required"`
	Quantity     decimal.Decimal  `json:"quantity" binding:"required"`
	UnitPrice    *decimal.Decimal `json:"unit_price"`
	DiscountRate decimal.Decimal  `json:"discount_rate"`
}

type createSaleRequest struct {
	CustomerID     *uuid.UUID        `json:"customer_id"`
	Items          []saleItemRequest `json:"items" binding:"required,min=1,dive"`
	GlobalDiscount decimal.Decimal   `json:"global_discount"`
	VATIncluded    bool              `json:"vat_included"`
	PaymentMethod  string            `json:"payment_method" binding:"required,oneof=cash card transfer credit"`
	AccountID      *uuid.UUID        `json:"account_id"`
	Note           string            `json:"note" binding:"max=1000"`
}

// Create records a sale: items, totals, stock decrements and settlement in
// one transaction
func (h *SaleHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.Identity(c)
	if !ok {
		return
	}

	var req createSaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	items := make([]appsales.CreateSaleItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, appsales.CreateSaleItemInput{
			ProductID:    item.ProductID,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			DiscountRate: item.DiscountRate,
		})
	}

	sale, err := h.sales.CreateSale(c.Request.Context(), tenantID, userID, appsales.CreateSaleInput{
		CustomerID:     req.CustomerID,
		Items:          items,
		GlobalDiscount: req.GlobalDiscount,
		VATIncluded:    req.VATIncluded,
		PaymentMethod:  sales.PaymentMethod(req.PaymentMethod),
		AccountID:      req.AccountID,
		Note:           req.Note,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sale)
}

// Cancel reverses a completed sale
func (h *SaleHandler) Cancel(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}
	saleID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	sale, err := h.sales.CancelSale(c.Request.Context(), tenantID, saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, sale)
}

// Get returns one sale with its items
func (h *SaleHandler) Get(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}
	saleID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	sale, err := h.sales.GetSale(c.Request.Context(), tenantID, saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, sale)
}

// List returns a page of sales
func (h *SaleHandler) List(c *gin.Context) {
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
	if v := c.Query("payment_method"); v != "" {
		filter.Filters["payment_method"] = v
	}
	if v := c.Query("customer_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			filter.Filters["customer_id"] = id
		}
	}

	page, err := h.sales.ListSales(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	OKPaginated(c, page)
}
