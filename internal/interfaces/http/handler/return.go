package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appsales "github.com/dukkan/backend/internal/application/sales"
)

// ReturnHandler serves the return endpoints
type ReturnHandler struct {
	BaseHandler
	returns *appsales.ReturnService
}

// NewReturnHandler creates a ReturnHandler
func NewReturnHandler(returns *appsales.ReturnService) *ReturnHandler {
	return &ReturnHandler{returns: returns}
}

// RegisterRoutes registers the return endpoints
func (h *ReturnHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/returns")
	group.GET("", h.List)
	group.POST("", h.Create)
	group.GET("/:id", h.Get)
}

type returnItemRequest struct {
	ProductID  uuid.UUID        `json:"product_id" binding:"required"`
	SaleItemID *uuid.UUID       `json:"sale_item_id"`
	Quantity   decimal.Decimal  `json:"quantity" binding:"required"`
	UnitPrice  *decimal.Decimal `json:"unit_price"`
}

type createReturnRequest struct {
	SaleID *uuid.UUID          `json:"sale_id"`
	Items  []returnItemRequest `json:"items" binding:"required,min=1,dive"`
	Reason string              `json:"reason" binding:"max=500"`
}

// Create records a return, restocking the returned quantities
func (h *ReturnHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.Identity(c)
	if !ok {
		return
	}

	var req createReturnRequest
	if !h.BindJSON(c, &req) {
		return
	}

	items := make([]appsales.CreateReturnItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, appsales.CreateReturnItemInput{
			ProductID:  item.ProductID,
			SaleItemID: item.SaleItemID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
		})
	}

	ret, err := h.returns.CreateReturn(c.Request.Context(), tenantID, userID, appsales.CreateReturnInput{
		SaleID: req.SaleID,
		Items:  items,
		Reason: req.Reason,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ret)
}

// Get returns one return with its items
func (h *ReturnHandler) Get(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}
	returnID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	ret, err := h.returns.GetReturn(c.Request.Context(), tenantID, returnID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, ret)
}

// List returns a page of returns
func (h *ReturnHandler) List(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}

	filter, ok := h.ListFilter(c)
	if !ok {
		return
	}
	if v := c.Query("sale_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			filter.Filters["sale_id"] = id
		}
	}

	page, err := h.returns.ListReturns(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	OKPaginated(c, page)
}
