package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apppartner "github.com/dukkan/backend/internal/application/partner"
)

// CustomerHandler serves the customer endpoints
type CustomerHandler struct {
	BaseHandler
	customers *apppartner.CustomerService
}

// NewCustomerHandler creates a CustomerHandler
func NewCustomerHandler(customers *apppartner.CustomerService) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

// RegisterRoutes registers the customer endpoints
func (h *CustomerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	customers := rg.Group("/customers")
	customers.GET("", h.List)
	customers.POST("", h.Create)
	customers.GET("/debtors", h.ListDebtors)
	customers.GET("/:id", h.Get)
	customers.PUT("/:id", h.Update)
	customers.POST("/:id/deactivate", h.Deactivate)
}

type customerRequest struct {
	Name      string `json:"name" binding:"required,max=200"`
	Phone     string `json:"phone" binding:"max=30"`
	Email     string `json:"email" binding:"omitempty,email"`
	Address   string `json:"address" binding:"max=500"`
	TaxNumber string `json:"tax_number" binding:"max=20"`
	Notes     string `json:"notes" binding:"max=1000"`
}

func (r customerRequest) toInput() apppartner.CustomerInput {
	return apppartner.CustomerInput{
		Name:      r.Name,
		Phone:     r.Phone,
		Email:     r.Email,
		Address:   r.Address,
		TaxNumber: r.TaxNumber,
		Notes:     r.Notes,
	}
}

// Create adds a customer
func (h *CustomerHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.Identity(c)
	if !ok {
		return
	}

	var req customerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	customer, err := h.customers.CreateCustomer(c.Request.Context(), tenantID, userID, req.toInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, customer)
}

// Update changes a customer's contact fields
func (h *CustomerHandler) Update(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}
	customerID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	var req customerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	customer, err := h.customers.UpdateCustomer(c.Request.Context(), tenantID, customerID, req.toInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, customer)
}

// Get returns one customer
func (h *CustomerHandler) Get(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}
	customerID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	customer, err := h.customers.GetCustomer(c.Request.Context(), tenantID, customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, customer)
}

// List returns a page of customers
func (h *CustomerHandler) List(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}

	filter, ok := h.ListFilter(c)
	if !ok {
		return
	}
	if v := c.Query("is_active"); v != "" {
		if active, err := strconv.ParseBool(v); err == nil {
			filter.Filters["is_active"] = active
		}
	}
	if v := c.Query("has_balance"); v != "" {
		if hasBalance, err := strconv.ParseBool(v); err == nil {
			filter.Filters["has_balance"] = hasBalance
		}
	}

	page, err := h.customers.ListCustomers(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	OKPaginated(c, page)
}

// ListDebtors returns customers with an open balance, largest first
func (h *CustomerHandler) ListDebtors(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}

	customers, err := h.customers.ListDebtors(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, customers)
}

// Deactivate disables a customer
func (h *CustomerHandler) Deactivate(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}
	customerID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	if err := h.customers.DeactivateCustomer(c.Request.Context(), tenantID, customerID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
