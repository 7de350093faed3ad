package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	appcatalog "github.com/dukkan/backend/internal/application/catalog"
	"github.com/dukkan/backend/internal/application/report"
)

// ReportHandler serves the read-only reporting endpoints
type ReportHandler struct {
	BaseHandler
	reports  *report.ReportService
	products *appcatalog.ProductService
}

// NewReportHandler creates a ReportHandler
func NewReportHandler(reports *report.ReportService, products *appcatalog.ProductService) *ReportHandler {
	return &ReportHandler{reports: reports, products: products}
}

// RegisterRoutes registers the report endpoints
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/reports")
	group.GET("/sales-summary", h.SalesSummary)
	group.GET("/top-products", h.TopProducts)
	group.GET("/payment-methods", h.PaymentMethods)
	group.GET("/account-balances", h.AccountBalances)
	group.GET("/receivables", h.Receivables)
	group.GET("/low-stock", h.LowStock)
}

// dateRange parses optional from/to query parameters (RFC 3339 or
// YYYY-MM-DD). Returns ok=false after writing a 400 on a malformed value.
func (h *ReportHandler) dateRange(c *gin.Context) (report.DateRange, bool) {
	var dr report.DateRange
	if v := c.Query("from"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			h.BadRequest(c, "Invalid from date")
			return dr, false
		}
		dr.From = t
	}
	if v := c.Query("to"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			h.BadRequest(c, "Invalid to date")
			return dr, false
		}
		dr.To = t
	}
	return dr, true
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

// SalesSummary returns sale/cancel/return counts and totals for a period
func (h *ReportHandler) SalesSummary(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}
	dr, ok := h.dateRange(c)
	if !ok {
		return
	}

	summary, err := h.reports.GetSalesSummary(c.Request.Context(), tenantID, dr)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, summary)
}

// TopProducts ranks products by revenue over a period
func (h *ReportHandler) TopProducts(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}
	dr, ok := h.dateRange(c)
	if !ok {
		return
	}

	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			h.BadRequest(c, "Invalid limit")
			return
		}
		limit = n
	}

	products, err := h.reports.GetTopProducts(c.Request.Context(), tenantID, dr, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, products)
}

// PaymentMethods totals completed sales per payment method over a period
func (h *ReportHandler) PaymentMethods(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}
	dr, ok := h.dateRange(c)
	if !ok {
		return
	}

	breakdown, err := h.reports.GetPaymentMethodBreakdown(c.Request.Context(), tenantID, dr)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, breakdown)
}

// AccountBalances returns all active accounts with their balances
func (h *ReportHandler) AccountBalances(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}

	balances, err := h.reports.GetAccountBalances(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, balances)
}

// Receivables returns customers with open balances, largest first
func (h *ReportHandler) Receivables(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}

	receivables, err := h.reports.GetCustomerReceivables(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, receivables)
}

// LowStock returns active products at or below their minimum stock level
func (h *ReportHandler) LowStock(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}

	products, err := h.products.ListLowStock(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, products)
}
