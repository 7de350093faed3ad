package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appcatalog "github.com/dukkan/backend/internal/application/catalog"
)

// ProductHandler serves the product catalog endpoints
type ProductHandler struct {
	BaseHandler
	products *appcatalog.ProductService
}

// NewProductHandler creates a ProductHandler
func NewProductHandler(products *appcatalog.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// RegisterRoutes registers the product endpoints
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	products.GET("", h.List)
	products.POST("", h.Create)
	products.GET("/low-stock", h.ListLowStock)
	products.GET("/barcode/:barcode", h.GetByBarcode)
	products.GET("/:id", h.Get)
	products.PUT("/:id", h.Update)
	products.POST("/:id/archive", h.Archive)
	products.POST("/:id/restore", h.Restore)
	products.POST("/:id/adjust-stock", h.AdjustStock)
	products.GET("/:id/movements", h.ListMovements)

	rg.GET("/stock-movements", h.ListAllMovements)
}

type productRequest struct {
	Name          string          `json:"name" binding:"required,max=200"`
	Barcode       string          `json:"barcode" binding:"max=50"`
	SKU           string          `json:"sku" binding:"max=50"`
	Unit          string          `json:"unit" binding:"max=20"`
	Description   string          `json:"description" binding:"max=1000"`
	CategoryID    *uuid.UUID      `json:"category_id"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	VATRate       decimal.Decimal `json:"vat_rate"`
	InitialStock  decimal.Decimal `json:"initial_stock"`
	MinStockLevel decimal.Decimal `json:"min_stock_level"`
}

// Create adds a product, subject to the tenant's plan limit
func (h *ProductHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.Identity(c)
	if !ok {
		return
	}

	var req productRequest
	if !h.BindJSON(c, &req) {
		return
	}

	product, err := h.products.CreateProduct(c.Request.Context(), tenantID, userID, appcatalog.CreateProductInput{
		Name:          req.Name,
		Barcode:       req.Barcode,
		SKU:           req.SKU,
		Unit:          req.Unit,
		Description:   req.Description,
		CategoryID:    req.CategoryID,
		PurchasePrice: req.PurchasePrice,
		SalePrice:     req.SalePrice,
		VATRate:       req.VATRate,
		InitialStock:  req.InitialStock,
		MinStockLevel: req.MinStockLevel,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// Update changes a product's descriptive and pricing fields
func (h *ProductHandler) Update(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}
	productID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	var req productRequest
	if !h.BindJSON(c, &req) {
		return
	}

	product, err := h.products.UpdateProduct(c.Request.Context(), tenantID, productID, appcatalog.UpdateProductInput{
		Name:          req.Name,
		Barcode:       req.Barcode,
		SKU:           req.SKU,
		Unit:          req.Unit,
		Description:   req.Description,
		CategoryID:    req.CategoryID,
		PurchasePrice: req.PurchasePrice,
		SalePrice:     req.SalePrice,
		VATRate:       req.VATRate,
		MinStockLevel: req.MinStockLevel,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, product)
}

// Get returns one product
func (h *ProductHandler) Get(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}
	productID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	product, err := h.products.GetProduct(c.Request.Context(), tenantID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, product)
}

// GetByBarcode returns the product carrying the given barcode
func (h *ProductHandler) GetByBarcode(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}

	product, err := h.products.GetProductByBarcode(c.Request.Context(), tenantID, c.Param("barcode"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, product)
}

// List returns a page of products
func (h *ProductHandler) List(c *gin.Context) {
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
	if v := c.Query("category_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			filter.Filters["category_id"] = id
		}
	}
	if v := c.Query("unit"); v != "" {
		filter.Filters["unit"] = v
	}

	page, err := h.products.ListProducts(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	OKPaginated(c, page)
}

// ListLowStock returns active products at or below their minimum stock level
func (h *ProductHandler) ListLowStock(c *gin.Context) {
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

// Archive deactivates a product
func (h *ProductHandler) Archive(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}
	productID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	if err := h.products.ArchiveProduct(c.Request.Context(), tenantID, productID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Restore reactivates an archived product
func (h *ProductHandler) Restore(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}
	productID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	if err := h.products.RestoreProduct(c.Request.Context(), tenantID, productID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

type adjustStockRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
	Note     string          `json:"note" binding:"max=500"`
}

// AdjustStock corrects the stock level by a signed quantity
func (h *ProductHandler) AdjustStock(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}
	productID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	var req adjustStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	product, err := h.products.AdjustStock(c.Request.Context(), tenantID, productID, appcatalog.AdjustStockInput{
		Quantity: req.Quantity,
		Note:     req.Note,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, product)
}

// ListMovements returns a page of stock movements for one product
func (h *ProductHandler) ListMovements(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}
	productID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	filter, ok := h.ListFilter(c)
	if !ok {
		return
	}

	movements, err := h.products.ListStockMovements(c.Request.Context(), tenantID, productID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, movements)
}

// ListAllMovements returns a page of stock movements across all products
func (h *ProductHandler) ListAllMovements(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}

	filter, ok := h.ListFilter(c)
	if !ok {
		return
	}
	if v := c.Query("type"); v != "" {
		filter.Filters["type"] = v
	}
	if v := c.Query("product_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			filter.Filters["product_id"] = id
		}
	}

	page, err := h.products.ListAllStockMovements(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	OKPaginated(c, page)
}
