package catalog

import (
	"time"

	"github.com/dukkan/backend/internal/domain/catalog"
	"github.com/dukkan/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductInput is the request to create a product
type CreateProductInput struct {
	Name          string
	Barcode       string
	SKU           string
	Unit          string
	Description   string
	CategoryID    *uuid.UUID
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
	VATRate       decimal.Decimal
	InitialStock  decimal.Decimal
	MinStockLevel decimal.Decimal
}

// UpdateProductInput is the request to update a product's descriptive and
// pricing fields
type UpdateProductInput struct {
	Name          string
	Barcode       string
	SKU           string
	Unit          string
	Description   string
	CategoryID    *uuid.UUID
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
	VATRate       decimal.Decimal
	MinStockLevel decimal.Decimal
}

// AdjustStockInput corrects the stock level by a signed quantity
type AdjustStockInput struct {
	Quantity decimal.Decimal // positive adds stock, negative removes
	Note     string
}

// CreateCategoryInput is the request to create a category
type CreateCategoryInput struct {
	Name     string
	ParentID *uuid.UUID
}

// ProductDTO is the response shape of a product
type ProductDTO struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Barcode       string          `json:"barcode,omitempty"`
	SKU           string          `json:"sku,omitempty"`
	CategoryID    *uuid.UUID      `json:"category_id,omitempty"`
	Unit          string          `json:"unit"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	VATRate       decimal.Decimal `json:"vat_rate"`
	StockQuantity decimal.Decimal `json:"stock_quantity"`
	MinStockLevel decimal.Decimal `json:"min_stock_level"`
	IsLowStock    bool            `json:"is_low_stock"`
	IsActive      bool            `json:"is_active"`
	Description   string          `json:"description,omitempty"`
}

// ToProductDTO converts a product to its response shape
func ToProductDTO(p *catalog.Product) *ProductDTO {
	return &ProductDTO{
		ID:            p.ID,
		Name:          p.Name,
		Barcode:       p.Barcode,
		SKU:           p.SKU,
		CategoryID:    p.CategoryID,
		Unit:          p.Unit,
		PurchasePrice: p.PurchasePrice,
		SalePrice:     p.SalePrice,
		VATRate:       p.VATRate,
		StockQuantity: p.StockQuantity,
		MinStockLevel: p.MinStockLevel,
		IsLowStock:    p.IsLowStock(),
		IsActive:      p.IsActive,
		Description:   p.Description,
	}
}

// CategoryDTO is the response shape of a category
type CategoryDTO struct {
	ID       uuid.UUID  `json:"id"`
	Name     string     `json:"name"`
	ParentID *uuid.UUID `json:"parent_id,omitempty"`
}

// ToCategoryDTO converts a category to its response shape
func ToCategoryDTO(c *catalog.Category) *CategoryDTO {
	return &CategoryDTO{ID: c.ID, Name: c.Name, ParentID: c.ParentID}
}

// StockMovementDTO is the response shape of an inventory movement
type StockMovementDTO struct {
	ID         uuid.UUID              `json:"id"`
	ProductID  uuid.UUID              `json:"product_id"`
	Type       inventory.MovementType `json:"type"`
	Quantity   decimal.Decimal        `json:"quantity"`
	StockAfter decimal.Decimal        `json:"stock_after"`
	SourceType inventory.SourceType   `json:"source_type"`
	SourceID   *uuid.UUID             `json:"source_id,omitempty"`
	Note       string                 `json:"note,omitempty"`
	MovedAt    time.Time              `json:"moved_at"`
}

// ToStockMovementDTO converts a movement to its response shape
func ToStockMovementDTO(m *inventory.StockMovement) *StockMovementDTO {
	return &StockMovementDTO{
		ID:         m.ID,
		ProductID:  m.ProductID,
		Type:       m.Type,
		Quantity:   m.Quantity,
		StockAfter: m.StockAfter,
		SourceType: m.SourceType,
		SourceID:   m.SourceID,
		Note:       m.Note,
		MovedAt:    m.MovedAt,
	}
}
