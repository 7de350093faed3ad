package catalog

import (
	"strings"

	"github.com/dukkan/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the aggregate root for sellable items. Stock quantity is only
// mutated through IncreaseStock/DecreaseStock so that every change can be
// paired with an inventory movement row.
type Product struct {
	shared.TenantAggregateRoot
	Name          string     `gorm:"type:varchar(200);not null"`
	Barcode       string     `gorm:"type:varchar(100);index:idx_products_tenant_barcode,unique,composite:tenant_barcode"`
	SKU           string     `gorm:"type:varchar(100)"`
	CategoryID    *uuid.UUID `gorm:"type:uuid;index"`
	Unit          string     `gorm:"type:varchar(20);not null;default:'piece'"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SalePrice     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	VATRate       decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	StockQuantity decimal.Decimal `gorm:"type:decimal(18,3);not null;default:0"`
	MinStockLevel decimal.Decimal `gorm:"type:decimal(18,3);not null;default:0"`
	IsActive      bool            `gorm:"not null;default:true"`
	Description   string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new active product
func NewProduct(tenantID uuid.UUID, name, barcode string, salePrice, vatRate decimal.Decimal) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name must be 1-200 characters")
	}
	if salePrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Sale price cannot be negative")
	}
	if vatRate.IsNegative() || vatRate.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("INVALID_VAT_RATE", "VAT rate must be between 0 and 100")
	}

	return &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Barcode:             strings.TrimSpace(barcode),
		Unit:                "piece",
		SalePrice:           salePrice,
		VATRate:             vatRate,
		StockQuantity:       decimal.Zero,
		MinStockLevel:       decimal.Zero,
		IsActive:            true,
	}, nil
}

// Update updates the product's descriptive fields
func (p *Product) Update(name, barcode, sku, unit, description string) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name must be 1-200 characters")
	}
	p.Name = name
	p.Barcode = strings.TrimSpace(barcode)
	p.SKU = strings.TrimSpace(sku)
	if unit != "" {
		p.Unit = unit
	}
	p.Description = description
	p.Touch()
	p.IncrementVersion()
	return nil
}

// SetPrices updates purchase price, sale price and VAT rate
func (p *Product) SetPrices(purchasePrice, salePrice, vatRate decimal.Decimal) error {
	if purchasePrice.IsNegative() || salePrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Prices cannot be negative")
	}
	if vatRate.IsNegative() || vatRate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_VAT_RATE", "VAT rate must be between 0 and 100")
	}
	p.PurchasePrice = purchasePrice
	p.SalePrice = salePrice
	p.VATRate = vatRate
	p.Touch()
	p.IncrementVersion()
	return nil
}

// SetCategory assigns the product to a category
func (p *Product) SetCategory(categoryID *uuid.UUID) {
	p.CategoryID = categoryID
	p.Touch()
	p.IncrementVersion()
}

// SetMinStockLevel sets the low-stock warning threshold
func (p *Product) SetMinStockLevel(level decimal.Decimal) error {
	if level.IsNegative() {
		return shared.NewDomainError("INVALID_MIN_STOCK", "Minimum stock level cannot be negative")
	}
	p.MinStockLevel = level
	p.Touch()
	p.IncrementVersion()
	return nil
}

// HasStock reports whether the requested quantity is available
func (p *Product) HasStock(quantity decimal.Decimal) bool {
	return p.StockQuantity.GreaterThanOrEqual(quantity)
}

// DecreaseStock removes quantity from stock. Stock can never go negative.
func (p *Product) DecreaseStock(quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if !p.HasStock(quantity) {
		return shared.ErrInsufficientStock
	}
	p.StockQuantity = p.StockQuantity.Sub(quantity)
	p.Touch()
	p.IncrementVersion()
	return nil
}

// IncreaseStock adds quantity to stock
func (p *Product) IncreaseStock(quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	p.StockQuantity = p.StockQuantity.Add(quantity)
	p.Touch()
	p.IncrementVersion()
	return nil
}

// IsLowStock reports whether stock is at or below the warning threshold
func (p *Product) IsLowStock() bool {
	if p.MinStockLevel.IsZero() {
		return false
	}
	return p.StockQuantity.LessThanOrEqual(p.MinStockLevel)
}

// Archive deactivates the product so it can no longer be sold
func (p *Product) Archive() error {
	if !p.IsActive {
		return shared.NewDomainError("ALREADY_ARCHIVED", "Product is already archived")
	}
	p.IsActive = false
	p.Touch()
	p.IncrementVersion()
	return nil
}

// Restore re-activates an archived product
func (p *Product) Restore() {
	p.IsActive = true
	p.Touch()
	p.IncrementVersion()
}
