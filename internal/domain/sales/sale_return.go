package sales

import (
	"time"

	"github.com/dukkan/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReturnItem is a line of a return. SaleItemID links the line back to the
// original sale item when the return references a sale; it is nil for
// freestanding returns.
type ReturnItem struct {
	shared.BaseEntity
	ReturnID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	SaleItemID *uuid.UUID      `gorm:"type:uuid;index"`
	Quantity   decimal.Decimal `gorm:"type:decimal(18,3);not null"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LineTotal  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (ReturnItem) TableName() string {
	return "return_items"
}

// Return records goods coming back into stock, optionally tied to a sale.
type Return struct {
	shared.TenantAggregateRoot
	ReturnNumber string          `gorm:"type:varchar(50);not null;index:idx_returns_tenant_number,unique,composite:tenant_number"`
	SaleID       *uuid.UUID      `gorm:"type:uuid;index"`
	CustomerID   *uuid.UUID      `gorm:"type:uuid;index"`
	Reason       string          `gorm:"type:text"`
	Total        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Items        []ReturnItem    `gorm:"foreignKey:ReturnID;constraint:OnDelete:CASCADE"`
	ReturnedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Return) TableName() string {
	return "returns"
}

// NewReturn creates a return with no items yet
func NewReturn(tenantID uuid.UUID, returnNumber string, saleID, customerID *uuid.UUID, reason string) (*Return, error) {
	if returnNumber == "" {
		return nil, shared.NewDomainError("INVALID_RETURN_NUMBER", "Return number cannot be empty")
	}
	return &Return{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ReturnNumber:        returnNumber,
		SaleID:              saleID,
		CustomerID:          customerID,
		Reason:              reason,
		Total:               decimal.Zero,
		Items:               make([]ReturnItem, 0),
		ReturnedAt:          time.Now(),
	}, nil
}

// AddItem appends a line to the return
func (r *Return) AddItem(productID uuid.UUID, saleItemID *uuid.UUID, quantity, unitPrice decimal.Decimal) error {
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if r.SaleID == nil && saleItemID != nil {
		return shared.NewDomainError("INVALID_RETURN_ITEM", "Sale item reference requires a sale reference")
	}

	item := ReturnItem{
		BaseEntity: shared.NewBaseEntity(),
		ReturnID:   r.ID,
		ProductID:  productID,
		SaleItemID: saleItemID,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		LineTotal:  quantity.Mul(unitPrice),
	}
	r.Items = append(r.Items, item)
	r.recalculateTotal()
	return nil
}

func (r *Return) recalculateTotal() {
	total := decimal.Zero
	for _, item := range r.Items {
		total = total.Add(item.LineTotal)
	}
	r.Total = total
	r.Touch()
}

// ValidateAgainstSale checks every line of the return against the original
// sale: each sale-item reference must belong to the sale, match the product,
// and the returned quantity plus quantities already returned against that
// sale item must not exceed the quantity originally sold.
// previouslyReturned maps sale item ID to the summed quantity of all prior
// return lines referencing it.
func (r *Return) ValidateAgainstSale(sale *Sale, previouslyReturned map[uuid.UUID]decimal.Decimal) error {
	if r.SaleID == nil || sale == nil {
		return shared.NewDomainError("INVALID_RETURN", "Return is not linked to a sale")
	}
	if *r.SaleID != sale.ID {
		return shared.NewDomainError("INVALID_RETURN", "Return does not reference this sale")
	}
	if sale.IsCancelled() {
		return shared.NewDomainError("SALE_CANCELLED", "Cannot return items from a cancelled sale")
	}

	requested := make(map[uuid.UUID]decimal.Decimal)
	for _, item := range r.Items {
		if item.SaleItemID == nil {
			return shared.NewDomainError("INVALID_RETURN_ITEM", "Returns linked to a sale must reference sale items")
		}
		saleItem := sale.FindItem(*item.SaleItemID)
		if saleItem == nil {
			return shared.NewDomainError("INVALID_RETURN_ITEM", "Sale item does not belong to the referenced sale")
		}
		if saleItem.ProductID != item.ProductID {
			return shared.NewDomainError("INVALID_RETURN_ITEM", "Return item product does not match the sale item")
		}
		requested[*item.SaleItemID] = requested[*item.SaleItemID].Add(item.Quantity)
	}

	for saleItemID, qty := range requested {
		saleItem := sale.FindItem(saleItemID)
		already := previouslyReturned[saleItemID]
		if already.Add(qty).GreaterThan(saleItem.Quantity) {
			return shared.NewDomainError("RETURN_QUANTITY_EXCEEDED", "Returned quantity exceeds the quantity sold")
		}
	}
	return nil
}
