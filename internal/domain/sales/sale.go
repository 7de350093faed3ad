package sales

import (
	"time"

	"github.com/dukkan/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleStatus represents the lifecycle state of a sale
type SaleStatus string

const (
	SaleStatusCompleted SaleStatus = "completed"
	SaleStatusCancelled SaleStatus = "cancelled"
)

// PaymentMethod represents how a sale was paid
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodTransfer PaymentMethod = "transfer"
	// PaymentMethodCredit is an open-account ("veresiye") sale: no money moves
	// at sale time, the amount is added to the customer's receivable balance.
	PaymentMethodCredit PaymentMethod = "credit"
)

// IsValid checks if the payment method is a valid value
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer, PaymentMethodCredit:
		return true
	}
	return false
}

// IsImmediate reports whether the method settles at sale time
func (m PaymentMethod) IsImmediate() bool {
	return m != PaymentMethodCredit
}

var oneHundred = decimal.NewFromInt(100)

// SaleItem is a line of a sale. Monetary fields are computed once when the
// line is added and never recomputed afterwards.
type SaleItem struct {
	shared.BaseEntity
	SaleID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName  string          `gorm:"type:varchar(200);not null"`
	Quantity     decimal.Decimal `gorm:"type:decimal(18,3);not null"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DiscountRate decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	VATRate      decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	VATAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	LineTotal    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (SaleItem) TableName() string {
	return "sale_items"
}

// NetAmount returns the discounted net amount of the line (before VAT)
func (i *SaleItem) NetAmount() decimal.Decimal {
	discountFactor := decimal.NewFromInt(1).Sub(i.DiscountRate.Div(oneHundred))
	return i.Quantity.Mul(i.UnitPrice).Mul(discountFactor)
}

// Sale is the aggregate root for a completed retail sale.
type Sale struct {
	shared.TenantAggregateRoot
	InvoiceNumber string          `gorm:"type:varchar(50);not null;index:idx_sales_tenant_invoice,unique,composite:tenant_invoice"`
	CustomerID    *uuid.UUID      `gorm:"type:uuid;index"`
	Status        SaleStatus      `gorm:"type:varchar(20);not null;default:'completed'"`
	PaymentMethod PaymentMethod   `gorm:"type:varchar(20);not null"`
	VATIncluded   bool            `gorm:"not null;default:true"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountTotal decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	VATTotal      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	GrandTotal    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Items         []SaleItem      `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	Note          string          `gorm:"type:text"`
	SoldAt        time.Time       `gorm:"not null"`
	CancelledAt   *time.Time
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

// NewSale creates a sale in completed status with no items yet.
// Items must be added with AddItem before the sale is persisted.
func NewSale(tenantID uuid.UUID, invoiceNumber string, customerID *uuid.UUID, method PaymentMethod, vatIncluded bool) (*Sale, error) {
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Invalid payment method")
	}
	if method == PaymentMethodCredit && customerID == nil {
		return nil, shared.NewDomainError("CUSTOMER_REQUIRED", "Credit sales require a customer")
	}

	return &Sale{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		InvoiceNumber:       invoiceNumber,
		CustomerID:          customerID,
		Status:              SaleStatusCompleted,
		PaymentMethod:       method,
		VATIncluded:         vatIncluded,
		Subtotal:            decimal.Zero,
		DiscountTotal:       decimal.Zero,
		VATTotal:            decimal.Zero,
		GrandTotal:          decimal.Zero,
		Items:               make([]SaleItem, 0),
		SoldAt:              time.Now(),
	}, nil
}

// AddItem appends a line to the sale. Line amounts are computed here:
// net = qty * unit_price * (1 - discount_rate/100), vat = net * vat_rate/100.
func (s *Sale) AddItem(productID uuid.UUID, productName string, quantity, unitPrice, discountRate, vatRate decimal.Decimal) error {
	if s.Status != SaleStatusCompleted {
		return shared.ErrInvalidState
	}
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if discountRate.IsNegative() || discountRate.GreaterThan(oneHundred) {
		return shared.NewDomainError("INVALID_DISCOUNT_RATE", "Discount rate must be between 0 and 100")
	}
	if vatRate.IsNegative() || vatRate.GreaterThan(oneHundred) {
		return shared.NewDomainError("INVALID_VAT_RATE", "VAT rate must be between 0 and 100")
	}

	item := SaleItem{
		BaseEntity:   shared.NewBaseEntity(),
		SaleID:       s.ID,
		ProductID:    productID,
		ProductName:  productName,
		Quantity:     quantity,
		UnitPrice:    unitPrice,
		DiscountRate: discountRate,
		VATRate:      vatRate,
	}
	net := item.NetAmount()
	item.VATAmount = net.Mul(vatRate).Div(oneHundred)
	if s.VATIncluded {
		item.LineTotal = net.Add(item.VATAmount)
	} else {
		item.LineTotal = net
	}

	s.Items = append(s.Items, item)
	s.recalculateTotals()
	return nil
}

// SetGlobalDiscount applies a sale-wide discount amount on top of line discounts
func (s *Sale) SetGlobalDiscount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	if amount.GreaterThan(s.Subtotal.Add(s.VATTotal)) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot exceed the sale total")
	}
	s.DiscountTotal = amount
	s.recalculateTotals()
	return nil
}

// recalculateTotals recomputes the sale totals from its lines
func (s *Sale) recalculateTotals() {
	subtotal := decimal.Zero
	vatTotal := decimal.Zero
	for _, item := range s.Items {
		subtotal = subtotal.Add(item.NetAmount())
		vatTotal = vatTotal.Add(item.VATAmount)
	}
	s.Subtotal = subtotal
	s.VATTotal = vatTotal
	if s.VATIncluded {
		s.GrandTotal = subtotal.Add(vatTotal).Sub(s.DiscountTotal)
	} else {
		s.GrandTotal = subtotal.Sub(s.DiscountTotal)
	}
	s.Touch()
}

// CanCancel reports whether the sale is in a cancellable state
func (s *Sale) CanCancel() bool {
	return s.Status == SaleStatusCompleted
}

// Cancel marks the sale cancelled. Cancelling an already cancelled sale is
// rejected so stock and ledger reversals can never run twice.
func (s *Sale) Cancel() error {
	if !s.CanCancel() {
		return shared.NewDomainError("SALE_NOT_CANCELLABLE", "Only completed sales can be cancelled")
	}
	now := time.Now()
	s.Status = SaleStatusCancelled
	s.CancelledAt = &now
	s.Touch()
	s.IncrementVersion()
	s.AddDomainEvent(NewSaleCancelledEvent(s))
	return nil
}

// IsCancelled returns true if the sale has been cancelled
func (s *Sale) IsCancelled() bool {
	return s.Status == SaleStatusCancelled
}

// FindItem returns the sale item with the given ID, or nil
func (s *Sale) FindItem(itemID uuid.UUID) *SaleItem {
	for i := range s.Items {
		if s.Items[i].ID == itemID {
			return &s.Items[i]
		}
	}
	return nil
}
