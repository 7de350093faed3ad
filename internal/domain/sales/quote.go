package sales

import (
	"time"

	"github.com/dukkan/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuoteStatus represents the lifecycle state of a quote
type QuoteStatus string

const (
	QuoteStatusDraft     QuoteStatus = "draft"
	QuoteStatusSent      QuoteStatus = "sent"
	QuoteStatusAccepted  QuoteStatus = "accepted"
	QuoteStatusRejected  QuoteStatus = "rejected"
	QuoteStatusConverted QuoteStatus = "converted"
	QuoteStatusExpired   QuoteStatus = "expired"
)

// CanTransitionTo checks if a status transition is allowed
func (s QuoteStatus) CanTransitionTo(target QuoteStatus) bool {
	switch s {
	case QuoteStatusDraft:
		return target == QuoteStatusSent || target == QuoteStatusExpired
	case QuoteStatusSent:
		return target == QuoteStatusAccepted || target == QuoteStatusRejected ||
			target == QuoteStatusConverted || target == QuoteStatusExpired
	case QuoteStatusAccepted:
		return target == QuoteStatusConverted || target == QuoteStatusExpired
	}
	return false
}

// QuoteItem is a line of a quote, priced with the same math as sale lines.
type QuoteItem struct {
	shared.BaseEntity
	QuoteID      uuid.UUID       `gorm:"type:uuid;not null;index"`
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
func (QuoteItem) TableName() string {
	return "quote_items"
}

// Quote is a pre-sale document that may be converted into a sale exactly once.
type Quote struct {
	shared.TenantAggregateRoot
	QuoteNumber     string          `gorm:"type:varchar(50);not null;index:idx_quotes_tenant_number,unique,composite:tenant_number"`
	CustomerID      *uuid.UUID      `gorm:"type:uuid;index"`
	Status          QuoteStatus     `gorm:"type:varchar(20);not null;default:'draft'"`
	VATIncluded     bool            `gorm:"not null;default:true"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountTotal   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	VATTotal        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	GrandTotal      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Items           []QuoteItem     `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE"`
	ValidUntil      *time.Time      `gorm:"index"`
	ConvertedSaleID *uuid.UUID      `gorm:"type:uuid"`
	Note            string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Quote) TableName() string {
	return "quotes"
}

// NewQuote creates a draft quote
func NewQuote(tenantID uuid.UUID, quoteNumber string, customerID *uuid.UUID, vatIncluded bool) (*Quote, error) {
	if quoteNumber == "" {
		return nil, shared.NewDomainError("INVALID_QUOTE_NUMBER", "Quote number cannot be empty")
	}
	return &Quote{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		QuoteNumber:         quoteNumber,
		CustomerID:          customerID,
		Status:              QuoteStatusDraft,
		VATIncluded:         vatIncluded,
		Subtotal:            decimal.Zero,
		DiscountTotal:       decimal.Zero,
		VATTotal:            decimal.Zero,
		GrandTotal:          decimal.Zero,
		Items:               make([]QuoteItem, 0),
	}, nil
}

// AddItem appends a line to a draft quote
func (q *Quote) AddItem(productID uuid.UUID, productName string, quantity, unitPrice, discountRate, vatRate decimal.Decimal) error {
	if q.Status != QuoteStatusDraft {
		return shared.NewDomainError("QUOTE_NOT_EDITABLE", "Only draft quotes can be modified")
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

	discountFactor := decimal.NewFromInt(1).Sub(discountRate.Div(oneHundred))
	net := quantity.Mul(unitPrice).Mul(discountFactor)
	vatAmount := net.Mul(vatRate).Div(oneHundred)
	lineTotal := net
	if q.VATIncluded {
		lineTotal = net.Add(vatAmount)
	}

	q.Items = append(q.Items, QuoteItem{
		BaseEntity:   shared.NewBaseEntity(),
		QuoteID:      q.ID,
		ProductID:    productID,
		ProductName:  productName,
		Quantity:     quantity,
		UnitPrice:    unitPrice,
		DiscountRate: discountRate,
		VATRate:      vatRate,
		VATAmount:    vatAmount,
		LineTotal:    lineTotal,
	})
	q.recalculateTotals()
	return nil
}

// SetGlobalDiscount applies a quote-wide discount amount
func (q *Quote) SetGlobalDiscount(amount decimal.Decimal) error {
	if q.Status != QuoteStatusDraft {
		return shared.NewDomainError("QUOTE_NOT_EDITABLE", "Only draft quotes can be modified")
	}
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	q.DiscountTotal = amount
	q.recalculateTotals()
	return nil
}

func (q *Quote) recalculateTotals() {
	subtotal := decimal.Zero
	vatTotal := decimal.Zero
	for _, item := range q.Items {
		discountFactor := decimal.NewFromInt(1).Sub(item.DiscountRate.Div(oneHundred))
		subtotal = subtotal.Add(item.Quantity.Mul(item.UnitPrice).Mul(discountFactor))
		vatTotal = vatTotal.Add(item.VATAmount)
	}
	q.Subtotal = subtotal
	q.VATTotal = vatTotal
	if q.VATIncluded {
		q.GrandTotal = subtotal.Add(vatTotal).Sub(q.DiscountTotal)
	} else {
		q.GrandTotal = subtotal.Sub(q.DiscountTotal)
	}
	q.Touch()
}

// SetValidUntil sets the expiry date of the quote
func (q *Quote) SetValidUntil(validUntil time.Time) error {
	if q.Status != QuoteStatusDraft {
		return shared.NewDomainError("QUOTE_NOT_EDITABLE", "Only draft quotes can be modified")
	}
	q.ValidUntil = &validUntil
	q.Touch()
	return nil
}

// Send marks a draft quote as sent to the customer
func (q *Quote) Send() error {
	return q.transitionTo(QuoteStatusSent)
}

// Accept marks a sent quote as accepted
func (q *Quote) Accept() error {
	return q.transitionTo(QuoteStatusAccepted)
}

// Reject marks a sent quote as rejected
func (q *Quote) Reject() error {
	return q.transitionTo(QuoteStatusRejected)
}

// Expire marks the quote as expired
func (q *Quote) Expire() error {
	return q.transitionTo(QuoteStatusExpired)
}

func (q *Quote) transitionTo(target QuoteStatus) error {
	if !q.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_QUOTE_TRANSITION", "Quote cannot move from "+string(q.Status)+" to "+string(target))
	}
	q.Status = target
	q.Touch()
	q.IncrementVersion()
	return nil
}

// IsExpired reports whether the quote's validity date has passed
func (q *Quote) IsExpired() bool {
	if q.Status == QuoteStatusExpired {
		return true
	}
	return q.ValidUntil != nil && time.Now().After(*q.ValidUntil)
}

// CanConvert reports whether the quote may be converted into a sale
func (q *Quote) CanConvert() bool {
	if q.IsExpired() {
		return false
	}
	return q.Status == QuoteStatusSent || q.Status == QuoteStatusAccepted
}

// MarkConverted transitions the quote to converted, recording the sale it
// produced. Conversion is exactly-once: a converted or expired quote rejects
// further conversions.
func (q *Quote) MarkConverted(saleID uuid.UUID) error {
	if q.Status == QuoteStatusConverted {
		return shared.NewDomainError("QUOTE_ALREADY_CONVERTED", "Quote has already been converted")
	}
	if q.IsExpired() {
		return shared.NewDomainError("QUOTE_EXPIRED", "Expired quotes cannot be converted")
	}
	if !q.Status.CanTransitionTo(QuoteStatusConverted) {
		return shared.NewDomainError("INVALID_QUOTE_TRANSITION", "Quote cannot be converted from "+string(q.Status))
	}
	q.Status = QuoteStatusConverted
	q.ConvertedSaleID = &saleID
	q.Touch()
	q.IncrementVersion()
	return nil
}
