package sales

import (
	"github.com/dukkan/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the sales context
const (
	EventTypeSaleCreated    = "sales.sale.created"
	EventTypeSaleCancelled  = "sales.sale.cancelled"
	EventTypeReturnCreated  = "sales.return.created"
	EventTypeQuoteConverted = "sales.quote.converted"
)

// SaleCreatedEvent is raised after a sale and its side effects are committed
type SaleCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	ItemCount     int             `json:"item_count"`
}

// NewSaleCreatedEvent creates a SaleCreatedEvent
func NewSaleCreatedEvent(s *Sale) *SaleCreatedEvent {
	return &SaleCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCreated, "Sale", s.ID, s.TenantID),
		InvoiceNumber:   s.InvoiceNumber,
		GrandTotal:      s.GrandTotal,
		PaymentMethod:   s.PaymentMethod,
		ItemCount:       len(s.Items),
	}
}

// SaleCancelledEvent is raised when a sale is cancelled
type SaleCancelledEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
}

// NewSaleCancelledEvent creates a SaleCancelledEvent
func NewSaleCancelledEvent(s *Sale) *SaleCancelledEvent {
	return &SaleCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCancelled, "Sale", s.ID, s.TenantID),
		InvoiceNumber:   s.InvoiceNumber,
		GrandTotal:      s.GrandTotal,
	}
}

// ReturnCreatedEvent is raised after a return is committed
type ReturnCreatedEvent struct {
	shared.BaseDomainEvent
	ReturnNumber string          `json:"return_number"`
	Total        decimal.Decimal `json:"total"`
}

// NewReturnCreatedEvent creates a ReturnCreatedEvent
func NewReturnCreatedEvent(r *Return) *ReturnCreatedEvent {
	return &ReturnCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnCreated, "Return", r.ID, r.TenantID),
		ReturnNumber:    r.ReturnNumber,
		Total:           r.Total,
	}
}

// QuoteConvertedEvent is raised when a quote is converted into a sale
type QuoteConvertedEvent struct {
	shared.BaseDomainEvent
	QuoteNumber string          `json:"quote_number"`
	GrandTotal  decimal.Decimal `json:"grand_total"`
}

// NewQuoteConvertedEvent creates a QuoteConvertedEvent
func NewQuoteConvertedEvent(q *Quote) *QuoteConvertedEvent {
	return &QuoteConvertedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteConverted, "Quote", q.ID, q.TenantID),
		QuoteNumber:     q.QuoteNumber,
		GrandTotal:      q.GrandTotal,
	}
}
