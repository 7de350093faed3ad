package sales

import (
	"time"

	"github.com/dukkan/backend/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateSaleItemInput is one requested sale line
type CreateSaleItemInput struct {
	ProductID    uuid.UUID
	Quantity     decimal.Decimal
	UnitPrice    *decimal.Decimal // nil means use the product's sale price
	DiscountRate decimal.Decimal
}

// CreateSaleInput is the request to create a sale
type CreateSaleInput struct {
	CustomerID     *uuid.UUID
	Items          []CreateSaleItemInput
	GlobalDiscount decimal.Decimal
	VATIncluded    bool
	PaymentMethod  sales.PaymentMethod
	AccountID      *uuid.UUID // required for immediate payment methods
	Note           string
}

// CreateReturnItemInput is one requested return line
type CreateReturnItemInput struct {
	ProductID  uuid.UUID
	SaleItemID *uuid.UUID
	Quantity   decimal.Decimal
	UnitPrice  *decimal.Decimal
}

// CreateReturnInput is the request to create a return
type CreateReturnInput struct {
	SaleID *uuid.UUID
	Items  []CreateReturnItemInput
	Reason string
}

// CreateQuoteItemInput is one requested quote line
type CreateQuoteItemInput struct {
	ProductID    uuid.UUID
	Quantity     decimal.Decimal
	UnitPrice    *decimal.Decimal
	DiscountRate decimal.Decimal
}

// CreateQuoteInput is the request to create a quote
type CreateQuoteInput struct {
	CustomerID     *uuid.UUID
	Items          []CreateQuoteItemInput
	GlobalDiscount decimal.Decimal
	VATIncluded    bool
	ValidUntil     *time.Time
	Note           string
}

// ConvertQuoteInput configures the sale created from a quote
type ConvertQuoteInput struct {
	PaymentMethod sales.PaymentMethod
	AccountID     *uuid.UUID
}

// SaleItemDTO is the response shape of a sale line
type SaleItemDTO struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	DiscountRate decimal.Decimal `json:"discount_rate"`
	VATRate      decimal.Decimal `json:"vat_rate"`
	VATAmount    decimal.Decimal `json:"vat_amount"`
	LineTotal    decimal.Decimal `json:"line_total"`
}

// SaleDTO is the response shape of a sale
type SaleDTO struct {
	ID            uuid.UUID         `json:"id"`
	InvoiceNumber string            `json:"invoice_number"`
	CustomerID    *uuid.UUID        `json:"customer_id,omitempty"`
	Status        sales.SaleStatus  `json:"status"`
	PaymentMethod sales.PaymentMethod `json:"payment_method"`
	VATIncluded   bool              `json:"vat_included"`
	Subtotal      decimal.Decimal   `json:"subtotal"`
	DiscountTotal decimal.Decimal   `json:"discount_total"`
	VATTotal      decimal.Decimal   `json:"vat_total"`
	GrandTotal    decimal.Decimal   `json:"grand_total"`
	Items         []SaleItemDTO     `json:"items"`
	Note          string            `json:"note,omitempty"`
	SoldAt        time.Time         `json:"sold_at"`
	CancelledAt   *time.Time        `json:"cancelled_at,omitempty"`
}

// ToSaleDTO converts a sale aggregate to its response shape
func ToSaleDTO(s *sales.Sale) *SaleDTO {
	items := make([]SaleItemDTO, 0, len(s.Items))
	for _, item := range s.Items {
		items = append(items, SaleItemDTO{
			ID:           item.ID,
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			DiscountRate: item.DiscountRate,
			VATRate:      item.VATRate,
			VATAmount:    item.VATAmount,
			LineTotal:    item.LineTotal,
		})
	}
	return &SaleDTO{
		ID:            s.ID,
		InvoiceNumber: s.InvoiceNumber,
		CustomerID:    s.CustomerID,
		Status:        s.Status,
		PaymentMethod: s.PaymentMethod,
		VATIncluded:   s.VATIncluded,
		Subtotal:      s.Subtotal,
		DiscountTotal: s.DiscountTotal,
		VATTotal:      s.VATTotal,
		GrandTotal:    s.GrandTotal,
		Items:         items,
		Note:          s.Note,
		SoldAt:        s.SoldAt,
		CancelledAt:   s.CancelledAt,
	}
}

// ReturnItemDTO is the response shape of a return line
type ReturnItemDTO struct {
	ID         uuid.UUID       `json:"id"`
	ProductID  uuid.UUID       `json:"product_id"`
	SaleItemID *uuid.UUID      `json:"sale_item_id,omitempty"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	LineTotal  decimal.Decimal `json:"line_total"`
}

// ReturnDTO is the response shape of a return
type ReturnDTO struct {
	ID           uuid.UUID       `json:"id"`
	ReturnNumber string          `json:"return_number"`
	SaleID       *uuid.UUID      `json:"sale_id,omitempty"`
	CustomerID   *uuid.UUID      `json:"customer_id,omitempty"`
	Reason       string          `json:"reason,omitempty"`
	Total        decimal.Decimal `json:"total"`
	Items        []ReturnItemDTO `json:"items"`
	ReturnedAt   time.Time       `json:"returned_at"`
}

// ToReturnDTO converts a return aggregate to its response shape
func ToReturnDTO(r *sales.Return) *ReturnDTO {
	items := make([]ReturnItemDTO, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, ReturnItemDTO{
			ID:         item.ID,
			ProductID:  item.ProductID,
			SaleItemID: item.SaleItemID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			LineTotal:  item.LineTotal,
		})
	}
	return &ReturnDTO{
		ID:           r.ID,
		ReturnNumber: r.ReturnNumber,
		SaleID:       r.SaleID,
		CustomerID:   r.CustomerID,
		Reason:       r.Reason,
		Total:        r.Total,
		Items:        items,
		ReturnedAt:   r.ReturnedAt,
	}
}

// QuoteItemDTO is the response shape of a quote line
type QuoteItemDTO struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	DiscountRate decimal.Decimal `json:"discount_rate"`
	VATRate      decimal.Decimal `json:"vat_rate"`
	VATAmount    decimal.Decimal `json:"vat_amount"`
	LineTotal    decimal.Decimal `json:"line_total"`
}

// QuoteDTO is the response shape of a quote
type QuoteDTO struct {
	ID              uuid.UUID         `json:"id"`
	QuoteNumber     string            `json:"quote_number"`
	CustomerID      *uuid.UUID        `json:"customer_id,omitempty"`
	Status          sales.QuoteStatus `json:"status"`
	VATIncluded     bool              `json:"vat_included"`
	Subtotal        decimal.Decimal   `json:"subtotal"`
	DiscountTotal   decimal.Decimal   `json:"discount_total"`
	VATTotal        decimal.Decimal   `json:"vat_total"`
	GrandTotal      decimal.Decimal   `json:"grand_total"`
	Items           []QuoteItemDTO    `json:"items"`
	ValidUntil      *time.Time        `json:"valid_until,omitempty"`
	ConvertedSaleID *uuid.UUID        `json:"converted_sale_id,omitempty"`
	Note            string            `json:"note,omitempty"`
}

// ToQuoteDTO converts a quote aggregate to its response shape
func ToQuoteDTO(q *sales.Quote) *QuoteDTO {
	items := make([]QuoteItemDTO, 0, len(q.Items))
	for _, item := range q.Items {
		items = append(items, QuoteItemDTO{
			ID:           item.ID,
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			DiscountRate: item.DiscountRate,
			VATRate:      item.VATRate,
			VATAmount:    item.VATAmount,
			LineTotal:    item.LineTotal,
		})
	}
	return &QuoteDTO{
		ID:              q.ID,
		QuoteNumber:     q.QuoteNumber,
		CustomerID:      q.CustomerID,
		Status:          q.Status,
		VATIncluded:     q.VATIncluded,
		Subtotal:        q.Subtotal,
		DiscountTotal:   q.DiscountTotal,
		VATTotal:        q.VATTotal,
		GrandTotal:      q.GrandTotal,
		Items:           items,
		ValidUntil:      q.ValidUntil,
		ConvertedSaleID: q.ConvertedSaleID,
		Note:            q.Note,
	}
}
