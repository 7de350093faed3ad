package report

import (
	"context"
	"time"

	"github.com/dukkan/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateRange bounds a report query. Zero values mean unbounded.
type DateRange struct {
	From time.Time
	To   time.Time
}

// SalesSummary aggregates completed sales over a period
type SalesSummary struct {
	SaleCount     int64           `json:"sale_count"`
	CancelCount   int64           `json:"cancel_count"`
	ReturnCount   int64           `json:"return_count"`
	GrossTotal    decimal.Decimal `json:"gross_total"`
	VATTotal      decimal.Decimal `json:"vat_total"`
	DiscountTotal decimal.Decimal `json:"discount_total"`
	ReturnTotal   decimal.Decimal `json:"return_total"`
	NetTotal      decimal.Decimal `json:"net_total"`
}

// ProductSales ranks one product by revenue
type ProductSales struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// PaymentMethodBreakdown totals completed sales per payment method
type PaymentMethodBreakdown struct {
	Method string          `json:"method"`
	Count  int64           `json:"count"`
	Total  decimal.Decimal `json:"total"`
}

// AccountBalance is one account's current balance
type AccountBalance struct {
	AccountID uuid.UUID       `json:"account_id"`
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	Balance   decimal.Decimal `json:"balance"`
}

// CustomerReceivable is one customer's open balance
type CustomerReceivable struct {
	CustomerID uuid.UUID       `json:"customer_id"`
	Name       string          `json:"name"`
	Balance    decimal.Decimal `json:"balance"`
}

// ReportRepository runs the aggregate queries behind reports. Reports only
// read committed data; they never see rows of other tenants.
type ReportRepository interface {
	SalesSummary(ctx context.Context, tenantID uuid.UUID, dateRange DateRange) (*SalesSummary, error)
	TopProducts(ctx context.Context, tenantID uuid.UUID, dateRange DateRange, limit int) ([]ProductSales, error)
	PaymentMethodBreakdown(ctx context.Context, tenantID uuid.UUID, dateRange DateRange) ([]PaymentMethodBreakdown, error)
	AccountBalances(ctx context.Context, tenantID uuid.UUID) ([]AccountBalance, error)
	CustomerReceivables(ctx context.Context, tenantID uuid.UUID) ([]CustomerReceivable, error)
}

const defaultTopProducts = 10

// ReportService answers read-only business questions over committed data.
type ReportService struct {
	repo ReportRepository
}

// NewReportService creates a ReportService
func NewReportService(repo ReportRepository) *ReportService {
	return &ReportService{repo: repo}
}

// GetSalesSummary returns sale, return and revenue totals for a period
func (s *ReportService) GetSalesSummary(ctx context.Context, tenantID uuid.UUID, dateRange DateRange) (*SalesSummary, error) {
	if err := validateRange(dateRange); err != nil {
		return nil, err
	}
	return s.repo.SalesSummary(ctx, tenantID, dateRange)
}

// GetTopProducts returns the best-selling products by revenue
func (s *ReportService) GetTopProducts(ctx context.Context, tenantID uuid.UUID, dateRange DateRange, limit int) ([]ProductSales, error) {
	if err := validateRange(dateRange); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = defaultTopProducts
	}
	return s.repo.TopProducts(ctx, tenantID, dateRange, limit)
}

// GetPaymentMethodBreakdown totals completed sales per payment method
func (s *ReportService) GetPaymentMethodBreakdown(ctx context.Context, tenantID uuid.UUID, dateRange DateRange) ([]PaymentMethodBreakdown, error) {
	if err := validateRange(dateRange); err != nil {
		return nil, err
	}
	return s.repo.PaymentMethodBreakdown(ctx, tenantID, dateRange)
}

// GetAccountBalances returns every account's current balance
func (s *ReportService) GetAccountBalances(ctx context.Context, tenantID uuid.UUID) ([]AccountBalance, error) {
	return s.repo.AccountBalances(ctx, tenantID)
}

// GetCustomerReceivables returns customers with open balances
func (s *ReportService) GetCustomerReceivables(ctx context.Context, tenantID uuid.UUID) ([]CustomerReceivable, error) {
	return s.repo.CustomerReceivables(ctx, tenantID)
}

func validateRange(dateRange DateRange) error {
	if !dateRange.From.IsZero() && !dateRange.To.IsZero() && dateRange.To.Before(dateRange.From) {
		return shared.NewDomainError("INVALID_DATE_RANGE", "Range end cannot precede its start")
	}
	return nil
}
