package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dukkan/backend/internal/application/report"
	"github.com/dukkan/backend/internal/domain/finance"
	"github.com/dukkan/backend/internal/domain/partner"
	"github.com/dukkan/backend/internal/domain/sales"
)

// GormReportRepository implements the report aggregate queries using GORM
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// withDateRange constrains a query on the given timestamp column
func withDateRange(query *gorm.DB, column string, dateRange report.DateRange) *gorm.DB {
	if !dateRange.From.IsZero() {
		query = query.Where(column+" >= ?", dateRange.From)
	}
	if !dateRange.To.IsZero() {
		query = query.Where(column+" < ?", dateRange.To)
	}
	return query
}

type salesTotalsRow struct {
	SaleCount     int64
	GrossTotal    decimal.Decimal
	VATTotal      decimal.Decimal
	DiscountTotal decimal.Decimal
}

type returnTotalsRow struct {
	ReturnCount int64
	ReturnTotal decimal.Decimal
}

// SalesSummary aggregates completed sales, cancellations and returns over a period
func (r *GormReportRepository) SalesSummary(ctx context.Context, tenantID uuid.UUID, dateRange report.DateRange) (*report.SalesSummary, error) {
	var totals salesTotalsRow
	query := r.db.WithContext(ctx).
		Model(&sales.Sale{}).
		Select(`COUNT(*) AS sale_count,
			COALESCE(SUM(grand_total), 0) AS gross_total,
			COALESCE(SUM(vat_total), 0) AS vat_total,
			COALESCE(SUM(discount_total), 0) AS discount_total`).
		Where("tenant_id = ? AND status = ?", tenantID, sales.SaleStatusCompleted)
	if err := withDateRange(query, "sold_at", dateRange).Scan(&totals).Error; err != nil {
		return nil, err
	}

	var cancelCount int64
	cancelQuery := r.db.WithContext(ctx).
		Model(&sales.Sale{}).
		Where("tenant_id = ? AND status = ?", tenantID, sales.SaleStatusCancelled)
	if err := withDateRange(cancelQuery, "sold_at", dateRange).Count(&cancelCount).Error; err != nil {
		return nil, err
	}

	var returns returnTotalsRow
	returnQuery := r.db.WithContext(ctx).
		Model(&sales.Return{}).
		Select("COUNT(*) AS return_count, COALESCE(SUM(total), 0) AS return_total").
		Where("tenant_id = ?", tenantID)
	if err := withDateRange(returnQuery, "returned_at", dateRange).Scan(&returns).Error; err != nil {
		return nil, err
	}

	return &report.SalesSummary{
		SaleCount:     totals.SaleCount,
		CancelCount:   cancelCount,
		ReturnCount:   returns.ReturnCount,
		GrossTotal:    totals.GrossTotal,
		VATTotal:      totals.VATTotal,
		DiscountTotal: totals.DiscountTotal,
		ReturnTotal:   returns.ReturnTotal,
		NetTotal:      totals.GrossTotal.Sub(returns.ReturnTotal),
	}, nil
}

// TopProducts ranks products of completed sales by revenue
func (r *GormReportRepository) TopProducts(ctx context.Context, tenantID uuid.UUID, dateRange report.DateRange, limit int) ([]report.ProductSales, error) {
	var rows []report.ProductSales
	query := r.db.WithContext(ctx).
		Table("sale_items").
		Select(`sale_items.product_id AS product_id,
			MAX(sale_items.product_name) AS product_name,
			COALESCE(SUM(sale_items.quantity), 0) AS quantity,
			COALESCE(SUM(sale_items.line_total), 0) AS revenue`).
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sales.tenant_id = ? AND sales.status = ?", tenantID, sales.SaleStatusCompleted)
	query = withDateRange(query, "sales.sold_at", dateRange)

	if err := query.
		Group("sale_items.product_id").
		Order("revenue DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// PaymentMethodBreakdown totals completed sales per payment method
func (r *GormReportRepository) PaymentMethodBreakdown(ctx context.Context, tenantID uuid.UUID, dateRange report.DateRange) ([]report.PaymentMethodBreakdown, error) {
	var rows []report.PaymentMethodBreakdown
	query := r.db.WithContext(ctx).
		Model(&sales.Sale{}).
		Select("payment_method AS method, COUNT(*) AS count, COALESCE(SUM(grand_total), 0) AS total").
		Where("tenant_id = ? AND status = ?", tenantID, sales.SaleStatusCompleted)
	query = withDateRange(query, "sold_at", dateRange)

	if err := query.
		Group("payment_method").
		Order("total DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// AccountBalances returns every active account's current balance
func (r *GormReportRepository) AccountBalances(ctx context.Context, tenantID uuid.UUID) ([]report.AccountBalance, error) {
	var rows []report.AccountBalance
	if err := r.db.WithContext(ctx).
		Model(&finance.Account{}).
		Select("id AS account_id, name, type, balance").
		Where("tenant_id = ? AND is_active = ?", tenantID, true).
		Order("name ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CustomerReceivables returns customers with open balances, highest first
func (r *GormReportRepository) CustomerReceivables(ctx context.Context, tenantID uuid.UUID) ([]report.CustomerReceivable, error) {
	var rows []report.CustomerReceivable
	if err := r.db.WithContext(ctx).
		Model(&partner.Customer{}).
		Select("id AS customer_id, name, open_balance AS balance").
		Where("tenant_id = ? AND open_balance > 0", tenantID).
		Order("open_balance DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Ensure GormReportRepository implements ReportRepository
var _ report.ReportRepository = (*GormReportRepository)(nil)
