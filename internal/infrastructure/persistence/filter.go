package persistence

import (
	"strings"

	"gorm.io/gorm"

	"github.com/dukkan/backend/internal/domain/shared"
)

// validateSortOrder normalizes the sort order to ASC or DESC, defaulting to DESC
func validateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// validateSortField checks the sort field against a whitelist, falling back to
// defaultField when the requested field is unknown. Sort fields end up in raw
// ORDER BY clauses, so anything outside the whitelist is rejected.
func validateSortField(field string, allowed map[string]bool, defaultField string) string {
	field = strings.TrimSpace(field)
	if field != "" && allowed[field] {
		return field
	}
	return defaultField
}

// applyOrdering adds a validated ORDER BY clause to the query
func applyOrdering(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	field := validateSortField(filter.OrderBy, allowed, defaultField)
	return query.Order(field + " " + validateSortOrder(filter.OrderDir))
}

// applyPagination adds OFFSET/LIMIT to the query when the filter requests a page
func applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}

// Allowed sort fields per table. Only whitelisted columns may appear in
// ORDER BY clauses built from request input.
var (
	productSortFields = map[string]bool{
		"created_at": true, "updated_at": true, "name": true, "barcode": true,
		"sku": true, "sale_price": true, "stock_quantity": true, "unit": true,
	}
	categorySortFields = map[string]bool{
		"created_at": true, "updated_at": true, "name": true,
	}
	customerSortFields = map[string]bool{
		"created_at": true, "updated_at": true, "name": true,
		"open_balance": true, "phone": true,
	}
	saleSortFields = map[string]bool{
		"created_at": true, "updated_at": true, "invoice_number": true,
		"sold_at": true, "grand_total": true, "status": true,
	}
	returnSortFields = map[string]bool{
		"created_at": true, "updated_at": true, "return_number": true,
		"returned_at": true, "total": true,
	}
	quoteSortFields = map[string]bool{
		"created_at": true, "updated_at": true, "quote_number": true,
		"status": true, "grand_total": true, "valid_until": true,
	}
	stockMovementSortFields = map[string]bool{
		"created_at": true, "moved_at": true, "type": true, "quantity": true,
	}
	accountSortFields = map[string]bool{
		"created_at": true, "updated_at": true, "name": true, "type": true, "balance": true,
	}
	accountMovementSortFields = map[string]bool{
		"created_at": true, "moved_at": true, "amount": true,
	}
	paymentSortFields = map[string]bool{
		"created_at": true, "paid_at": true, "amount": true, "method": true,
	}
	userSortFields = map[string]bool{
		"created_at": true, "updated_at": true, "email": true,
		"display_name": true, "role": true, "status": true, "last_login_at": true,
	}
	tenantSortFields = map[string]bool{
		"created_at": true, "updated_at": true, "code": true, "name": true,
		"plan": true, "status": true, "expires_at": true,
	}
	edocumentSortFields = map[string]bool{
		"created_at": true, "updated_at": true, "status": true, "type": true,
		"submitted_at": true, "finalized_at": true, "grand_total": true,
	}
)
