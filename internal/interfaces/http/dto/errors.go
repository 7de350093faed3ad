package dto

import (
	"net/http"
	"strings"
)

// Error codes returned by the API. Domain errors carry the same codes, so
// the HTTP layer passes them through and only resolves the status.
const (
	CodeInternal    = "INTERNAL_ERROR"
	CodeBadRequest  = "BAD_REQUEST"
	CodeValidation  = "VALIDATION_ERROR"
	CodeRateLimited = "RATE_LIMITED"

	CodeNotFound            = "NOT_FOUND"
	CodeAlreadyExists       = "ALREADY_EXISTS"
	CodeInvalidInput        = "INVALID_INPUT"
	CodeConcurrencyConflict = "CONCURRENCY_CONFLICT"

	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeTenantInactive     = "TENANT_INACTIVE"

	CodeInvalidState        = "INVALID_STATE"
	CodeInsufficientStock   = "INSUFFICIENT_STOCK"
	CodeInsufficientBalance = "INSUFFICIENT_BALANCE"
	CodeLimitExceeded       = "LIMIT_EXCEEDED"
)

// errorCodeStatus maps error codes to HTTP status codes
var errorCodeStatus = map[string]int{
	CodeInternal:    http.StatusInternalServerError,
	CodeBadRequest:  http.StatusBadRequest,
	CodeValidation:  http.StatusBadRequest,
	CodeRateLimited: http.StatusTooManyRequests,

	CodeNotFound:            http.StatusNotFound,
	CodeAlreadyExists:       http.StatusConflict,
	CodeInvalidInput:        http.StatusBadRequest,
	CodeConcurrencyConflict: http.StatusConflict,

	CodeUnauthorized:       http.StatusUnauthorized,
	CodeInvalidCredentials: http.StatusUnauthorized,
	CodeInvalidToken:       http.StatusUnauthorized,
	CodeForbidden:          http.StatusForbidden,
	CodeTenantInactive:     http.StatusForbidden,

	CodeInvalidState:        http.StatusUnprocessableEntity,
	CodeInsufficientStock:   http.StatusUnprocessableEntity,
	CodeInsufficientBalance: http.StatusUnprocessableEntity,
	CodeLimitExceeded:       http.StatusPaymentRequired,
}

// GetHTTPStatus resolves the HTTP status for a domain error code. Codes
// outside the table follow their naming convention: INVALID_* is a bad
// request, ALREADY_* a conflict, and anything else a domain rule violation.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeStatus[code]; ok {
		return status
	}
	switch {
	case strings.HasPrefix(code, "INVALID_"):
		return http.StatusBadRequest
	case strings.HasPrefix(code, "ALREADY_"):
		return http.StatusConflict
	default:
		return http.StatusUnprocessableEntity
	}
}
