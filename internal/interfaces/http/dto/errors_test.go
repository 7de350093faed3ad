package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	cases := []struct {
		code   string
		status int
	}{
		{CodeNotFound, http.StatusNotFound},
		{CodeAlreadyExists, http.StatusConflict},
		{CodeConcurrencyConflict, http.StatusConflict},
		{CodeInvalidInput, http.StatusBadRequest},
		{CodeValidation, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeInvalidCredentials, http.StatusUnauthorized},
		{CodeInvalidToken, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeTenantInactive, http.StatusForbidden},
		{CodeInvalidState, http.StatusUnprocessableEntity},
		{CodeInsufficientStock, http.StatusUnprocessableEntity},
		{CodeInsufficientBalance, http.StatusUnprocessableEntity},
		{CodeLimitExceeded, http.StatusPaymentRequired},
		{CodeRateLimited, http.StatusTooManyRequests},
		{CodeInternal, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			assert.Equal(t, tc.status, GetHTTPStatus(tc.code))
		})
	}
}

func TestGetHTTPStatus_ConventionFallback(t *testing.T) {
	// Domain codes outside the table resolve by naming convention.
	assert.Equal(t, http.StatusBadRequest, GetHTTPStatus("INVALID_NAME"))
	assert.Equal(t, http.StatusBadRequest, GetHTTPStatus("INVALID_TRANSFER"))
	assert.Equal(t, http.StatusConflict, GetHTTPStatus("ALREADY_INACTIVE"))
	assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus("ACCOUNT_NOT_EMPTY"))
}
