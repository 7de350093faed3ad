// Package handler contains the gin HTTP handlers. Each handler binds and
// validates the request, extracts identity from the middleware chain, calls
// one application service and writes the standard envelope.
package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/dukkan/backend/internal/domain/shared"
	"github.com/dukkan/backend/internal/interfaces/http/dto"
	"github.com/dukkan/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides response and binding helpers shared by all handlers
type BaseHandler struct{}

// OK sends a 200 envelope
func (h *BaseHandler) OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// OKPaginated sends a 200 envelope with pagination meta
func OKPaginated[T any](c *gin.Context, p *shared.Paginated[T]) {
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(p))
}

// Created sends a 201 envelope
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest sends a 400 envelope
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.CodeBadRequest, message))
}

// Forbidden sends a 403 envelope
func (h *BaseHandler) Forbidden(c *gin.Context, message string) {
	c.JSON(http.StatusForbidden, dto.NewErrorResponse(dto.CodeForbidden, message))
}

// HandleError maps application errors onto the envelope. Domain errors keep
// their code and message; anything else surfaces as a generic 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		c.JSON(dto.GetHTTPStatus(domainErr.Code),
			dto.NewErrorResponse(domainErr.Code, domainErr.Message))
		return
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError,
		dto.NewErrorResponse(dto.CodeInternal, "An unexpected error occurred"))
}

// BindJSON binds the request body and writes a validation error response on
// failure. Returns false when the request was rejected.
func (h *BaseHandler) BindJSON(c *gin.Context, target any) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		h.bindingError(c, err)
		return false
	}
	return true
}

// BindQuery binds query parameters, writing an error response on failure
func (h *BaseHandler) BindQuery(c *gin.Context, target any) bool {
	if err := c.ShouldBindQuery(target); err != nil {
		h.bindingError(c, err)
		return false
	}
	return true
}

func (h *BaseHandler) bindingError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make([]dto.ValidationError, 0, len(validationErrs))
		for _, fe := range validationErrs {
			details = append(details, dto.ValidationError{
				Field:   strings.ToLower(fe.Field()),
				Message: validationMessage(fe),
			})
		}
		c.JSON(http.StatusBadRequest,
			dto.NewValidationErrorResponse("Request validation failed", details))
		return
	}
	c.JSON(http.StatusBadRequest,
		dto.NewErrorResponse(dto.CodeBadRequest, "Malformed request body"))
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "uuid":
		return "must be a valid UUID"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}

// PathID parses the :id path parameter. Returns uuid.Nil and writes a 400
// when the parameter is not a UUID.
func (h *BaseHandler) PathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.BadRequest(c, "Invalid "+name+" parameter")
		return uuid.Nil, false
	}
	return id, true
}

// Identity returns the tenant and user from the middleware chain. A missing
// identity means the route was wired outside the auth chain, which is a
// server-side mistake, so it maps to 401 rather than a panic.
func (h *BaseHandler) Identity(c *gin.Context) (tenantID, userID uuid.UUID, ok bool) {
	tenantID, tenantOK := middleware.TenantUUID(c)
	userID, userOK := middleware.UserUUID(c)
	if !tenantOK || !userOK {
		c.JSON(http.StatusUnauthorized,
			dto.NewErrorResponse(dto.CodeUnauthorized, "Authentication required"))
		return uuid.Nil, uuid.Nil, false
	}
	return tenantID, userID, true
}

// ListFilter binds the common pagination query parameters
func (h *BaseHandler) ListFilter(c *gin.Context) (shared.Filter, bool) {
	var q dto.ListQuery
	if !h.BindQuery(c, &q) {
		return shared.Filter{}, false
	}
	return q.ToFilter(), true
}
