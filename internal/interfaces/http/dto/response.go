// Package dto defines the HTTP response envelope and error code mapping.
package dto

import "github.com/dukkan/backend/internal/domain/shared"

// Response is the standard API envelope
type Response struct {
	Success bool              `json:"success"`
	Data    interface{}       `json:"data,omitempty"`
	Code    string            `json:"code,omitempty"`
	Message string            `json:"message,omitempty"`
	Errors  []ValidationError `json:"errors,omitempty"`
	Meta    *Meta             `json:"meta,omitempty"`
}

// ValidationError describes one failed field validation
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Meta carries pagination metadata
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// NewSuccessResponse wraps data in a success envelope
func NewSuccessResponse(data interface{}) Response {
	return Response{Success: true, Data: data}
}

// NewPaginatedResponse wraps a paginated application result
func NewPaginatedResponse[T any](p *shared.Paginated[T]) Response {
	return Response{
		Success: true,
		Data:    p.Items,
		Meta: &Meta{
			Page:       p.Page,
			Limit:      p.PageSize,
			Total:      p.Total,
			TotalPages: p.TotalPages,
		},
	}
}

// NewErrorResponse builds an error envelope
func NewErrorResponse(code, message string) Response {
	return Response{Success: false, Code: code, Message: message}
}

// NewValidationErrorResponse builds an error envelope with field details
func NewValidationErrorResponse(message string, errors []ValidationError) Response {
	return Response{
		Success: false,
		Code:    CodeValidation,
		Message: message,
		Errors:  errors,
	}
}

// ListQuery holds common list/pagination query parameters
type ListQuery struct {
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Sort   string `form:"sort"`
	Order  string `form:"order" binding:"omitempty,oneof=asc desc ASC DESC"`
	Search string `form:"search"`
}

// ToFilter converts query parameters to a repository filter, applying
// defaults for anything the client omitted.
func (q ListQuery) ToFilter() shared.Filter {
	f := shared.DefaultFilter()
	if q.Page > 0 {
		f.Page = q.Page
	}
	if q.Limit > 0 {
		f.PageSize = q.Limit
	}
	if q.Sort != "" {
		f.OrderBy = q.Sort
	}
	if q.Order != "" {
		f.OrderDir = q.Order
	}
	f.Search = q.Search
	return f
}
