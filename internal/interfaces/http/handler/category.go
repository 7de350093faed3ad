package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appcatalog "github.com/dukkan/backend/internal/application/catalog"
)

// CategoryHandler serves the category endpoints
type CategoryHandler struct {
	BaseHandler
	categories *appcatalog.CategoryService
}

// NewCategoryHandler creates a CategoryHandler
func NewCategoryHandler(categories *appcatalog.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// RegisterRoutes registers the category endpoints
func (h *CategoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	categories := rg.Group("/categories")
	categories.GET("", h.List)
	categories.POST("", h.Create)
	categories.PUT("/:id", h.Rename)
	categories.DELETE("/:id", h.Delete)
}

type createCategoryRequest struct {
	Name     string     `json:"name" binding:"required,max=100"`
	ParentID *uuid.UUID `json:"parent_id"`
}

// Create adds a category
func (h *CategoryHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.Identity(c)
	if !ok {
		return
	}

	var req createCategoryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	category, err := h.categories.CreateCategory(c.Request.Context(), tenantID, userID, appcatalog.CreateCategoryInput{
		Name:     req.Name,
		ParentID: req.ParentID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, category)
}

type renameCategoryRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// Rename changes a category's name
func (h *CategoryHandler) Rename(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}
	categoryID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	var req renameCategoryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	category, err := h.categories.RenameCategory(c.Request.Context(), tenantID, categoryID, req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, category)
}

// Delete removes a category. Categories still referenced by products or
// subcategories are rejected.
func (h *CategoryHandler) Delete(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}
	categoryID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	if err := h.categories.DeleteCategory(c.Request.Context(), tenantID, categoryID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// List returns a page of categories
func (h *CategoryHandler) List(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}

	filter, ok := h.ListFilter(c)
	if !ok {
		return
	}

	page, err := h.categories.ListCategories(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	OKPaginated(c, page)
}
