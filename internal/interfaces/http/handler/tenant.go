package handler

import (
	"github.com/gin-gonic/gin"

	appidentity "github.com/dukkan/backend/internal/application/identity"
	"github.com/dukkan/backend/internal/domain/identity"
	"github.com/dukkan/backend/internal/interfaces/http/middleware"
)

// TenantHandler serves tenant administration and user management
type TenantHandler struct {
	BaseHandler
	tenants *appidentity.TenantService
}

// NewTenantHandler creates a TenantHandler
func NewTenantHandler(tenants *appidentity.TenantService) *TenantHandler {
	return &TenantHandler{tenants: tenants}
}

// RegisterRoutes registers the tenant and user endpoints
func (h *TenantHandler) RegisterRoutes(rg *gin.RouterGroup) {
	tenants := rg.Group("/tenants")
	tenants.GET("/me", h.GetTenant)
	tenants.PUT("/me/plan", h.ChangePlan)

	users := rg.Group("/users")
	users.GET("", h.ListUsers)
	users.POST("", h.CreateUser)
	users.PUT("/:id/role", h.SetUserRole)
	users.POST("/:id/deactivate", h.DeactivateUser)
	users.POST("/:id/activate", h.ActivateUser)
}

// requireAdmin rejects callers whose role is neither owner nor admin
func (h *TenantHandler) requireAdmin(c *gin.Context) bool {
	claims := middleware.GetClaims(c)
	if claims == nil || !claims.IsAdmin {
		h.Forbidden(c, "Owner or admin role required")
		return false
	}
	return true
}

// requireOwner rejects callers who are not the tenant owner
func (h *TenantHandler) requireOwner(c *gin.Context) bool {
	claims := middleware.GetClaims(c)
	if claims == nil || claims.Role != identity.UserRoleOwner {
		h.Forbidden(c, "Owner role required")
		return false
	}
	return true
}

// GetTenant returns the caller's tenant, plan and limits
func (h *TenantHandler) GetTenant(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}

	tenant, err := h.tenants.GetTenant(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, tenant)
}

type changePlanRequest struct {
	Plan string `json:"plan" binding:"required,oneof=free basic pro enterprise"`
}

// ChangePlan switches the tenant to another plan. Owner only.
func (h *TenantHandler) ChangePlan(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}
	if !h.requireOwner(c) {
		return
	}

	var req changePlanRequest
	if !h.BindJSON(c, &req) {
		return
	}

	tenant, err := h.tenants.ChangePlan(c.Request.Context(), tenantID, identity.TenantPlan(req.Plan))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, tenant)
}

// ListUsers returns a page of the tenant's users
func (h *TenantHandler) ListUsers(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}

	filter, ok := h.ListFilter(c)
	if !ok {
		return
	}

	page, err := h.tenants.ListUsers(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	OKPaginated(c, page)
}

type createUserRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"display_name" binding:"max=100"`
	Role        string `json:"role" binding:"required,oneof=owner admin staff"`
}

// CreateUser adds a user to the tenant, subject to the plan's user limit
func (h *TenantHandler) CreateUser(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}
	if !h.requireAdmin(c) {
		return
	}

	var req createUserRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.tenants.CreateUser(c.Request.Context(), tenantID, appidentity.CreateUserInput{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Role:        identity.UserRole(req.Role),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

type setRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=owner admin staff"`
}

// SetUserRole changes a user's role
func (h *TenantHandler) SetUserRole(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}
	if !h.requireAdmin(c) {
		return
	}

	userID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	var req setRoleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.tenants.SetUserRole(c.Request.Context(), tenantID, userID, identity.UserRole(req.Role))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, user)
}

// DeactivateUser disables a user's access
func (h *TenantHandler) DeactivateUser(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}
	if !h.requireAdmin(c) {
		return
	}

	userID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	if err := h.tenants.DeactivateUser(c.Request.Context(), tenantID, userID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ActivateUser restores a deactivated user
func (h *TenantHandler) ActivateUser(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}
	if !h.requireAdmin(c) {
		return
	}

	userID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	if err := h.tenants.ActivateUser(c.Request.Context(), tenantID, userID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
