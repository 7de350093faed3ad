package handler

import (
	"github.com/gin-gonic/gin"

	appidentity "github.com/dukkan/backend/internal/application/identity"
)

// AuthHandler serves registration, login and token lifecycle endpoints
type AuthHandler struct {
	BaseHandler
	auth *appidentity.AuthService
}

// NewAuthHandler creates an AuthHandler
func NewAuthHandler(auth *appidentity.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// RegisterPublicRoutes registers the unauthenticated auth endpoints
func (h *AuthHandler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)
	auth.POST("/refresh", h.Refresh)
	auth.POST("/logout", h.Logout)
}

// RegisterRoutes registers the authenticated auth endpoints
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	auth.GET("/me", h.Me)
	auth.POST("/change-password", h.ChangePassword)
}

type registerRequest struct {
	TenantCode  string `json:"tenant_code" binding:"required,min=2,max=20"`
	TenantName  string `json:"tenant_name" binding:"required,max=200"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"display_name" binding:"max=100"`
}

// Register creates a tenant together with its owner user
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.auth.Register(c.Request.Context(), appidentity.RegisterInput{
		TenantCode:  req.TenantCode,
		TenantName:  req.TenantName,
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

type loginRequest struct {
	TenantCode string `json:"tenant_code" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
}

type loginResponse struct {
	Tokens *appidentity.TokenPair `json:"tokens"`
	User   *appidentity.UserDTO   `json:"user"`
}

// Login authenticates a user and returns a token pair
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	tokens, user, err := h.auth.Login(c.Request.Context(), appidentity.LoginInput{
		TenantCode: req.TenantCode,
		Email:      req.Email,
		Password:   req.Password,
		IP:         c.ClientIP(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, loginResponse{Tokens: tokens, User: user})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh rotates a refresh token into a new token pair
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if !h.BindJSON(c, &req) {
		return
	}

	tokens, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, tokens)
}

// Logout revokes the refresh token
func (h *AuthHandler) Logout(c *gin.Context) {
	var req refreshRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.auth.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Me returns the authenticated user
func (h *AuthHandler) Me(c *gin.Context) {
	tenantID, userID, ok := h.Identity(c)
	if !ok {
		return
	}

	user, err := h.auth.Me(c.Request.Context(), tenantID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, user)
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// ChangePassword rotates the authenticated user's password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	tenantID, userID, ok := h.Identity(c)
	if !ok {
		return
	}

	var req changePasswordRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.auth.ChangePassword(c.Request.Context(), tenantID, userID, req.OldPassword, req.NewPassword); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
