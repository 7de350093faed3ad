package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appidentity "github.com/dukkan/backend/internal/application/identity"
	infraauth "github.com/dukkan/backend/internal/infrastructure/auth"
	"github.com/dukkan/backend/internal/infrastructure/logger"
	"github.com/dukkan/backend/internal/interfaces/http/dto"
)

// Context keys set by the auth and tenant middleware
const (
	ClaimsKey   = "auth_claims"
	UserIDKey   = "auth_user_id"
	TenantIDKey = "auth_tenant_id"

	authHeader   = "Authorization"
	bearerPrefix = "Bearer "
)

// Auth validates the access token and stores the claims in the context.
// Blacklist lookups fail open: a Redis outage must not take the API down.
func Auth(issuer appidentity.TokenIssuer, blacklist appidentity.TokenBlacklist, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(authHeader)
		if header == "" {
			abortUnauthorized(c, dto.CodeUnauthorized, "Missing authorization header")
			return
		}
		if !strings.HasPrefix(header, bearerPrefix) {
			abortUnauthorized(c, dto.CodeUnauthorized, "Invalid authorization header format")
			return
		}
		token := strings.TrimPrefix(header, bearerPrefix)
		if token == "" {
			abortUnauthorized(c, dto.CodeUnauthorized, "Missing token")
			return
		}

		claims, err := issuer.VerifyAccessToken(token)
		if err != nil {
			code := dto.CodeInvalidToken
			message := "Token is invalid"
			if errors.Is(err, infraauth.ErrExpiredToken) {
				message = "Token has expired"
			}
			abortUnauthorized(c, code, message)
			return
		}

		if blacklist != nil && claims.TokenID != "" {
			revoked, err := blacklist.IsRevoked(c.Request.Context(), claims.TokenID)
			if err != nil {
				log.Error("token blacklist check failed",
					zap.String("token_id", claims.TokenID),
					zap.Error(err))
			} else if revoked {
				abortUnauthorized(c, dto.CodeInvalidToken, "Token has been revoked")
				return
			}
		}

		c.Set(ClaimsKey, claims)
		c.Set(UserIDKey, claims.UserID.String())

		ctx := c.Request.Context()
		ctx, _ = logger.WithUserID(ctx, logger.FromContext(ctx), claims.UserID.String())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(code, message))
}

// GetClaims returns the verified token claims, or nil outside the auth chain
func GetClaims(c *gin.Context) *appidentity.TokenClaims {
	if v, ok := c.Get(ClaimsKey); ok {
		if claims, ok := v.(*appidentity.TokenClaims); ok {
			return claims
		}
	}
	return nil
}

// GetUserID returns the authenticated user id as a string, or ""
func GetUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

// GetTenantID returns the resolved tenant id as a string, or ""
func GetTenantID(c *gin.Context) string {
	return c.GetString(TenantIDKey)
}

// UserUUID returns the authenticated user id
func UserUUID(c *gin.Context) (uuid.UUID, bool) {
	claims := GetClaims(c)
	if claims == nil {
		return uuid.Nil, false
	}
	return claims.UserID, true
}

// TenantUUID returns the resolved tenant id
func TenantUUID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString(TenantIDKey))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
