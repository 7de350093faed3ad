package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appidentity "github.com/dukkan/backend/internal/application/identity"
	"github.com/dukkan/backend/internal/domain/shared"
	"github.com/dukkan/backend/internal/infrastructure/logger"
	"github.com/dukkan/backend/internal/interfaces/http/dto"
)

// ImpersonateHeader lets a platform support admin act as another tenant.
// Only admins of the configured support tenant may cross tenants this way;
// admins of ordinary tenants are rejected like everyone else.
const ImpersonateHeader = "X-Impersonate-Tenant"

// ResolveTenant determines the effective tenant for the request and rejects
// requests for suspended or expired tenants. Runs after Auth. supportTenant
// is the platform support tenant; uuid.Nil disables impersonation entirely.
func ResolveTenant(capability *appidentity.CapabilityService, supportTenant uuid.UUID, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			abortUnauthorized(c, dto.CodeUnauthorized, "Authentication required")
			return
		}

		tenantID := claims.TenantID
		if impersonate := c.GetHeader(ImpersonateHeader); impersonate != "" {
			if supportTenant == uuid.Nil || claims.TenantID != supportTenant || !claims.IsAdmin {
				c.AbortWithStatusJSON(http.StatusForbidden,
					dto.NewErrorResponse(dto.CodeForbidden, "Not allowed to impersonate a tenant"))
				return
			}
			id, err := uuid.Parse(impersonate)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest,
					dto.NewErrorResponse(dto.CodeBadRequest, "Invalid tenant id in "+ImpersonateHeader))
				return
			}
			log.Info("tenant impersonation",
				zap.String("user_id", claims.UserID.String()),
				zap.String("home_tenant_id", claims.TenantID.String()),
				zap.String("impersonated_tenant_id", id.String()))
			tenantID = id
		}

		if _, err := capability.EnsureTenantActive(c.Request.Context(), tenantID); err != nil {
			var domainErr *shared.DomainError
			if errors.As(err, &domainErr) {
				c.AbortWithStatusJSON(dto.GetHTTPStatus(domainErr.Code),
					dto.NewErrorResponse(domainErr.Code, domainErr.Message))
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				dto.NewErrorResponse(dto.CodeInternal, "An unexpected error occurred"))
			return
		}

		c.Set(TenantIDKey, tenantID.String())

		ctx := c.Request.Context()
		ctx, _ = logger.WithTenantID(ctx, logger.FromContext(ctx), tenantID.String())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
