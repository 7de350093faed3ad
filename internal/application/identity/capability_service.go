package identity

import (
	"context"

	"github.com/dukkan/backend/internal/domain/identity"
	"github.com/dukkan/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Resource is a plan-limited resource kind
type Resource string

const (
	ResourceProducts     Resource = "products"
	ResourceUsers        Resource = "users"
	ResourceAccounts     Resource = "accounts"
	ResourceMonthlySales Resource = "monthly_sales"
)

// CapabilityService is the single place plan limits are evaluated. Services
// ask it whether a tenant may create one more of a resource before writing;
// exceeding a limit yields ErrLimitExceeded, which the HTTP layer maps to a
// distinguishable error code rather than a generic validation failure.
type CapabilityService struct {
	tenants identity.TenantRepository
}

// NewCapabilityService creates a CapabilityService
func NewCapabilityService(tenants identity.TenantRepository) *CapabilityService {
	return &CapabilityService{tenants: tenants}
}

// EnsureTenantActive verifies the tenant exists and may use the system
func (s *CapabilityService) EnsureTenantActive(ctx context.Context, tenantID uuid.UUID) (*identity.Tenant, error) {
	tenant, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, shared.ErrNotFound
	}
	if !tenant.IsActive() || tenant.IsSubscriptionExpired() {
		return nil, shared.NewDomainError("TENANT_INACTIVE", "Tenant is not active")
	}
	return tenant, nil
}

// EnsureCanCreate checks whether the tenant may create one more of the given
// resource, given the current count. A limit of identity.Unlimited (-1)
// never rejects.
func (s *CapabilityService) EnsureCanCreate(ctx context.Context, tenantID uuid.UUID, resource Resource, currentCount int64) error {
	tenant, err := s.EnsureTenantActive(ctx, tenantID)
	if err != nil {
		return err
	}

	limit := s.limitFor(tenant, resource)
	if !tenant.Limits.Allows(limit, int(currentCount)) {
		return shared.ErrLimitExceeded
	}
	return nil
}

func (s *CapabilityService) limitFor(tenant *identity.Tenant, resource Resource) int {
	switch resource {
	case ResourceProducts:
		return tenant.Limits.MaxProducts
	case ResourceUsers:
		return tenant.Limits.MaxUsers
	case ResourceAccounts:
		return tenant.Limits.MaxAccounts
	case ResourceMonthlySales:
		return tenant.Limits.MaxMonthlySales
	default:
		return identity.Unlimited
	}
}
