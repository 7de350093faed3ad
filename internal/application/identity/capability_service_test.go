package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukkan/backend/internal/domain/identity"
	"github.com/dukkan/backend/internal/domain/shared"
)

type stubTenantRepo struct {
	tenants map[uuid.UUID]*identity.Tenant
}

func (r *stubTenantRepo) FindByID(_ context.Context, id uuid.UUID) (*identity.Tenant, error) {
	return r.tenants[id], nil
}
func (r *stubTenantRepo) FindByCode(context.Context, string) (*identity.Tenant, error) {
	return nil, nil
}
func (r *stubTenantRepo) FindByDomain(context.Context, string) (*identity.Tenant, error) {
	return nil, nil
}
func (r *stubTenantRepo) FindAll(context.Context, shared.Filter) ([]identity.Tenant, error) {
	return nil, nil
}
func (r *stubTenantRepo) Count(context.Context, shared.Filter) (int64, error) { return 0, nil }
func (r *stubTenantRepo) Save(context.Context, *identity.Tenant) error        { return nil }

func capabilityFixture(t *testing.T) (*CapabilityService, *identity.Tenant) {
	t.Helper()
	tenant, err := identity.NewTenant("ACME", "Acme Trading")
	require.NoError(t, err)
	repo := &stubTenantRepo{tenants: map[uuid.UUID]*identity.Tenant{tenant.ID: tenant}}
	return NewCapabilityService(repo), tenant
}

func TestCapabilityService_EnsureTenantActive(t *testing.T) {
	ctx := context.Background()

	t.Run("active tenant passes", func(t *testing.T) {
		svc, tenant := capabilityFixture(t)
		got, err := svc.EnsureTenantActive(ctx, tenant.ID)
		require.NoError(t, err)
		assert.Equal(t, tenant.ID, got.ID)
	})

	t.Run("unknown tenant is not found", func(t *testing.T) {
		svc, _ := capabilityFixture(t)
		_, err := svc.EnsureTenantActive(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("suspended tenant is rejected", func(t *testing.T) {
		svc, tenant := capabilityFixture(t)
		require.NoError(t, tenant.Suspend())

		_, err := svc.EnsureTenantActive(ctx, tenant.ID)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "TENANT_INACTIVE", domainErr.Code)
	})

	t.Run("expired subscription is rejected", func(t *testing.T) {
		svc, tenant := capabilityFixture(t)
		expired := time.Now().Add(-24 * time.Hour)
		tenant.ExpiresAt = &expired

		_, err := svc.EnsureTenantActive(ctx, tenant.ID)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "TENANT_INACTIVE", domainErr.Code)
	})
}

func TestCapabilityService_EnsureCanCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("below the limit", func(t *testing.T) {
		svc, tenant := capabilityFixture(t)
		// Free plan: two accounts.
		assert.NoError(t, svc.EnsureCanCreate(ctx, tenant.ID, ResourceAccounts, 1))
	})

	t.Run("at the limit", func(t *testing.T) {
		svc, tenant := capabilityFixture(t)
		err := svc.EnsureCanCreate(ctx, tenant.ID, ResourceAccounts, 2)
		assert.ErrorIs(t, err, shared.ErrLimitExceeded)
	})

	t.Run("unlimited resources never reject", func(t *testing.T) {
		svc, tenant := capabilityFixture(t)
		require.NoError(t, tenant.SetPlan(identity.TenantPlanEnterprise))

		assert.NoError(t, svc.EnsureCanCreate(ctx, tenant.ID, ResourceProducts, 1_000_000))
		assert.NoError(t, svc.EnsureCanCreate(ctx, tenant.ID, ResourceMonthlySales, 1_000_000))
	})

	t.Run("plan change moves the limits", func(t *testing.T) {
		svc, tenant := capabilityFixture(t)
		require.Error(t, svc.EnsureCanCreate(ctx, tenant.ID, ResourceUsers, 3))

		require.NoError(t, tenant.SetPlan(identity.TenantPlanBasic))
		assert.NoError(t, svc.EnsureCanCreate(ctx, tenant.ID, ResourceUsers, 3))
	})
}
