package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testLockDuration = 15 * time.Minute

func TestNewTenant(t *testing.T) {
	t.Run("creates active free tenant", func(t *testing.T) {
		tenant, err := NewTenant("acme", "Acme Market")
		require.NoError(t, err)

		assert.Equal(t, "ACME", tenant.Code)
		assert.Equal(t, TenantStatusActive, tenant.Status)
		assert.Equal(t, TenantPlanFree, tenant.Plan)
		assert.Equal(t, LimitsForPlan(TenantPlanFree), tenant.Limits)
		assert.Len(t, tenant.GetDomainEvents(), 1)
	})

	t.Run("rejects invalid code", func(t *testing.T) {
		_, err := NewTenant("bad code!", "Acme")
		require.Error(t, err)
	})
}

func TestTenantSetPlan(t *testing.T) {
	tenant, err := NewTenant("acme", "Acme Market")
	require.NoError(t, err)

	require.NoError(t, tenant.SetPlan(TenantPlanPro))
	assert.Equal(t, TenantPlanPro, tenant.Plan)
	assert.Equal(t, Unlimited, tenant.Limits.MaxMonthlySales)

	require.Error(t, tenant.SetPlan(TenantPlan("platinum")))
}

func TestPlanLimitsAllows(t *testing.T) {
	limits := LimitsForPlan(TenantPlanFree)

	t.Run("below the cap", func(t *testing.T) {
		assert.True(t, limits.Allows(limits.MaxProducts, limits.MaxProducts-1))
	})

	t.Run("at the cap", func(t *testing.T) {
		assert.False(t, limits.Allows(limits.MaxProducts, limits.MaxProducts))
	})

	t.Run("unlimited never caps", func(t *testing.T) {
		assert.True(t, limits.Allows(Unlimited, 0))
		assert.True(t, limits.Allows(Unlimited, 1_000_000))
	})
}

func TestUserPassword(t *testing.T) {
	tenant, err := NewTenant("acme", "Acme Market")
	require.NoError(t, err)

	user, err := NewUser(tenant.ID, "owner@acme.test", "correct-horse", UserRoleOwner)
	require.NoError(t, err)

	assert.True(t, user.VerifyPassword("correct-horse"))
	assert.False(t, user.VerifyPassword("wrong"))

	t.Run("change password verifies old one", func(t *testing.T) {
		require.Error(t, user.ChangePassword("wrong", "new-password-1"))
		require.NoError(t, user.ChangePassword("correct-horse", "new-password-1"))
		assert.True(t, user.VerifyPassword("new-password-1"))
	})

	t.Run("rejects short password", func(t *testing.T) {
		_, err := NewUser(tenant.ID, "a@b.test", "short", UserRoleStaff)
		require.Error(t, err)
	})
}

func TestUserLockout(t *testing.T) {
	tenant, _ := NewTenant("acme", "Acme Market")
	user, err := NewUser(tenant.ID, "staff@acme.test", "password123", UserRoleStaff)
	require.NoError(t, err)

	locked := false
	for i := 0; i < 5; i++ {
		locked = user.RecordLoginFailure(5, testLockDuration)
	}
	assert.True(t, locked)
	assert.True(t, user.IsLocked())
	assert.False(t, user.CanLogin())

	user.RecordLoginSuccess("127.0.0.1")
	assert.Equal(t, 0, user.FailedAttempts)
}
