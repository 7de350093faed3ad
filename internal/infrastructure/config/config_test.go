package config

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// No config file in the test working directory, so defaults apply.
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dukkan-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "dukkan", cfg.Database.DBName)
	assert.Equal(t, "warn", cfg.Database.LogLevel)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)

	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiration)
	assert.Equal(t, 168*time.Hour, cfg.JWT.RefreshTokenExpiration)
	assert.Equal(t, "dukkan-backend", cfg.JWT.Issuer)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 15*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, 100, cfg.HTTP.RateLimitRequests)
	assert.Empty(t, cfg.HTTP.CORSAllowOrigins)
	assert.Contains(t, cfg.HTTP.CORSAllowHeaders, "Authorization")

	assert.Equal(t, 30*time.Second, cfg.Clearing.Timeout)
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, 1.0, cfg.Telemetry.SamplingRatio)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("DUKKAN_APP_PORT", "9090")
	t.Setenv("DUKKAN_DATABASE_HOST", "db.internal")
	t.Setenv("DUKKAN_JWT_SECRET", "env-provided-secret")
	t.Setenv("DUKKAN_LOG_LEVEL", "debug")
	t.Setenv("DUKKAN_TELEMETRY_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "env-provided-secret", cfg.JWT.Secret)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Telemetry.Enabled)
}

func TestLoad_SupportTenant(t *testing.T) {
	t.Run("empty disables impersonation", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, uuid.Nil, cfg.App.SupportTenant())
	})

	t.Run("valid uuid is parsed", func(t *testing.T) {
		id := uuid.New()
		t.Setenv("DUKKAN_APP_SUPPORT_TENANT_ID", id.String())

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, id, cfg.App.SupportTenant())
	})

	t.Run("malformed uuid is rejected", func(t *testing.T) {
		t.Setenv("DUKKAN_APP_SUPPORT_TENANT_ID", "not-a-uuid")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "app.support_tenant_id")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	t.Setenv("DUKKAN_APP_ENV", "production")

	t.Run("requires a strong jwt secret", func(t *testing.T) {
		t.Setenv("DUKKAN_JWT_SECRET", "short")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret")
	})

	t.Run("rejects disabled database TLS", func(t *testing.T) {
		t.Setenv("DUKKAN_JWT_SECRET", "0123456789abcdef0123456789abcdef")
		t.Setenv("DUKKAN_DATABASE_PASSWORD", "prod-password")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sslmode")
	})

	t.Run("passes with a complete production configuration", func(t *testing.T) {
		t.Setenv("DUKKAN_JWT_SECRET", "0123456789abcdef0123456789abcdef")
		t.Setenv("DUKKAN_DATABASE_PASSWORD", "prod-password")
		t.Setenv("DUKKAN_DATABASE_SSLMODE", "require")
		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.IsProduction())
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "app",
		Password: "secret",
		DBName:   "dukkan",
		SSLMode:  "require",
	}
	assert.Equal(t,
		"host=db.internal port=5433 user=app password=secret dbname=dukkan sslmode=require",
		cfg.DSN(),
	)
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := RedisConfig{Host: "cache.internal", Port: 6380}
	assert.Equal(t, "cache.internal:6380", cfg.Addr())
}

func TestValidate_ConnectionPoolBounds(t *testing.T) {
	t.Setenv("DUKKAN_DATABASE_MAX_OPEN_CONNS", "5")
	t.Setenv("DUKKAN_DATABASE_MAX_IDLE_CONNS", "10")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_idle_conns")
}
