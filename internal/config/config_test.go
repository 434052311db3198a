package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresAdminKey(t *testing.T) {
	t.Setenv("ADMIN_KEY", "")
	t.Setenv("SESSION_SECRET", "secret")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADMIN_KEY")
}

func TestLoad_RequiresSessionSecret(t *testing.T) {
	t.Setenv("ADMIN_KEY", "admin-key")
	t.Setenv("SESSION_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_SECRET")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ADMIN_KEY", "admin-key")
	t.Setenv("SESSION_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "waitlist", cfg.DBName)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, "localhost", cfg.SIWEDomain)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("ADMIN_KEY", "admin-key")
	t.Setenv("SESSION_SECRET", "secret")
	t.Setenv("PORT", "not-a-port")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORT")
}

func TestLoad_TrustedProxies(t *testing.T) {
	t.Setenv("ADMIN_KEY", "admin-key")
	t.Setenv("SESSION_SECRET", "secret")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.1, 10.0.0.2")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cfg.TrustedProxies)
}

func TestGetDBConnString(t *testing.T) {
	cfg := &Config{
		DBUser:     "u",
		DBPassword: "p",
		DBHost:     "db",
		DBPort:     "5433",
		DBName:     "waitlist",
	}
	assert.Equal(t, "postgres://u:p@db:5433/waitlist?sslmode=disable", cfg.GetDBConnString())
}
