package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadRequiresMongoURI(t *testing.T) {
	t.Setenv("MONGO_URI", "")

	_, err := Load()

	require.Error(t, err)
	require.Contains(t, err.Error(), "MONGO_URI")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")

	cfg, err := Load()

	require.NoError(t, err)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "eventbook", cfg.Database.Name)
	require.Equal(t, 10*time.Second, cfg.Database.ConnectTimeout)
	require.Equal(t, 12, cfg.Auth.BcryptCost)
	require.Equal(t, 60, cfg.RateLimit.PublicPerMinute)
	require.Equal(t, "info", cfg.Logging.Level)
	require.False(t, cfg.Tracing.Enabled)
	require.Equal(t, "development", cfg.Environment)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://db:27017")
	t.Setenv("MONGO_DATABASE", "booking")
	t.Setenv("SERVER_PORT", "3000")
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("TRACING_ENABLED", "true")
	t.Setenv("TRACING_EXPORTER", "stdout")

	cfg, err := Load()

	require.NoError(t, err)
	require.Equal(t, "mongodb://db:27017", cfg.Database.URI)
	require.Equal(t, "booking", cfg.Database.Name)
	require.Equal(t, 3000, cfg.Server.Port)
	require.Equal(t, 10, cfg.Auth.BcryptCost)
	require.True(t, cfg.Tracing.Enabled)
	require.Equal(t, "stdout", cfg.Tracing.Exporter)
}

func TestLoadRejectsBadBcryptCost(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("BCRYPT_COST", "99")

	_, err := Load()

	require.Error(t, err)
	require.Contains(t, err.Error(), "BCRYPT_COST")
}

func TestGetEnvIntIgnoresGarbage(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")

	require.Equal(t, 8080, getEnvInt("SERVER_PORT", 8080))
}
