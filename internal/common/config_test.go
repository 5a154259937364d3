package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, "development", config.Environment)
	assert.Equal(t, "0.0.0.0", config.Server.Host)
	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, 20, config.Server.RateLimit)
	assert.Equal(t, "ws://localhost:8000/rpc", config.Storage.Address)
	assert.Equal(t, "folio", config.Storage.Namespace)
	assert.Equal(t, "24h", config.Auth.TokenExpiry)
	assert.Equal(t, "info", config.Logging.Level)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "folio.toml")

	content := `
environment = "production"

[server]
host = "127.0.0.1"
port = 9090

[storage]
address = "ws://db.internal:8000/rpc"
namespace = "folio_prod"

[logging]
level = "warn"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "production", config.Environment)
	assert.Equal(t, "127.0.0.1", config.Server.Host)
	assert.Equal(t, 9090, config.Server.Port)
	assert.Equal(t, "ws://db.internal:8000/rpc", config.Storage.Address)
	assert.Equal(t, "folio_prod", config.Storage.Namespace)
	assert.Equal(t, "warn", config.Logging.Level)

	// Unspecified fields keep their defaults.
	assert.Equal(t, 20, config.Server.RateLimit)
	assert.Equal(t, "folio", config.Storage.Database)
}

func TestLoadConfigLayering(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base.toml")
	override := filepath.Join(dir, "override.toml")

	require.NoError(t, os.WriteFile(base, []byte("[server]\nport = 9000\nhost = \"10.0.0.1\"\n"), 0644))
	require.NoError(t, os.WriteFile(override, []byte("[server]\nport = 9001\n"), 0644))

	config, err := LoadConfig(base, override)
	require.NoError(t, err)

	// Later files win, field by field.
	assert.Equal(t, 9001, config.Server.Port)
	assert.Equal(t, "10.0.0.1", config.Server.Host)
}

func TestLoadConfigMissingFile(t *testing.T) {
	config, err := LoadConfig("/nonexistent/folio.toml")
	require.NoError(t, err)
	assert.Equal(t, 8080, config.Server.Port)
}

func TestLoadConfigInvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("server = [broken"), 0644))

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("FOLIO_ENV", "production")
	t.Setenv("FOLIO_PORT", "7070")
	t.Setenv("FOLIO_LOG_LEVEL", "debug")
	t.Setenv("FOLIO_STORAGE_ADDRESS", "ws://override:8000/rpc")
	t.Setenv("FOLIO_AUTH_JWT_SECRET", "env-secret")

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "production", config.Environment)
	assert.Equal(t, 7070, config.Server.Port)
	assert.Equal(t, "debug", config.Logging.Level)
	assert.Equal(t, "ws://override:8000/rpc", config.Storage.Address)
	assert.Equal(t, "env-secret", config.Auth.JWTSecret)
}

func TestEnvOverrideInvalidPort(t *testing.T) {
	t.Setenv("FOLIO_PORT", "not-a-number")

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 8080, config.Server.Port)
}

func TestGetTokenExpiry(t *testing.T) {
	auth := AuthConfig{TokenExpiry: "2h"}
	assert.Equal(t, 2*time.Hour, auth.GetTokenExpiry())

	// Bad or empty values fall back to 24h.
	auth.TokenExpiry = "soon"
	assert.Equal(t, 24*time.Hour, auth.GetTokenExpiry())

	auth.TokenExpiry = ""
	assert.Equal(t, 24*time.Hour, auth.GetTokenExpiry())
}

func TestIsProduction(t *testing.T) {
	config := NewDefaultConfig()
	assert.False(t, config.IsProduction())

	config.Environment = "production"
	assert.True(t, config.IsProduction())

	config.Environment = " Prod "
	assert.True(t, config.IsProduction())

	config.Environment = "staging"
	assert.False(t, config.IsProduction())
}
