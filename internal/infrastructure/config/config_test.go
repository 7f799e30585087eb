package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))

	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, BackendHTTP, cfg.Catalog.Backend)
	assert.Equal(t, "http://localhost:5000", cfg.Catalog.APIURL)
	assert.Zero(t, cfg.Catalog.APITimeout)
	assert.False(t, cfg.Catalog.AlertAllFailures)
	assert.Equal(t, 1024, cfg.Catalog.MaxSessions)
	assert.True(t, cfg.OTLP.Enabled)
	assert.Equal(t, "localhost:4317", cfg.OTLP.Endpoint)
	assert.Equal(t, "catalog-ui", cfg.OTLP.ServiceName)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CATALOG_BACKEND", "memory")
	t.Setenv("CATALOG_API_TIMEOUT", "3s")
	t.Setenv("CATALOG_ALERT_ALL_FAILURES", "true")
	t.Setenv("OTEL_ENABLED", "false")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4317")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))

	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, BackendMemory, cfg.Catalog.Backend)
	assert.Equal(t, 3*time.Second, cfg.Catalog.APITimeout)
	assert.True(t, cfg.Catalog.AlertAllFailures)
	assert.False(t, cfg.OTLP.Enabled)
	assert.Equal(t, "collector:4317", cfg.OTLP.Endpoint)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadConfigReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CATALOG_API_URL=http://catalog:5000\nSESSION_SECRET=s3cret\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("CATALOG_API_URL")
		os.Unsetenv("SESSION_SECRET")
	})

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "http://catalog:5000", cfg.Catalog.APIURL)
	assert.Equal(t, "s3cret", cfg.Session.Secret)
}

func TestValidateRejectsBadValues(t *testing.T) {
	base := func() Config {
		return Config{Catalog: CatalogConfig{Backend: BackendHTTP, APIURL: "http://x", MaxSessions: 1}}
	}

	cfg := base()
	require.NoError(t, cfg.Validate())

	cfg = base()
	cfg.Catalog.Backend = "grpc"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Catalog.APIURL = ""
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Catalog.MaxSessions = 0
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Catalog.APITimeout = -time.Second
	assert.Error(t, cfg.Validate())
}
