package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tutormesh.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
content:
  endpoint: https://provider.example.com/generate
  server_url: https://content.example.com
  timeout_ms: 5000
gateway:
  enabled: true
  url: https://lms.example.com/authorize
catalog:
  path: /etc/tutormesh/strategies.yaml
observability:
  metrics:
    enabled: false
  logging:
    level: debug
    format: text
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "https://provider.example.com/generate", cfg.Content.Endpoint)
	assert.Equal(t, "https://content.example.com", cfg.Content.ServerURL)
	assert.Equal(t, 5000, cfg.Content.TimeoutMs)
	assert.True(t, cfg.Gateway.Enabled)
	assert.Equal(t, "https://lms.example.com/authorize", cfg.Gateway.URL)
	assert.Equal(t, "/etc/tutormesh/strategies.yaml", cfg.Catalog.Path)
	assert.False(t, cfg.Observability.Metrics.Enabled)
	assert.Equal(t, "debug", cfg.Observability.Logging.Level)
	assert.Equal(t, "text", cfg.Observability.Logging.Format)
}

func TestLoadFile_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 10000, cfg.Content.TimeoutMs)
	assert.Equal(t, "strategies.yaml", cfg.Catalog.Path)
	assert.True(t, cfg.Observability.Metrics.Enabled)
	assert.Equal(t, 2112, cfg.Observability.Metrics.Port)
	assert.Equal(t, "info", cfg.Observability.Logging.Level)
	assert.False(t, cfg.Gateway.Enabled)
}

func TestLoadFile_MalformedFile(t *testing.T) {
	path := writeConfig(t, "content: [not a map\n")
	_, err := LoadFile(path)
	require.Error(t, err)
}

func TestLoadFile_EnvOverrides(t *testing.T) {
	t.Setenv("TUTORMESH_CONTENT_ENDPOINT", "https://override.example.com")
	t.Setenv("TUTORMESH_GATEWAY_URL", "https://gw.example.com")
	t.Setenv("TUTORMESH_LOG_LEVEL", "warn")
	t.Setenv("TUTORMESH_METRICS_PORT", "9099")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "https://override.example.com", cfg.Content.Endpoint)
	assert.True(t, cfg.Gateway.Enabled)
	assert.Equal(t, "https://gw.example.com", cfg.Gateway.URL)
	assert.Equal(t, "warn", cfg.Observability.Logging.Level)
	assert.Equal(t, 9099, cfg.Observability.Metrics.Port)
}

func TestLoad_PathFromEnv(t *testing.T) {
	path := writeConfig(t, "catalog:\n  path: from-env.yaml\n")
	t.Setenv("TUTORMESH_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-env.yaml", cfg.Catalog.Path)
}
