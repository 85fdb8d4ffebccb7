package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToml = `
[development]
host = "localhost"
postgres_db_name = "pgtcx_dev"

[production]
host = "0.0.0.0"
port = 9000
cors_allowed_origins = ["https://tcx.example.org"]
postgres_db_name = "pgtcx"
redis_host = "redis"
default_smoothing = 5
default_label_unit = "seconds"
`

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Development(t *testing.T) {
	path := writeTestConfig(t, testToml)

	cfg, err := Load("dev", path)
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.Environment)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, "pgtcx_dev", cfg.PostgresDBName)

	// defaults
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "5432", cfg.PostgresPort)
	assert.Equal(t, "postgres", cfg.PostgresUser)
	assert.Equal(t, "9090", cfg.PrometheusMetricsPort)
	assert.Equal(t, 1, cfg.DefaultSmoothing)
	assert.Equal(t, 600, cfg.MaxSmoothing)
	assert.Equal(t, "minutes", cfg.DefaultLabelUnit)
	assert.Equal(t, 60, cfg.CacheTTLSeconds)
	assert.Empty(t, cfg.RedisHost)
}

func TestLoad_Production(t *testing.T) {
	path := writeTestConfig(t, testToml)

	cfg, err := Load("Production", path)
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "redis", cfg.RedisHost)
	assert.Equal(t, "6379", cfg.RedisPort)
	assert.Equal(t, 5, cfg.DefaultSmoothing)
	assert.Equal(t, "seconds", cfg.DefaultLabelUnit)
	assert.Equal(t, []string{"https://tcx.example.org"}, cfg.CorsAllowedOrigins)
}

func TestLoad_Errors(t *testing.T) {
	path := writeTestConfig(t, testToml)

	_, err := Load("staging", path)
	assert.EqualError(t, err, "unknown env: staging")

	_, err = Load("dev", filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	onlyDev := writeTestConfig(t, "[development]\nport = 1\n")
	_, err = Load("prod", onlyDev)
	assert.EqualError(t, err, "no config for env: prod")
}

func TestLoad_ShippedConfig(t *testing.T) {
	for _, env := range []string{"dev", "prod"} {
		cfg, err := Load(env, filepath.Join("..", "..", "config.toml"))
		require.NoError(t, err)
		// a request without ?smoothing= gets the raw series
		assert.Equal(t, 1, cfg.DefaultSmoothing, env)
		assert.Equal(t, "minutes", cfg.DefaultLabelUnit, env)
	}
}
