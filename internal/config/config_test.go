package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
env: dev
proxy:
  mode: list
  list: ["10.0.0.1:3128", " "]
local:
  backend:
    base_url: http://127.0.0.1:8000/api
dev:
  backend:
    base_url: https://dev.shop.test/api/
  storage:
    base_url: https://storage.yandexcloud.net/shop/
    s3:
      enabled: true
      bucket: shop
  pagination:
    per_page: 10
  session:
    backend: sqlite
  stores:
    last_call_wins: true
`

func TestParse_ProfileAndDefaults(t *testing.T) {
	t.Setenv(EnvEnv, "")
	t.Setenv(EnvBackendURL, "")
	t.Setenv("VITE_BACKEND_URL", "")
	t.Setenv(EnvStorageURL, "")
	t.Setenv("VITE_YANDEX_STORAGE_URL", "")
	t.Setenv(EnvSessionPath, "")

	cfg, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "https://dev.shop.test/api", cfg.Backend.BaseURL)
	assert.Equal(t, "https://storage.yandexcloud.net/shop", cfg.Storage.BaseURL)
	assert.True(t, cfg.Storage.S3.Enabled)
	assert.Equal(t, 10, cfg.Pagination.PerPage)
	assert.Equal(t, 5, cfg.Images.CheckTimeoutSeconds)
	assert.Equal(t, 30, cfg.HTTP.UploadTimeoutSeconds)
	assert.Equal(t, "sqlite", cfg.Session.Backend)
	assert.Equal(t, "./state/session.db", cfg.Session.Path)
	assert.True(t, cfg.Stores.LastCallWins)
	assert.Equal(t, "list", cfg.Proxy.Mode)
	assert.Equal(t, []string{"10.0.0.1:3128"}, cfg.Proxy.List)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestParse_EnvOverrides(t *testing.T) {
	t.Setenv(EnvEnv, "local")
	t.Setenv(EnvBackendURL, "")
	t.Setenv("VITE_BACKEND_URL", "http://vite.test/api")
	t.Setenv(EnvStorageURL, "https://override.test/bucket")
	t.Setenv(EnvSessionPath, "/tmp/s.json")
	t.Setenv(EnvS3AccessKey, "AKIA")

	cfg, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "http://vite.test/api", cfg.Backend.BaseURL)
	assert.Equal(t, "https://override.test/bucket", cfg.Storage.BaseURL)
	assert.Equal(t, "/tmp/s.json", cfg.Session.Path)
	assert.Equal(t, "AKIA", cfg.Storage.S3.AccessKey)
	assert.Equal(t, "file", cfg.Session.Backend)
	assert.Equal(t, 5, cfg.Pagination.PerPage)
}

func TestParse_UnknownEnv(t *testing.T) {
	t.Setenv(EnvEnv, "staging")

	_, err := Parse([]byte(sample))
	assert.Error(t, err)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	t.Setenv(EnvEnv, "")
	// .env never overrides variables that are already set
	t.Setenv(EnvBackendURL, "")
	require.NoError(t, os.Unsetenv(EnvBackendURL))
	require.NoError(t, os.WriteFile(".env", []byte(EnvBackendURL+"=http://from-dotenv.test/api\n"), 0o600))
	require.NoError(t, os.WriteFile("config.yaml", []byte("env: local\n"), 0o600))

	cfg, err := Load(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "http://from-dotenv.test/api", cfg.Backend.BaseURL)
}
