package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseFile_JSON(t *testing.T) {
	path := writeTempJSON(t, "", "", map[string]any{
		"environment":      "production",
		"http_addr":        ":9000",
		"database_dsn":     "postgres://archive",
		"secret_key":       "from-file",
		"session_ttl":      "12h",
		"storage_backend":  "s3",
		"s3_bucket":        "letters",
		"s3_base_endpoint": "http://127.0.0.1:9000/",
		"metrics_enabled":  false,
	})

	cfg := &Config{}
	cfg.LoadDefaults()
	require.NoError(t, parseFile(cfg, []string{"-config", path}))

	assert.Equal(t, EnvProduction, cfg.Environment)
	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.Equal(t, "postgres://archive", cfg.DatabaseDSN)
	assert.Equal(t, "from-file", cfg.SecretKey)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.Equal(t, StorageS3, cfg.StorageBackend)
	assert.Equal(t, "letters", cfg.S3Bucket)
	assert.Equal(t, "http://127.0.0.1:9000/", cfg.S3BaseEndpoint)
	assert.False(t, cfg.MetricsEnabled)
	// untouched by the file
	assert.Equal(t, 10, cfg.BcryptCost)
}

func Test_parseFile_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yml")
	require.NoError(t, os.WriteFile(path, []byte("log_backend: zap\nrate_limit_window: 30s\nlogin_rate_limit: 3\n"), 0o600))

	cfg := &Config{}
	cfg.LoadDefaults()
	require.NoError(t, parseFile(cfg, []string{"-c", path}))

	assert.Equal(t, "zap", cfg.LogBackend)
	assert.Equal(t, 30*time.Second, cfg.RateLimitWindow)
	assert.Equal(t, 3, cfg.LoginRateLimit)
}

func Test_parseFile_NoFlag(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()
	before := *cfg
	require.NoError(t, parseFile(cfg, []string{"-a", ":1"}))
	assert.Equal(t, before, *cfg)
}

func Test_parseFile_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		err := parseFile(&Config{}, []string{"-c", filepath.Join(t.TempDir(), "nope.json")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read config file")
	})

	t.Run("malformed json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
		err := parseFile(&Config{}, []string{"-c", path})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode config file")
	})
}
