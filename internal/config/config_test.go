package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cifparse.yaml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o644))
	t.Setenv("CIFPARSE_CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "cifp.db", cfg.DBPath)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 8080, cfg.API.Port)
	assert.False(t, cfg.API.AuthEnabled)
	assert.Equal(t, "cifp", cfg.NATS.SubjectPrefix)
	assert.Equal(t, 9000, cfg.Export.ClickHouse.Port)
	assert.Equal(t, 5432, cfg.Export.Postgres.Port)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cifparse.yaml")
	content := `
db_path: /data/faa.db
log:
  level: debug
  format: json
api:
  port: 9999
  auth_enabled: true
  keys:
    - secret
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("CIFPARSE_CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/data/faa.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 9999, cfg.API.Port)
	assert.True(t, cfg.API.AuthEnabled)
	assert.Equal(t, []string{"secret"}, cfg.API.APIKeys)
}

func TestEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cifparse.yaml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o644))
	t.Setenv("CIFPARSE_CONFIG_PATH", path)
	t.Setenv("CIFPARSE_DB_PATH", "/tmp/env.db")
	t.Setenv("CIFPARSE_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/env.db", cfg.DBPath)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad log level", "log:\n  level: verbose\n", "invalid log level"},
		{"bad port", "api:\n  port: 0\n", "api.port"},
		{"auth without keys", "api:\n  auth_enabled: true\n", "api.keys is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cifparse.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			t.Setenv("CIFPARSE_CONFIG_PATH", path)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
