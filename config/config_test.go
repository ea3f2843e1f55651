package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	unsetEnv(t, "STORE_BACKEND", "PORT", "CORS_ORIGINS", "FUNNEL_SYNC_CRON")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, BackendMemory, cfg.StoreBackend)
	assert.Equal(t, "0 3 * * *", cfg.FunnelSyncCron)
	assert.Len(t, cfg.CORSOrigins, 2)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_BACKEND", " Postgres ")
	t.Setenv("POSTGRES_DSN", "postgres://localhost/funnel")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("GIN_MODE", "release")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, BackendPostgres, cfg.StoreBackend)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.False(t, cfg.Debug())
}

func TestLoadConfigRejectsIncompleteBackend(t *testing.T) {
	tests := []struct {
		name    string
		backend string
	}{
		{"sheets without spreadsheet", BackendSheets},
		{"postgres without dsn", BackendPostgres},
		{"unknown backend", "redis"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("STORE_BACKEND", tt.backend)
			unsetEnv(t, "SHEETS_SPREADSHEET_ID", "POSTGRES_DSN")

			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

// unsetEnv 移除环境变量，测试结束后还原
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}
