package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/snowflakedb/gosnowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearDatabaseEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"SNOWFLAKE_ACCOUNT", "POSTGRES_DB"} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearDatabaseEnv(t)
	t.Setenv("SYNTH_SEED", "")
	t.Setenv("SYNTH_WORKERS", "")
	t.Setenv("LOG_FORMAT", "")

	cfg, err := LoadConfigFrom("")
	require.NoError(t, err)
	assert.Equal(t, int64(0), cfg.Seed)
	assert.Equal(t, 0, cfg.Workers)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Nil(t, cfg.Postgres)
	assert.Nil(t, cfg.Snowflake)
}

func TestLoadConfigFromDotenv(t *testing.T) {
	clearDatabaseEnv(t)
	t.Setenv("SYNTH_WORKERS", "")
	// godotenv does not override variables already set; unset the ones the file defines
	require.NoError(t, os.Unsetenv("SYNTH_SEED"))
	require.NoError(t, os.Unsetenv("SYNTH_HISTORY_CAPACITY"))
	t.Cleanup(func() {
		os.Unsetenv("SYNTH_SEED")
		os.Unsetenv("SYNTH_HISTORY_CAPACITY")
	})

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SYNTH_SEED=424242\nSYNTH_HISTORY_CAPACITY=500\n"), 0o600))

	cfg, err := LoadConfigFrom(path)
	require.NoError(t, err)
	assert.Equal(t, int64(424242), cfg.Seed)
	assert.Equal(t, 500, cfg.HistoryCapacity)
}

func TestLoadConfigPostgres(t *testing.T) {
	clearDatabaseEnv(t)
	t.Setenv("POSTGRES_DB", "refs")
	t.Setenv("POSTGRES_USER", "synth")
	t.Setenv("POSTGRES_PASSWORD", "")
	t.Setenv("POSTGRES_PORT", "6543")

	cfg, err := LoadConfigFrom("")
	require.NoError(t, err)
	require.NotNil(t, cfg.Postgres)
	assert.Equal(t, 6543, cfg.Postgres.Port)
	assert.Equal(t, "public", cfg.Postgres.Schema)
	assert.Equal(t, "host=localhost port=6543 user=synth dbname=refs sslmode=disable", cfg.Postgres.ConnectionString())
}

func TestLoadConfigPostgresMissingUser(t *testing.T) {
	clearDatabaseEnv(t)
	t.Setenv("POSTGRES_DB", "refs")
	t.Setenv("POSTGRES_USER", "")

	_, err := LoadConfigFrom("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{LogFormat: "json"}, false},
		{"console", Config{LogFormat: "console", Workers: 4}, false},
		{"negative capacity", Config{LogFormat: "json", HistoryCapacity: -1}, true},
		{"negative workers", Config{LogFormat: "json", Workers: -2}, true},
		{"unknown format", Config{LogFormat: "xml"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseAuthenticator(t *testing.T) {
	assert.Equal(t, gosnowflake.AuthTypeJwt, ParseAuthenticator("JWT"))
	assert.Equal(t, gosnowflake.AuthTypeSnowflake, ParseAuthenticator("unknown"))
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(&Config{LogLevel: "debug", LogFormat: "console"})
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = NewLogger(&Config{LogLevel: "loud", LogFormat: "json"})
	assert.Error(t, err)
}
