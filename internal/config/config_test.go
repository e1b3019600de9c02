package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigContent = `
[development]
host = "localhost"
port = 8080
log_level = "trace"
logs_path = ""
log_to_stdout = true
postgres_host = "localhost"
postgres_port = "5432"
postgres_db_name = "fitlog_db"
redis_host = "localhost"
redis_port = "6379"
snapshots_root_path = "/tmp/fitlog-snapshots"
sync_debounce_millis = 100

[production]
host = "localhost"
port = 9000
log_level = "debug"
logs_path = "/var/log/fitlog/service.log"
postgres_host = "localhost"
postgres_port = "5432"
postgres_db_name = "fitlog_db"
redis_host = "localhost"
redis_port = "6379"
snapshots_root_path = "/var/lib/fitlog/snapshots"
`

func TestLoad(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(testConfigContent), 0644))

	cfg, err := Load("development", configPath)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "trace", cfg.LogLevel)
	assert.Equal(t, "fitlog_db", cfg.PostgresDBName)
	assert.Equal(t, 100, cfg.SyncDebounceMillis)
	// defaulted
	assert.Equal(t, 15, cfg.LoginRateLimitAllowedPerMin)

	cfg, err = Load("prod", configPath)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	// defaulted when not set
	assert.Equal(t, 2000, cfg.SyncDebounceMillis)

	_, err = Load("staging", configPath)
	assert.Error(t, err)
}
