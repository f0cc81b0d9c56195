package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
[server]
http_port = 9090

[database]
host = "db"
user = "teetime"
password = "from-file"
dbname = "teetime"

[logs]
level = "debug"

[reconciliation]
interval_seconds = 30
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FileOverDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 15, cfg.Server.ReadTimeout)
	assert.Equal(t, "debug", cfg.Logs.Level)
	assert.Equal(t, 30*time.Second, cfg.Reconciliation.Interval())
	assert.Equal(t, 100, cfg.Reconciliation.BatchSize)
	assert.Equal(t, 10*time.Second, cfg.Booking.Timeout())
	assert.Equal(t, "host=db port=5432 user=teetime password=from-file dbname=teetime sslmode=disable", cfg.Database.DSN())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("SMC_DATABASE_PASSWORD", "from-env")
	t.Setenv("SMC_SERVER_HTTP_PORT", "7070")
	t.Setenv("SMC_RECONCILIATION_BATCH_SIZE", "25")

	cfg, err := Load(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, 7070, cfg.Server.HTTPPort)
	assert.Equal(t, 25, cfg.Reconciliation.BatchSize)
	assert.Equal(t, "postgres://teetime:from-env@db:5432/teetime?sslmode=disable", cfg.Database.URL())
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, ErrReadConfig)

	_, err = Load(writeConfig(t, "[server]\nhttp_port = 0\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	t.Setenv("SMC_SERVER_HTTP_PORT", "not-a-port")
	_, err = Load(writeConfig(t, sample))
	assert.ErrorIs(t, err, ErrEnvOverride)
}
