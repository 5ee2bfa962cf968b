package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	require.Equal(t, 1000, cfg.Cache.MaxEntries)
	require.Equal(t, "UTC", cfg.Timezone)
	require.Equal(t, time.UTC, cfg.Location())
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vegafusion.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
timezone = "America/New_York"
log_level = "debug"

[cache]
max_entries = 42

[scheduler]
pool_size = 8
request_timeout = "5s"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 42, cfg.Cache.MaxEntries)
	require.Equal(t, 256<<20, cfg.Cache.MaxBytes)
	require.Equal(t, 8, cfg.Scheduler.PoolSize)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, 5*time.Second, cfg.RequestTimeoutDuration())
}

func TestRequestTimeoutDurationFallsBackOnBadValue(t *testing.T) {
	cfg := Default()
	cfg.Scheduler.RequestTimeout = "not-a-duration"
	require.Equal(t, 30*time.Second, cfg.RequestTimeoutDuration())
}
