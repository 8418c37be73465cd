package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadReadsYamlAndEnvOverrides(t *testing.T) {
	path := writeTempConfig(t, `
http:
  port: "8081"
database:
  url: "postgres://localhost:5432/db"
timeouts:
  operation: 10s
`)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("SHUTDOWN_TIMEOUT", "20s")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "9000", cfg.HTTP.Port)
	require.Equal(t, 10*time.Second, cfg.Timeouts.Operation)
	require.Equal(t, 20*time.Second, cfg.Timeouts.Shutdown)
	require.Equal(t, "postgres://localhost:5432/db", cfg.Database.URL)
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "not found")
}

func TestMustLoadPanicsOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")
	t.Setenv("CONFIG_PATH", path)

	require.PanicsWithError(t, "config file "+path+" not found", func() {
		MustLoad()
	})
}

func TestLoadAppliesAnalyticsDefaults(t *testing.T) {
	path := writeTempConfig(t, `
database:
  url: "postgres://localhost:5432/db"
`)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "UTC", cfg.Analytics.Timezone)
	require.Equal(t, "2006-01-02 15:04", cfg.Analytics.DateLayout)
	require.Equal(t, 4, cfg.Analytics.PersistConcurrency)
	require.Equal(t, "0 3 * * *", cfg.Analytics.AdminSchedule)
	require.NotZero(t, cfg.Analytics.LockKey)
	require.True(t, cfg.Analytics.SchedulerOn())
	require.Equal(t, time.UTC, cfg.Analytics.Location())
}

func TestLoadAnalyticsEnvOverrides(t *testing.T) {
	path := writeTempConfig(t, `
analytics:
  timezone: "Europe/Moscow"
  sprint_schedule: "*/15 * * * *"
`)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("ANALYTICS_SCHEDULER_ENABLED", "false")
	t.Setenv("ANALYTICS_PERSIST_CONCURRENCY", "8")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "*/15 * * * *", cfg.Analytics.SprintSchedule)
	require.Equal(t, 8, cfg.Analytics.PersistConcurrency)
	require.False(t, cfg.Analytics.SchedulerOn())
	require.Equal(t, "Europe/Moscow", cfg.Analytics.Timezone)
}

func TestAnalyticsLocationFallsBackToUTC(t *testing.T) {
	cfg := AnalyticsConfig{Timezone: "Mars/Olympus"}
	require.Equal(t, time.UTC, cfg.Location())
}

func TestLoadKeepsExplicitlyEmptySchedule(t *testing.T) {
	path := writeTempConfig(t, `
analytics:
  sprint_schedule: ""
  release_schedule: "*/5 * * * *"
`)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)

	require.Empty(t, cfg.Analytics.SprintSchedule)
	require.Equal(t, "*/5 * * * *", cfg.Analytics.ReleaseSchedule)
	require.Equal(t, "0 3 * * *", cfg.Analytics.AdminSchedule)
	require.Equal(t, "10 3 * * *", cfg.Analytics.KanbanSchedule)
}

func TestLoadRejectsUnknownTimezone(t *testing.T) {
	path := writeTempConfig(t, `
analytics:
  timezone: "Europe/Moscow"
`)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("ANALYTICS_TIMEZONE", "Mars/Olympus")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), `analytics timezone "Mars/Olympus"`)
}
