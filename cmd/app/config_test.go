package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"wellness_tracker/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "logLevel: debug\n"))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, repository.DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 24*time.Hour, cfg.Streak.DuplicateWindow)
	assert.Equal(t, 48*time.Hour, cfg.Streak.ContinueWindow)
	assert.Equal(t, 72*time.Hour, cfg.Streak.GraceWindow)
	assert.Equal(t, 30*time.Second, cfg.Notifications.PollInterval)
	assert.Equal(t, 30, cfg.RateLimit.PerMinute)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: sqlite
  path: /tmp/wellness.db
server:
  port: "9090"
streak:
  graceWindow: 96h
notifications:
  pollInterval: 5s
telegramAuth:
  debugMode: true
logFile:
  path: /tmp/wellness.log
`)
	t.Setenv("APP_SERVER_HOST", "127.0.0.1")
	t.Setenv("APP_REDIS_ADDR", "redis:6379")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, repository.DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "/tmp/wellness.db", cfg.Database.Path)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 96*time.Hour, cfg.Streak.GraceWindow)
	assert.Equal(t, 5*time.Second, cfg.Notifications.PollInterval)
	assert.True(t, cfg.TelegramAuth.DebugMode)
	assert.Equal(t, "/tmp/wellness.log", cfg.LogFile.Path)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "streak:\n  continueWindow: 12h\n"))
	assert.Error(t, err)
}
