package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0644))
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	uploads := filepath.Join(t.TempDir(), "uploads")
	dir := writeConfig(t, `
server:
  mode: debug
database:
  driver: sqlite
  path: test.db
storage:
  local_path: `+uploads+`
jwt:
  secret: short
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 72*time.Hour, cfg.JWT.ExpireTime)
	assert.Equal(t, 6000, cfg.RateLimit.MaxRequests)
	assert.Equal(t, time.Minute, cfg.RateWindow())
	assert.Equal(t, 5*time.Minute, cfg.FlashTTL())
	assert.Equal(t, 20, cfg.Redis.PoolSize)
	assert.Equal(t, 2, cfg.Redis.MinIdleConns)
	assert.Equal(t, dir, cfg.ConfigDir)
	assert.DirExists(t, uploads)
}

func TestLoadConfigRejectsShortSecretInRelease(t *testing.T) {
	dir := writeConfig(t, `
server:
  mode: release
storage:
  type: minio
jwt:
  secret: too-short
`)

	_, err := LoadConfig(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT secret is too short")
}

func TestEnvironmentOverridesFile(t *testing.T) {
	dir := writeConfig(t, `
storage:
  type: minio
redis:
  host: file-host
`)
	t.Setenv("REDIS_HOST", "env-host")
	t.Setenv("SMTP_HOST", "smtp.env.test")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "env-host", cfg.Redis.Host)
	assert.Equal(t, "smtp.env.test", cfg.Mail.Host)
}

func TestFlashTTLAndWindow(t *testing.T) {
	cfg := &Config{}
	cfg.Flash.TTLSeconds = 30
	cfg.RateLimit.WindowMinutes = 5
	assert.Equal(t, 30*time.Second, cfg.FlashTTL())
	assert.Equal(t, 5*time.Minute, cfg.RateWindow())
}
