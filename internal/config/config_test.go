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
	path := filepath.Join(t.TempDir(), "cutroom.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func clearEnv(t *testing.T) {
	for _, name := range []string{
		"PORT", "GIN_MODE", "LOG_LEVEL", "DATABASE_PATH", "CONTENT_PATH", "WATCH_CONTENT",
		"SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASS", "TO_EMAIL",
		"ADMIN_USERNAME", "ADMIN_PASSWORD",
	} {
		t.Setenv(name, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestLoadMissingFileIsFine(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
}

func TestLoadFileOverlay(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
port = "9000"
mode = "debug"
content_path = "site.toml"
watch_content = true
visit_retention = "720h"

[smtp]
user = "site@example.com"
to = "owner@example.com"

[admin]
username = "editor"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "debug", cfg.Mode)
	assert.True(t, cfg.WatchContent)
	assert.Equal(t, 720*time.Hour, cfg.VisitRetention)
	assert.Equal(t, 24*time.Hour, cfg.CleanupInterval, "unset keys keep defaults")
	assert.Equal(t, "smtp.gmail.com", cfg.SMTP.Host)
	assert.Equal(t, "site@example.com", cfg.SMTP.User)
	assert.Equal(t, "editor", cfg.Admin.Username)
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `port = "9000"`)

	t.Setenv("PORT", "7000")
	t.Setenv("SMTP_PASS", "app-password")
	t.Setenv("TO_EMAIL", "me@example.com")
	t.Setenv("ADMIN_PASSWORD", "hunter2")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, "app-password", cfg.SMTP.Pass)
	assert.Equal(t, "me@example.com", cfg.SMTP.To)
	assert.Equal(t, "hunter2", cfg.Admin.Password)
}

func TestLoadInvalid(t *testing.T) {
	clearEnv(t)

	t.Run("bad mode", func(t *testing.T) {
		_, err := Load(writeConfig(t, `mode = "turbo"`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), `mode "turbo"`)
	})

	t.Run("watch without content", func(t *testing.T) {
		_, err := Load(writeConfig(t, `watch_content = true`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "watch_content needs content_path")
	})

	t.Run("bad duration", func(t *testing.T) {
		_, err := Load(writeConfig(t, `cleanup_interval = "soon"`))
		assert.Error(t, err)
	})

	t.Run("syntax", func(t *testing.T) {
		_, err := Load(writeConfig(t, `port = `))
		assert.Error(t, err)
	})
}
