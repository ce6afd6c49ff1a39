package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"HTTP_ADDR", "PORT", "SCHOOLS_FILE", "STATIC_DIR", "CORS_ORIGINS", "LOG_LEVEL",
		"ENV", "SENTRY_DSN", "RELEASE", "BOT_TOKEN", "NOTIFY_CHAT_ID", "STATS_INTERVAL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.HTTPAddr)
	assert.Equal(t, "schools.json", cfg.SchoolsFile)
	assert.Equal(t, "../frontend", cfg.StaticDir)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, time.Minute, cfg.StatsInterval)
	assert.False(t, cfg.NotifyEnabled())
}

func TestLoad_PortOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDR", "127.0.0.1:8080")
	t.Setenv("PORT", "9090")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9090", cfg.HTTPAddr)

	t.Setenv("PORT", "nope")
	_, err = Load()
	require.Error(t, err)
}

func TestLoad_ListsAndNotify(t *testing.T) {
	clearEnv(t)
	t.Setenv("CORS_ORIGINS", "http://localhost:3000, http://127.0.0.1:5173")
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("NOTIFY_CHAT_ID", "-100500")
	t.Setenv("STATS_INTERVAL", "15s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:5173"}, cfg.CORSOrigins)
	assert.Equal(t, int64(-100500), cfg.NotifyChatID)
	assert.True(t, cfg.NotifyEnabled())
	assert.Equal(t, 15*time.Second, cfg.StatsInterval)
}

func TestLoad_BadValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("NOTIFY_CHAT_ID", "chat")
	_, err := Load()
	require.Error(t, err)

	clearEnv(t)
	t.Setenv("STATS_INTERVAL", "-1s")
	_, err = Load()
	require.Error(t, err)
}

func TestLoad_CORSOrigins(t *testing.T) {
	for _, bad := range []string{"example.com", "http://ok.example, ftp://files", "https://"} {
		clearEnv(t)
		t.Setenv("CORS_ORIGINS", bad)
		_, err := Load()
		require.Error(t, err, bad)
		assert.Contains(t, err.Error(), "CORS_ORIGINS")
	}

	clearEnv(t)
	t.Setenv("CORS_ORIGINS", "https://tree.example,*")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://tree.example", "*"}, cfg.CORSOrigins)
}
