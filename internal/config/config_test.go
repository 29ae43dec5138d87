package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Len(t, cfg.Scheduler.BaseHours, 18)
	assert.Equal(t, 0, cfg.Scheduler.BaseHours[len(cfg.Scheduler.BaseHours)-1])
	assert.Equal(t, 15, cfg.Limits.FeedItems)
	assert.Equal(t, 1024, cfg.Limits.MaxMessageLength)
	assert.Equal(t, 48*time.Hour, cfg.Limits.Freshness())
	assert.Len(t, cfg.Sources.Feeds, 5)
	assert.Len(t, cfg.Sources.Pages, 1)
	assert.Equal(t, time.UTC, cfg.Scheduler.Location())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_DSN", "postgres://env/db")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token-from-env")
	t.Setenv("TELEGRAM_CHAT_ID", "@channel")
	t.Setenv("PORT", "8080")

	cfg := Load()

	assert.Equal(t, "postgres://env/db", cfg.Database.DSN)
	assert.Equal(t, "token-from-env", cfg.Telegram.BotToken)
	assert.Equal(t, "@channel", cfg.Telegram.ChatID)
	assert.Equal(t, "8080", cfg.Server.Port)
}

func TestLoadYAMLFile(t *testing.T) {
	raw := `
logging:
  level: debug
scheduler:
  baseHours: [10, 14, 18]
  timezone: Europe/Moscow
limits:
  feedItems: 5
sources:
  feeds:
    - name: Custom
      url: https://example.org/rss
      category: esports
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))
	t.Setenv("NEWSBOT_CONFIG", path)

	cfg := Load()

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, []int{10, 14, 18}, cfg.Scheduler.BaseHours)
	assert.Equal(t, "Europe/Moscow", cfg.Scheduler.Location().String())
	assert.Equal(t, 5, cfg.Limits.FeedItems)
	// Unset limits keep their defaults.
	assert.Equal(t, 10, cfg.Limits.PageItems)
	require.Len(t, cfg.Sources.Feeds, 1)
	assert.Equal(t, "Custom", cfg.Sources.Feeds[0].Name)
	// Pages are not overridden, defaults stay.
	assert.Len(t, cfg.Sources.Pages, 1)
}

func TestLoadBadTimezoneFallsBack(t *testing.T) {
	raw := "scheduler:\n  timezone: Mars/Olympus\n"
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))
	t.Setenv("NEWSBOT_CONFIG", path)

	cfg := Load()

	assert.Equal(t, time.UTC, cfg.Scheduler.Location())
}
