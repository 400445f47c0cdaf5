package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

var allKeys = []string{
	"TELEGRAM_BOT_TOKEN", "ADMIN_TELEGRAM_ID", "WEBHOOK_MODE", "WEBHOOK_URL", "RENDER_EXTERNAL_URL",
	"PORT", "WEBAPP_URL", "USE_MOCK_DB", "RUN_MIGRATIONS", "DATABASE_URL",
	"CLICKHOUSE_HOST", "CLICKHOUSE_PORT", "CLICKHOUSE_DATABASE", "CLICKHOUSE_USER",
	"CLICKHOUSE_PASSWORD", "CLICKHOUSE_USE_TLS", "CALL_TIMEOUT", "NUMBER_LOCALE",
	"DEFAULT_CURRENCY", "APP_ENV",
}

func setEnv(t *testing.T, values map[string]string) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, values[k])
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	setEnv(t, map[string]string{
		"TELEGRAM_BOT_TOKEN": "token",
		"ADMIN_TELEGRAM_ID":  "1000",
		"DATABASE_URL":       "postgres://localhost/workshop",
	})

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, int64(1000), cfg.AdminTelegramID)
	assert.False(t, cfg.WebhookMode)
	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.RunMigrations)
	assert.False(t, cfg.LedgerEnabled())
	assert.Equal(t, 5*time.Second, cfg.CallTimeout)
	assert.Equal(t, language.Uzbek, cfg.NumberLocale)
	assert.Equal(t, "UZS", cfg.DefaultCurrency)
	assert.False(t, cfg.Development)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	setEnv(t, map[string]string{
		"TELEGRAM_BOT_TOKEN":  "token",
		"ADMIN_TELEGRAM_ID":   "1000",
		"USE_MOCK_DB":         "true",
		"RUN_MIGRATIONS":      "false",
		"WEBHOOK_MODE":        "true",
		"RENDER_EXTERNAL_URL": "https://workshop.example.com/",
		"CLICKHOUSE_HOST":     "ch.local",
		"CALL_TIMEOUT":        "2s",
		"NUMBER_LOCALE":       "ru",
		"DEFAULT_CURRENCY":    "usd",
		"APP_ENV":             "development",
	})

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "https://workshop.example.com", cfg.WebhookURL)
	assert.True(t, cfg.UseMockDB)
	assert.False(t, cfg.RunMigrations)
	assert.True(t, cfg.LedgerEnabled())
	assert.Equal(t, 9000, cfg.ClickHousePort)
	assert.Equal(t, "default", cfg.ClickHouseUser)
	assert.Equal(t, 2*time.Second, cfg.CallTimeout)
	assert.Equal(t, language.Russian, cfg.NumberLocale)
	assert.Equal(t, "USD", cfg.DefaultCurrency)
	assert.True(t, cfg.Development)
}

func TestLoadFromEnv_Errors(t *testing.T) {
	base := map[string]string{
		"TELEGRAM_BOT_TOKEN": "token",
		"ADMIN_TELEGRAM_ID":  "1000",
		"USE_MOCK_DB":        "true",
	}
	with := func(k, v string) map[string]string {
		m := map[string]string{}
		for key, val := range base {
			m[key] = val
		}
		m[k] = v
		return m
	}

	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing token", with("TELEGRAM_BOT_TOKEN", "")},
		{"missing admin", with("ADMIN_TELEGRAM_ID", "")},
		{"bad admin", with("ADMIN_TELEGRAM_ID", "abc")},
		{"missing database", with("USE_MOCK_DB", "")},
		{"webhook without url", with("WEBHOOK_MODE", "true")},
		{"bad timeout", with("CALL_TIMEOUT", "soon")},
		{"bad locale", with("NUMBER_LOCALE", "??")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t, tt.env)
			_, err := LoadFromEnv()
			assert.Error(t, err)
		})
	}
}

func TestLoadFromEnv_BadClickHousePort(t *testing.T) {
	setEnv(t, map[string]string{
		"TELEGRAM_BOT_TOKEN": "token",
		"ADMIN_TELEGRAM_ID":  "1000",
		"USE_MOCK_DB":        "true",
		"CLICKHOUSE_HOST":    "ch.local",
		"CLICKHOUSE_PORT":    "nine",
	})
	_, err := LoadFromEnv()
	assert.Error(t, err)
}
