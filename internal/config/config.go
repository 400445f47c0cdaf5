package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Config holds the application configuration
type Config struct {
	TelegramToken   string
	AdminTelegramID int64

	// Bot mode configuration
	WebhookMode bool   // If true, use webhook mode; if false, use polling mode
	WebhookURL  string // Public base URL (required if WebhookMode is true)
	Port        string
	WebAppURL   string // Dashboard link shown on /start, optional

	DatabaseURL   string
	UseMockDB     bool
	RunMigrations bool

	// ClickHouse ledger, disabled when the host is empty
	ClickHouseHost     string
	ClickHousePort     int
	ClickHouseDatabase string
	ClickHouseUser     string
	ClickHousePassword string
	ClickHouseUseTLS   bool

	CallTimeout     time.Duration
	NumberLocale    language.Tag
	DefaultCurrency string
	Development     bool
}

// LedgerEnabled reports whether the ClickHouse ledger is configured
func (c *Config) LedgerEnabled() bool {
	return c.ClickHouseHost != ""
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	config := &Config{}

	// Telegram Bot Token (required)
	config.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	if config.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	adminStr := strings.TrimSpace(os.Getenv("ADMIN_TELEGRAM_ID"))
	if adminStr == "" {
		return nil, fmt.Errorf("ADMIN_TELEGRAM_ID is required")
	}
	adminID, err := strconv.ParseInt(adminStr, 10, 64)
	if err != nil || adminID <= 0 {
		return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_ID: %s", adminStr)
	}
	config.AdminTelegramID = adminID

	// Bot mode configuration
	config.WebhookMode = os.Getenv("WEBHOOK_MODE") == "true"
	if config.WebhookMode {
		config.WebhookURL = getEnv("WEBHOOK_URL", os.Getenv("RENDER_EXTERNAL_URL"))
		if config.WebhookURL == "" {
			return nil, fmt.Errorf("WEBHOOK_URL is required when WEBHOOK_MODE is true")
		}
		config.WebhookURL = strings.TrimRight(config.WebhookURL, "/")
	}
	config.Port = getEnv("PORT", "8080")
	config.WebAppURL = os.Getenv("WEBAPP_URL")

	// Use Mock DB (default: false)
	config.UseMockDB = os.Getenv("USE_MOCK_DB") == "true"
	config.RunMigrations = os.Getenv("RUN_MIGRATIONS") != "false"
	if !config.UseMockDB {
		config.DatabaseURL = os.Getenv("DATABASE_URL")
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when USE_MOCK_DB is not set")
		}
	}

	// ClickHouse configuration (optional)
	config.ClickHouseHost = os.Getenv("CLICKHOUSE_HOST")
	if config.ClickHouseHost != "" {
		portStr := os.Getenv("CLICKHOUSE_PORT")
		if portStr == "" {
			config.ClickHousePort = 9000 // Default ClickHouse native port
		} else {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return nil, fmt.Errorf("invalid CLICKHOUSE_PORT: %w", err)
			}
			config.ClickHousePort = port
		}
		config.ClickHouseDatabase = getEnv("CLICKHOUSE_DATABASE", "default")
		config.ClickHouseUser = getEnv("CLICKHOUSE_USER", "default")
		config.ClickHousePassword = os.Getenv("CLICKHOUSE_PASSWORD")
		config.ClickHouseUseTLS = os.Getenv("CLICKHOUSE_USE_TLS") == "true"
	}

	config.CallTimeout = 5 * time.Second
	if v := os.Getenv("CALL_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid CALL_TIMEOUT: %s", v)
		}
		config.CallTimeout = d
	}

	tag, err := language.Parse(getEnv("NUMBER_LOCALE", "uz"))
	if err != nil {
		return nil, fmt.Errorf("invalid NUMBER_LOCALE: %w", err)
	}
	config.NumberLocale = tag

	config.DefaultCurrency = strings.ToUpper(getEnv("DEFAULT_CURRENCY", "UZS"))
	config.Development = os.Getenv("APP_ENV") == "development"

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
