package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Inventory backends
const (
	BackendSheets   = "sheets"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Admin id assignment strategies
const (
	IDStrategyCount     = "count"
	IDStrategyMonotonic = "monotonic"
)

// Config holds everything needed to run the storefront
type Config struct {
	Env  string `env:"ENV" envDefault:"development"`
	Port string `env:"PORT" envDefault:"8080"`

	// Inventory store
	InventoryBackend      string `env:"INVENTORY_BACKEND" envDefault:"sheets"`
	GoogleCredentialsPath string `env:"GOOGLE_APPLICATION_CREDENTIALS"`
	GoogleCredentialsJSON string `env:"GOOGLE_APPLICATION_CREDENTIALS_JSON"`
	SpreadsheetID         string `env:"SHEETS_SPREADSHEET_ID"`
	SheetRange            string `env:"SHEETS_RANGE" envDefault:"A:Z"`
	DatabaseURL           string `env:"DATABASE_URL"`
	StoreTimeoutSeconds   int    `env:"STORE_TIMEOUT_SECONDS" envDefault:"10"`
	CacheTTLSeconds       int    `env:"CATALOG_CACHE_TTL_SECONDS" envDefault:"0"`

	// Checkout
	ShopPhone     string `env:"SHOP_PHONE" envDefault:"5581986707825"`
	MessagingHost string `env:"MESSAGING_HOST" envDefault:"wa.me"`
	OrderHeader   string `env:"ORDER_HEADER" envDefault:"NOVO PEDIDO - ANINHA CONFECÇÕES"`

	// Access
	AdminPasswordHash      string `env:"ADMIN_PASSWORD_HASH"`
	AdminAttemptsPerMinute int    `env:"ADMIN_ATTEMPTS_PER_MINUTE" envDefault:"5"`
	RequireCustomerLogin   bool   `env:"REQUIRE_CUSTOMER_LOGIN" envDefault:"false"`
	SessionTTLMinutes      int    `env:"SESSION_TTL_MINUTES" envDefault:"120"`

	// Only honor X-Forwarded-For / X-Real-IP behind a proxy that overwrites them
	TrustProxyHeaders bool `env:"TRUST_PROXY_HEADERS" envDefault:"false"`

	// Admin mutator
	RequireColor bool   `env:"REQUIRE_COLOR" envDefault:"true"`
	IDStrategy   string `env:"ID_STRATEGY" envDefault:"count"`

	// Media
	ChromePath    string `env:"CHROME_PATH"`
	PhotoCacheDir string `env:"PHOTO_CACHE_DIR" envDefault:"cache/photos"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	LogOutput string `env:"LOG_OUTPUT" envDefault:"stdout"`
	LogPath   string `env:"LOG_PATH" envDefault:"logs"`
}

// LoadDotEnv loads a .env file outside production. A missing file is not an error:
// variables may be set directly in the environment.
func LoadDotEnv(path string) (bool, error) {
	if os.Getenv("ENV") == "production" {
		return false, nil
	}
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		return false, nil
	}
	if err := godotenv.Overload(path); err != nil {
		return false, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return true, nil
}

// Load parses the environment into a Config and validates it
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.InventoryBackend = strings.ToLower(strings.TrimSpace(c.InventoryBackend))
	c.IDStrategy = strings.ToLower(strings.TrimSpace(c.IDStrategy))
	// PORT from some hosts comes with a leading colon
	c.Port = strings.TrimPrefix(strings.TrimSpace(c.Port), ":")
	if c.Port == "" {
		c.Port = "8080"
	}
}

// Validate checks that the selected backend has what it needs
func (c *Config) Validate() error {
	switch c.InventoryBackend {
	case BackendSheets:
		if c.SpreadsheetID == "" {
			return fmt.Errorf("SHEETS_SPREADSHEET_ID is required for the %s backend", BackendSheets)
		}
		if c.GoogleCredentialsPath == "" && c.GoogleCredentialsJSON == "" {
			return fmt.Errorf("GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_APPLICATION_CREDENTIALS_JSON must be set for the %s backend", BackendSheets)
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s backend", BackendPostgres)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown INVENTORY_BACKEND %q (valid: sheets, postgres, memory)", c.InventoryBackend)
	}

	switch c.IDStrategy {
	case IDStrategyCount, IDStrategyMonotonic:
	default:
		return fmt.Errorf("unknown ID_STRATEGY %q (valid: count, monotonic)", c.IDStrategy)
	}

	if c.StoreTimeoutSeconds <= 0 {
		return fmt.Errorf("STORE_TIMEOUT_SECONDS must be greater than 0")
	}
	if c.CacheTTLSeconds < 0 {
		return fmt.Errorf("CATALOG_CACHE_TTL_SECONDS cannot be negative")
	}
	if c.SessionTTLMinutes <= 0 {
		return fmt.Errorf("SESSION_TTL_MINUTES must be greater than 0")
	}
	if strings.TrimSpace(c.ShopPhone) == "" {
		return fmt.Errorf("SHOP_PHONE cannot be empty")
	}
	return nil
}

// StoreTimeout returns the bound applied to every inventory store round trip
func (c *Config) StoreTimeout() time.Duration {
	return time.Duration(c.StoreTimeoutSeconds) * time.Second
}

// CacheTTL returns how long a loaded catalog may be served before reloading
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// SessionTTL returns the idle lifetime of a browsing session
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

// IsProduction reports whether the app runs in production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
