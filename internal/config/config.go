package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server   ServerConfig
	API      APIConfig
	Session  SessionConfig
	Refresh  RefreshConfig
	Snapshot SnapshotConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// APIConfig points at the remote inventory service. ProductURL is the
// product resource base (ends in /product); the auth and user resources
// live one path level above it.
type APIConfig struct {
	ProductURL string
}

// SessionConfig controls where the bearer credential is persisted.
type SessionConfig struct {
	TokenPath string
}

// RefreshConfig holds the background catalog refresh schedule.
type RefreshConfig struct {
	CronSchedule string
}

// SnapshotConfig configures the optional stock snapshot export to Google
// Sheets. The export is enabled only when both credential fields are set.
type SnapshotConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	CronSchedule    string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		API: APIConfig{
			ProductURL: os.Getenv("INVENTORY_API_URL"),
		},
		Session: SessionConfig{
			TokenPath: getenvWithDefault("TOKEN_PATH", ".app_token"),
		},
		Refresh: RefreshConfig{
			CronSchedule: getenvWithDefault("REFRESH_CRON", "*/15 * * * *"),
		},
		Snapshot: SnapshotConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_SNAPSHOT_ID"),
			CronSchedule:    getenvWithDefault("SNAPSHOT_CRON", "0 20 * * 5"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// AuthRootURL derives the base URL for the auth and user resources by
// trimming the trailing /product segment from the product base URL.
func (c *APIConfig) AuthRootURL() string {
	base := strings.TrimSuffix(c.ProductURL, "/")
	return strings.TrimSuffix(base, "/product")
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.API.ProductURL == "" {
		return errors.New("INVENTORY_API_URL must be provided")
	}

	if c.Session.TokenPath == "" {
		return errors.New("TOKEN_PATH must not be empty")
	}

	if c.Refresh.CronSchedule == "" {
		return errors.New("REFRESH_CRON must be provided")
	}

	// A half-configured export is a mistake, not a disabled feature.
	if (c.Snapshot.CredentialsPath == "") != (c.Snapshot.SpreadsheetID == "") {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and GOOGLE_SHEET_SNAPSHOT_ID must be provided together")
	}

	return nil
}

// SnapshotEnabled reports whether the Google Sheets export is configured.
func (c *Config) SnapshotEnabled() bool {
	return c.Snapshot.CredentialsPath != "" && c.Snapshot.SpreadsheetID != ""
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
