// ABOUTME: Configuration loading for the hybrid store from environment variables
// ABOUTME: Recognizes SQLITE_PATH, SURREAL_* mirror settings and maintenance tuning

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds the persistence layer configuration loaded from environment
// variables. All keys have defaults suitable for local development.
type Config struct {
	// SQLitePath is the file path of the primary store. Parent directories
	// are created on load.
	SQLitePath string

	// SurrealURL is the websocket URL of the mirror document store.
	// Empty disables mirroring entirely (this is not an error).
	SurrealURL  string
	SurrealNS   string
	SurrealDB   string
	SurrealUser string
	SurrealPass string

	// RetentionDays is the age after which maintenance prunes
	// achievement/AFK/blacklist rows.
	RetentionDays int

	// CacheTTL bounds how long memoized reads are served from the
	// ephemeral cache.
	CacheTTL time.Duration

	// MaintenanceInterval is the period of the background maintenance loop.
	MaintenanceInterval time.Duration
}

// Load reads configuration from the environment, applying defaults and
// creating the SQLite parent directory.
func Load() (*Config, error) {
	cfg := &Config{
		SQLitePath:  getEnv("SQLITE_PATH", "./data/beethoven_bot.db"),
		SurrealURL:  getEnv("SURREAL_URL", ""),
		SurrealNS:   getEnv("SURREAL_NS", "beethoven"),
		SurrealDB:   getEnv("SURREAL_DB", "beethoven_bot"),
		SurrealUser: getEnv("SURREAL_USER", "root"),
		SurrealPass: getEnv("SURREAL_PASS", "root"),
	}

	days, err := strconv.Atoi(getEnv("RETENTION_DAYS", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid RETENTION_DAYS: %w", err)
	}
	if days < 1 {
		return nil, fmt.Errorf("RETENTION_DAYS must be at least 1, got %d", days)
	}
	cfg.RetentionDays = days

	ttlSecs, err := strconv.Atoi(getEnv("CACHE_TTL_SECONDS", "300"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL_SECONDS: %w", err)
	}
	if ttlSecs < 1 {
		return nil, fmt.Errorf("CACHE_TTL_SECONDS must be at least 1, got %d", ttlSecs)
	}
	cfg.CacheTTL = time.Duration(ttlSecs) * time.Second

	interval, err := time.ParseDuration(getEnv("MAINTENANCE_INTERVAL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAINTENANCE_INTERVAL: %w", err)
	}
	if interval <= 0 {
		return nil, fmt.Errorf("MAINTENANCE_INTERVAL must be positive, got %s", interval)
	}
	cfg.MaintenanceInterval = interval

	if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	return cfg, nil
}

// MirrorEnabled reports whether a mirror store connection should be attempted.
func (c *Config) MirrorEnabled() bool {
	return c.SurrealURL != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
