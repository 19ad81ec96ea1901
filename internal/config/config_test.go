// ABOUTME: Tests for environment-driven configuration loading
// ABOUTME: Covers defaults, overrides, parse errors and directory creation

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("SQLITE_PATH", filepath.Join(tmpDir, "data", "bot.db"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.MirrorEnabled() {
		t.Error("mirror should be disabled when SURREAL_URL is unset")
	}
	if cfg.SurrealDB != "beethoven_bot" {
		t.Errorf("SurrealDB = %q, want %q", cfg.SurrealDB, "beethoven_bot")
	}
	if cfg.RetentionDays != 30 {
		t.Errorf("RetentionDays = %d, want 30", cfg.RetentionDays)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Errorf("CacheTTL = %s, want 5m", cfg.CacheTTL)
	}
	if cfg.MaintenanceInterval != 24*time.Hour {
		t.Errorf("MaintenanceInterval = %s, want 24h", cfg.MaintenanceInterval)
	}
}

func TestLoad_CreatesDatabaseDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "deep", "bot.db")
	t.Setenv("SQLITE_PATH", dbPath)

	if _, err := Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if _, err := os.Stat(filepath.Dir(dbPath)); os.IsNotExist(err) {
		t.Error("database parent directory was not created")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "bot.db"))
	t.Setenv("SURREAL_URL", "ws://localhost:8000/rpc")
	t.Setenv("RETENTION_DAYS", "7")
	t.Setenv("CACHE_TTL_SECONDS", "60")
	t.Setenv("MAINTENANCE_INTERVAL", "1h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !cfg.MirrorEnabled() {
		t.Error("mirror should be enabled when SURREAL_URL is set")
	}
	if cfg.RetentionDays != 7 {
		t.Errorf("RetentionDays = %d, want 7", cfg.RetentionDays)
	}
	if cfg.CacheTTL != time.Minute {
		t.Errorf("CacheTTL = %s, want 1m", cfg.CacheTTL)
	}
	if cfg.MaintenanceInterval != time.Hour {
		t.Errorf("MaintenanceInterval = %s, want 1h", cfg.MaintenanceInterval)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric retention", "RETENTION_DAYS", "soon"},
		{"zero retention", "RETENTION_DAYS", "0"},
		{"non-numeric ttl", "CACHE_TTL_SECONDS", "5m"},
		{"bad interval", "MAINTENANCE_INTERVAL", "daily"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "bot.db"))
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Load accepted %s=%q", tt.key, tt.value)
			}
		})
	}
}
