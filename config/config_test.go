package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		os.Unsetenv("PRICELENS_SERVER_PORT")
		os.Unsetenv("PRICELENS_SERVER_ENVIRONMENT")
		os.Unsetenv("PRICELENS_UPSTREAM_ALLOWED_HOST")
		os.Unsetenv("PRICELENS_UPSTREAM_PLATFORM_NAME")
		os.Unsetenv("PRICELENS_UPSTREAM_TIMEOUT")
		os.Unsetenv("PRICELENS_WATCHLIST_SERVICE_URL")
		os.Unsetenv("PRICELENS_WATCHLIST_STORAGE_KEY")
		os.Unsetenv("PRICELENS_WATCHLIST_REFRESH_DELAY")
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Upstream.AllowedHost != "trendyol.com" {
			t.Errorf("Upstream.AllowedHost = %s, want trendyol.com", cfg.Upstream.AllowedHost)
		}
		if cfg.Upstream.PlatformName != "Trendyol" {
			t.Errorf("Upstream.PlatformName = %s, want Trendyol", cfg.Upstream.PlatformName)
		}
		if cfg.Upstream.CurrencySuffix != "TL" {
			t.Errorf("Upstream.CurrencySuffix = %s, want TL", cfg.Upstream.CurrencySuffix)
		}
		if cfg.Upstream.Timeout != 15*time.Second {
			t.Errorf("Upstream.Timeout = %v, want 15s", cfg.Upstream.Timeout)
		}
		if cfg.Upstream.UserAgent != DefaultUserAgent {
			t.Errorf("Upstream.UserAgent = %s, want default", cfg.Upstream.UserAgent)
		}
		if cfg.Watchlist.ServiceURL != "" {
			t.Errorf("Watchlist.ServiceURL = %s, want empty", cfg.Watchlist.ServiceURL)
		}
		if cfg.Watchlist.StorageKey != "watchlist" {
			t.Errorf("Watchlist.StorageKey = %s, want watchlist", cfg.Watchlist.StorageKey)
		}
		if cfg.Watchlist.RefreshDelay != 2*time.Second {
			t.Errorf("Watchlist.RefreshDelay = %v, want 2s", cfg.Watchlist.RefreshDelay)
		}
		if cfg.Watchlist.ClientTimeout != 30*time.Second {
			t.Errorf("Watchlist.ClientTimeout = %v, want 30s", cfg.Watchlist.ClientTimeout)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("PRICELENS_SERVER_PORT", "9090")
		os.Setenv("PRICELENS_SERVER_ENVIRONMENT", "production")
		os.Setenv("PRICELENS_UPSTREAM_ALLOWED_HOST", "example.com")
		os.Setenv("PRICELENS_UPSTREAM_PLATFORM_NAME", "Example")
		os.Setenv("PRICELENS_UPSTREAM_TIMEOUT", "5s")
		os.Setenv("PRICELENS_WATCHLIST_SERVICE_URL", "http://localhost:8080")
		os.Setenv("PRICELENS_WATCHLIST_REFRESH_DELAY", "500ms")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.Upstream.AllowedHost != "example.com" {
			t.Errorf("Upstream.AllowedHost = %s, want example.com", cfg.Upstream.AllowedHost)
		}
		if cfg.Upstream.PlatformName != "Example" {
			t.Errorf("Upstream.PlatformName = %s, want Example", cfg.Upstream.PlatformName)
		}
		if cfg.Upstream.Timeout != 5*time.Second {
			t.Errorf("Upstream.Timeout = %v, want 5s", cfg.Upstream.Timeout)
		}
		if cfg.Watchlist.ServiceURL != "http://localhost:8080" {
			t.Errorf("Watchlist.ServiceURL = %s, want http://localhost:8080", cfg.Watchlist.ServiceURL)
		}
		if cfg.Watchlist.RefreshDelay != 500*time.Millisecond {
			t.Errorf("Watchlist.RefreshDelay = %v, want 500ms", cfg.Watchlist.RefreshDelay)
		}
	})

	t.Run("fails validation for non-positive timeout", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("PRICELENS_UPSTREAM_TIMEOUT", "0s")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for zero timeout")
		}
	})

	t.Run("fails validation for negative refresh delay", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("PRICELENS_WATCHLIST_REFRESH_DELAY", "-1s")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for negative refresh delay")
		}
	})
}

func TestLoadFile(t *testing.T) {
	t.Run("reads values from explicit yaml file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "pricelens.yaml")
		content := []byte(`
upstream:
  platform_name: Custom
  timeout: 3s
watchlist:
  storage_key: tracked
`)
		if err := os.WriteFile(path, content, 0o600); err != nil {
			t.Fatalf("write config: %v", err)
		}

		cfg, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile() error = %v, want nil", err)
		}
		if cfg.Upstream.PlatformName != "Custom" {
			t.Errorf("Upstream.PlatformName = %s, want Custom", cfg.Upstream.PlatformName)
		}
		if cfg.Upstream.Timeout != 3*time.Second {
			t.Errorf("Upstream.Timeout = %v, want 3s", cfg.Upstream.Timeout)
		}
		if cfg.Watchlist.StorageKey != "tracked" {
			t.Errorf("Watchlist.StorageKey = %s, want tracked", cfg.Watchlist.StorageKey)
		}
		// untouched keys keep their defaults
		if cfg.Upstream.AllowedHost != "trendyol.com" {
			t.Errorf("Upstream.AllowedHost = %s, want trendyol.com", cfg.Upstream.AllowedHost)
		}
	})
}
