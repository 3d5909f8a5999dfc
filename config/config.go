package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Upstream  UpstreamConfig
	Watchlist WatchlistConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// UpstreamConfig describes the commerce site product pages are fetched from
type UpstreamConfig struct {
	AllowedHost    string        `mapstructure:"allowed_host"`
	PlatformName   string        `mapstructure:"platform_name"`
	CurrencySuffix string        `mapstructure:"currency_suffix"`
	Timeout        time.Duration `mapstructure:"timeout"`
	UserAgent      string        `mapstructure:"user_agent"`
	AcceptLanguage string        `mapstructure:"accept_language"`
}

// WatchlistConfig holds settings for the local watchlist client
type WatchlistConfig struct {
	ServiceURL    string        `mapstructure:"service_url"` // empty runs extraction in-process
	StorageDir    string        `mapstructure:"storage_dir"`
	StorageKey    string        `mapstructure:"storage_key"`
	RefreshDelay  time.Duration `mapstructure:"refresh_delay"`
	ClientTimeout time.Duration `mapstructure:"client_timeout"`
}

// DefaultUserAgent is sent to the upstream site unless overridden.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file path. An empty path searches
// the default locations.
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/pricelens/")
	}

	// Environment variable settings
	v.SetEnvPrefix("PRICELENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Upstream defaults
	v.SetDefault("upstream.allowed_host", "trendyol.com")
	v.SetDefault("upstream.platform_name", "Trendyol")
	v.SetDefault("upstream.currency_suffix", "TL")
	v.SetDefault("upstream.timeout", "15s")
	v.SetDefault("upstream.user_agent", DefaultUserAgent)
	v.SetDefault("upstream.accept_language", "tr-TR,tr;q=0.9,en-US;q=0.8,en;q=0.7")

	// Watchlist defaults
	v.SetDefault("watchlist.service_url", "")
	v.SetDefault("watchlist.storage_dir", defaultStorageDir())
	v.SetDefault("watchlist.storage_key", "watchlist")
	v.SetDefault("watchlist.refresh_delay", "2s")
	v.SetDefault("watchlist.client_timeout", "30s")
}

func defaultStorageDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".pricelens"
	}
	return filepath.Join(home, ".pricelens")
}

// validate validates the configuration
func validate(config *Config) error {
	if strings.TrimSpace(config.Upstream.AllowedHost) == "" {
		return fmt.Errorf("upstream allowed host is required (set PRICELENS_UPSTREAM_ALLOWED_HOST)")
	}

	if config.Upstream.Timeout <= 0 {
		return fmt.Errorf("upstream timeout must be positive, got: %s", config.Upstream.Timeout)
	}

	if config.Watchlist.RefreshDelay < 0 {
		return fmt.Errorf("watchlist refresh delay must not be negative, got: %s", config.Watchlist.RefreshDelay)
	}

	if strings.TrimSpace(config.Watchlist.StorageKey) == "" {
		return fmt.Errorf("watchlist storage key is required")
	}

	return nil
}
