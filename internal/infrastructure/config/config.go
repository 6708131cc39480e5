package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"go.yaml.in/yaml/v4"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Display  DisplayConfig  `yaml:"display"`
	Feeds    FeedsConfig    `yaml:"feeds"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	MaxHeaderBytes int           `yaml:"max_header_bytes"`
	TLS            TLSConfig     `yaml:"tls"`
}

// TLSConfig contains TLS settings
type TLSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// DatabaseConfig contains the board store settings
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// DisplayConfig controls what the screen shows and how fast it rotates
type DisplayConfig struct {
	// Location is an IANA zone name used for shift and weekday decisions.
	Location string `yaml:"location"`
	// Course restricts classes and news to one course tag. Empty shows all.
	Course              string        `yaml:"course"`
	PageSize            int           `yaml:"page_size"`
	ClassInterval       time.Duration `yaml:"class_interval"`
	NewsDefaultDuration int           `yaml:"news_default_duration"` // seconds
	RefreshInterval     time.Duration `yaml:"refresh_interval"`
}

// FeedsConfig contains RSS/Atom import settings
type FeedsConfig struct {
	URLs            []string      `yaml:"urls"`
	Interval        time.Duration `yaml:"interval"`
	Timeout         time.Duration `yaml:"timeout"`
	ItemTTL         time.Duration `yaml:"item_ttl"` // 0 keeps imported items forever
	DefaultDuration int           `yaml:"default_duration"`
	Course          string        `yaml:"course"`
}

// LogConfig contains logging settings
type LogConfig struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   30 * time.Second,
			MaxHeaderBytes: 1 << 20, // 1 MB
		},
		Database: DatabaseConfig{
			Path: "signage.db",
		},
		Display: DisplayConfig{
			Location:            "Local",
			PageSize:            3,
			ClassInterval:       7 * time.Second,
			NewsDefaultDuration: 10,
			RefreshInterval:     60 * time.Second,
		},
		Feeds: FeedsConfig{
			URLs:            []string{},
			Interval:        15 * time.Minute,
			Timeout:         20 * time.Second,
			ItemTTL:         72 * time.Hour,
			DefaultDuration: 10,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file
func Load(path string) (*Config, error) {
	cfg := Default()

	// If config file exists, load it
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return cfg, nil // Use defaults if file doesn't exist
			}
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration and normalizes empty optional values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.TLS.Enabled {
		if c.Server.TLS.CertFile == "" {
			return fmt.Errorf("TLS cert file is required when TLS is enabled")
		}
		if c.Server.TLS.KeyFile == "" {
			return fmt.Errorf("TLS key file is required when TLS is enabled")
		}
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}

	if _, err := c.Display.Zone(); err != nil {
		return fmt.Errorf("invalid display.location %q: %w", c.Display.Location, err)
	}
	if c.Display.PageSize < 1 {
		return fmt.Errorf("invalid display.page_size: %d (must be >= 1)", c.Display.PageSize)
	}
	if c.Display.ClassInterval < time.Second {
		return fmt.Errorf("invalid display.class_interval: %s (must be >= 1s)", c.Display.ClassInterval)
	}
	if c.Display.RefreshInterval < time.Second {
		return fmt.Errorf("invalid display.refresh_interval: %s (must be >= 1s)", c.Display.RefreshInterval)
	}
	if c.Display.NewsDefaultDuration < 1 {
		c.Display.NewsDefaultDuration = 10
	}

	for _, raw := range c.Feeds.URLs {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid feed url: %q", raw)
		}
	}
	if len(c.Feeds.URLs) > 0 && c.Feeds.Interval < time.Minute {
		return fmt.Errorf("invalid feeds.interval: %s (must be >= 1m)", c.Feeds.Interval)
	}
	if c.Feeds.ItemTTL < 0 {
		return fmt.Errorf("invalid feeds.item_ttl: %s", c.Feeds.ItemTTL)
	}
	if c.Feeds.DefaultDuration < 1 {
		c.Feeds.DefaultDuration = c.Display.NewsDefaultDuration
	}

	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	switch c.Log.Level {
	case "":
		c.Log.Level = "info"
	case "debug", "info", "warn", "error":
		// ok
	default:
		return fmt.Errorf("invalid log.level: %q (must be debug, info, warn, or error)", c.Log.Level)
	}

	return nil
}

// Zone resolves Location. Empty or "Local" uses the host zone.
func (d DisplayConfig) Zone() (*time.Location, error) {
	if d.Location == "" || d.Location == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(d.Location)
}

// SlogLevel maps Level to a slog level.
func (l LogConfig) SlogLevel() slog.Level {
	switch l.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Save saves the configuration to a YAML file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
