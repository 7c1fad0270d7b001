package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Library   LibraryConfig   `toml:"library"`
	Cache     CacheConfig     `toml:"cache"`
	Detection DetectionConfig `toml:"detection"`
	Database  DatabaseConfig  `toml:"database"`
	Log       LogConfig       `toml:"log"`
}

// LibraryConfig contains the remote station library connection settings.
type LibraryConfig struct {
	BaseURL        string  `toml:"base_url"`
	StationID      string  `toml:"station_id"`
	APIKey         string  `toml:"api_key"`
	RateLimit      float64 `toml:"rate_limit"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
}

// CacheConfig controls the known-tracks cache.
type CacheConfig struct {
	TTLSeconds int `toml:"ttl_seconds"`
}

// DetectionConfig holds the duration gate used by metadata matching.
type DetectionConfig struct {
	DurationToleranceSeconds float64 `toml:"duration_tolerance_seconds"`
	NearMissSeconds          float64 `toml:"near_miss_seconds"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// TTL returns the cache TTL as a [time.Duration].
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// Timeout returns the HTTP timeout as a [time.Duration].
func (c LibraryConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate checks values that would otherwise silently disable matching rules.
func (c *Config) Validate() error {
	if c.Library.BaseURL == "" {
		return fmt.Errorf("%w: library.base_url is required", ErrInvalidConfig)
	}
	if c.Library.StationID == "" {
		return fmt.Errorf("%w: library.station_id is required", ErrInvalidConfig)
	}
	if c.Cache.TTLSeconds < 0 {
		return fmt.Errorf("%w: cache.ttl_seconds must not be negative", ErrInvalidConfig)
	}
	if c.Detection.DurationToleranceSeconds < 0 {
		return fmt.Errorf("%w: detection.duration_tolerance_seconds must not be negative", ErrInvalidConfig)
	}
	if c.Detection.NearMissSeconds < c.Detection.DurationToleranceSeconds {
		return fmt.Errorf("%w: detection.near_miss_seconds must be >= duration_tolerance_seconds", ErrInvalidConfig)
	}
	return nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
