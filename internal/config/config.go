// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Load layers a YAML file and environment variables over the defaults.
// - Validation failures wrap ErrInvalidConfig; provider failures wrap ErrLoadConfig.
package config

import (
	"fmt"
	"strings"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DefaultThreshold is used by assignment runs that do not pass one.
	DefaultThreshold int `koanf:"default_threshold"`

	// ShuffleSeed seeds the equal-priority shuffle. Zero means seed from the clock.
	ShuffleSeed int64 `koanf:"shuffle_seed"`

	// MaxBodyBytes caps request bodies accepted by the HTTP API.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	// IdempotencyCacheSize bounds the remembered manual-pairing request IDs.
	IdempotencyCacheSize int `koanf:"idempotency_cache_size"`

	// MetricsIntervalMS is the period of the runtime metrics updater.
	MetricsIntervalMS int `koanf:"metrics_interval_ms"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		LogFormat:            "text",
		Addr:                 ":9080",
		DefaultThreshold:     40,
		ShuffleSeed:          0,
		MaxBodyBytes:         1 << 20,
		IdempotencyCacheSize: 10_000,
		MetricsIntervalMS:    5_000,
	}
}

// Validate checks values that would otherwise fail late at startup.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("%w: max_body_bytes must be positive", ErrInvalidConfig)
	}
	if c.IdempotencyCacheSize <= 0 {
		return fmt.Errorf("%w: idempotency_cache_size must be positive", ErrInvalidConfig)
	}
	if c.MetricsIntervalMS <= 0 {
		return fmt.Errorf("%w: metrics_interval_ms must be positive", ErrInvalidConfig)
	}
	return nil
}
