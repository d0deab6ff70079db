package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config holds engine tuning knobs.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`

	// TileCapacity is the row capacity hint for tiles built by scans.
	TileCapacity int `toml:"tile_capacity"`

	// SortMemoryLimit bounds the bytes an order-by stage buffers before
	// stashing input tiles compressed. Zero disables stashing.
	SortMemoryLimit int64 `toml:"sort_memory_limit"`

	// CompressionEnabled toggles lz4 for stashed tiles.
	CompressionEnabled bool `toml:"compression_enabled"`

	// BackendMemoryLimit caps bytes held by the default backend. Zero
	// means unlimited.
	BackendMemoryLimit int64 `toml:"backend_memory_limit"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:           "info",
		TileCapacity:       1024,
		SortMemoryLimit:    64 << 20,
		CompressionEnabled: true,
		BackendMemoryLimit: 0,
	}
}

// LoadFromFile loads configuration from a TOML file, applying defaults for
// keys the file omits.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	if c.TileCapacity <= 0 {
		return fmt.Errorf("tile capacity must be positive, got %d", c.TileCapacity)
	}
	if c.SortMemoryLimit < 0 {
		return fmt.Errorf("sort memory limit must not be negative, got %d", c.SortMemoryLimit)
	}
	if c.BackendMemoryLimit < 0 {
		return fmt.Errorf("backend memory limit must not be negative, got %d", c.BackendMemoryLimit)
	}
	return nil
}
