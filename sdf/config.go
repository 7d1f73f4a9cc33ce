package sdf

import "fmt"

// Config controls distance field generation.
type Config struct {
	// Radius is the spread in texels: distances are clamped to ±Radius.
	// Larger values give wider outlines and softer scaling at higher cost.
	// Default: 6
	Radius float32

	// Threshold is the coverage at or above which a texel counts as inside.
	// Default: 128
	Threshold uint8
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Radius:    6,
		Threshold: 128,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Radius < 1 {
		return &ConfigError{Field: "Radius", Reason: "must be at least 1"}
	}
	if c.Radius > 64 {
		return &ConfigError{Field: "Radius", Reason: "must be at most 64"}
	}
	if c.Threshold == 0 {
		return &ConfigError{Field: "Threshold", Reason: "must be positive"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("sdf: invalid config.%s: %s", e.Field, e.Reason)
}
