package atlas

import (
	"errors"
	"fmt"
)

// Config holds atlas configuration.
type Config struct {
	// PageSize is the width and height of each page in texels.
	// Default: 1024
	PageSize int

	// MaxPages limits how many pages the atlas may create before it
	// starts evicting.
	// Default: 4
	MaxPages int

	// Padding is the empty gap kept to the right of and below every glyph
	// so linear sampling never bleeds into a neighbour.
	// Default: 1
	Padding int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		PageSize: 1024,
		MaxPages: 4,
		Padding:  1,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.PageSize < 16 {
		return &ConfigError{Field: "PageSize", Reason: "must be at least 16"}
	}
	if c.PageSize > 8192 {
		return &ConfigError{Field: "PageSize", Reason: "must be at most 8192"}
	}
	if c.MaxPages < 1 {
		return &ConfigError{Field: "MaxPages", Reason: "must be at least 1"}
	}
	if c.MaxPages > 64 {
		return &ConfigError{Field: "MaxPages", Reason: "must be at most 64"}
	}
	if c.Padding < 0 {
		return &ConfigError{Field: "Padding", Reason: "must be non-negative"}
	}
	if c.Padding >= c.PageSize/4 {
		return &ConfigError{Field: "Padding", Reason: "must be less than a quarter of PageSize"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "atlas: invalid config." + e.Field + ": " + e.Reason
}

// ErrAtlasOverflow is returned when a glyph cannot be placed: every page is
// full and every resident glyph is referenced in the current frame.
var ErrAtlasOverflow = errors.New("atlas: overflow")

// GlyphTooLargeError is returned when a bitmap cannot fit even in an empty
// page. It is a configuration error: pages must be larger than the largest
// glyph. It matches ErrAtlasOverflow with errors.Is.
type GlyphTooLargeError struct {
	Width    int
	Height   int
	PageSize int
}

func (e *GlyphTooLargeError) Error() string {
	return fmt.Sprintf("atlas: glyph %dx%d does not fit in a %dx%d page", e.Width, e.Height, e.PageSize, e.PageSize)
}

func (e *GlyphTooLargeError) Unwrap() error {
	return ErrAtlasOverflow
}
