package sdftext

import (
	"fmt"
	"runtime"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/sdftext/atlas"
)

// Config holds renderer configuration.
type Config struct {
	// Atlas configures the atlas of every font the renderer loads.
	Atlas atlas.Config

	// Format is the color format of the render targets text is drawn into.
	// Default: BGRA8Unorm, or the provider's surface format.
	Format gputypes.TextureFormat

	// SampleCount is the MSAA sample count of the render targets.
	// Default: 1
	SampleCount uint32

	// Workers is the number of goroutines rasterizing glyphs.
	// Default: GOMAXPROCS
	Workers int

	// Width and Height size the initial projection in pixels.
	// Default: 800x600
	Width, Height uint32
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Atlas:       atlas.DefaultConfig(),
		Format:      gputypes.TextureFormatBGRA8Unorm,
		SampleCount: 1,
		Workers:     runtime.GOMAXPROCS(0),
		Width:       800,
		Height:      600,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := c.Atlas.Validate(); err != nil {
		return err
	}
	switch c.SampleCount {
	case 1, 4:
	default:
		return &ConfigError{Field: "SampleCount", Reason: "must be 1 or 4"}
	}
	if c.Workers < 1 {
		return &ConfigError{Field: "Workers", Reason: "must be at least 1"}
	}
	if c.Width == 0 || c.Height == 0 {
		return &ConfigError{Field: "Width/Height", Reason: "must be positive"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("sdftext: invalid config.%s: %s", e.Field, e.Reason)
}
