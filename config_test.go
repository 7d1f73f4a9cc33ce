package sdftext

import (
	"errors"
	"runtime"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
	if cfg.SampleCount != 1 {
		t.Errorf("SampleCount = %d, want 1", cfg.SampleCount)
	}
	if cfg.Workers != runtime.GOMAXPROCS(0) {
		t.Errorf("Workers = %d, want GOMAXPROCS", cfg.Workers)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"samples 2", func(c *Config) { c.SampleCount = 2 }, "SampleCount"},
		{"no workers", func(c *Config) { c.Workers = 0 }, "Workers"},
		{"zero height", func(c *Config) { c.Height = 0 }, "Width/Height"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("Validate() = %v, want *ConfigError", err)
			}
			if ce.Field != tt.field {
				t.Errorf("Field = %q, want %q", ce.Field, tt.field)
			}
		})
	}

	cfg := DefaultConfig()
	cfg.SampleCount = 4
	if err := cfg.Validate(); err != nil {
		t.Errorf("4x MSAA should be valid, got %v", err)
	}
}

func TestFontSize(t *testing.T) {
	tests := []struct {
		size FontSize
		px   float32
		str  string
	}{
		{Px(16), 16, "16px"},
		{Pt(12), 16, "12pt"},
		{Pt(72), 96, "72pt"},
		{Px(0), 0, "0px"},
	}
	for _, tt := range tests {
		if got := tt.size.Pixels(); got != tt.px {
			t.Errorf("%v.Pixels() = %v, want %v", tt.size, got, tt.px)
		}
		if got := tt.size.String(); got != tt.str {
			t.Errorf("String() = %q, want %q", got, tt.str)
		}
	}
	if !(FontSize{}).IsZero() || Pt(1).IsZero() {
		t.Error("IsZero should only hold for unset sizes")
	}
}
