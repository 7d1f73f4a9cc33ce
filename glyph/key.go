package glyph

import (
	"fmt"
	"math"
)

// FontID identifies a font within one renderer. IDs are never reused.
type FontID uint32

// GlyphID is a glyph index inside a font.
type GlyphID uint16

// PlaceholderID is the reserved glyph ID of the placeholder box drawn for
// characters the font cannot render.
const PlaceholderID GlyphID = math.MaxUint16

// Mode selects how a glyph is stored in the atlas and which shader draws it.
type Mode uint8

const (
	// ModeRaw stores plain coverage and samples it as alpha.
	ModeRaw Mode = iota

	// ModeSDF stores a signed distance field.
	ModeSDF
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeRaw:
		return "raw"
	case ModeSDF:
		return "sdf"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// Scale is a pixel size quantized to quarter pixels.
type Scale uint16

// QuantizeScale rounds a pixel size to the nearest quarter pixel.
func QuantizeScale(px float32) Scale {
	if px <= 0 {
		return 0
	}
	q := math.Round(float64(px) * 4)
	if q > math.MaxUint16 {
		q = math.MaxUint16
	}
	return Scale(q)
}

// Pixels returns the size in pixels.
func (s Scale) Pixels() float32 {
	return float32(s) / 4
}

// Key identifies a cached glyph. Keys are comparable and used as map keys.
type Key struct {
	Font  FontID
	Glyph GlyphID
	Mode  Mode
	Scale Scale
}

// String implements fmt.Stringer.
func (k Key) String() string {
	return fmt.Sprintf("font=%d glyph=%d mode=%s size=%.2fpx", k.Font, k.Glyph, k.Mode, k.Scale.Pixels())
}
