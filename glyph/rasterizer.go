package glyph

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Sentinel errors for the glyph package.
var (
	// ErrGlyphNotFound is returned when the font has no outline for a rune or glyph ID.
	ErrGlyphNotFound = errors.New("glyph: glyph not found")

	// ErrEmptyFontData is returned when Parse is given no bytes.
	ErrEmptyFontData = errors.New("glyph: empty font data")

	// ErrUnknownParser is returned when Parse names an unregistered backend.
	ErrUnknownParser = errors.New("glyph: unknown parser")
)

// RasterizationError reports a failure to decode or fill a glyph outline.
// It usually means the font data is malformed.
type RasterizationError struct {
	Glyph GlyphID
	Err   error
}

func (e *RasterizationError) Error() string {
	return fmt.Sprintf("glyph: rasterize glyph %d: %v", e.Glyph, e.Err)
}

func (e *RasterizationError) Unwrap() error {
	return e.Err
}

// Rasterizer produces coverage bitmaps for the glyphs of one font.
//
// Implementations must be safe for concurrent use: glyphs of one font are
// rasterized in parallel.
type Rasterizer interface {
	// GlyphIndex maps a rune to a glyph. ok is false when the font has no
	// glyph for r.
	GlyphIndex(r rune) (id GlyphID, ok bool)

	// Rasterize renders a glyph at ppem pixels per em.
	// Glyphs without an outline (spaces) return an empty bitmap.
	Rasterize(id GlyphID, ppem float32) (*Bitmap, Metrics, error)

	// Advance returns the horizontal advance of a glyph in pixels.
	Advance(id GlyphID, ppem float32) (float32, error)

	// FontMetrics returns the font's vertical metrics in pixels.
	FontMetrics(ppem float32) FontMetrics

	// MaxGlyphSize returns the bitmap size needed by the font's largest glyph.
	MaxGlyphSize(ppem float32) (width, height int)
}

// Parser creates a Rasterizer from TTF or OTF data.
type Parser interface {
	Parse(data []byte) (Rasterizer, error)
}

// DefaultParser is the name of the backend used when none is requested.
const DefaultParser = "sfnt"

var (
	parsersMu sync.RWMutex
	parsers   = map[string]Parser{
		"sfnt":   sfntParser{},
		"gotext": gotextParser{},
	}
)

// RegisterParser makes a backend available under name, replacing any
// previous registration.
func RegisterParser(name string, p Parser) {
	parsersMu.Lock()
	defer parsersMu.Unlock()
	parsers[name] = p
}

// Parsers returns the registered backend names in sorted order.
func Parsers() []string {
	parsersMu.RLock()
	defer parsersMu.RUnlock()
	names := make([]string, 0, len(parsers))
	for name := range parsers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Parse parses font data with the named backend. An empty name selects
// DefaultParser.
func Parse(name string, data []byte) (Rasterizer, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	if name == "" {
		name = DefaultParser
	}
	parsersMu.RLock()
	p, ok := parsers[name]
	parsersMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownParser, name)
	}
	return p.Parse(data)
}
