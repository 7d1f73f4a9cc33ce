package sdftext

import (
	"errors"

	"github.com/gogpu/sdftext/atlas"
	"github.com/gogpu/sdftext/glyph"
)

// Errors surfaced by the renderer. Errors from the glyph and atlas layers
// are passed through wrapped, so errors.Is and errors.As work on them.
var (
	// ErrGlyphNotFound is reported by rasterizers for characters a font
	// lacks. The renderer recovers from it with fallback characters and a
	// placeholder box, so it only reaches callers of custom rasterizers.
	ErrGlyphNotFound = glyph.ErrGlyphNotFound

	// ErrAtlasOverflow is returned when a glyph cannot be placed because
	// every resident glyph is referenced in the current frame.
	ErrAtlasOverflow = atlas.ErrAtlasOverflow

	// ErrClosed is returned by operations on a closed renderer.
	ErrClosed = errors.New("sdftext: renderer is closed")

	// ErrForeignObject is returned when a font or text is used with a
	// renderer other than the one that created it.
	ErrForeignObject = errors.New("sdftext: font or text belongs to another renderer")

	// ErrTextClosed is returned by operations on a closed text.
	ErrTextClosed = errors.New("sdftext: text is closed")

	// ErrNilFont is returned when CreateText or PrerenderGlyphs get a nil font.
	ErrNilFont = errors.New("sdftext: font is nil")
)

// RasterizationError reports a glyph outline that could not be rendered.
type RasterizationError = glyph.RasterizationError

// GlyphTooLargeError reports a font whose largest glyph cannot fit in an
// empty atlas page. It is returned when the font is loaded.
type GlyphTooLargeError = atlas.GlyphTooLargeError
