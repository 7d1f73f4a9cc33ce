// Package glyph turns font outlines into 8-bit coverage bitmaps.
//
// A [Rasterizer] wraps one parsed font. Two backends are registered:
// "sfnt" (golang.org/x/image/font/sfnt, the default) and "gotext"
// (github.com/go-text/typesetting). Both fill outlines with
// golang.org/x/image/vector, so their output differs only where the
// parsers disagree about the outline itself.
//
// Bitmaps are y-down: row 0 is the top of the glyph. [Metrics.BearingX]
// and [Metrics.BearingY] give the offset from the pen position on the
// baseline to the bitmap's top-left texel.
//
// Usage:
//
//	r, err := glyph.Parse(glyph.DefaultParser, goregular.TTF)
//	if err != nil {
//	    return err
//	}
//	id, ok := r.GlyphIndex('A')
//	if !ok {
//	    return glyph.ErrGlyphNotFound
//	}
//	bmp, m, err := r.Rasterize(id, 32)
package glyph
