package glyph

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// sfntParser parses fonts with golang.org/x/image/font/sfnt.
type sfntParser struct{}

// Parse implements Parser.
func (sfntParser) Parse(data []byte) (Rasterizer, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("glyph: sfnt parse: %w", err)
	}
	return &sfntRasterizer{font: f}, nil
}

// sfntRasterizer implements Rasterizer on an sfnt.Font.
// sfnt.Font is read-only after parsing; each call takes its own Buffer.
type sfntRasterizer struct {
	font *sfnt.Font
	bufs sync.Pool
}

func (r *sfntRasterizer) buffer() *sfnt.Buffer {
	if b, ok := r.bufs.Get().(*sfnt.Buffer); ok {
		return b
	}
	return &sfnt.Buffer{}
}

func (r *sfntRasterizer) release(b *sfnt.Buffer) {
	r.bufs.Put(b)
}

func toFixed(px float32) fixed.Int26_6 {
	return fixed.Int26_6(px*64 + 0.5)
}

func fromFixed(v fixed.Int26_6) float32 {
	return float32(v) / 64
}

// GlyphIndex implements Rasterizer.
func (r *sfntRasterizer) GlyphIndex(ch rune) (GlyphID, bool) {
	b := r.buffer()
	defer r.release(b)
	idx, err := r.font.GlyphIndex(b, ch)
	if err != nil || idx == 0 {
		return 0, false
	}
	return GlyphID(idx), true
}

// Rasterize implements Rasterizer.
func (r *sfntRasterizer) Rasterize(id GlyphID, ppem float32) (*Bitmap, Metrics, error) {
	if int(id) >= r.font.NumGlyphs() {
		return nil, Metrics{}, fmt.Errorf("%w: id %d", ErrGlyphNotFound, id)
	}
	b := r.buffer()
	defer r.release(b)

	scale := toFixed(ppem)
	advance, err := r.font.GlyphAdvance(b, sfnt.GlyphIndex(id), scale, font.HintingNone)
	if err != nil {
		return nil, Metrics{}, &RasterizationError{Glyph: id, Err: err}
	}
	segs, err := r.font.LoadGlyph(b, sfnt.GlyphIndex(id), scale, nil)
	if err != nil {
		if errors.Is(err, sfnt.ErrNotFound) {
			return nil, Metrics{}, fmt.Errorf("%w: id %d", ErrGlyphNotFound, id)
		}
		return nil, Metrics{}, &RasterizationError{Glyph: id, Err: err}
	}

	// sfnt outlines are already y-down.
	path := make([]pathSegment, len(segs))
	for i, s := range segs {
		var ps pathSegment
		switch s.Op {
		case sfnt.SegmentOpMoveTo:
			ps.op = opMoveTo
		case sfnt.SegmentOpLineTo:
			ps.op = opLineTo
		case sfnt.SegmentOpQuadTo:
			ps.op = opQuadTo
		case sfnt.SegmentOpCubeTo:
			ps.op = opCubeTo
		}
		for j := range ps.numPoints() {
			ps.pts[j] = [2]float32{fromFixed(s.Args[j].X), fromFixed(s.Args[j].Y)}
		}
		path[i] = ps
	}

	bmp, m := fillPath(path)
	m.Advance = fromFixed(advance)
	return bmp, m, nil
}

// Advance implements Rasterizer.
func (r *sfntRasterizer) Advance(id GlyphID, ppem float32) (float32, error) {
	b := r.buffer()
	defer r.release(b)
	adv, err := r.font.GlyphAdvance(b, sfnt.GlyphIndex(id), toFixed(ppem), font.HintingNone)
	if err != nil {
		if errors.Is(err, sfnt.ErrNotFound) {
			return 0, fmt.Errorf("%w: id %d", ErrGlyphNotFound, id)
		}
		return 0, &RasterizationError{Glyph: id, Err: err}
	}
	return fromFixed(adv), nil
}

// FontMetrics implements Rasterizer.
func (r *sfntRasterizer) FontMetrics(ppem float32) FontMetrics {
	b := r.buffer()
	defer r.release(b)
	m, err := r.font.Metrics(b, toFixed(ppem), font.HintingNone)
	if err != nil {
		return FontMetrics{Ascent: ppem, LineGap: ppem * 0.2}
	}
	ascent := fromFixed(m.Ascent)
	descent := fromFixed(m.Descent)
	return FontMetrics{
		Ascent:  ascent,
		Descent: descent,
		LineGap: max(0, fromFixed(m.Height)-ascent-descent),
	}
}

// MaxGlyphSize implements Rasterizer using the font's bounding box.
func (r *sfntRasterizer) MaxGlyphSize(ppem float32) (int, int) {
	b := r.buffer()
	defer r.release(b)
	bounds, err := r.font.Bounds(b, toFixed(ppem), font.HintingNone)
	if err != nil {
		return emBox(ppem)
	}
	return bounds.Max.X.Ceil() - bounds.Min.X.Floor(), bounds.Max.Y.Ceil() - bounds.Min.Y.Floor()
}

// emBox is the fallback size estimate when a font has no usable bounds.
func emBox(ppem float32) (int, int) {
	n := int(ppem*1.5 + 1)
	return n, n
}
