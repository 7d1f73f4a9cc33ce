package glyph

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/font/opentype"
)

// gotextParser parses fonts with github.com/go-text/typesetting.
type gotextParser struct{}

// Parse implements Parser.
func (gotextParser) Parse(data []byte) (Rasterizer, error) {
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("glyph: gotext parse: %w", err)
	}
	upem := float32(face.Upem())
	if upem == 0 {
		upem = 1000
	}
	return &gotextRasterizer{face: face, upem: upem}, nil
}

// gotextRasterizer implements Rasterizer on a go-text Face.
// Face keeps internal caches, so access is serialized.
type gotextRasterizer struct {
	mu   sync.Mutex
	face *font.Face
	upem float32
}

// GlyphIndex implements Rasterizer.
func (r *gotextRasterizer) GlyphIndex(ch rune) (GlyphID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	gid, ok := r.face.NominalGlyph(ch)
	if !ok || gid == 0 || gid > font.GID(PlaceholderID-1) {
		return 0, false
	}
	return GlyphID(gid), true
}

// Rasterize implements Rasterizer.
func (r *gotextRasterizer) Rasterize(id GlyphID, ppem float32) (*Bitmap, Metrics, error) {
	r.mu.Lock()
	data := r.face.GlyphData(font.GID(id))
	advance := r.face.HorizontalAdvance(font.GID(id))
	r.mu.Unlock()

	outline, ok := data.(font.GlyphOutline)
	if !ok {
		return nil, Metrics{}, fmt.Errorf("%w: id %d has no outline", ErrGlyphNotFound, id)
	}

	// Font units are y-up; flip while scaling.
	s := ppem / r.upem
	path := make([]pathSegment, len(outline.Segments))
	for i, seg := range outline.Segments {
		var ps pathSegment
		switch seg.Op {
		case opentype.SegmentOpMoveTo:
			ps.op = opMoveTo
		case opentype.SegmentOpLineTo:
			ps.op = opLineTo
		case opentype.SegmentOpQuadTo:
			ps.op = opQuadTo
		case opentype.SegmentOpCubeTo:
			ps.op = opCubeTo
		default:
			return nil, Metrics{}, &RasterizationError{Glyph: id, Err: fmt.Errorf("unknown segment op %d", seg.Op)}
		}
		for j := range ps.numPoints() {
			ps.pts[j] = [2]float32{seg.Args[j].X * s, -seg.Args[j].Y * s}
		}
		path[i] = ps
	}

	bmp, m := fillPath(path)
	m.Advance = advance * s
	return bmp, m, nil
}

// Advance implements Rasterizer.
func (r *gotextRasterizer) Advance(id GlyphID, ppem float32) (float32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.face.HorizontalAdvance(font.GID(id)) * ppem / r.upem, nil
}

// FontMetrics implements Rasterizer.
func (r *gotextRasterizer) FontMetrics(ppem float32) FontMetrics {
	r.mu.Lock()
	ext, ok := r.face.FontHExtents()
	r.mu.Unlock()
	if !ok {
		return FontMetrics{Ascent: ppem, LineGap: ppem * 0.2}
	}
	s := ppem / r.upem
	return FontMetrics{
		Ascent:  ext.Ascender * s,
		Descent: -ext.Descender * s,
		LineGap: ext.LineGap * s,
	}
}

// MaxGlyphSize implements Rasterizer. go-text does not expose the head
// bounding box, so the estimate is the line extent and a 1.5em width.
func (r *gotextRasterizer) MaxGlyphSize(ppem float32) (int, int) {
	m := r.FontMetrics(ppem)
	w, _ := emBox(ppem)
	return w, int(m.Ascent+m.Descent) + 2
}
