package sdf

import (
	"container/heap"
	"math"
	"sync"

	"github.com/gogpu/sdftext/glyph"
)

// Field is an encoded signed distance field.
type Field struct {
	*glyph.Bitmap

	// Radius is the spread the field was generated with.
	Radius float32
}

// Distance decodes the signed distance stored at (x, y).
func (f *Field) Distance(x, y int) float32 {
	return Decode(f.At(x, y), f.Radius)
}

// Encode maps a signed distance to a byte, clamping to ±radius.
func Encode(d, radius float32) byte {
	v := math.Round(float64((d/(2*radius) + 0.5) * 255))
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return byte(v)
}

// Decode maps a stored byte back to a signed distance.
func Decode(v byte, radius float32) float32 {
	return (float32(v)/255 - 0.5) * 2 * radius
}

// Padding returns the empty border a glyph bitmap needs so the field can
// reach its full spread outside the outline.
func Padding(radius float32) int {
	return int(math.Ceil(float64(radius)))
}

var sqrt2 = float32(math.Sqrt2)

// neighbours lists the 8-connected offsets with their chamfer cost.
var neighbours = [8]struct {
	dx, dy int
	cost   float32
}{
	{-1, -1, sqrt2}, {0, -1, 1}, {1, -1, sqrt2},
	{-1, 0, 1}, {1, 0, 1},
	{-1, 1, sqrt2}, {0, 1, 1}, {1, 1, sqrt2},
}

// scratch holds per-call working memory, pooled across calls.
type scratch struct {
	dist   []float32
	final  []bool
	inside []bool
	queue  minQueue
}

var scratchPool = sync.Pool{New: func() any { return &scratch{} }}

func (s *scratch) reset(n int) {
	if cap(s.dist) < n {
		s.dist = make([]float32, n)
		s.final = make([]bool, n)
		s.inside = make([]bool, n)
	}
	s.dist = s.dist[:n]
	s.final = s.final[:n]
	s.inside = s.inside[:n]
	inf := float32(math.Inf(1))
	for i := range n {
		s.dist[i] = inf
		s.final[i] = false
	}
	s.queue = s.queue[:0]
}

// Generator creates distance fields. A Generator is safe for concurrent use.
type Generator struct {
	config Config
}

// NewGenerator creates a generator with the given configuration.
func NewGenerator(config Config) *Generator {
	return &Generator{config: config}
}

// DefaultGenerator creates a generator with DefaultConfig.
func DefaultGenerator() *Generator {
	return NewGenerator(DefaultConfig())
}

// Config returns the generator's configuration.
func (g *Generator) Config() Config {
	return g.config
}

// Generate converts a coverage bitmap into a distance field of the same size.
// Empty and fully solid inputs yield constant -Radius and +Radius fields.
func (g *Generator) Generate(src *glyph.Bitmap) (*Field, error) {
	if err := g.config.Validate(); err != nil {
		return nil, err
	}
	radius := g.config.Radius
	if src.Empty() {
		return &Field{Bitmap: glyph.NewBitmap(0, 0), Radius: radius}, nil
	}

	w, h := src.Width, src.Height
	n := w * h
	s := scratchPool.Get().(*scratch)
	defer scratchPool.Put(s)
	s.reset(n)

	for i, c := range src.Pix[:n] {
		s.inside[i] = c >= g.config.Threshold
	}

	// Seeds: texels with an opposite-side neighbour. Coverage refines where
	// the edge crosses the texel.
	var seq uint32
	for y := range h {
		for x := range w {
			i := y*w + x
			if !g.touchesBoundary(s.inside, w, h, x, y) {
				continue
			}
			d := float32(math.Abs(float64(src.Pix[i])/255 - 0.5))
			s.dist[i] = d
			heap.Push(&s.queue, item{dist: d, seq: seq, idx: int32(i)})
			seq++
		}
	}

	for s.queue.Len() > 0 {
		it := heap.Pop(&s.queue).(item)
		i := int(it.idx)
		if s.final[i] {
			continue
		}
		s.final[i] = true
		if it.dist >= radius {
			continue
		}
		x, y := i%w, i/w
		for _, nb := range neighbours {
			nx, ny := x+nb.dx, y+nb.dy
			if nx < 0 || ny < 0 || nx >= w || ny >= h {
				continue
			}
			j := ny*w + nx
			if s.final[j] {
				continue
			}
			nd := it.dist + nb.cost
			if nd < s.dist[j] {
				s.dist[j] = nd
				heap.Push(&s.queue, item{dist: nd, seq: seq, idx: int32(j)})
				seq++
			}
		}
	}

	out := glyph.NewBitmap(w, h)
	for i := range n {
		d := min(s.dist[i], radius)
		if !s.inside[i] {
			d = -d
		}
		out.Pix[i] = Encode(d, radius)
	}
	return &Field{Bitmap: out, Radius: radius}, nil
}

// touchesBoundary reports whether any in-grid neighbour of (x, y) lies on
// the other side. The grid border itself is not an edge.
func (g *Generator) touchesBoundary(inside []bool, w, h, x, y int) bool {
	in := inside[y*w+x]
	for _, nb := range neighbours {
		nx, ny := x+nb.dx, y+nb.dy
		if nx < 0 || ny < 0 || nx >= w || ny >= h {
			continue
		}
		if inside[ny*w+nx] != in {
			return true
		}
	}
	return false
}

// GenerateGlyph pads a glyph bitmap by the field's spread, generates the
// field and returns metrics adjusted for the larger bitmap.
func (g *Generator) GenerateGlyph(src *glyph.Bitmap, m glyph.Metrics) (*Field, glyph.Metrics, error) {
	if err := g.config.Validate(); err != nil {
		return nil, m, err
	}
	if src.Empty() {
		return &Field{Bitmap: glyph.NewBitmap(0, 0), Radius: g.config.Radius}, m, nil
	}
	pad := Padding(g.config.Radius)
	f, err := g.Generate(src.Pad(pad))
	if err != nil {
		return nil, m, err
	}
	m.BearingX -= float32(pad)
	m.BearingY -= float32(pad)
	m.Width = f.Width
	m.Height = f.Height
	return f, m, nil
}

// Generate is shorthand for a one-off generation with the default threshold.
func Generate(src *glyph.Bitmap, radius float32) (*Field, error) {
	cfg := DefaultConfig()
	cfg.Radius = radius
	return NewGenerator(cfg).Generate(src)
}
