package atlas

import (
	"github.com/gogpu/sdftext/glyph"
)

// Region is a rectangle of texels inside one page.
type Region struct {
	Page   int
	X, Y   int
	Width  int
	Height int
}

// Empty reports whether the region covers no texels. Whitespace glyphs
// have empty regions and are never drawn.
func (r Region) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Area returns the number of texels covered.
func (r Region) Area() int {
	if r.Empty() {
		return 0
	}
	return r.Width * r.Height
}

// Overlaps reports whether two regions on the same page share a texel.
func (r Region) Overlaps(o Region) bool {
	if r.Page != o.Page || r.Empty() || o.Empty() {
		return false
	}
	return r.X < o.X+o.Width && o.X < r.X+r.Width &&
		r.Y < o.Y+o.Height && o.Y < r.Y+r.Height
}

// UV returns the region's normalized texture coordinates in a page of the
// given size.
func (r Region) UV(pageSize int) (u0, v0, u1, v1 float32) {
	s := float32(pageSize)
	return float32(r.X) / s, float32(r.Y) / s,
		float32(r.X+r.Width) / s, float32(r.Y+r.Height) / s
}

// Entry is a resident glyph.
type Entry struct {
	Key     glyph.Key
	Region  Region
	Metrics glyph.Metrics
}
