package glyph

import "image"

// Bitmap is a y-down grid of 8-bit values, one byte per texel.
// It holds either coverage or an encoded distance field.
type Bitmap struct {
	Width  int
	Height int
	Pix    []byte
}

// NewBitmap allocates a zeroed bitmap.
func NewBitmap(width, height int) *Bitmap {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Bitmap{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height),
	}
}

// Empty reports whether the bitmap has no texels.
func (b *Bitmap) Empty() bool {
	return b == nil || b.Width == 0 || b.Height == 0
}

// At returns the texel at (x, y). Out of range reads return 0.
func (b *Bitmap) At(x, y int) byte {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return 0
	}
	return b.Pix[y*b.Width+x]
}

// Set writes the texel at (x, y). Out of range writes are ignored.
func (b *Bitmap) Set(x, y int, v byte) {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return
	}
	b.Pix[y*b.Width+x] = v
}

// Pad returns a copy with n empty texels added on every side.
func (b *Bitmap) Pad(n int) *Bitmap {
	if n <= 0 {
		return b.Clone()
	}
	out := NewBitmap(b.Width+2*n, b.Height+2*n)
	for y := range b.Height {
		copy(out.Pix[(y+n)*out.Width+n:], b.Pix[y*b.Width:(y+1)*b.Width])
	}
	return out
}

// Clone returns a deep copy.
func (b *Bitmap) Clone() *Bitmap {
	out := &Bitmap{Width: b.Width, Height: b.Height, Pix: make([]byte, len(b.Pix))}
	copy(out.Pix, b.Pix)
	return out
}

// Alpha wraps a copy of the texels in an image.Alpha.
func (b *Bitmap) Alpha() *image.Alpha {
	img := image.NewAlpha(image.Rect(0, 0, b.Width, b.Height))
	copy(img.Pix, b.Pix)
	return img
}

// FromAlpha copies an image.Alpha into a new bitmap.
func FromAlpha(img *image.Alpha) *Bitmap {
	r := img.Bounds()
	out := NewBitmap(r.Dx(), r.Dy())
	for y := range out.Height {
		start := img.PixOffset(r.Min.X, r.Min.Y+y)
		copy(out.Pix[y*out.Width:], img.Pix[start:start+out.Width])
	}
	return out
}

// Metrics describes where a glyph bitmap sits relative to the pen.
type Metrics struct {
	// BearingX is the horizontal offset from the pen to the bitmap's left edge.
	BearingX float32

	// BearingY is the vertical offset from the baseline to the bitmap's top
	// edge. Negative values are above the baseline.
	BearingY float32

	// Advance is how far the pen moves after this glyph.
	Advance float32

	// Width and Height are the bitmap dimensions in texels.
	Width  int
	Height int
}

// FontMetrics holds font-wide vertical metrics at one pixel size.
type FontMetrics struct {
	// Ascent is the distance from the baseline to the top of the font (positive).
	Ascent float32

	// Descent is the distance from the baseline to the bottom of the font (positive).
	Descent float32

	// LineGap is the recommended gap between lines.
	LineGap float32
}

// LineHeight returns the baseline-to-baseline distance.
func (m FontMetrics) LineHeight() float32 {
	return m.Ascent + m.Descent + m.LineGap
}
