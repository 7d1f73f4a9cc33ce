package glyph

// Placeholder draws a hollow box used in place of glyphs a font lacks.
// The box is sized from the font metrics so it sits on the baseline like a
// capital letter.
func Placeholder(fm FontMetrics) (*Bitmap, Metrics) {
	h := int(fm.Ascent*0.75 + 0.5)
	if h < 3 {
		h = 3
	}
	w := h*3/5 + 1
	if w < 3 {
		w = 3
	}
	stroke := max(1, h/12)

	bmp := NewBitmap(w, h)
	for y := range h {
		for x := range w {
			if x < stroke || y < stroke || x >= w-stroke || y >= h-stroke {
				bmp.Set(x, y, 0xFF)
			}
		}
	}

	margin := max(1, float32(w)/6)
	return bmp, Metrics{
		BearingX: margin,
		BearingY: -float32(h),
		Advance:  float32(w) + 2*margin,
		Width:    w,
		Height:   h,
	}
}
