// Package layout positions glyphs along lines of text.
//
// Layout is a pure function of its inputs: the same text, face and start
// point always yield the same placements. Advances come from the face, so
// kerning pairs are not applied.
package layout

import (
	"iter"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/sdftext/glyph"
)

// TabWidth is the width of a tab in spaces.
const TabWidth = 4

// Point is a position in pixels, y down.
type Point struct {
	X, Y float32
}

// Face is the font information layout needs.
type Face interface {
	// Glyph resolves r to the key of the glyph drawn for it and the pen
	// advance in pixels.
	Glyph(r rune) (glyph.Key, float32)

	// Metrics returns the font's vertical metrics in pixels.
	Metrics() glyph.FontMetrics
}

// Placement is one glyph positioned on a baseline.
type Placement struct {
	Rune rune
	Key  glyph.Key

	// X and Y are the pen position on the baseline.
	X, Y float32

	// Advance is the distance to the next pen position.
	Advance float32
}

// Layout places text left-aligned with the first baseline at start.
// Newlines return to start.X and move down one line height.
func Layout(text string, face Face, start Point) iter.Seq[Placement] {
	return LayoutAligned(text, face, start, Align{})
}

// LayoutAligned places text with each line aligned horizontally about
// start.X and the block aligned vertically about start.Y.
func LayoutAligned(text string, face Face, start Point, align Align) iter.Seq[Placement] {
	return func(yield func(Placement) bool) {
		lines := strings.Split(norm.NFC.String(text), "\n")
		m := face.Metrics()
		lh := m.LineHeight()
		dy := align.V.offset(len(lines), m)
		p := align.H.Proportion()

		for i, line := range lines {
			x := start.X
			if p != 0 {
				x -= lineWidth(line, face) * p
			}
			y := start.Y + dy + float32(i)*lh
			for _, r := range line {
				adv, skip := special(r, face)
				if skip {
					x += adv
					continue
				}
				key, adv := face.Glyph(r)
				if !yield(Placement{Rune: r, Key: key, X: x, Y: y, Advance: adv}) {
					return
				}
				x += adv
			}
		}
	}
}

// special handles characters that move the pen without drawing.
func special(r rune, face Face) (advance float32, skip bool) {
	switch r {
	case '\r':
		return 0, true
	case '\t':
		_, adv := face.Glyph(' ')
		return adv * TabWidth, true
	}
	return 0, false
}

func lineWidth(line string, face Face) float32 {
	var w float32
	for _, r := range line {
		if adv, skip := special(r, face); skip {
			w += adv
			continue
		}
		_, adv := face.Glyph(r)
		w += adv
	}
	return w
}

// Bounds is the measured size of a block of text.
type Bounds struct {
	// Width is the advance width of the widest line.
	Width float32

	// Lines is the number of lines.
	Lines int

	// Height spans from the first line's ascent to the last line's descent.
	Height float32
}

// Measure returns the size text would occupy.
func Measure(text string, face Face) Bounds {
	lines := strings.Split(norm.NFC.String(text), "\n")
	m := face.Metrics()
	b := Bounds{Lines: len(lines)}
	for _, line := range lines {
		b.Width = max(b.Width, lineWidth(line, face))
	}
	b.Height = m.Ascent + m.Descent + float32(len(lines)-1)*m.LineHeight()
	return b
}
