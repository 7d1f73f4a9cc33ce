package layout

import "github.com/gogpu/sdftext/glyph"

// HAlign anchors each line horizontally. It is the fraction of the line
// width that lies left of the anchor: 0 is left, 1 is right.
type HAlign float32

// Horizontal alignments.
const (
	AlignLeft   HAlign = 0
	AlignCenter HAlign = 0.5
	AlignRight  HAlign = 1
)

// Proportion returns the alignment clamped to [0, 1].
func (h HAlign) Proportion() float32 {
	return clamp01(float32(h))
}

// VAlign anchors a block of text vertically. The zero value anchors the
// first baseline.
type VAlign struct {
	ratio float32
	set   bool
}

// Vertical alignments.
var (
	AlignBaseline = VAlign{}
	AlignTop      = VAlign{ratio: 1, set: true}
	AlignMiddle   = VAlign{ratio: 0.5, set: true}
	AlignBottom   = VAlign{ratio: 0, set: true}
)

// VRatio anchors the block at a fraction of its height: 0 is the bottom of
// the last line's descent, 1 the top of the first line's ascent.
// r is clamped to [0, 1].
func VRatio(r float32) VAlign {
	return VAlign{ratio: clamp01(r), set: true}
}

// Proportion returns the ratio and whether the alignment is ratio based.
// Baseline alignment returns false.
func (v VAlign) Proportion() (float32, bool) {
	return v.ratio, v.set
}

// offset returns the shift applied to the first baseline.
func (v VAlign) offset(lines int, m glyph.FontMetrics) float32 {
	if !v.set {
		return 0
	}
	bottom := float32(lines-1)*m.LineHeight() + m.Descent
	top := -m.Ascent
	return -bottom + v.ratio*(bottom-top)
}

// Align combines horizontal and vertical alignment.
// The zero value is left and baseline aligned.
type Align struct {
	H HAlign
	V VAlign
}

func clamp01(v float32) float32 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
