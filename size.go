package sdftext

import "fmt"

// FontSize is a font size in points or pixels.
//
// The zero value means "unset".
type FontSize struct {
	value  float32
	points bool
}

// Pt returns a size in typographic points at 96 DPI.
func Pt(v float32) FontSize {
	return FontSize{value: v, points: true}
}

// Px returns a size in pixels.
func Px(v float32) FontSize {
	return FontSize{value: v}
}

// Pixels returns the size in pixels.
func (s FontSize) Pixels() float32 {
	if s.points {
		return s.value * 96 / 72
	}
	return s.value
}

// IsZero reports whether the size is unset.
func (s FontSize) IsZero() bool {
	return s.value == 0
}

// String implements fmt.Stringer.
func (s FontSize) String() string {
	if s.points {
		return fmt.Sprintf("%gpt", s.value)
	}
	return fmt.Sprintf("%gpx", s.value)
}
