// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"encoding/binary"
	"math"
	"testing"
)

func floatAt(buf []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
}

func TestOrtho(t *testing.T) {
	p := Ortho(800, 600)

	tests := []struct {
		x, y   float32
		cx, cy float32
	}{
		{0, 0, -1, 1},
		{800, 600, 1, -1},
		{400, 300, 0, 0},
		{800, 0, 1, 1},
	}
	for _, tt := range tests {
		cx, cy := p.Apply(tt.x, tt.y)
		if math.Abs(float64(cx-tt.cx)) > 1e-6 || math.Abs(float64(cy-tt.cy)) > 1e-6 {
			t.Errorf("Apply(%v, %v) = (%v, %v), want (%v, %v)", tt.x, tt.y, cx, cy, tt.cx, tt.cy)
		}
	}
}

func TestProjection_Bytes(t *testing.T) {
	buf := Ortho(200, 100).Bytes()
	if len(buf) != ProjectionSize {
		t.Fatalf("len = %d, want %d", len(buf), ProjectionSize)
	}
	// Column-major: sx, sy on the diagonal, translation in the last column.
	checks := map[int]float32{0: 0.01, 20: -0.02, 40: 1, 48: -1, 52: 1, 60: 1}
	for off, want := range checks {
		if got := floatAt(buf, off); math.Abs(float64(got-want)) > 1e-7 {
			t.Errorf("offset %d = %v, want %v", off, got, want)
		}
	}
}

func TestOrtho_ZeroSize(t *testing.T) {
	p := Ortho(0, 0)
	for i, v := range p {
		if math.IsInf(float64(v), 0) || math.IsNaN(float64(v)) {
			t.Errorf("p[%d] = %v", i, v)
		}
	}
}

func TestTextSettings_Layout(t *testing.T) {
	s := TextSettings{Color: [4]float32{0.1, 0.2, 0.3, 0.4}, Position: [2]float32{5, 6}}
	buf := s.Bytes()
	if len(buf) != TextSettingsSize {
		t.Fatalf("len = %d, want %d", len(buf), TextSettingsSize)
	}
	want := map[int]float32{0: 0.1, 4: 0.2, 8: 0.3, 12: 0.4, 16: 5, 20: 6, 24: 0, 28: 0}
	for off, w := range want {
		if got := floatAt(buf, off); got != w {
			t.Errorf("offset %d = %v, want %v", off, got, w)
		}
	}
}

func TestSdfTextSettings_Layout(t *testing.T) {
	s := SdfTextSettings{
		Color:        [4]float32{1, 2, 3, 4},
		OutlineColor: [4]float32{5, 6, 7, 8},
		Position:     [2]float32{9, 10},
		OutlineWidth: 11,
		Radius:       12,
		ImageScale:   13,
	}
	buf := s.Bytes()
	if len(buf) != SdfTextSettingsSize {
		t.Fatalf("len = %d, want %d", len(buf), SdfTextSettingsSize)
	}
	// Field order: color, outline_color, text_position, outline_width,
	// sdf_radius, image_scale, padding.
	for i := range 13 {
		if got := floatAt(buf, i*4); got != float32(i+1) {
			t.Errorf("offset %d = %v, want %v", i*4, got, float32(i+1))
		}
	}
	for off := 52; off < 64; off += 4 {
		if got := floatAt(buf, off); got != 0 {
			t.Errorf("padding at %d = %v, want 0", off, got)
		}
	}
}
