package glyph

import (
	"errors"
	"sync"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func TestQuantizeScale(t *testing.T) {
	tests := []struct {
		px   float32
		want Scale
	}{
		{0, 0},
		{-3, 0},
		{16, 64},
		{16.1, 64},
		{16.2, 65},
		{12.5, 50},
	}
	for _, tt := range tests {
		if got := QuantizeScale(tt.px); got != tt.want {
			t.Errorf("QuantizeScale(%v) = %d, want %d", tt.px, got, tt.want)
		}
	}
	if px := QuantizeScale(12.5).Pixels(); px != 12.5 {
		t.Errorf("Pixels() = %v, want 12.5", px)
	}
}

func TestKey_Comparable(t *testing.T) {
	m := map[Key]int{}
	a := Key{Font: 1, Glyph: 36, Mode: ModeSDF, Scale: QuantizeScale(32)}
	b := Key{Font: 1, Glyph: 36, Mode: ModeSDF, Scale: QuantizeScale(32)}
	m[a] = 1
	if m[b] != 1 {
		t.Error("equal keys should address the same entry")
	}
	c := a
	c.Mode = ModeRaw
	if _, ok := m[c]; ok {
		t.Error("keys differing in mode must not collide")
	}
}

func TestBitmap_Pad(t *testing.T) {
	b := NewBitmap(2, 3)
	b.Set(0, 0, 10)
	b.Set(1, 2, 20)

	p := b.Pad(2)
	if p.Width != 6 || p.Height != 7 {
		t.Fatalf("padded size = %dx%d, want 6x7", p.Width, p.Height)
	}
	if p.At(2, 2) != 10 || p.At(3, 4) != 20 {
		t.Errorf("content not shifted: (2,2)=%d (3,4)=%d", p.At(2, 2), p.At(3, 4))
	}
	if p.At(0, 0) != 0 || p.At(5, 6) != 0 {
		t.Error("padding should be empty")
	}
	if b.At(0, 0) != 10 {
		t.Error("Pad must not modify the source")
	}
}

func TestBitmap_AlphaRoundTrip(t *testing.T) {
	b := NewBitmap(3, 2)
	for i := range b.Pix {
		b.Pix[i] = byte(i * 40)
	}
	got := FromAlpha(b.Alpha())
	if got.Width != 3 || got.Height != 2 {
		t.Fatalf("size = %dx%d", got.Width, got.Height)
	}
	for i := range b.Pix {
		if got.Pix[i] != b.Pix[i] {
			t.Fatalf("Pix[%d] = %d, want %d", i, got.Pix[i], b.Pix[i])
		}
	}
}

func TestBitmap_OutOfRange(t *testing.T) {
	b := NewBitmap(2, 2)
	b.Set(-1, 0, 1)
	b.Set(2, 2, 1)
	if b.At(-1, 0) != 0 || b.At(5, 5) != 0 {
		t.Error("out of range reads should return 0")
	}
	if (&Bitmap{}).Empty() != true || NewBitmap(0, 4).Empty() != true {
		t.Error("zero-area bitmaps should be empty")
	}
}

func parseAll(t *testing.T) map[string]Rasterizer {
	t.Helper()
	out := map[string]Rasterizer{}
	for _, name := range []string{"sfnt", "gotext"} {
		r, err := Parse(name, goregular.TTF)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", name, err)
		}
		out[name] = r
	}
	return out
}

func TestRasterizer_Letter(t *testing.T) {
	for name, r := range parseAll(t) {
		t.Run(name, func(t *testing.T) {
			id, ok := r.GlyphIndex('A')
			if !ok {
				t.Fatal("GlyphIndex('A') not found")
			}
			bmp, m, err := r.Rasterize(id, 32)
			if err != nil {
				t.Fatalf("Rasterize error: %v", err)
			}
			if bmp.Empty() {
				t.Fatal("'A' should produce coverage")
			}
			if m.Width != bmp.Width || m.Height != bmp.Height {
				t.Errorf("metrics size %dx%d != bitmap %dx%d", m.Width, m.Height, bmp.Width, bmp.Height)
			}
			if m.BearingY >= 0 {
				t.Errorf("BearingY = %v, want above baseline (negative)", m.BearingY)
			}
			if m.Advance <= 0 {
				t.Errorf("Advance = %v, want > 0", m.Advance)
			}
			adv, err := r.Advance(id, 32)
			if err != nil {
				t.Fatalf("Advance error: %v", err)
			}
			if diff := adv - m.Advance; diff > 0.02 || diff < -0.02 {
				t.Errorf("Advance() = %v, Rasterize advance = %v", adv, m.Advance)
			}

			var covered int
			for _, v := range bmp.Pix {
				if v > 0 {
					covered++
				}
			}
			if covered < len(bmp.Pix)/8 {
				t.Errorf("only %d of %d texels covered", covered, len(bmp.Pix))
			}
		})
	}
}

func TestRasterizer_BackendsAgree(t *testing.T) {
	rs := parseAll(t)
	a, b := rs["sfnt"], rs["gotext"]
	for _, ch := range "Hg@" {
		ia, _ := a.GlyphIndex(ch)
		ib, _ := b.GlyphIndex(ch)
		if ia != ib {
			t.Errorf("%q: glyph ids differ: %d vs %d", ch, ia, ib)
			continue
		}
		_, ma, err := a.Rasterize(ia, 24)
		if err != nil {
			t.Fatal(err)
		}
		_, mb, err := b.Rasterize(ib, 24)
		if err != nil {
			t.Fatal(err)
		}
		if absInt(ma.Width-mb.Width) > 2 || absInt(ma.Height-mb.Height) > 2 {
			t.Errorf("%q: sizes differ: %dx%d vs %dx%d", ch, ma.Width, ma.Height, mb.Width, mb.Height)
		}
		if d := ma.Advance - mb.Advance; d > 0.5 || d < -0.5 {
			t.Errorf("%q: advances differ: %v vs %v", ch, ma.Advance, mb.Advance)
		}
	}
}

func TestRasterizer_Space(t *testing.T) {
	for name, r := range parseAll(t) {
		t.Run(name, func(t *testing.T) {
			id, ok := r.GlyphIndex(' ')
			if !ok {
				t.Fatal("space not found")
			}
			bmp, m, err := r.Rasterize(id, 20)
			if err != nil {
				t.Fatalf("Rasterize error: %v", err)
			}
			if !bmp.Empty() {
				t.Errorf("space bitmap = %dx%d, want empty", bmp.Width, bmp.Height)
			}
			if m.Advance <= 0 {
				t.Errorf("space advance = %v, want > 0", m.Advance)
			}
		})
	}
}

func TestRasterizer_MissingGlyph(t *testing.T) {
	for name, r := range parseAll(t) {
		if _, ok := r.GlyphIndex('\U0010FFFD'); ok {
			t.Errorf("%s: private-use rune should not be mapped", name)
		}
	}
	r := parseAll(t)["sfnt"]
	_, _, err := r.Rasterize(PlaceholderID-1, 16)
	if !errors.Is(err, ErrGlyphNotFound) {
		t.Errorf("Rasterize(out of range) error = %v, want ErrGlyphNotFound", err)
	}
}

func TestRasterizer_FontMetrics(t *testing.T) {
	for name, r := range parseAll(t) {
		m := r.FontMetrics(40)
		if m.Ascent <= 0 || m.Descent <= 0 {
			t.Errorf("%s: metrics = %+v, want positive ascent and descent", name, m)
		}
		if m.LineHeight() < m.Ascent+m.Descent {
			t.Errorf("%s: line height %v below ascent+descent", name, m.LineHeight())
		}
		w, h := r.MaxGlyphSize(40)
		if w <= 0 || h < int(m.Ascent) {
			t.Errorf("%s: MaxGlyphSize = %dx%d", name, w, h)
		}
	}
}

func TestRasterizer_Concurrent(t *testing.T) {
	for name, r := range parseAll(t) {
		t.Run(name, func(t *testing.T) {
			var wg sync.WaitGroup
			for _, ch := range "abcdefghijklmnop" {
				wg.Add(1)
				go func() {
					defer wg.Done()
					id, ok := r.GlyphIndex(ch)
					if !ok {
						t.Errorf("%q not found", ch)
						return
					}
					if _, _, err := r.Rasterize(id, 18); err != nil {
						t.Errorf("%q: %v", ch, err)
					}
				}()
			}
			wg.Wait()
		})
	}
}

func TestParse_Errors(t *testing.T) {
	if _, err := Parse("", nil); !errors.Is(err, ErrEmptyFontData) {
		t.Errorf("Parse(nil) error = %v, want ErrEmptyFontData", err)
	}
	if _, err := Parse("nope", goregular.TTF); !errors.Is(err, ErrUnknownParser) {
		t.Errorf("Parse(nope) error = %v, want ErrUnknownParser", err)
	}
	for _, name := range Parsers() {
		if _, err := Parse(name, []byte("definitely not a font")); err == nil {
			t.Errorf("%s: expected error for garbage input", name)
		}
	}
}

type stubParser struct{}

func (stubParser) Parse([]byte) (Rasterizer, error) { return nil, errors.New("stub") }

func TestRegisterParser(t *testing.T) {
	RegisterParser("stub-test", stubParser{})
	found := false
	for _, n := range Parsers() {
		if n == "stub-test" {
			found = true
		}
	}
	if !found {
		t.Fatal("registered parser not listed")
	}
	if _, err := Parse("stub-test", []byte{1}); err == nil || err.Error() != "stub" {
		t.Errorf("Parse(stub-test) error = %v", err)
	}
}

func TestPlaceholder(t *testing.T) {
	bmp, m := Placeholder(FontMetrics{Ascent: 24, Descent: 6})
	if bmp.Width != m.Width || bmp.Height != m.Height {
		t.Fatal("metrics do not match bitmap")
	}
	if bmp.At(0, 0) != 0xFF || bmp.At(bmp.Width-1, bmp.Height-1) != 0xFF {
		t.Error("box border should be filled")
	}
	if bmp.At(bmp.Width/2, bmp.Height/2) != 0 {
		t.Error("box interior should be hollow")
	}
	if m.BearingY != -float32(m.Height) {
		t.Errorf("BearingY = %v, want box resting on baseline", m.BearingY)
	}
	if m.Advance <= float32(m.Width) {
		t.Errorf("Advance %v should exceed width %d", m.Advance, m.Width)
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
