package sdftext

import (
	"errors"
	"testing"

	"github.com/gogpu/sdftext/atlas"
	"github.com/gogpu/sdftext/layout"
	"github.com/gogpu/sdftext/sdf"
)

func TestText_Defaults(t *testing.T) {
	r := newTestRenderer(t)
	font, _ := loadBoxFont(t, r, "AB")
	text, err := r.CreateText(font, "AB")
	if err != nil {
		t.Fatalf("CreateText failed: %v", err)
	}

	if c := text.Color(); c != [4]float32{0, 0, 0, 1} {
		t.Errorf("Color = %v, want opaque black", c)
	}
	if s := text.Scale(); s != 1 {
		t.Errorf("Scale = %v, want 1", s)
	}
	if x, y := text.Position(); x != 0 || y != 0 {
		t.Errorf("Position = (%v, %v), want origin", x, y)
	}
	if text.String() != "AB" || text.Font() != font || text.Mode() != font.Mode() {
		t.Error("text accessors do not reflect creation arguments")
	}
}

func TestText_FontSize(t *testing.T) {
	r := newTestRenderer(t)
	font, _ := loadBoxFont(t, r, "AB")

	tests := []struct {
		name string
		opts []TextOption
		want float32
	}{
		{"loaded size", nil, 1},
		{"scale", []TextOption{WithScale(3)}, 3},
		{"px", []TextOption{WithFontSize(Px(20))}, 2},
		{"pt", []TextOption{WithFontSize(Pt(15))}, 2},
		{"px and scale", []TextOption{WithFontSize(Px(5)), WithScale(4)}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := r.CreateText(font, "A", tt.opts...)
			if err != nil {
				t.Fatalf("CreateText failed: %v", err)
			}
			if got := text.Scale(); got != tt.want {
				t.Errorf("Scale = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestText_Bounds(t *testing.T) {
	r := newTestRenderer(t)
	font, _ := loadBoxFont(t, r, "AB")
	text, err := r.CreateText(font, "AB\nA", WithScale(2))
	if err != nil {
		t.Fatalf("CreateText failed: %v", err)
	}

	b := text.Bounds()
	if b.Width != 40 || b.Lines != 2 {
		t.Errorf("Bounds = %+v, want width 40 over 2 lines", b)
	}
	// ascent 8 + descent 2 + one line height of 10, doubled.
	if b.Height != 40 {
		t.Errorf("Height = %v, want 40", b.Height)
	}
}

func TestText_SettingsOnlyChanges(t *testing.T) {
	r := newTestRenderer(t)
	font, rast := loadBoxFont(t, r, "AB")
	text, err := r.CreateText(font, "AB")
	if err != nil {
		t.Fatalf("CreateText failed: %v", err)
	}
	calls := rast.calls.Load()
	hits := font.Stats().Hits

	text.SetPosition(100, 50)
	text.SetColor([4]float32{1, 0, 0, 1})
	text.SetOutline([4]float32{0, 0, 0, 1}, 2)
	text.SetNoOutline()
	if err := r.Draw(newRecordingPass(), text); err != nil {
		t.Fatalf("Draw failed: %v", err)
	}

	if rast.calls.Load() != calls {
		t.Error("settings changes should not rasterize")
	}
	if font.Stats().Hits != hits {
		t.Error("settings changes should not lay the text out again")
	}
	if x, y := text.Position(); x != 100 || y != 50 {
		t.Errorf("Position = (%v, %v), want (100, 50)", x, y)
	}
	if text.Color() != [4]float32{1, 0, 0, 1} {
		t.Errorf("Color = %v, want red", text.Color())
	}
}

func TestText_SetText(t *testing.T) {
	r := newTestRenderer(t)
	font, _ := loadBoxFont(t, r, "AB")
	text, err := r.CreateText(font, "A")
	if err != nil {
		t.Fatalf("CreateText failed: %v", err)
	}

	if err := text.SetText("ABBA"); err != nil {
		t.Fatalf("SetText failed: %v", err)
	}
	pass := newRecordingPass()
	if err := r.Draw(pass, text); err != nil {
		t.Fatalf("Draw failed: %v", err)
	}
	if len(pass.draws) != 1 || pass.draws[0].instanceCount != 4 {
		t.Errorf("draws = %+v, want one draw of 4 instances", pass.draws)
	}

	if err := text.SetText(""); err != nil {
		t.Fatalf("SetText(\"\") failed: %v", err)
	}
	if text.DrawCalls() != 0 {
		t.Errorf("DrawCalls = %d for empty text, want 0", text.DrawCalls())
	}
}

func TestText_SetScale(t *testing.T) {
	r := newTestRenderer(t)
	raw, _ := loadBoxFont(t, r, "AB")
	field, err := r.LoadFontWithSDF(nil, Px(10), sdf.DefaultConfig(), WithRasterizer(&boxRasterizer{chars: "AB"}))
	if err != nil {
		t.Fatalf("LoadFontWithSDF failed: %v", err)
	}

	for _, font := range []*Font{raw, field} {
		t.Run(font.Mode().String(), func(t *testing.T) {
			text, err := r.CreateText(font, "AB")
			if err != nil {
				t.Fatalf("CreateText failed: %v", err)
			}
			productions := font.Stats().Productions
			if err := text.SetScale(2.5); err != nil {
				t.Fatalf("SetScale failed: %v", err)
			}
			if err := text.SetFontSize(Px(20)); err != nil {
				t.Fatalf("SetFontSize failed: %v", err)
			}
			if text.Scale() != 5 {
				t.Errorf("Scale = %v, want 5", text.Scale())
			}
			if font.Stats().Productions != productions {
				t.Error("scaling should reuse the loaded glyphs")
			}
		})
	}
}

func TestText_SetAlign(t *testing.T) {
	r := newTestRenderer(t)
	font, _ := loadBoxFont(t, r, "AB")
	text, err := r.CreateText(font, "AB", WithAlign(layout.Align{H: layout.AlignCenter}))
	if err != nil {
		t.Fatalf("CreateText failed: %v", err)
	}
	if err := text.SetAlign(layout.Align{H: layout.AlignRight, V: layout.AlignTop}); err != nil {
		t.Fatalf("SetAlign failed: %v", err)
	}
	if text.DrawCalls() != 1 {
		t.Errorf("DrawCalls = %d, want 1", text.DrawCalls())
	}
}

func TestText_Overflow(t *testing.T) {
	// A 16 texel page holds two padded 6x8 boxes.
	r := newTestRenderer(t, WithAtlasConfig(atlas.Config{PageSize: 16, MaxPages: 1, Padding: 1}))
	font, _ := loadBoxFont(t, r, "ABC")

	_, err := r.CreateText(font, "ABC")
	if !errors.Is(err, ErrAtlasOverflow) {
		t.Errorf("CreateText error = %v, want ErrAtlasOverflow", err)
	}
}

func TestText_RebuildAfterEviction(t *testing.T) {
	r := newTestRenderer(t, WithAtlasConfig(atlas.Config{PageSize: 16, MaxPages: 1, Padding: 1}))
	font, rast := loadBoxFont(t, r, "ABC")

	ab, err := r.CreateText(font, "AB")
	if err != nil {
		t.Fatalf("CreateText(AB) failed: %v", err)
	}

	r.BeginFrame()
	c, err := r.CreateText(font, "C")
	if err != nil {
		t.Fatalf("CreateText(C) after BeginFrame failed: %v", err)
	}
	if font.Stats().Evictions == 0 {
		t.Fatal("placing C should evict a glyph of the previous frame")
	}

	r.BeginFrame()
	calls := rast.calls.Load()
	pass := newRecordingPass()
	if err := r.Draw(pass, ab); err != nil {
		t.Fatalf("Draw(AB) failed: %v", err)
	}
	if rast.calls.Load() == calls {
		t.Error("evicted glyphs should be produced again on draw")
	}
	if len(pass.draws) != 1 || pass.draws[0].instanceCount != 2 {
		t.Errorf("draws = %+v, want one draw of 2 instances", pass.draws)
	}

	// A and B are referenced this frame, so C has nowhere to go.
	if err := r.Draw(newRecordingPass(), c); !errors.Is(err, ErrAtlasOverflow) {
		t.Errorf("Draw(C) error = %v, want ErrAtlasOverflow", err)
	}
}

func TestText_EvictionElsewhereKeepsLayout(t *testing.T) {
	r := newTestRenderer(t, WithAtlasConfig(atlas.Config{PageSize: 16, MaxPages: 1, Padding: 1}))
	font, rast := loadBoxFont(t, r, "ABC")

	a, err := r.CreateText(font, "A")
	if err != nil {
		t.Fatalf("CreateText(A) failed: %v", err)
	}
	b, err := r.CreateText(font, "B")
	if err != nil {
		t.Fatalf("CreateText(B) failed: %v", err)
	}

	r.BeginFrame()
	if err := r.Draw(newRecordingPass(), a); err != nil {
		t.Fatalf("Draw(A) failed: %v", err)
	}
	if _, err := r.CreateText(font, "C"); err != nil {
		t.Fatalf("CreateText(C) failed: %v", err)
	}
	if font.Stats().Evictions != 1 {
		t.Fatalf("Evictions = %d, want B evicted", font.Stats().Evictions)
	}

	r.BeginFrame()
	hits, calls := font.Stats().Hits, rast.calls.Load()
	pass := newRecordingPass()
	if err := r.Draw(pass, a); err != nil {
		t.Fatalf("Draw(A) failed: %v", err)
	}
	if font.Stats().Hits != hits || rast.calls.Load() != calls {
		t.Error("text whose glyphs are all resident should not be laid out again")
	}
	if len(pass.draws) != 1 || pass.draws[0].instanceCount != 1 {
		t.Errorf("draws = %+v, want one draw of 1 instance", pass.draws)
	}

	// B lost its glyph, so drawing it produces the glyph again.
	if err := r.Draw(newRecordingPass(), b); err != nil {
		t.Fatalf("Draw(B) failed: %v", err)
	}
	if rast.calls.Load() != calls+1 {
		t.Errorf("rasterize calls = %d, want %d", rast.calls.Load(), calls+1)
	}
}

func TestText_Close(t *testing.T) {
	r := newTestRenderer(t)
	font, _ := loadBoxFont(t, r, "AB")
	text, err := r.CreateText(font, "AB")
	if err != nil {
		t.Fatalf("CreateText failed: %v", err)
	}

	text.Close()
	text.Close()

	if err := r.Draw(newRecordingPass(), text); !errors.Is(err, ErrTextClosed) {
		t.Errorf("Draw after Close = %v, want ErrTextClosed", err)
	}
	if err := text.SetText("B"); !errors.Is(err, ErrTextClosed) {
		t.Errorf("SetText after Close = %v, want ErrTextClosed", err)
	}
}
