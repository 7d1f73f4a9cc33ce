package sdftext

import (
	"fmt"
	"sync"

	"github.com/gogpu/sdftext/atlas"
	"github.com/gogpu/sdftext/glyph"
	"github.com/gogpu/sdftext/internal/gpu"
	"github.com/gogpu/sdftext/layout"
	"github.com/gogpu/sdftext/render"
)

// Text is a laid out string ready to draw.
//
// Position, color and outline changes only rewrite the text's settings
// uniform. Changing the string, size or alignment lays the text out again.
// Text is safe for concurrent use.
type Text struct {
	renderer *Renderer
	font     *Font
	buffers  *gpu.TextBuffers

	mu            sync.Mutex
	text          string
	opts          textOptions
	keys          []glyph.Key
	regions       []atlas.Region
	dirty         bool
	settingsDirty bool
	closed        bool
}

// Font returns the font the text is drawn with.
func (t *Text) Font() *Font { return t.font }

// Mode returns the text's drawing mode.
func (t *Text) Mode() glyph.Mode { return t.font.mode }

// String returns the text's string.
func (t *Text) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.text
}

// Position returns the pen position of the first baseline.
func (t *Text) Position() (x, y float32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.opts.position[0], t.opts.position[1]
}

// Color returns the fill color.
func (t *Text) Color() [4]float32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.opts.color
}

// Scale returns the factor from the font's loaded size to the drawn size.
func (t *Text) Scale() float32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.scaleLocked()
}

func (t *Text) scaleLocked() float32 {
	s := t.opts.scale
	if !t.opts.size.IsZero() {
		s *= t.opts.size.Pixels() / t.font.px
	}
	return s
}

// Bounds returns the drawn size of the text in pixels.
func (t *Text) Bounds() layout.Bounds {
	t.mu.Lock()
	defer t.mu.Unlock()
	b := layout.Measure(t.text, t.font)
	s := t.scaleLocked()
	b.Width *= s
	b.Height *= s
	return b
}

// DrawCalls returns the number of draws Draw records for the text, which is
// the number of atlas pages its glyphs occupy.
func (t *Text) DrawCalls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.buffers.Commands())
}

// SetText replaces the string and lays the text out again.
func (t *Text) SetText(s string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrTextClosed
	}
	t.text = s
	t.dirty = true
	return t.rebuild()
}

// SetScale sets the size multiplier. SDF texts only update their settings;
// raw texts are laid out again.
func (t *Text) SetScale(s float32) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrTextClosed
	}
	t.opts.scale = s
	return t.resized()
}

// SetFontSize renders the text at size, scaling from the font's loaded
// size. The zero FontSize restores the loaded size.
func (t *Text) SetFontSize(size FontSize) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrTextClosed
	}
	t.opts.size = size
	return t.resized()
}

func (t *Text) resized() error {
	t.settingsDirty = true
	if t.font.mode == glyph.ModeSDF {
		return nil
	}
	t.dirty = true
	return t.rebuild()
}

// SetAlign changes the alignment and lays the text out again.
func (t *Text) SetAlign(a layout.Align) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrTextClosed
	}
	t.opts.align = a
	t.dirty = true
	return t.rebuild()
}

// SetPosition moves the text. The pen position of the first baseline is
// placed at (x, y) before alignment.
func (t *Text) SetPosition(x, y float32) {
	t.mu.Lock()
	t.opts.position = [2]float32{x, y}
	t.settingsDirty = true
	t.mu.Unlock()
}

// SetColor sets the fill color as straight RGBA in [0, 1].
func (t *Text) SetColor(c [4]float32) {
	t.mu.Lock()
	t.opts.color = c
	t.settingsDirty = true
	t.mu.Unlock()
}

// SetOutline sets the outline color and width in distance field texels.
// A width of zero or less removes the outline. Raw texts ignore outlines.
func (t *Text) SetOutline(c [4]float32, width float32) {
	t.mu.Lock()
	t.opts.outlineColor = c
	t.opts.outlineWidth = width
	t.settingsDirty = true
	t.mu.Unlock()
}

// SetNoOutline removes the outline.
func (t *Text) SetNoOutline() {
	t.mu.Lock()
	t.opts.outlineWidth = 0
	t.settingsDirty = true
	t.mu.Unlock()
}

// Close releases the text's GPU buffers. Safe to call multiple times.
func (t *Text) Close() {
	t.renderer.forget(t)
	t.destroy()
}

func (t *Text) destroy() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	t.buffers.Destroy()
	t.keys = nil
	t.regions = nil
}

// rebuild lays the text out, produces missing glyphs and uploads the
// instances grouped by atlas page.
func (t *Text) rebuild() error {
	font := t.font
	t.dirty = true
	if err := t.renderer.ensureGlyphs(font, t.text); err != nil {
		return err
	}

	scale := t.scaleLocked()
	pageSize := font.atlas.Config().PageSize
	items := make([]render.Item, 0, len(t.text))
	keys := make([]glyph.Key, 0, len(t.keys))
	regions := make([]atlas.Region, 0, len(t.keys))
	for p := range layout.LayoutAligned(t.text, font, layout.Point{}, t.opts.align) {
		e, err := font.atlas.GetOrInsert(p.Key, font.produce(p.Key.Glyph))
		if err != nil {
			return fmt.Errorf("sdftext: place %q: %w", p.Rune, err)
		}
		keys = append(keys, p.Key)
		regions = append(regions, e.Region)

		var item render.Item
		var ok bool
		if font.mode == glyph.ModeSDF {
			// The shader applies image_scale to whole glyph quads.
			item, ok = render.Place(e, p.X, p.Y, 1, pageSize)
		} else {
			item, ok = render.Place(e, p.X*scale, p.Y*scale, scale, pageSize)
		}
		if ok {
			items = append(items, item)
		}
	}

	if err := t.buffers.Upload(render.Build(items)); err != nil {
		return fmt.Errorf("sdftext: upload text: %w", err)
	}
	t.keys = keys
	t.regions = regions
	t.dirty = false
	return nil
}

// prepareLocked brings the GPU copy of the text up to date and marks its
// glyphs referenced in the current frame.
func (t *Text) prepareLocked() error {
	if t.closed {
		return ErrTextClosed
	}
	// Only this text's glyphs matter: evictions elsewhere in the atlas
	// leave its instances valid.
	stale := t.dirty
	if !stale {
		for i, k := range t.keys {
			e, ok := t.font.atlas.Use(k)
			if !ok || e.Region != t.regions[i] {
				stale = true
				break
			}
		}
	}
	if stale {
		if err := t.rebuild(); err != nil {
			return err
		}
	}
	return t.flushSettings()
}

func (t *Text) flushSettings() error {
	if !t.settingsDirty {
		return nil
	}
	var data []byte
	if cfg, ok := t.font.SDFConfig(); ok {
		width := t.opts.outlineWidth
		if width < 0 {
			width = 0
		}
		data = render.SdfTextSettings{
			Color:        t.opts.color,
			OutlineColor: t.opts.outlineColor,
			Position:     t.opts.position,
			OutlineWidth: min(width, cfg.Radius),
			Radius:       cfg.Radius,
			ImageScale:   t.scaleLocked(),
		}.Bytes()
	} else {
		data = render.TextSettings{
			Color:    t.opts.color,
			Position: t.opts.position,
		}.Bytes()
	}
	if err := t.buffers.WriteSettings(data); err != nil {
		return err
	}
	t.settingsDirty = false
	return nil
}
