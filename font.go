package sdftext

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/gogpu/sdftext/atlas"
	"github.com/gogpu/sdftext/glyph"
	"github.com/gogpu/sdftext/internal/gpu"
	"github.com/gogpu/sdftext/layout"
	"github.com/gogpu/sdftext/sdf"
)

// resolved is the glyph drawn for a rune.
type resolved struct {
	id      glyph.GlyphID
	advance float32
}

// Font is a typeface loaded at one pixel size, with its own glyph atlas.
//
// A Font is created by Renderer.LoadFont or Renderer.LoadFontWithSDF and
// lives until the renderer is closed. Font is safe for concurrent use.
type Font struct {
	renderer *Renderer
	id       glyph.FontID

	rasterizer glyph.Rasterizer
	size       FontSize
	px         float32
	scale      glyph.Scale
	mode       glyph.Mode
	generator  *sdf.Generator

	atlas *atlas.Atlas
	pages *gpu.PageTextures

	metrics     glyph.FontMetrics
	fallback    []rune
	placeholder float32 // advance of the placeholder box

	mu    sync.RWMutex
	runes map[rune]resolved
}

var _ layout.Face = (*Font)(nil)

// LoadFont loads a font for raw coverage rendering at size.
func (r *Renderer) LoadFont(data []byte, size FontSize, opts ...FontOption) (*Font, error) {
	return r.loadFont(data, size, nil, opts)
}

// LoadFontWithSDF loads a font for signed distance field rendering at size.
// Texts drawn with it scale smoothly and can be outlined.
func (r *Renderer) LoadFontWithSDF(data []byte, size FontSize, config sdf.Config, opts ...FontOption) (*Font, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return r.loadFont(data, size, sdf.NewGenerator(config), opts)
}

func (r *Renderer) loadFont(data []byte, size FontSize, gen *sdf.Generator, opts []FontOption) (*Font, error) {
	o := defaultFontOptions()
	for _, opt := range opts {
		opt(&o)
	}

	px := size.Pixels()
	if px <= 0 {
		return nil, &ConfigError{Field: "FontSize", Reason: "must be positive"}
	}

	rast := o.rasterizer
	if rast == nil {
		var err error
		rast, err = glyph.Parse(o.parser, data)
		if err != nil {
			return nil, fmt.Errorf("sdftext: load font: %w", err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrClosed
	}

	id := r.nextFont
	r.nextFont++

	f := &Font{
		renderer:   r,
		id:         id,
		rasterizer: rast,
		size:       size,
		px:         px,
		scale:      glyph.QuantizeScale(px),
		mode:       glyph.ModeRaw,
		generator:  gen,
		metrics:    rast.FontMetrics(px),
		fallback:   o.fallback,
		runes:      make(map[rune]resolved),
	}
	if gen != nil {
		f.mode = glyph.ModeSDF
	}
	_, pm := glyph.Placeholder(f.metrics)
	f.placeholder = pm.Advance

	f.pages = r.pipeline.NewPageTextures(fmt.Sprintf("font_%d_%s", id, f.mode))
	a, err := atlas.New(r.config.Atlas, f.pages)
	if err != nil {
		return nil, err
	}
	a.SetLogger(Logger())
	f.atlas = a

	w, h := rast.MaxGlyphSize(px)
	w, h = max(w, pm.Width), max(h, pm.Height)
	if gen != nil {
		pad := 2 * sdf.Padding(gen.Config().Radius)
		w, h = w+pad, h+pad
	}
	if err := a.CheckFits(w, h); err != nil {
		return nil, err
	}

	r.fonts = append(r.fonts, f)
	Logger().Debug("sdftext: font loaded",
		"font", id, "size", size.String(), "mode", f.mode.String(), "max_glyph", fmt.Sprintf("%dx%d", w, h))
	return f, nil
}

// ID returns the font's identifier within its renderer.
func (f *Font) ID() glyph.FontID { return f.id }

// Mode returns how the font's glyphs are stored and drawn.
func (f *Font) Mode() glyph.Mode { return f.mode }

// Size returns the size the font was loaded at.
func (f *Font) Size() FontSize { return f.size }

// SDFConfig returns the distance field configuration. ok is false for raw
// fonts.
func (f *Font) SDFConfig() (config sdf.Config, ok bool) {
	if f.generator == nil {
		return sdf.Config{}, false
	}
	return f.generator.Config(), true
}

// Metrics implements layout.Face.
func (f *Font) Metrics() glyph.FontMetrics { return f.metrics }

// Glyph implements layout.Face. Characters the font lacks resolve to the
// first available fallback character, then to the placeholder box.
func (f *Font) Glyph(r rune) (glyph.Key, float32) {
	f.mu.RLock()
	g, ok := f.runes[r]
	f.mu.RUnlock()
	if !ok {
		g = f.resolve(r)
		f.mu.Lock()
		f.runes[r] = g
		f.mu.Unlock()
	}
	return f.key(g.id), g.advance
}

func (f *Font) key(id glyph.GlyphID) glyph.Key {
	return glyph.Key{Font: f.id, Glyph: id, Mode: f.mode, Scale: f.scale}
}

func (f *Font) resolve(r rune) resolved {
	if g, ok := f.lookup(r); ok {
		return g
	}
	for _, fb := range f.fallback {
		if g, ok := f.lookup(fb); ok {
			Logger().Warn("sdftext: character missing from font, using fallback",
				"font", f.id, "char", string(r), "fallback", string(fb))
			return g
		}
	}
	Logger().Warn("sdftext: character missing from font, using placeholder",
		"font", f.id, "char", string(r))
	return resolved{id: glyph.PlaceholderID, advance: f.placeholder}
}

func (f *Font) lookup(r rune) (resolved, bool) {
	id, ok := f.rasterizer.GlyphIndex(r)
	if !ok || id == glyph.PlaceholderID {
		return resolved{}, false
	}
	adv, err := f.rasterizer.Advance(id, f.px)
	if err != nil {
		return resolved{}, false
	}
	return resolved{id: id, advance: adv}, true
}

// produce returns the atlas producer for a glyph of this font.
func (f *Font) produce(id glyph.GlyphID) atlas.Producer {
	return func() (*glyph.Bitmap, glyph.Metrics, error) {
		bmp, m, err := f.rasterize(id)
		if err != nil {
			return nil, m, err
		}
		if f.generator == nil {
			return bmp, m, nil
		}
		field, m, err := f.generator.GenerateGlyph(bmp, m)
		if err != nil {
			return nil, m, &glyph.RasterizationError{Glyph: id, Err: err}
		}
		return field.Bitmap, m, nil
	}
}

func (f *Font) rasterize(id glyph.GlyphID) (*glyph.Bitmap, glyph.Metrics, error) {
	if id == glyph.PlaceholderID {
		bmp, m := glyph.Placeholder(f.metrics)
		return bmp, m, nil
	}
	bmp, m, err := f.rasterizer.Rasterize(id, f.px)
	switch {
	case err == nil:
		return bmp, m, nil
	case errors.Is(err, glyph.ErrGlyphNotFound):
		Logger().Warn("sdftext: glyph has no outline, using placeholder", "font", f.id, "glyph", id)
		bmp, m := glyph.Placeholder(f.metrics)
		return bmp, m, nil
	}
	var re *glyph.RasterizationError
	if !errors.As(err, &re) {
		err = &glyph.RasterizationError{Glyph: id, Err: err}
	}
	return nil, m, err
}

// Stats reports the activity of the font's atlas.
func (f *Font) Stats() atlas.Stats {
	return f.atlas.Stats()
}

// PageCount returns the number of atlas pages the font uses.
func (f *Font) PageCount() int {
	return f.atlas.PageCount()
}

// PageImage returns a copy of atlas page p. Raw fonts store coverage and
// SDF fonts store encoded distances, 128 being the glyph edge.
func (f *Font) PageImage(p int) (*image.Gray, error) {
	return f.atlas.PageImage(p)
}
