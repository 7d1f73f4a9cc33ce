package sdftext

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/sdftext/atlas"
	"github.com/gogpu/sdftext/glyph"
	"github.com/gogpu/sdftext/layout"
)

// RendererOption configures a Renderer during creation.
//
// Example:
//
//	r, err := sdftext.NewRenderer(device, queue,
//	    sdftext.WithSize(1280, 720),
//	    sdftext.WithSurfaceFormat(gputypes.TextureFormatRGBA8Unorm))
type RendererOption func(*Config)

// WithAtlasConfig sets the atlas configuration used by every font.
func WithAtlasConfig(c atlas.Config) RendererOption {
	return func(o *Config) {
		o.Atlas = c
	}
}

// WithSurfaceFormat sets the color format of the render targets.
func WithSurfaceFormat(f gputypes.TextureFormat) RendererOption {
	return func(o *Config) {
		o.Format = f
	}
}

// WithSampleCount sets the MSAA sample count of the render targets.
func WithSampleCount(n uint32) RendererOption {
	return func(o *Config) {
		o.SampleCount = n
	}
}

// WithWorkers sets the number of glyph rasterization workers.
func WithWorkers(n int) RendererOption {
	return func(o *Config) {
		o.Workers = n
	}
}

// WithSize sets the initial target size in pixels.
func WithSize(width, height uint32) RendererOption {
	return func(o *Config) {
		o.Width = width
		o.Height = height
	}
}

// FontOption configures a Font during loading.
type FontOption func(*fontOptions)

type fontOptions struct {
	parser     string
	rasterizer glyph.Rasterizer
	fallback   []rune
}

func defaultFontOptions() fontOptions {
	return fontOptions{
		parser:   glyph.DefaultParser,
		fallback: []rune{'�', '?'},
	}
}

// WithParser selects the font backend by name. See glyph.Parsers.
func WithParser(name string) FontOption {
	return func(o *fontOptions) {
		o.parser = name
	}
}

// WithRasterizer uses r instead of parsing the font data.
// The data passed to LoadFont is ignored and may be nil.
func WithRasterizer(r glyph.Rasterizer) FontOption {
	return func(o *fontOptions) {
		o.rasterizer = r
	}
}

// WithFallback sets the characters tried, in order, for characters the
// font lacks. When none of them is available a placeholder box is drawn.
// Default: U+FFFD, '?'
func WithFallback(chars ...rune) FontOption {
	return func(o *fontOptions) {
		o.fallback = append([]rune(nil), chars...)
	}
}

// TextOption configures a Text during creation.
//
// Example:
//
//	t, err := r.CreateText(font, "Score: 0",
//	    sdftext.WithPosition(16, 32),
//	    sdftext.WithColor([4]float32{1, 1, 0, 1}))
type TextOption func(*textOptions)

type textOptions struct {
	position     [2]float32
	color        [4]float32
	scale        float32
	size         FontSize
	align        layout.Align
	outlineColor [4]float32
	outlineWidth float32
}

func defaultTextOptions() textOptions {
	return textOptions{
		color: [4]float32{0, 0, 0, 1},
		scale: 1,
	}
}

// WithPosition sets the pen position of the first baseline in pixels.
func WithPosition(x, y float32) TextOption {
	return func(o *textOptions) {
		o.position = [2]float32{x, y}
	}
}

// WithColor sets the fill color as straight RGBA in [0, 1].
// Default: opaque black
func WithColor(c [4]float32) TextOption {
	return func(o *textOptions) {
		o.color = c
	}
}

// WithScale multiplies the rendered size.
// Default: 1
func WithScale(s float32) TextOption {
	return func(o *textOptions) {
		o.scale = s
	}
}

// WithFontSize renders the text at size instead of the font's loaded size.
// The glyphs are scaled from the loaded size, so SDF fonts stay sharp and
// raw fonts get blurry when enlarged.
func WithFontSize(size FontSize) TextOption {
	return func(o *textOptions) {
		o.size = size
	}
}

// WithAlign anchors the text about its position.
// Default: left and baseline
func WithAlign(a layout.Align) TextOption {
	return func(o *textOptions) {
		o.align = a
	}
}

// WithOutline draws an outline behind the fill. width is measured in
// distance field texels and limited to the font's SDF radius.
// Only SDF texts draw outlines. A width of zero or less disables it.
func WithOutline(c [4]float32, width float32) TextOption {
	return func(o *textOptions) {
		o.outlineColor = c
		o.outlineWidth = width
	}
}
