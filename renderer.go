package sdftext

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/sdftext/glyph"
	"github.com/gogpu/sdftext/internal/gpu"
	"github.com/gogpu/sdftext/internal/parallel"
	"github.com/gogpu/sdftext/layout"
	"github.com/gogpu/sdftext/render"
)

// Renderer draws text into render passes of one GPU device.
//
// Renderer is safe for concurrent use. Draw calls for one render pass must
// still be serialized by the caller, as for any pass encoder.
type Renderer struct {
	config   Config
	pipeline *gpu.TextPipeline
	pool     *parallel.WorkerPool

	mu       sync.Mutex
	fonts    []*Font
	texts    map[*Text]struct{}
	nextFont glyph.FontID
	closed   bool
}

// NewRenderer creates a renderer on a HAL device and queue.
func NewRenderer(device hal.Device, queue hal.Queue, opts ...RendererOption) (*Renderer, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pipeline, err := gpu.NewTextPipeline(device, queue, gpu.PipelineConfig{
		Format:      cfg.Format,
		SampleCount: cfg.SampleCount,
	})
	if err != nil {
		return nil, fmt.Errorf("sdftext: %w", err)
	}
	pipeline.Resize(cfg.Width, cfg.Height)

	r := &Renderer{
		config:   cfg,
		pipeline: pipeline,
		pool:     parallel.NewWorkerPool(cfg.Workers),
		texts:    make(map[*Text]struct{}),
	}
	register(r)
	Logger().Debug("sdftext: renderer created",
		"format", cfg.Format, "samples", cfg.SampleCount, "workers", cfg.Workers,
		"page_size", cfg.Atlas.PageSize, "max_pages", cfg.Atlas.MaxPages)
	return r, nil
}

// NewRendererFromProvider creates a renderer from a host application's
// device provider. The provider must expose its HAL device and queue; the
// render target format defaults to the provider's surface format.
func NewRendererFromProvider(provider render.DeviceHandle, opts ...RendererOption) (*Renderer, error) {
	device, queue, err := render.HAL(provider)
	if err != nil {
		return nil, fmt.Errorf("sdftext: %w", err)
	}
	opts = append([]RendererOption{WithSurfaceFormat(render.SurfaceFormat(provider))}, opts...)
	return NewRenderer(device, queue, opts...)
}

// Config returns the renderer configuration.
func (r *Renderer) Config() Config {
	return r.config
}

// Resize updates the projection for a target of width×height pixels.
func (r *Renderer) Resize(width, height uint32) {
	if width == 0 || height == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.config.Width, r.config.Height = width, height
	r.pipeline.Resize(width, height)
}

// Projection returns the current pixel to clip space projection.
func (r *Renderer) Projection() render.Projection {
	return r.pipeline.Projection()
}

// BeginFrame starts a new frame. Glyphs not drawn since the previous call
// may be evicted when an atlas runs out of room.
func (r *Renderer) BeginFrame() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.fonts {
		f.atlas.BeginFrame()
	}
}

// PrerenderGlyphs rasterizes the glyphs of chars into the font's atlas so
// that later texts using them are created without rasterization. Glyphs
// are produced in parallel.
func (r *Renderer) PrerenderGlyphs(font *Font, chars string) error {
	if err := r.check(font); err != nil {
		return err
	}
	return r.ensureGlyphs(font, chars)
}

// CreateText lays out s with font and uploads its instances. The text is
// drawn with the font's mode: raw fonts produce raw texts and SDF fonts
// produce SDF texts.
func (r *Renderer) CreateText(font *Font, s string, opts ...TextOption) (*Text, error) {
	if err := r.check(font); err != nil {
		return nil, err
	}
	o := defaultTextOptions()
	for _, opt := range opts {
		opt(&o)
	}

	buffers, err := r.pipeline.NewTextBuffers(font.mode)
	if err != nil {
		return nil, fmt.Errorf("sdftext: create text: %w", err)
	}
	t := &Text{
		renderer:      r,
		font:          font,
		text:          s,
		opts:          o,
		buffers:       buffers,
		dirty:         true,
		settingsDirty: true,
	}
	if err := t.rebuild(); err != nil {
		buffers.Destroy()
		return nil, err
	}
	if err := t.flushSettings(); err != nil {
		buffers.Destroy()
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		buffers.Destroy()
		return nil, ErrClosed
	}
	r.texts[t] = struct{}{}
	return t, nil
}

// Draw records t into rp: one instanced draw per atlas page its glyphs
// occupy. Pending changes to t are uploaded first, and glyphs evicted since
// the last draw are produced again.
func (r *Renderer) Draw(rp hal.RenderPassEncoder, t *Text) error {
	if t == nil {
		return nil
	}
	if t.renderer != r {
		return ErrForeignObject
	}
	r.mu.Lock()
	closed := r.closed
	r.mu.Unlock()
	if closed {
		return ErrClosed
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.prepareLocked(); err != nil {
		return err
	}
	return r.pipeline.RecordDraws(rp, t.font.pages, t.buffers)
}

// Close releases every text, font and GPU object of the renderer.
// Safe to call multiple times.
func (r *Renderer) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	texts := r.texts
	fonts := r.fonts
	r.texts, r.fonts = nil, nil
	r.mu.Unlock()

	unregister(r)
	for t := range texts {
		t.destroy()
	}
	for _, f := range fonts {
		f.pages.Destroy()
	}
	r.pipeline.Destroy()
	r.pool.Close()
	Logger().Debug("sdftext: renderer closed", "fonts", len(fonts), "texts", len(texts))
}

func (r *Renderer) check(font *Font) error {
	if font == nil {
		return ErrNilFont
	}
	if font.renderer != r {
		return ErrForeignObject
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	return nil
}

func (r *Renderer) setLogger(l *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.fonts {
		f.atlas.SetLogger(l)
	}
}

func (r *Renderer) forget(t *Text) {
	r.mu.Lock()
	delete(r.texts, t)
	r.mu.Unlock()
}

// ensureGlyphs produces every glyph of s missing from the font's atlas,
// spreading rasterization over the worker pool.
func (r *Renderer) ensureGlyphs(font *Font, s string) error {
	seen := make(map[glyph.Key]struct{})
	var tasks []parallel.Task
	for p := range layout.Layout(s, font, layout.Point{}) {
		if _, dup := seen[p.Key]; dup {
			continue
		}
		seen[p.Key] = struct{}{}
		// Resident glyphs are marked for this frame so inserting the
		// missing ones cannot evict them.
		if font.atlas.Touch(p.Key) {
			continue
		}
		key := p.Key
		tasks = append(tasks, func() error {
			_, err := font.atlas.GetOrInsert(key, font.produce(key.Glyph))
			return err
		})
	}
	if len(tasks) == 0 {
		return nil
	}

	start := time.Now()
	err := r.pool.Run(tasks)
	Logger().Debug("sdftext: glyphs produced",
		"font", font.id, "count", len(tasks), "elapsed", time.Since(start), "err", err)
	if err != nil {
		return fmt.Errorf("sdftext: produce glyphs: %w", err)
	}
	return nil
}

