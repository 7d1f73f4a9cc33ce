package gpu

import (
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/sdftext/atlas"
)

type pageTexture struct {
	size  uint32
	tex   hal.Texture
	view  hal.TextureView
	group hal.BindGroup
}

// PageTextures mirrors the pages of one atlas into single-channel textures.
// It implements atlas.Uploader.
//
// PageTextures is safe for concurrent use: uploads may come from glyph
// workers while the render loop records draws.
type PageTextures struct {
	pipeline *TextPipeline
	label    string

	mu    sync.RWMutex
	pages []*pageTexture
}

var _ atlas.Uploader = (*PageTextures)(nil)

// NewPageTextures returns an empty texture set whose bind groups match the
// pipeline's page layout.
func (p *TextPipeline) NewPageTextures(label string) *PageTextures {
	return &PageTextures{pipeline: p, label: label}
}

// CreatePage allocates the texture, view and bind group of page.
func (t *PageTextures) CreatePage(page, size int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if page != len(t.pages) {
		return fmt.Errorf("gpu: create page %d: pages must be created in order, have %d", page, len(t.pages))
	}

	device := t.pipeline.device
	side := uint32(size) //nolint:gosec // atlas page size is validated to fit
	label := fmt.Sprintf("%s_page_%d", t.label, page)

	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: side, Height: side, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatR8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create texture %s: %w", label, err)
	}

	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         label + "_view",
		Format:        gputypes.TextureFormatR8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		device.DestroyTexture(tex)
		return fmt.Errorf("create texture view %s: %w", label, err)
	}

	group, err := device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  label + "_group",
		Layout: t.pipeline.pageLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.TextureViewBinding{TextureView: view.NativeHandle()}},
			{Binding: 1, Resource: gputypes.SamplerBinding{Sampler: t.pipeline.sampler.NativeHandle()}},
		},
	})
	if err != nil {
		device.DestroyTextureView(view)
		device.DestroyTexture(tex)
		return fmt.Errorf("create bind group %s: %w", label, err)
	}

	t.pages = append(t.pages, &pageTexture{size: side, tex: tex, view: view, group: group})
	slogger().Debug("gpu: atlas page texture created", "label", label, "size", size)
	return nil
}

// Upload writes pix into r of page.
func (t *PageTextures) Upload(page int, r atlas.Region, pix []byte) error {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if page < 0 || page >= len(t.pages) {
		return fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, page, len(t.pages))
	}
	if r.Empty() {
		return nil
	}
	if len(pix) != r.Width*r.Height {
		return fmt.Errorf("%w: %d bytes for %dx%d", ErrUploadSize, len(pix), r.Width, r.Height)
	}

	//nolint:gosec // region coordinates are bounded by the page size
	t.pipeline.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  t.pages[page].tex,
			MipLevel: 0,
			Origin:   hal.Origin3D{X: uint32(r.X), Y: uint32(r.Y), Z: 0},
			Aspect:   gputypes.TextureAspectAll,
		},
		pix,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(r.Width),
			RowsPerImage: uint32(r.Height),
		},
		&hal.Extent3D{Width: uint32(r.Width), Height: uint32(r.Height), DepthOrArrayLayers: 1},
	)
	return nil
}

// Len returns the number of page textures.
func (t *PageTextures) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.pages)
}

func (t *PageTextures) bindGroupLocked(page int) hal.BindGroup {
	if page < 0 || page >= len(t.pages) {
		return nil
	}
	return t.pages[page].group
}

// Destroy releases every page texture.
func (t *PageTextures) Destroy() {
	t.mu.Lock()
	defer t.mu.Unlock()

	device := t.pipeline.device
	for _, pg := range t.pages {
		device.DestroyBindGroup(pg.group)
		device.DestroyTextureView(pg.view)
		device.DestroyTexture(pg.tex)
	}
	t.pages = nil
}
