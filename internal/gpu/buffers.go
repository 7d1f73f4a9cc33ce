package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/sdftext/glyph"
	"github.com/gogpu/sdftext/render"
)

// TextBuffers holds the GPU data of one text: instance and UV streams, the
// settings uniform and its bind group.
type TextBuffers struct {
	pipeline *TextPipeline
	mode     glyph.Mode

	instances hal.Buffer
	uvs       hal.Buffer
	capacity  int

	settings      hal.Buffer
	settingsGroup hal.BindGroup

	commands []render.DrawCommand
}

func settingsSize(mode glyph.Mode) uint64 {
	if mode == glyph.ModeSDF {
		return render.SdfTextSettingsSize
	}
	return render.TextSettingsSize
}

// NewTextBuffers creates the settings uniform of a text drawn in mode.
// Instance buffers are allocated by the first Upload.
func (p *TextPipeline) NewTextBuffers(mode glyph.Mode) (*TextBuffers, error) {
	b := &TextBuffers{pipeline: p, mode: mode}
	size := settingsSize(mode)

	var err error
	b.settings, err = p.newBuffer("text_settings", size, gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}
	b.settingsGroup, err = p.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "text_settings_group",
		Layout: p.settingsLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: b.settings.NativeHandle(), Offset: 0, Size: size,
			}},
		},
	})
	if err != nil {
		p.device.DestroyBuffer(b.settings)
		return nil, fmt.Errorf("create settings bind group: %w", err)
	}
	return b, nil
}

// Mode returns the drawing mode the buffers were created for.
func (b *TextBuffers) Mode() glyph.Mode {
	return b.mode
}

// Capacity returns the number of instances the buffers hold without
// reallocation.
func (b *TextBuffers) Capacity() int {
	return b.capacity
}

// Commands returns the draws recorded for the last uploaded batch.
func (b *TextBuffers) Commands() []render.DrawCommand {
	return b.commands
}

// Upload writes batch into the instance and UV buffers. Existing buffers
// are reused when they are large enough.
func (b *TextBuffers) Upload(batch render.Batch) error {
	n := batch.Len()
	if n > b.capacity {
		if err := b.grow(n); err != nil {
			return err
		}
	}
	if n > 0 {
		queue := b.pipeline.queue
		queue.WriteBuffer(b.instances, 0, batch.InstanceBytes())
		queue.WriteBuffer(b.uvs, 0, batch.UVBytes())
	}
	b.commands = batch.Commands
	return nil
}

func (b *TextBuffers) grow(n int) error {
	p := b.pipeline
	usage := gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst

	instances, err := p.newBuffer("text_instances", uint64(n*render.InstanceSize), usage) //nolint:gosec // n > 0
	if err != nil {
		return err
	}
	uvs, err := p.newBuffer("text_uvs", uint64(n*render.UVRectSize), usage) //nolint:gosec // n > 0
	if err != nil {
		p.device.DestroyBuffer(instances)
		return err
	}
	b.destroyInstances()
	b.instances, b.uvs, b.capacity = instances, uvs, n
	return nil
}

// WriteSettings uploads an encoded TextSettings (raw) or SdfTextSettings
// (SDF) block.
func (b *TextBuffers) WriteSettings(data []byte) error {
	if want := settingsSize(b.mode); uint64(len(data)) != want {
		return fmt.Errorf("%w: %s text needs %d bytes, got %d", ErrSettingsSize, b.mode, want, len(data))
	}
	b.pipeline.queue.WriteBuffer(b.settings, 0, data)
	return nil
}

func (b *TextBuffers) destroyInstances() {
	device := b.pipeline.device
	if b.instances != nil {
		device.DestroyBuffer(b.instances)
		b.instances = nil
	}
	if b.uvs != nil {
		device.DestroyBuffer(b.uvs)
		b.uvs = nil
	}
	b.capacity = 0
}

// Destroy releases the buffers. Safe to call multiple times.
func (b *TextBuffers) Destroy() {
	b.destroyInstances()
	device := b.pipeline.device
	if b.settingsGroup != nil {
		device.DestroyBindGroup(b.settingsGroup)
		b.settingsGroup = nil
	}
	if b.settings != nil {
		device.DestroyBuffer(b.settings)
		b.settings = nil
	}
	b.commands = nil
}
