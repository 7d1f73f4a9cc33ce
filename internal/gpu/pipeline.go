package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/sdftext/glyph"
	"github.com/gogpu/sdftext/render"
)

// Text pipeline errors.
var (
	// ErrNilDevice is returned when the pipeline is created without a device.
	ErrNilDevice = errors.New("gpu: device or queue is nil")

	// ErrPageOutOfRange is returned when a draw references a page with no texture.
	ErrPageOutOfRange = errors.New("gpu: atlas page out of range")

	// ErrUploadSize is returned when upload data does not match the region.
	ErrUploadSize = errors.New("gpu: upload size does not match region")

	// ErrSettingsSize is returned when a settings block has the wrong size for the text's mode.
	ErrSettingsSize = errors.New("gpu: settings block size mismatch")
)

// PipelineConfig configures the render pipelines.
type PipelineConfig struct {
	// Format is the color target format of the host's render pass.
	// Default: BGRA8Unorm
	Format gputypes.TextureFormat

	// SampleCount must match the host's render pass.
	// Default: 1
	SampleCount uint32
}

// DefaultPipelineConfig returns default configuration.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Format:      gputypes.TextureFormatBGRA8Unorm,
		SampleCount: 1,
	}
}

// TextPipeline holds the GPU objects shared by every text: shaders,
// layouts, the raw and SDF pipelines, the sampler, the unit quad and the
// projection uniform.
type TextPipeline struct {
	device hal.Device
	queue  hal.Queue
	config PipelineConfig

	shaders [2]hal.ShaderModule

	projectionLayout hal.BindGroupLayout
	pageLayout       hal.BindGroupLayout
	settingsLayout   hal.BindGroupLayout
	pipeLayout       hal.PipelineLayout
	pipelines        [2]hal.RenderPipeline

	sampler         hal.Sampler
	quadBuf         hal.Buffer
	projectionBuf   hal.Buffer
	projectionGroup hal.BindGroup
	projection      render.Projection
}

// NewTextPipeline compiles both shader variants and creates every shared
// GPU object. The projection starts as a 1×1 target; call Resize before
// drawing.
func NewTextPipeline(device hal.Device, queue hal.Queue, config PipelineConfig) (*TextPipeline, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	if config.Format == gputypes.TextureFormatUndefined {
		config.Format = DefaultPipelineConfig().Format
	}
	if config.SampleCount == 0 {
		config.SampleCount = DefaultPipelineConfig().SampleCount
	}

	p := &TextPipeline{device: device, queue: queue, config: config}
	if err := p.create(); err != nil {
		p.Destroy()
		return nil, err
	}
	slogger().Debug("gpu: text pipeline created", "format", config.Format, "samples", config.SampleCount)
	return p, nil
}

// Config returns the pipeline configuration.
func (p *TextPipeline) Config() PipelineConfig {
	return p.config
}

func (p *TextPipeline) create() error {
	for _, mode := range []glyph.Mode{glyph.ModeRaw, glyph.ModeSDF} {
		code, err := CompileShader(ShaderSource(mode))
		if err != nil {
			return fmt.Errorf("%s shader: %w", mode, err)
		}
		shader, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
			Label:  "text_" + mode.String() + "_shader",
			Source: hal.ShaderSource{SPIRV: code},
		})
		if err != nil {
			return fmt.Errorf("create %s shader module: %w", mode, err)
		}
		p.shaders[mode] = shader
	}

	if err := p.createLayouts(); err != nil {
		return err
	}

	sampler, err := p.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "text_glyph_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeLinear,
	})
	if err != nil {
		return fmt.Errorf("create text sampler: %w", err)
	}
	p.sampler = sampler

	for _, mode := range []glyph.Mode{glyph.ModeRaw, glyph.ModeSDF} {
		pipeline, err := p.createPipeline(mode)
		if err != nil {
			return err
		}
		p.pipelines[mode] = pipeline
	}

	quad := render.QuadBytes()
	p.quadBuf, err = p.newBuffer("text_quad", uint64(len(quad)), gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	p.queue.WriteBuffer(p.quadBuf, 0, quad)

	p.projectionBuf, err = p.newBuffer("text_projection", render.ProjectionSize, gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	p.projectionGroup, err = p.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "text_projection_group",
		Layout: p.projectionLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: p.projectionBuf.NativeHandle(), Offset: 0, Size: render.ProjectionSize,
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("create projection bind group: %w", err)
	}
	p.Resize(1, 1)
	return nil
}

// createLayouts creates the three bind group layouts:
//
//	group 0: projection (uniform, vertex)
//	group 1: atlas page texture + sampler (fragment)
//	group 2: text settings (uniform, vertex+fragment)
func (p *TextPipeline) createLayouts() error {
	var err error
	p.projectionLayout, err = p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "text_projection_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create projection layout: %w", err)
	}

	p.pageLayout, err = p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "text_page_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create page layout: %w", err)
	}

	// The vertex stage reads text_position and image_scale from the
	// settings block, so it is visible to both stages.
	p.settingsLayout, err = p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "text_settings_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create settings layout: %w", err)
	}

	p.pipeLayout, err = p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "text_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.projectionLayout, p.pageLayout, p.settingsLayout},
	})
	if err != nil {
		return fmt.Errorf("create text pipeline layout: %w", err)
	}
	return nil
}

func (p *TextPipeline) createPipeline(mode glyph.Mode) (hal.RenderPipeline, error) {
	premulBlend := gputypes.BlendStatePremultiplied()
	pipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "text_" + mode.String() + "_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shaders[mode],
			EntryPoint: "vs_main",
			Buffers:    textVertexLayouts(),
		},
		Fragment: &hal.FragmentState{
			Module:     p.shaders[mode],
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    p.config.Format,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleStrip,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: p.config.SampleCount,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create %s text pipeline: %w", mode, err)
	}
	return pipeline, nil
}

// textVertexLayouts returns the vertex buffer layouts shared by both
// shader variants:
//
//	slot 0: tex_coord (location 0), per vertex
//	slot 1: position (location 1), size (location 2), per instance
//	slot 2: uv_offset (location 3), uv_size (location 4), per instance
func textVertexLayouts() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: render.QuadVertexSize,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
			},
		},
		{
			ArrayStride: render.InstanceSize,
			StepMode:    gputypes.VertexStepModeInstance,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 1},
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 2},
			},
		},
		{
			ArrayStride: render.UVRectSize,
			StepMode:    gputypes.VertexStepModeInstance,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 3},
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 4},
			},
		},
	}
}

func (p *TextPipeline) newBuffer(label string, size uint64, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	return buf, nil
}

// Resize rewrites the projection for a width×height target.
func (p *TextPipeline) Resize(width, height uint32) {
	p.projection = render.Ortho(float32(width), float32(height))
	p.queue.WriteBuffer(p.projectionBuf, 0, p.projection.Bytes())
}

// Projection returns the current projection.
func (p *TextPipeline) Projection() render.Projection {
	return p.projection
}

// RecordDraws records one text into rp: pipeline and shared bind groups
// once, then one instanced draw of the unit quad per atlas page.
func (p *TextPipeline) RecordDraws(rp hal.RenderPassEncoder, pages *PageTextures, text *TextBuffers) error {
	if text == nil || len(text.commands) == 0 {
		return nil
	}

	pages.mu.RLock()
	defer pages.mu.RUnlock()
	for _, c := range text.commands {
		if pages.bindGroupLocked(c.Page) == nil {
			return fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, c.Page, len(pages.pages))
		}
	}

	rp.SetPipeline(p.pipelines[text.mode])
	rp.SetBindGroup(0, p.projectionGroup, nil)
	rp.SetBindGroup(2, text.settingsGroup, nil)
	rp.SetVertexBuffer(0, p.quadBuf, 0)
	rp.SetVertexBuffer(1, text.instances, 0)
	rp.SetVertexBuffer(2, text.uvs, 0)
	for _, c := range text.commands {
		rp.SetBindGroup(1, pages.bindGroupLocked(c.Page), nil)
		rp.Draw(uint32(len(render.QuadVertices)), c.InstanceCount, 0, c.FirstInstance)
	}
	return nil
}

// Destroy releases all GPU resources in reverse creation order. Safe to
// call multiple times.
func (p *TextPipeline) Destroy() {
	if p.device == nil {
		return
	}
	if p.projectionGroup != nil {
		p.device.DestroyBindGroup(p.projectionGroup)
		p.projectionGroup = nil
	}
	if p.projectionBuf != nil {
		p.device.DestroyBuffer(p.projectionBuf)
		p.projectionBuf = nil
	}
	if p.quadBuf != nil {
		p.device.DestroyBuffer(p.quadBuf)
		p.quadBuf = nil
	}
	for i, pl := range p.pipelines {
		if pl != nil {
			p.device.DestroyRenderPipeline(pl)
			p.pipelines[i] = nil
		}
	}
	if p.sampler != nil {
		p.device.DestroySampler(p.sampler)
		p.sampler = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	for _, l := range []*hal.BindGroupLayout{&p.settingsLayout, &p.pageLayout, &p.projectionLayout} {
		if *l != nil {
			p.device.DestroyBindGroupLayout(*l)
			*l = nil
		}
	}
	for i, s := range p.shaders {
		if s != nil {
			p.device.DestroyShaderModule(s)
			p.shaders[i] = nil
		}
	}
}
