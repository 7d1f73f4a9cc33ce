// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

// Uniform block sizes in bytes.
const (
	ProjectionSize      = 64
	TextSettingsSize    = 32
	SdfTextSettingsSize = 64
)

// Projection is a column-major 4x4 matrix mapping pixel coordinates (origin
// top-left, y down) to clip space.
type Projection [16]float32

// Ortho returns the projection for a width×height target.
func Ortho(width, height float32) Projection {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	return Projection{
		2 / width, 0, 0, 0,
		0, -2 / height, 0, 0,
		0, 0, 1, 0,
		-1, 1, 0, 1,
	}
}

// Apply transforms a pixel position to clip space.
func (p Projection) Apply(x, y float32) (float32, float32) {
	return p[0]*x + p[4]*y + p[12], p[1]*x + p[5]*y + p[13]
}

// Bytes encodes the matrix for a mat4x4<f32> uniform.
func (p Projection) Bytes() []byte {
	return appendFloats(make([]byte, 0, ProjectionSize), p[:]...)
}

// TextSettings is the settings block of the raw shader.
//
// WGSL layout (32 bytes):
//
//	color          vec4<f32>  offset 0
//	text_position  vec2<f32>  offset 16
//	(padding)      vec2<f32>  offset 24
type TextSettings struct {
	Color    [4]float32
	Position [2]float32
}

// Bytes encodes the block.
func (s TextSettings) Bytes() []byte {
	buf := make([]byte, 0, TextSettingsSize)
	buf = appendFloats(buf, s.Color[:]...)
	buf = appendFloats(buf, s.Position[:]...)
	return appendFloats(buf, 0, 0)
}

// SdfTextSettings is the settings block of the SDF shader. Its layout is
// versioned independently of TextSettings.
//
// WGSL layout (64 bytes):
//
//	color          vec4<f32>  offset 0
//	outline_color  vec4<f32>  offset 16
//	text_position  vec2<f32>  offset 32
//	outline_width  f32        offset 40
//	sdf_radius     f32        offset 44
//	image_scale    f32        offset 48
//	(padding)      3 x f32    offset 52
type SdfTextSettings struct {
	Color        [4]float32
	OutlineColor [4]float32
	Position     [2]float32

	// OutlineWidth is the outline thickness in distance-field texels.
	// Zero disables the outline.
	OutlineWidth float32

	// Radius is the distance field radius the atlas was generated with.
	Radius float32

	// ImageScale multiplies glyph geometry and sharpens the edge.
	ImageScale float32
}

// Bytes encodes the block.
func (s SdfTextSettings) Bytes() []byte {
	buf := make([]byte, 0, SdfTextSettingsSize)
	buf = appendFloats(buf, s.Color[:]...)
	buf = appendFloats(buf, s.OutlineColor[:]...)
	buf = appendFloats(buf, s.Position[:]...)
	buf = appendFloats(buf, s.OutlineWidth, s.Radius, s.ImageScale)
	return appendFloats(buf, 0, 0, 0)
}
