// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render turns positioned glyphs into GPU-ready data.
//
// The package performs no GPU calls. It produces the byte layouts consumed by
// the text pipeline: character instances, their atlas UVs, the draw commands
// that split a text into one draw per atlas page, the pixel-to-clip
// projection and the per-text settings uniforms.
//
// # Shader Contract
//
// Both shader variants read the same vertex inputs:
//
//	slot 0  location 0  tex_coord  vec2<f32>  per vertex (unit quad)
//	slot 1  location 1  position   vec2<f32>  per instance
//	slot 1  location 2  size       vec2<f32>  per instance
//	slot 2  location 3  uv_offset  vec2<f32>  per instance
//	slot 2  location 4  uv_size    vec2<f32>  per instance
//
// and the same bind groups:
//
//	group 0  binding 0  projection (mat4x4<f32>)
//	group 1  binding 0  atlas page texture
//	group 1  binding 1  sampler
//	group 2  binding 0  TextSettings or SdfTextSettings
//
// A vertex lands at position + tex_coord*size, offset by the text position
// and, for SDF text, multiplied by the image scale, before projection.
//
// # Device Integration
//
// The renderer RECEIVES its device from the host application. DeviceHandle
// is the gpucontext provider interface; HAL extracts the hal.Device and
// hal.Queue from providers that expose them.
package render
