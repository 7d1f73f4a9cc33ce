// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/sdftext/atlas"
)

// Vertex data sizes in bytes.
const (
	// QuadVertexSize is the stride of the unit quad vertex buffer.
	QuadVertexSize = 8

	// InstanceSize is the stride of the character instance buffer.
	InstanceSize = 16

	// UVRectSize is the stride of the per-instance UV buffer.
	UVRectSize = 16
)

// QuadVertices is the unit quad drawn as a 4-vertex triangle strip.
var QuadVertices = [4][2]float32{
	{0, 0},
	{0, 1},
	{1, 0},
	{1, 1},
}

// QuadBytes returns QuadVertices encoded for upload.
func QuadBytes() []byte {
	buf := make([]byte, 0, len(QuadVertices)*QuadVertexSize)
	for _, v := range QuadVertices {
		buf = appendFloats(buf, v[0], v[1])
	}
	return buf
}

// CharacterInstance is one glyph quad: its top-left corner and size in
// pixels relative to the text position.
type CharacterInstance struct {
	Position [2]float32
	Size     [2]float32
}

// AppendBytes appends the 16-byte encoding of c to buf.
func (c CharacterInstance) AppendBytes(buf []byte) []byte {
	return appendFloats(buf, c.Position[0], c.Position[1], c.Size[0], c.Size[1])
}

// UVRect locates a glyph in its atlas page in normalized coordinates.
type UVRect struct {
	Offset [2]float32
	Size   [2]float32
}

// AppendBytes appends the 16-byte encoding of u to buf.
func (u UVRect) AppendBytes(buf []byte) []byte {
	return appendFloats(buf, u.Offset[0], u.Offset[1], u.Size[0], u.Size[1])
}

// RegionUV converts an atlas region to a UVRect for a page of pageSize texels.
func RegionUV(r atlas.Region, pageSize int) UVRect {
	u0, v0, u1, v1 := r.UV(pageSize)
	return UVRect{
		Offset: [2]float32{u0, v0},
		Size:   [2]float32{u1 - u0, v1 - v0},
	}
}

// Place builds the item for a resident glyph whose pen sits at (x, y) on the
// baseline. Glyph geometry is multiplied by scale. Place reports false for
// glyphs with nothing to draw.
func Place(e atlas.Entry, x, y, scale float32, pageSize int) (Item, bool) {
	if e.Region.Empty() {
		return Item{}, false
	}
	m := e.Metrics
	return Item{
		Page: e.Region.Page,
		Instance: CharacterInstance{
			Position: [2]float32{x + m.BearingX*scale, y + m.BearingY*scale},
			Size:     [2]float32{float32(e.Region.Width) * scale, float32(e.Region.Height) * scale},
		},
		UV: RegionUV(e.Region, pageSize),
	}, true
}

func appendFloats(buf []byte, vs ...float32) []byte {
	for _, v := range vs {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
	}
	return buf
}
