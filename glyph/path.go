package glyph

import (
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

type pathOp uint8

const (
	opMoveTo pathOp = iota
	opLineTo
	opQuadTo
	opCubeTo
)

// pathSegment is one outline command in y-down pixel space.
type pathSegment struct {
	op  pathOp
	pts [3][2]float32
}

func (s pathSegment) numPoints() int {
	switch s.op {
	case opQuadTo:
		return 2
	case opCubeTo:
		return 3
	default:
		return 1
	}
}

// fillPath rasterizes an outline into a tightly cropped coverage bitmap.
// The returned metrics carry the bearing of the crop; the caller sets Advance.
func fillPath(segs []pathSegment) (*Bitmap, Metrics) {
	if len(segs) == 0 {
		return NewBitmap(0, 0), Metrics{}
	}

	minX, minY := float32(math.MaxFloat32), float32(math.MaxFloat32)
	maxX, maxY := float32(-math.MaxFloat32), float32(-math.MaxFloat32)
	for _, s := range segs {
		for i := range s.numPoints() {
			p := s.pts[i]
			minX = min(minX, p[0])
			minY = min(minY, p[1])
			maxX = max(maxX, p[0])
			maxY = max(maxY, p[1])
		}
	}

	x0 := int(math.Floor(float64(minX)))
	y0 := int(math.Floor(float64(minY)))
	x1 := int(math.Ceil(float64(maxX)))
	y1 := int(math.Ceil(float64(maxY)))
	w, h := x1-x0, y1-y0
	if w <= 0 || h <= 0 {
		return NewBitmap(0, 0), Metrics{}
	}

	dx, dy := float32(-x0), float32(-y0)
	r := vector.NewRasterizer(w, h)
	r.DrawOp = draw.Src
	open := false
	for _, s := range segs {
		p := s.pts
		switch s.op {
		case opMoveTo:
			if open {
				r.ClosePath()
			}
			r.MoveTo(p[0][0]+dx, p[0][1]+dy)
			open = true
		case opLineTo:
			r.LineTo(p[0][0]+dx, p[0][1]+dy)
		case opQuadTo:
			r.QuadTo(p[0][0]+dx, p[0][1]+dy, p[1][0]+dx, p[1][1]+dy)
		case opCubeTo:
			r.CubeTo(p[0][0]+dx, p[0][1]+dy, p[1][0]+dx, p[1][1]+dy, p[2][0]+dx, p[2][1]+dy)
		}
	}
	if open {
		r.ClosePath()
	}

	dst := image.NewAlpha(image.Rect(0, 0, w, h))
	r.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})

	return FromAlpha(dst), Metrics{
		BearingX: float32(x0),
		BearingY: float32(y0),
		Width:    w,
		Height:   h,
	}
}
