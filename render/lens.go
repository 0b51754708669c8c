// Package render draws scene geometry as wireframe through a perspective
// camera. The camera looks down +Y with +Z up.
package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Lens is a perspective lens with a horizontal field of view.
type Lens struct {
	FovDeg float64
	Near   float64
	Far    float64
}

// DefaultLens matches the default camera lens of the tutorials.
func DefaultLens() Lens {
	return Lens{FovDeg: 40, Near: 1, Far: 10000}
}

// Focal returns the focal length in pixels for a viewport width.
func (l Lens) Focal(width float64) float64 {
	return width / 2 / math.Tan(mgl64.DegToRad(l.FovDeg)/2)
}

// Project maps a camera-space point to screen coordinates. It reports false
// for points outside the near and far planes.
func (l Lens) Project(p mgl64.Vec3, w, h float64) (mgl64.Vec2, bool) {
	depth := p[1]
	if depth < l.Near || depth > l.Far {
		return mgl64.Vec2{}, false
	}
	f := l.Focal(w)
	return mgl64.Vec2{
		w/2 + p[0]/depth*f,
		h/2 - p[2]/depth*f,
	}, true
}

// ProjectSegment clips a camera-space segment to the near and far planes and
// projects what remains.
func (l Lens) ProjectSegment(a, b mgl64.Vec3, w, h float64) (mgl64.Vec2, mgl64.Vec2, bool) {
	var ok bool
	if a, b, ok = clipDepth(a, b, l.Near, true); !ok {
		return mgl64.Vec2{}, mgl64.Vec2{}, false
	}
	if a, b, ok = clipDepth(a, b, l.Far, false); !ok {
		return mgl64.Vec2{}, mgl64.Vec2{}, false
	}

	pa, _ := l.Project(a, w, h)
	pb, _ := l.Project(b, w, h)
	return pa, pb, true
}

// clipDepth keeps the part of a..b on the visible side of the plane y = d.
func clipDepth(a, b mgl64.Vec3, d float64, keepFar bool) (mgl64.Vec3, mgl64.Vec3, bool) {
	inside := func(p mgl64.Vec3) bool {
		if keepFar {
			return p[1] >= d
		}
		return p[1] <= d
	}

	ina, inb := inside(a), inside(b)
	switch {
	case ina && inb:
		return a, b, true
	case !ina && !inb:
		return a, b, false
	}

	t := (d - a[1]) / (b[1] - a[1])
	cut := a.Add(b.Sub(a).Mul(t))
	cut[1] = d
	if ina {
		return a, cut, true
	}
	return cut, b, true
}
