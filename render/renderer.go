package render

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/pandawalk/scene"
)

// Segment is one projected edge in screen coordinates.
type Segment struct {
	A, B mgl64.Vec2
}

// Renderer draws every geometry edge reachable from the graph root.
type Renderer struct {
	Lens        Lens
	Background  color.Color
	LineColor   color.Color
	StrokeWidth float32

	segments []Segment
}

// NewRenderer creates a renderer with the default lens and colors.
func NewRenderer() *Renderer {
	return &Renderer{
		Lens:        DefaultLens(),
		Background:  color.RGBA{128, 128, 128, 255},
		LineColor:   color.RGBA{240, 240, 230, 255},
		StrokeWidth: 1,
	}
}

// Collect projects all visible edges as seen from camera into a w x h
// viewport. The returned slice is reused by the next call.
func (r *Renderer) Collect(g *scene.Graph, camera scene.NodePath, w, h float64) []Segment {
	r.segments = r.segments[:0]
	view := camera.NetTransform().Inv()

	g.Walk(g.Root(), func(np scene.NodePath, net mgl64.Mat4) bool {
		geom := np.Geometry()
		if geom == nil {
			return true
		}

		toCamera := view.Mul4(net)
		for _, e := range geom.Edges {
			a := mgl64.TransformCoordinate(geom.Vertices[e[0]], toCamera)
			b := mgl64.TransformCoordinate(geom.Vertices[e[1]], toCamera)
			if pa, pb, ok := r.Lens.ProjectSegment(a, b, w, h); ok {
				r.segments = append(r.segments, Segment{A: pa, B: pb})
			}
		}
		return true
	})
	return r.segments
}

// Draw clears screen and strokes the scene from camera's point of view.
func (r *Renderer) Draw(screen *ebiten.Image, g *scene.Graph, camera scene.NodePath) {
	screen.Fill(r.Background)

	bounds := screen.Bounds()
	segments := r.Collect(g, camera, float64(bounds.Dx()), float64(bounds.Dy()))
	for _, s := range segments {
		vector.StrokeLine(screen,
			float32(s.A[0]), float32(s.A[1]), float32(s.B[0]), float32(s.B[1]),
			r.StrokeWidth, r.LineColor, true)
	}
}

// LastSegmentCount returns how many edges the last Collect or Draw produced.
func (r *Renderer) LastSegmentCount() int {
	return len(r.segments)
}
