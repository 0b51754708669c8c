package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Geometry is a wireframe mesh in the owning node's local space.
type Geometry struct {
	Vertices []mgl64.Vec3
	Edges    [][2]uint32
}

// GeometryFromTriangles converts an indexed triangle list into unique edges.
// Trailing indices that do not form a whole triangle are ignored.
func GeometryFromTriangles(vertices []mgl64.Vec3, indices []uint32) *Geometry {
	geom := &Geometry{Vertices: vertices}
	seen := make(map[[2]uint32]struct{}, len(indices))

	addEdge := func(a, b uint32) {
		if a > b {
			a, b = b, a
		}
		key := [2]uint32{a, b}
		if _, ok := seen[key]; ok || a == b {
			return
		}
		seen[key] = struct{}{}
		geom.Edges = append(geom.Edges, key)
	}

	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		addEdge(a, b)
		addEdge(b, c)
		addEdge(c, a)
	}
	return geom
}

// Append merges other into g, offsetting its edge indices.
func (g *Geometry) Append(other *Geometry) {
	offset := uint32(len(g.Vertices))
	g.Vertices = append(g.Vertices, other.Vertices...)
	for _, e := range other.Edges {
		g.Edges = append(g.Edges, [2]uint32{e[0] + offset, e[1] + offset})
	}
}

// Bounds returns the axis-aligned bounding box of the vertices. An empty
// geometry has inverted infinite bounds.
func (g *Geometry) Bounds() (lo, hi mgl64.Vec3) {
	lo = mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi = mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, v := range g.Vertices {
		for i := range 3 {
			lo[i] = math.Min(lo[i], v[i])
			hi[i] = math.Max(hi[i], v[i])
		}
	}
	return lo, hi
}

// Box returns the 12 edges of an axis-aligned box spanning lo..hi.
func Box(lo, hi mgl64.Vec3) *Geometry {
	geom := &Geometry{
		Vertices: []mgl64.Vec3{
			{lo[0], lo[1], lo[2]}, {hi[0], lo[1], lo[2]},
			{hi[0], hi[1], lo[2]}, {lo[0], hi[1], lo[2]},
			{lo[0], lo[1], hi[2]}, {hi[0], lo[1], hi[2]},
			{hi[0], hi[1], hi[2]}, {lo[0], hi[1], hi[2]},
		},
	}
	for i := uint32(0); i < 4; i++ {
		geom.Edges = append(geom.Edges,
			[2]uint32{i, (i + 1) % 4},
			[2]uint32{i + 4, (i+1)%4 + 4},
			[2]uint32{i, i + 4},
		)
	}
	return geom
}

// Grid returns a square grid in the XY plane centred on the origin with the
// given number of cells per side.
func Grid(size float64, cells int) *Geometry {
	geom := &Geometry{}
	half := size / 2
	step := size / float64(cells)
	for i := 0; i <= cells; i++ {
		d := -half + float64(i)*step
		n := uint32(len(geom.Vertices))
		geom.Vertices = append(geom.Vertices,
			mgl64.Vec3{d, -half, 0}, mgl64.Vec3{d, half, 0},
			mgl64.Vec3{-half, d, 0}, mgl64.Vec3{half, d, 0},
		)
		geom.Edges = append(geom.Edges, [2]uint32{n, n + 1}, [2]uint32{n + 2, n + 3})
	}
	return geom
}
