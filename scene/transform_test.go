package scene_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/pandawalk/scene"
	"github.com/stretchr/testify/assert"
)

func TestHprMatrixAxes(t *testing.T) {
	forward := mgl64.Vec4{0, 1, 0, 0}

	tests := []struct {
		name string
		hpr  mgl64.Vec3
		want mgl64.Vec3
	}{
		{"identity", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 1, 0}},
		{"heading 90 looks down -X", mgl64.Vec3{90, 0, 0}, mgl64.Vec3{-1, 0, 0}},
		{"heading 180 looks down -Y", mgl64.Vec3{180, 0, 0}, mgl64.Vec3{0, -1, 0}},
		{"pitch 90 looks up", mgl64.Vec3{0, 90, 0}, mgl64.Vec3{0, 0, 1}},
		{"roll keeps forward", mgl64.Vec3{0, 0, 45}, mgl64.Vec3{0, 1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scene.HprMatrix(tt.hpr).Mul4x1(forward).Vec3()
			assertVecNear(t, tt.want, got)
		})
	}
}

func TestHprQuatRoundTrip(t *testing.T) {
	cases := []mgl64.Vec3{
		{0, 0, 0},
		{90, 0, 0},
		{-45, 30, 10},
		{170, -60, 120},
		{12, 89, -3},
	}

	for _, hpr := range cases {
		q := scene.HprToQuat(hpr)
		back := scene.QuatToHpr(q)
		assertVecNear(t, hpr, back, "hpr %v", hpr)

		// The quaternion and matrix forms must describe the same rotation.
		m := scene.HprMatrix(hpr)
		qm := q.Mat4()
		for i := range 16 {
			assert.InDelta(t, m[i], qm[i], 1e-9)
		}
	}
}

func TestQuatToHprGimbalLock(t *testing.T) {
	hpr := mgl64.Vec3{30, 90, 20}
	back := scene.QuatToHpr(scene.HprToQuat(hpr))

	assert.InDelta(t, 90, back[1], 1e-6)
	assert.InDelta(t, 0, back[2], 1e-6)

	// Same rotation even though the angles differ.
	want := scene.HprMatrix(hpr)
	got := scene.HprMatrix(back)
	for i := range 16 {
		assert.InDelta(t, want[i], got[i], 1e-6)
	}
}

func TestGeometryFromTriangles(t *testing.T) {
	vertices := []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}
	indices := []uint32{0, 1, 2, 0, 2, 3, 9}

	geom := scene.GeometryFromTriangles(vertices, indices)
	assert.Len(t, geom.Edges, 5, "shared diagonal counted once, stray index ignored")

	lo, hi := geom.Bounds()
	assertVecNear(t, mgl64.Vec3{0, 0, 0}, lo)
	assertVecNear(t, mgl64.Vec3{1, 1, 0}, hi)

	other := scene.GeometryFromTriangles(vertices[:3], []uint32{0, 1, 2})
	geom.Append(other)
	assert.Len(t, geom.Vertices, 7)
	assert.Equal(t, [2]uint32{4, 5}, geom.Edges[5])
}

func TestGrid(t *testing.T) {
	geom := scene.Grid(10, 5)
	assert.Len(t, geom.Edges, 12)

	lo, hi := geom.Bounds()
	assertVecNear(t, mgl64.Vec3{-5, -5, 0}, lo)
	assertVecNear(t, mgl64.Vec3{5, 5, 0}, hi)
}
