package scene_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/pandawalk/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertVecNear(t *testing.T, want, got mgl64.Vec3, msgAndArgs ...any) {
	t.Helper()
	for i := range 3 {
		assert.InDelta(t, want[i], got[i], 1e-9, msgAndArgs...)
	}
}

func TestNewGraph(t *testing.T) {
	g := scene.NewGraph()
	root := g.Root()

	assert.True(t, root.Valid())
	assert.Equal(t, "render", root.Name())
	assert.True(t, root.Parent().IsEmpty())
	assert.Equal(t, 1, g.Len())
	assertVecNear(t, mgl64.Vec3{1, 1, 1}, root.Scale())
}

func TestAttachAndReparent(t *testing.T) {
	g := scene.NewGraph()
	root := g.Root()

	a := root.AttachNewNode("a")
	b := root.AttachNewNode("b")
	c := a.AttachNewNode("c")

	assert.Equal(t, []scene.NodePath{a, b}, root.Children())
	assert.Equal(t, a, c.Parent())

	c.ReparentTo(b)
	assert.Empty(t, a.Children())
	assert.Equal(t, []scene.NodePath{c}, b.Children())
	assert.Equal(t, b, c.Parent())

	t.Run("cycle panics", func(t *testing.T) {
		assert.Panics(t, func() { b.ReparentTo(c) })
		assert.Panics(t, func() { b.ReparentTo(b) })
	})

	t.Run("detached nodes join on reparent", func(t *testing.T) {
		loose := g.NewNode("loose")
		assert.True(t, loose.Parent().IsEmpty())

		loose.ReparentTo(root)
		assert.Equal(t, root, loose.Parent())
	})
}

func TestFind(t *testing.T) {
	g := scene.NewGraph()
	root := g.Root()
	model := root.AttachNewNode("model")
	hips := model.AttachNewNode("hips")
	leg := hips.AttachNewNode("leg")

	assert.Equal(t, leg, root.Find("leg"))
	assert.Equal(t, hips, model.Find("hips"))
	assert.True(t, leg.Find("model").IsEmpty())
}

func TestRemoveNodeInvalidatesSubtree(t *testing.T) {
	g := scene.NewGraph()
	root := g.Root()
	a := root.AttachNewNode("a")
	child := a.AttachNewNode("child")

	a.RemoveNode()

	assert.False(t, a.Valid())
	assert.False(t, child.Valid())
	assert.Empty(t, root.Children())
	assert.Equal(t, 1, g.Len())
	assert.Equal(t, "**removed**", a.String())

	assert.Panics(t, func() { a.SetPos(1, 2, 3) })
	assert.Panics(t, func() { root.RemoveNode() })
	assert.Panics(t, func() { scene.NodePath{}.Name() })
}

func TestTransforms(t *testing.T) {
	g := scene.NewGraph()
	root := g.Root()
	parent := root.AttachNewNode("parent")
	child := parent.AttachNewNode("child")

	parent.SetPos(10, 0, 0)
	parent.SetHpr(90, 0, 0)
	child.SetPos(0, 5, 0)

	t.Run("local", func(t *testing.T) {
		p := child.Transform().Mul4x1(mgl64.Vec4{0, 0, 0, 1}).Vec3()
		assertVecNear(t, mgl64.Vec3{0, 5, 0}, p)
	})

	t.Run("net", func(t *testing.T) {
		// Heading 90 turns +Y into -X.
		p := child.NetTransform().Mul4x1(mgl64.Vec4{0, 0, 0, 1}).Vec3()
		assertVecNear(t, mgl64.Vec3{5, 0, 0}, p)
	})

	t.Run("scale", func(t *testing.T) {
		parent.SetScale(2)
		p := child.NetTransform().Mul4x1(mgl64.Vec4{0, 0, 0, 1}).Vec3()
		assertVecNear(t, mgl64.Vec3{0, 0, 0}, p)

		parent.SetScaleXYZ(1, 1, 1)
		assertVecNear(t, mgl64.Vec3{1, 1, 1}, parent.Scale())
	})

	t.Run("set transform round trip", func(t *testing.T) {
		n := root.AttachNewNode("n")
		m := scene.ComposeTransform(mgl64.Vec3{1, 2, 3}, mgl64.Vec3{30, 20, 10}, mgl64.Vec3{2, 3, 4})
		n.SetTransform(m)

		assertVecNear(t, mgl64.Vec3{1, 2, 3}, n.Pos())
		assertVecNear(t, mgl64.Vec3{30, 20, 10}, n.Hpr())
		assertVecNear(t, mgl64.Vec3{2, 3, 4}, n.Scale())
	})
}

func TestWalk(t *testing.T) {
	g := scene.NewGraph()
	root := g.Root()
	a := root.AttachNewNode("a")
	a.AttachNewNode("a1")
	b := root.AttachNewNode("b")
	b.SetPos(0, 0, 7)
	b.AttachNewNode("b1")

	var names []string
	g.Walk(root, func(np scene.NodePath, _ mgl64.Mat4) bool {
		names = append(names, np.Name())
		return np != a
	})
	assert.Equal(t, []string{"render", "a", "b", "b1"}, names)

	var net mgl64.Mat4
	g.Walk(b.Find("b1"), func(_ scene.NodePath, m mgl64.Mat4) bool {
		net = m
		return true
	})
	assertVecNear(t, mgl64.Vec3{0, 0, 7}, net.Col(3).Vec3())
}

func TestStats(t *testing.T) {
	g := scene.NewGraph()
	box := g.Root().AttachNewNode("box")
	box.SetGeometry(scene.Box(mgl64.Vec3{-1, -1, -1}, mgl64.Vec3{1, 1, 1}))
	g.NewNode("detached").SetGeometry(scene.Box(mgl64.Vec3{}, mgl64.Vec3{1, 1, 1}))

	stats := g.Stats()
	require.Equal(t, 2, stats.NodeCount)
	assert.Equal(t, 1, stats.GeometryNodes)
	assert.Equal(t, 8, stats.VertexCount)
	assert.Equal(t, 12, stats.EdgeCount)
}
