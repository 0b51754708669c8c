package interval_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/pandawalk/interval"
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

func newNode() scene.NodePath {
	return scene.NewGraph().Root().AttachNewNode("target")
}

func TestBlendTypes(t *testing.T) {
	for _, b := range []interval.BlendType{interval.NoBlend, interval.EaseIn, interval.EaseOut, interval.EaseInOut} {
		t.Run(b.String(), func(t *testing.T) {
			assert.InDelta(t, 0, b.Apply(0), 1e-12)
			assert.InDelta(t, 1, b.Apply(1), 1e-12)

			parsed, err := interval.ParseBlendType(b.String())
			require.NoError(t, err)
			assert.Equal(t, b, parsed)
		})
	}

	assert.InDelta(t, 0.5, interval.EaseInOut.Apply(0.5), 1e-12)
	assert.Less(t, interval.EaseIn.Apply(0.25), 0.25)
	assert.Greater(t, interval.EaseOut.Apply(0.25), 0.25)

	_, err := interval.ParseBlendType("wobble")
	assert.Error(t, err)
}

func TestLerpPos(t *testing.T) {
	node := newNode()
	lerp := interval.LerpPos(node, 10, mgl64.Vec3{0, -10, 0}, interval.StartPos(mgl64.Vec3{0, 10, 0}))

	assert.Equal(t, interval.Initial, lerp.State())
	assert.Equal(t, 10.0, lerp.Duration())
	assert.Contains(t, lerp.Name(), "LerpPosInterval-")

	lerp.SetT(0)
	assertVecNear(t, mgl64.Vec3{0, 10, 0}, node.Pos())
	assert.Equal(t, interval.Started, lerp.State())

	lerp.SetT(2.5)
	assertVecNear(t, mgl64.Vec3{0, 5, 0}, node.Pos())

	lerp.SetT(25)
	assertVecNear(t, mgl64.Vec3{0, -10, 0}, node.Pos())
	assert.Equal(t, interval.Final, lerp.State())
}

func TestLerpCapturesStartFromNode(t *testing.T) {
	node := newNode()
	node.SetHpr(90, 0, 0)

	lerp := interval.LerpHpr(node, 2, mgl64.Vec3{180, 0, 0}, interval.Named("turn"))
	assert.Equal(t, "turn", lerp.Name())

	lerp.SetT(1)
	assertVecNear(t, mgl64.Vec3{135, 0, 0}, node.Hpr())

	// Moving the node mid-flight does not change the captured start.
	node.SetHpr(0, 0, 0)
	lerp.SetT(1)
	assertVecNear(t, mgl64.Vec3{135, 0, 0}, node.Hpr())

	// After Reset the start is captured again, from wherever the node is.
	lerp.Reset()
	node.SetHpr(0, 0, 0)
	lerp.SetT(1)
	assertVecNear(t, mgl64.Vec3{90, 0, 0}, node.Hpr())
}

func TestLerpScaleWithBlendAndExtraHpr(t *testing.T) {
	node := newNode()
	lerp := interval.LerpScale(node, 4, mgl64.Vec3{3, 3, 3},
		interval.StartScale(mgl64.Vec3{1, 1, 1}),
		interval.EndHpr(mgl64.Vec3{40, 0, 0}),
		interval.WithBlend(interval.EaseInOut),
	)

	assert.Equal(t, interval.Scale|interval.Hpr, lerp.Properties())
	assert.Equal(t, interval.EaseInOut, lerp.Blend())

	lerp.SetT(2)
	assertVecNear(t, mgl64.Vec3{2, 2, 2}, node.Scale())
	assertVecNear(t, mgl64.Vec3{20, 0, 0}, node.Hpr())
}

func TestZeroDurationLerpJumpsToEnd(t *testing.T) {
	node := newNode()
	lerp := interval.LerpPos(node, 0, mgl64.Vec3{1, 2, 3})

	lerp.SetT(0)
	assertVecNear(t, mgl64.Vec3{1, 2, 3}, node.Pos())
	assert.Equal(t, interval.Final, lerp.State())
}

func TestWaitAndFunc(t *testing.T) {
	wait := interval.Wait(2)
	wait.SetT(1)
	assert.Equal(t, interval.Started, wait.State())
	wait.SetT(2)
	assert.Equal(t, interval.Final, wait.State())

	calls := 0
	fn := interval.Func("ping", func() { calls++ })
	fn.SetT(0)
	fn.SetT(0)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "ping", fn.Name())

	fn.Reset()
	fn.SetT(0)
	assert.Equal(t, 2, calls)
}
