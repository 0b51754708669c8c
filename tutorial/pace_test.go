package tutorial_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/pandawalk/clock"
	"github.com/plus3/pandawalk/interval"
	"github.com/plus3/pandawalk/scene"
	"github.com/plus3/pandawalk/task"
	"github.com/plus3/pandawalk/tutorial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPandaPaceLayout(t *testing.T) {
	panda := scene.NewGraph().Root().AttachNewNode("panda")
	pace := tutorial.PandaPace(panda)

	assert.Equal(t, "pandaPace", pace.Name())
	assert.Equal(t, 32.0, pace.Duration())

	want := []struct {
		name  string
		start float64
	}{
		{"pandaPosInterval1", 0},
		{"pandaHprInterval1", 13},
		{"pandaPosInterval2", 16},
		{"pandaHprInterval2", 29},
	}
	children := pace.Children()
	require.Len(t, children, len(want))
	for i, w := range want {
		assert.Equal(t, w.name, children[i].Name())
		start, ok := pace.StartOf(children[i])
		require.True(t, ok)
		assert.Equal(t, w.start, start, w.name)
	}
}

func TestPandaPaceSamples(t *testing.T) {
	tests := []struct {
		at  float64
		pos mgl64.Vec3
		hpr mgl64.Vec3
	}{
		{0, mgl64.Vec3{0, 10, 0}, mgl64.Vec3{0, 0, 0}},
		{6.5, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 0, 0}},
		{13, mgl64.Vec3{0, -10, 0}, mgl64.Vec3{0, 0, 0}},
		{14.5, mgl64.Vec3{0, -10, 0}, mgl64.Vec3{90, 0, 0}},
		{22.5, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{180, 0, 0}},
		{30.5, mgl64.Vec3{0, 10, 0}, mgl64.Vec3{90, 0, 0}},
		{32, mgl64.Vec3{0, 10, 0}, mgl64.Vec3{0, 0, 0}},
	}

	panda := scene.NewGraph().Root().AttachNewNode("panda")
	pace := tutorial.PandaPace(panda)
	for _, tt := range tests {
		pace.SetT(tt.at)
		assertVecNear(t, tt.pos, panda.Pos(), "pos at t=%v", tt.at)
		assertVecNear(t, tt.hpr, panda.Hpr(), "hpr at t=%v", tt.at)
	}
}

func TestStepIntervalsLoopsPace(t *testing.T) {
	clk := clock.NewNonRealTime(0.5)
	ivals := interval.NewManager(clk)
	tasks := task.NewManager(clk)

	panda := scene.NewGraph().Root().AttachNewNode("panda")
	playback := ivals.Loop(tutorial.PandaPace(panda))
	h := tasks.Add("intervals", tutorial.StepIntervals(ivals))

	step := func(n int) {
		for range n {
			clk.Tick()
			tasks.Step()
		}
	}

	step(13)
	assertVecNear(t, mgl64.Vec3{0, 0, 0}, panda.Pos())
	assert.InDelta(t, 6.5, playback.T(), 1e-9)

	step(16)
	assertVecNear(t, mgl64.Vec3{0, -10, 0}, panda.Pos())
	assert.InDelta(t, 90, panda.Hpr()[0], 1e-9)

	// One full pass later the panda is back where it started.
	step(64 - 29)
	assertVecNear(t, mgl64.Vec3{0, 10, 0}, panda.Pos())
	assert.InDelta(t, 0, playback.T(), 1e-9)
	assert.True(t, playback.IsPlaying())

	step(13)
	assertVecNear(t, mgl64.Vec3{0, 0, 0}, panda.Pos())
	assert.Equal(t, task.Scheduled, h.State())
	assert.Equal(t, []string{"pandaPace"}, ivals.Playing())
}

func TestStepIntervalsWithNothingPlaying(t *testing.T) {
	clk := clock.NewNonRealTime(1)
	ivals := interval.NewManager(clk)
	step := tutorial.StepIntervals(ivals)

	for range 10 {
		clk.Tick()
		assert.Equal(t, task.Cont, step(&task.Frame{}))
	}
	assert.Equal(t, 0, ivals.Len())
}
