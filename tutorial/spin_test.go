package tutorial_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/pandawalk/clock"
	"github.com/plus3/pandawalk/scene"
	"github.com/plus3/pandawalk/task"
	"github.com/plus3/pandawalk/tutorial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-9

func assertVecNear(t *testing.T, want, got mgl64.Vec3, msgAndArgs ...any) {
	t.Helper()
	for i := range 3 {
		assert.InDelta(t, want[i], got[i], tolerance, msgAndArgs...)
	}
}

func sampleTimes() []float64 {
	var times []float64
	for ts := 0.0; ts < 250; ts += 0.37 {
		times = append(times, ts)
	}
	return append(times, 1e-9, 59.999, 60, 3600.5)
}

func TestSpinPoseOrbit(t *testing.T) {
	for _, ts := range sampleTimes() {
		pose := tutorial.SpinPose(ts)
		assert.Equal(t, tutorial.SpinHeight, pose.Pos[2], "height at t=%v", ts)

		r2 := pose.Pos[0]*pose.Pos[0] + pose.Pos[1]*pose.Pos[1]
		assert.InDelta(t, tutorial.SpinRadius*tutorial.SpinRadius, r2, 1e-6, "radius at t=%v", ts)

		assert.Equal(t, 0.0, pose.Hpr[1])
		assert.Equal(t, 0.0, pose.Hpr[2])
	}
}

func TestSpinPoseIsDeterministic(t *testing.T) {
	for _, ts := range sampleTimes() {
		assert.Equal(t, tutorial.SpinPose(ts), tutorial.SpinPose(ts))
	}
}

func TestSpinPosePeriod(t *testing.T) {
	period := tutorial.DefaultSpin().Period()
	assert.Equal(t, 60.0, period)

	for _, ts := range sampleTimes() {
		a, b := tutorial.SpinPose(ts), tutorial.SpinPose(ts+period)
		assertVecNear(t, a.Pos, b.Pos, "position after one revolution from t=%v", ts)
		assert.InDelta(t, 0, math.Remainder(b.Hpr[0]-a.Hpr[0], 360), 1e-9, "heading after one revolution from t=%v", ts)
	}
}

func TestSpinPoseScenarios(t *testing.T) {
	tests := []struct {
		elapsed float64
		pos     mgl64.Vec3
		heading float64
	}{
		{0, mgl64.Vec3{0, -20, 3}, 0},
		{15, mgl64.Vec3{20, 0, 3}, 90},
		{30, mgl64.Vec3{0, 20, 3}, 180},
		{45, mgl64.Vec3{-20, 0, 3}, 270},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("t=%v", tt.elapsed), func(t *testing.T) {
			pose := tutorial.SpinPose(tt.elapsed)
			assertVecNear(t, tt.pos, pose.Pos)
			assert.InDelta(t, tt.heading, pose.Hpr[0], tolerance)
		})
	}
}

func TestSpinPoseWithCustomOrbit(t *testing.T) {
	p := tutorial.SpinParams{Rate: 90, Radius: 5, Height: -1}
	assert.Equal(t, 4.0, p.Period())

	pose := tutorial.SpinPoseWith(1, p)
	assertVecNear(t, mgl64.Vec3{5, 0, -1}, pose.Pos)
	assert.InDelta(t, 90, pose.Hpr[0], tolerance)
}

// registrations covers the three ways of adding the spin to a manager.
func registrations(camera scene.NodePath) map[string]func(m *task.Manager) *task.Handle {
	return map[string]func(m *task.Manager) *task.Handle{
		"task type": func(m *task.Manager) *task.Handle {
			return m.AddTask("Spins the camera", tutorial.NewSpinCamera(camera))
		},
		"closure": func(m *task.Manager) *task.Handle {
			return m.Add("SpinCameraTask", tutorial.SpinCameraFunc(camera))
		},
		"generic": func(m *task.Manager) *task.Handle {
			return m.AddGeneric("Spins the camera", tutorial.SpinCameraGeneric, camera)
		},
	}
}

func TestSpinFrontEndsAgree(t *testing.T) {
	for name := range registrations(scene.NodePath{}) {
		t.Run(name, func(t *testing.T) {
			camera := scene.NewGraph().Root().AttachNewNode("camera")
			clk := clock.NewNonRealTime(0.5)
			mgr := task.NewManager(clk)
			h := registrations(camera)[name](mgr)

			// The first run is at elapsed 0 whatever the frame time is.
			for range 4 {
				clk.Tick()
			}

			for frame := range 200 {
				clk.Tick()
				mgr.Step()

				want := tutorial.SpinPose(float64(frame) * 0.5)
				require.Equal(t, task.Scheduled, h.State(), "frame %d", frame)
				assertVecNear(t, want.Pos, camera.Pos(), "frame %d", frame)
				assertVecNear(t, want.Hpr, camera.Hpr(), "frame %d", frame)
			}
			assert.Equal(t, 1, mgr.Len())
		})
	}
}

func TestSpinAlwaysContinues(t *testing.T) {
	camera := scene.NewGraph().Root().AttachNewNode("camera")
	spin := tutorial.NewSpinCamera(camera)
	closure := tutorial.SpinCameraFunc(camera)

	frame := &task.Frame{}
	for i := range 1000 {
		frame.ElapsedTime = float64(i) * 7.3
		assert.Equal(t, task.Cont, spin.Execute(frame))
		assert.Equal(t, task.Cont, closure.Execute(frame))
		assert.Equal(t, task.Cont, tutorial.SpinCameraGeneric(frame, camera))
	}
}

func ExampleSpinPose() {
	for _, ts := range []float64{0, 15, 30} {
		pose := tutorial.SpinPose(ts)
		fmt.Printf("t=%2.0f pos=(%.1f, %.1f, %.1f) heading=%.0f\n",
			ts, pose.Pos[0], pose.Pos[1], pose.Pos[2], pose.Hpr[0])
	}
	// Output:
	// t= 0 pos=(0.0, -20.0, 3.0) heading=0
	// t=15 pos=(20.0, -0.0, 3.0) heading=90
	// t=30 pos=(0.0, 20.0, 3.0) heading=180
}
