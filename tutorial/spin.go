// Package tutorial holds the per-frame work of the walking panda programs:
// the spinning camera and the interval driver.
//
// The spin is one pure pose function with three interchangeable ways to
// register it with a task manager: a task type, a closure, and a plain
// function that receives the camera as task data.
package tutorial

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/pandawalk/scene"
	"github.com/plus3/pandawalk/task"
)

// Default spin parameters: six degrees per second on a circle of radius 20
// at height 3.
const (
	SpinRate   = 6.0
	SpinRadius = 20.0
	SpinHeight = 3.0
)

// SpinParams describes a circular orbit around the origin.
type SpinParams struct {
	Rate   float64 // degrees per second
	Radius float64
	Height float64
}

// DefaultSpin returns the orbit the tutorials use.
func DefaultSpin() SpinParams {
	return SpinParams{Rate: SpinRate, Radius: SpinRadius, Height: SpinHeight}
}

// Period returns the seconds taken by one full revolution.
func (p SpinParams) Period() float64 {
	return 360 / p.Rate
}

// Pose is a position plus heading, pitch and roll in degrees.
type Pose struct {
	Pos mgl64.Vec3
	Hpr mgl64.Vec3
}

// Apply writes the pose onto np.
func (p Pose) Apply(np scene.NodePath) {
	np.SetPosHpr(p.Pos, p.Hpr)
}

// SpinPose returns the camera pose elapsed seconds into the default orbit.
func SpinPose(elapsed float64) Pose {
	return SpinPoseWith(elapsed, DefaultSpin())
}

// SpinPoseWith returns the pose elapsed seconds into the orbit p. The camera
// sits on the circle facing along its heading, starting at (0, -R, H).
func SpinPoseWith(elapsed float64, p SpinParams) Pose {
	deg := elapsed * p.Rate
	rad := deg * math.Pi / 180
	return Pose{
		Pos: mgl64.Vec3{p.Radius * math.Sin(rad), -p.Radius * math.Cos(rad), p.Height},
		Hpr: mgl64.Vec3{deg, 0, 0},
	}
}

// SpinCamera is the task type form of the spin.
type SpinCamera struct {
	Camera scene.NodePath
	Params SpinParams
}

var _ task.Task = (*SpinCamera)(nil)

// NewSpinCamera spins camera on the default orbit.
func NewSpinCamera(camera scene.NodePath) *SpinCamera {
	return &SpinCamera{Camera: camera, Params: DefaultSpin()}
}

// Execute poses the camera for the task's elapsed time.
func (s *SpinCamera) Execute(frame *task.Frame) task.DoneStatus {
	SpinPoseWith(frame.ElapsedTime, s.Params).Apply(s.Camera)
	return task.Cont
}

// SpinCameraFunc is the closure form of the spin.
func SpinCameraFunc(camera scene.NodePath) task.Func {
	return func(frame *task.Frame) task.DoneStatus {
		SpinPose(frame.ElapsedTime).Apply(camera)
		return task.Cont
	}
}

// SpinCameraGeneric is the function-plus-data form of the spin; data must be
// the camera's scene.NodePath.
//
//	mgr.AddGeneric("Spins the camera", tutorial.SpinCameraGeneric, camera)
func SpinCameraGeneric(frame *task.Frame, data any) task.DoneStatus {
	SpinPose(frame.ElapsedTime).Apply(data.(scene.NodePath))
	return task.Cont
}
