// Package anim plays keyframed joint animation on scene nodes.
//
// A Clip holds per-joint translation, rotation and scale channels. An Actor
// binds clips to the joint nodes of one loaded model and a Player advances
// every actor once per frame.
package anim

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// Path is the joint attribute a channel drives.
type Path int

const (
	Translation Path = iota
	Rotation
	ScalePath
)

func (p Path) String() string {
	switch p {
	case Translation:
		return "translation"
	case Rotation:
		return "rotation"
	case ScalePath:
		return "scale"
	default:
		return fmt.Sprintf("Path(%d)", int(p))
	}
}

// Interpolation selects how values between keyframes are computed.
type Interpolation int

const (
	Linear Interpolation = iota
	Step
)

// Channel is one keyframed attribute of one joint. Rotation values are
// quaternions stored as (x, y, z, w); translation and scale use x, y, z.
type Channel struct {
	Joint         string
	Path          Path
	Interpolation Interpolation
	Times         []float64
	Values        []mgl64.Vec4
}

// DefaultFrameRate is used for clips whose source carries no frame rate.
const DefaultFrameRate = 24.0

// Clip is a named set of channels sharing a timeline.
type Clip struct {
	Name      string
	FrameRate float64
	Channels  []Channel
	duration  float64
}

// NewClip creates a clip; its duration is the last keyframe time across all
// channels.
func NewClip(name string, frameRate float64, channels ...Channel) *Clip {
	if frameRate <= 0 {
		frameRate = DefaultFrameRate
	}
	c := &Clip{Name: name, FrameRate: frameRate, Channels: channels}
	for _, ch := range channels {
		if n := len(ch.Times); n > 0 {
			c.duration = math.Max(c.duration, ch.Times[n-1])
		}
	}
	return c
}

// Duration returns the clip length in seconds.
func (c *Clip) Duration() float64 {
	return c.duration
}

// NumFrames returns the number of frames at the clip's frame rate.
func (c *Clip) NumFrames() int {
	return int(math.Round(c.duration*c.FrameRate)) + 1
}

// Joints returns the distinct joint names the clip animates, in channel order.
func (c *Clip) Joints() []string {
	seen := make(map[string]bool)
	var joints []string
	for _, ch := range c.Channels {
		if !seen[ch.Joint] {
			seen[ch.Joint] = true
			joints = append(joints, ch.Joint)
		}
	}
	return joints
}

// Sample returns the channel value at time t, holding the first and last
// keyframes outside the keyed range.
func (ch *Channel) Sample(t float64) mgl64.Vec4 {
	n := len(ch.Times)
	switch {
	case n == 0:
		return mgl64.Vec4{}
	case t <= ch.Times[0]:
		return ch.Values[0]
	case t >= ch.Times[n-1]:
		return ch.Values[n-1]
	}

	hi := sort.SearchFloat64s(ch.Times, t)
	if ch.Times[hi] == t {
		return ch.Values[hi]
	}
	lo := hi - 1
	if ch.Interpolation == Step {
		return ch.Values[lo]
	}

	f := (t - ch.Times[lo]) / (ch.Times[hi] - ch.Times[lo])
	a, b := ch.Values[lo], ch.Values[hi]
	if ch.Path == Rotation {
		q := mgl64.QuatSlerp(vecToQuat(a), vecToQuat(b), f)
		return quatToVec(q)
	}
	return a.Add(b.Sub(a).Mul(f))
}

func vecToQuat(v mgl64.Vec4) mgl64.Quat {
	return mgl64.Quat{W: v[3], V: mgl64.Vec3{v[0], v[1], v[2]}}
}

func quatToVec(q mgl64.Quat) mgl64.Vec4 {
	return mgl64.Vec4{q.V[0], q.V[1], q.V[2], q.W}
}
