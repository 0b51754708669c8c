// Package clock provides the frame clock shared by the task manager, the
// interval manager and the animation player.
//
// The frame time only changes when Tick is called, so every consumer that
// reads it during one frame sees the same value.
package clock

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// Mode selects how Tick advances the frame time.
type Mode int

const (
	// Normal advances the frame time to the current real time.
	Normal Mode = iota
	// NonRealTime advances the frame time by a fixed step on every Tick,
	// independent of how much real time has passed.
	NonRealTime
)

func (m Mode) String() string {
	switch m {
	case Normal:
		return "normal"
	case NonRealTime:
		return "non-real-time"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts a configuration string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "normal":
		return Normal, nil
	case "non-real-time", "fixed":
		return NonRealTime, nil
	default:
		return Normal, errors.Errorf("unknown clock mode %q", s)
	}
}

// Clock tracks frame time in seconds since the clock was created or reset.
type Clock struct {
	mode       Mode
	fixedDt    float64
	now        func() time.Time
	start      time.Time
	frameTime  float64
	dt         float64
	frameCount int64
}

// Option configures a Clock.
type Option func(*Clock)

// WithTimeSource replaces time.Now, mostly for tests.
func WithTimeSource(now func() time.Time) Option {
	return func(c *Clock) {
		c.now = now
	}
}

// New creates a clock in Normal mode.
func New(opts ...Option) *Clock {
	c := &Clock{
		mode: Normal,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.start = c.now()
	return c
}

// NewNonRealTime creates a clock that advances by dt on every Tick.
func NewNonRealTime(dt float64, opts ...Option) *Clock {
	c := New(opts...)
	c.mode = NonRealTime
	c.fixedDt = dt
	return c
}

// Mode returns the clock mode.
func (c *Clock) Mode() Mode {
	return c.mode
}

// Tick starts a new frame.
func (c *Clock) Tick() {
	var next float64
	switch c.mode {
	case NonRealTime:
		next = c.frameTime + c.fixedDt
	default:
		next = c.RealTime()
	}

	// Frame time never runs backwards, even if the wall clock does.
	if next < c.frameTime {
		next = c.frameTime
	}

	c.dt = next - c.frameTime
	c.frameTime = next
	c.frameCount++
}

// FrameTime returns the time of the current frame in seconds.
func (c *Clock) FrameTime() float64 {
	return c.frameTime
}

// RealTime returns the seconds elapsed since the clock started, ignoring frames.
func (c *Clock) RealTime() float64 {
	return c.now().Sub(c.start).Seconds()
}

// Dt returns the time elapsed between the previous frame and this one.
func (c *Clock) Dt() float64 {
	return c.dt
}

// FrameCount returns the number of ticks since the clock started.
func (c *Clock) FrameCount() int64 {
	return c.frameCount
}

// Reset rewinds the clock to zero.
func (c *Clock) Reset() {
	c.start = c.now()
	c.frameTime = 0
	c.dt = 0
	c.frameCount = 0
}
