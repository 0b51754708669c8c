// Package interval provides time-based interpolation of scene node attributes
// and the sequencing of such intervals into chained or concurrent timelines.
//
// An Interval is a pure timeline: SetT moves it to a local time and writes the
// resulting values onto its target. Playback against the frame clock (start,
// loop, pause) is handled by a Manager, whose Step must be called once per
// frame.
package interval

import (
	"fmt"
	"sync/atomic"
)

// State tracks where an interval is in its timeline.
type State int

const (
	// Initial intervals have not been touched since creation or Reset.
	Initial State = iota
	// Started intervals have been initialized and are in progress.
	Started
	// Final intervals have reached the end of their duration.
	Final
)

func (s State) String() string {
	switch s {
	case Initial:
		return "initial"
	case Started:
		return "started"
	case Final:
		return "final"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Interval is a named, fixed-duration timeline.
type Interval interface {
	Name() string
	// Duration returns the length of the timeline in seconds.
	Duration() float64
	State() State
	// SetT moves the interval to local time t, clamped to [0, Duration]. The
	// first call after creation or Reset initializes the interval; reaching
	// Duration finalizes it.
	SetT(t float64)
	// Reset returns the interval to Initial without touching its target.
	Reset()
}

var nameCounter atomic.Int64

func defaultName(kind string) string {
	return fmt.Sprintf("%s-%d", kind, nameCounter.Add(1))
}

func clampT(t, duration float64) float64 {
	if t < 0 {
		return 0
	}
	if t > duration {
		return duration
	}
	return t
}
