package interval

import (
	"fmt"
	"slices"
)

// RelativeStart says what a child's start offset is measured from.
type RelativeStart int

const (
	// PreviousEnd starts the child when the previously added child ends.
	PreviousEnd RelativeStart = iota
	// PreviousBegin starts the child together with the previously added child.
	PreviousBegin
	// LevelBegin measures the offset from the start of the sequence.
	LevelBegin
)

func (r RelativeStart) String() string {
	switch r {
	case PreviousEnd:
		return "previousEnd"
	case PreviousBegin:
		return "previousBegin"
	case LevelBegin:
		return "levelBegin"
	default:
		return fmt.Sprintf("RelativeStart(%d)", int(r))
	}
}

type entry struct {
	ival  Interval
	start float64
	order int
}

// Sequence is a meta-interval that places child intervals on a shared
// timeline. Children run in timeline order; when the timeline moves backwards
// every child is reset and replayed from the beginning.
type Sequence struct {
	name      string
	entries   []entry
	prevBegin float64
	prevEnd   float64
	duration  float64
	state     State
	lastT     float64
}

// NewSequence chains children so that each starts when the previous ends.
func NewSequence(name string, children ...Interval) *Sequence {
	s := newSequence(name, "Sequence")
	for _, child := range children {
		s.Add(child, 0, PreviousEnd)
	}
	return s
}

// NewParallel starts all children at the beginning of the timeline.
func NewParallel(name string, children ...Interval) *Sequence {
	s := newSequence(name, "Parallel")
	for _, child := range children {
		s.Add(child, 0, LevelBegin)
	}
	return s
}

func newSequence(name, kind string) *Sequence {
	if name == "" {
		name = defaultName(kind)
	}
	return &Sequence{name: name}
}

// Add places child on the timeline at offset seconds relative to rel.
// Starts before the beginning of the timeline are clamped to 0.
func (s *Sequence) Add(child Interval, offset float64, rel RelativeStart) *Sequence {
	var start float64
	switch rel {
	case PreviousEnd:
		start = s.prevEnd + offset
	case PreviousBegin:
		start = s.prevBegin + offset
	default:
		start = offset
	}
	start = max(start, 0)

	e := entry{ival: child, start: start, order: len(s.entries)}
	s.entries = append(s.entries, e)
	slices.SortStableFunc(s.entries, func(a, b entry) int {
		switch {
		case a.start < b.start:
			return -1
		case a.start > b.start:
			return 1
		default:
			return a.order - b.order
		}
	})

	s.prevBegin = start
	s.prevEnd = start + child.Duration()
	s.duration = max(s.duration, s.prevEnd)
	return s
}

func (s *Sequence) Name() string      { return s.name }
func (s *Sequence) Duration() float64 { return s.duration }
func (s *Sequence) State() State      { return s.state }

// Children returns the child intervals in timeline order.
func (s *Sequence) Children() []Interval {
	children := make([]Interval, len(s.entries))
	for i, e := range s.entries {
		children[i] = e.ival
	}
	return children
}

// StartOf returns the start time of child on the timeline.
func (s *Sequence) StartOf(child Interval) (float64, bool) {
	for _, e := range s.entries {
		if e.ival == child {
			return e.start, true
		}
	}
	return 0, false
}

func (s *Sequence) Reset() {
	s.state = Initial
	s.lastT = 0
	for _, e := range s.entries {
		e.ival.Reset()
	}
}

func (s *Sequence) SetT(t float64) {
	t = clampT(t, s.duration)

	if s.state != Initial && t < s.lastT {
		for _, e := range s.entries {
			e.ival.Reset()
		}
	}

	for _, e := range s.entries {
		if t < e.start {
			break
		}
		if e.ival.State() == Final {
			continue
		}
		e.ival.SetT(t - e.start)
	}

	s.lastT = t
	if t >= s.duration {
		s.state = Final
	} else {
		s.state = Started
	}
}
