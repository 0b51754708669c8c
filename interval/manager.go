package interval

import (
	"log/slog"
	"math"
	"slices"

	"github.com/plus3/pandawalk/clock"
)

// Playback is one interval being played against a Manager's clock.
type Playback struct {
	ival      Interval
	mgr       *Manager
	startTime float64
	rate      float64
	loop      bool
	playing   bool
	t         float64
	cycle     int
}

// Interval returns the interval being played.
func (p *Playback) Interval() Interval {
	return p.ival
}

// IsPlaying reports whether the playback is advanced by Step.
func (p *Playback) IsPlaying() bool {
	return p.playing
}

// IsLooping reports whether the playback restarts when it reaches the end.
func (p *Playback) IsLooping() bool {
	return p.loop
}

// T returns the local time of the current cycle as of the last Step.
func (p *Playback) T() float64 {
	return p.t
}

// PlayRate returns the playback speed multiplier.
func (p *Playback) PlayRate() float64 {
	return p.rate
}

// SetPlayRate changes the playback speed without jumping in the timeline.
// Only positive rates are supported.
func (p *Playback) SetPlayRate(rate float64) {
	if rate <= 0 {
		panic("interval: play rate must be positive")
	}
	now := p.mgr.clock.FrameTime()
	elapsed := p.elapsed(now)
	p.rate = rate
	p.startTime = now - elapsed/rate
}

// Pause stops advancing the playback, keeping its position.
func (p *Playback) Pause() {
	if !p.playing {
		return
	}
	elapsed := p.elapsed(p.mgr.clock.FrameTime())
	if d := p.ival.Duration(); p.loop && d > 0 {
		elapsed -= math.Floor(elapsed/d) * d
	}
	p.t = min(elapsed, p.ival.Duration())
	p.playing = false
	p.mgr.remove(p)
}

// Resume continues a paused playback from where it stopped.
func (p *Playback) Resume() {
	if p.playing {
		return
	}
	p.startTime = p.mgr.clock.FrameTime() - p.t/p.rate
	p.cycle = 0
	p.playing = true
	p.mgr.insert(p)
}

// Finish jumps to the end of the interval and stops playback.
func (p *Playback) Finish() {
	p.ival.SetT(p.ival.Duration())
	p.t = p.ival.Duration()
	p.playing = false
	p.mgr.remove(p)
}

func (p *Playback) elapsed(now float64) float64 {
	return (now - p.startTime) * p.rate
}

func (p *Playback) advance(now float64) {
	elapsed := p.elapsed(now)
	duration := p.ival.Duration()

	if !p.loop || duration <= 0 {
		if elapsed >= duration {
			p.ival.SetT(duration)
			p.t = duration
			p.playing = false
			return
		}
		p.ival.SetT(elapsed)
		p.t = elapsed
		return
	}

	cycle := int(math.Floor(elapsed / duration))
	if cycle > p.cycle {
		// Finish the pass in progress so its final values land, then restart.
		p.ival.SetT(duration)
		p.ival.Reset()
		p.cycle = cycle
	}

	p.t = elapsed - float64(cycle)*duration
	p.ival.SetT(p.t)
}

// Manager advances every playing interval once per Step using its clock's
// frame time. Intervals may start, pause or finish other intervals while
// the manager is stepping; those changes land when the step ends.
type Manager struct {
	clock     *clock.Clock
	playbacks []*Playback
	pending   []*Playback
	stepping  bool
}

// NewManager creates an interval manager reading time from clk.
func NewManager(clk *clock.Clock) *Manager {
	return &Manager{clock: clk}
}

// Start plays ival once from the beginning. An interval already playing in
// this manager is restarted.
func (m *Manager) Start(ival Interval) *Playback {
	return m.play(ival, false)
}

// Loop plays ival from the beginning and restarts it whenever it ends.
func (m *Manager) Loop(ival Interval) *Playback {
	return m.play(ival, true)
}

func (m *Manager) play(ival Interval, loop bool) *Playback {
	for _, p := range m.live() {
		if p.ival == ival {
			p.playing = false
			m.remove(p)
		}
	}

	ival.Reset()
	p := &Playback{
		ival:      ival,
		mgr:       m,
		startTime: m.clock.FrameTime(),
		rate:      1,
		loop:      loop,
		playing:   true,
	}
	m.insert(p)
	slog.Debug("interval started", "name", ival.Name(), "loop", loop, "duration", ival.Duration())
	return p
}

func (m *Manager) insert(p *Playback) {
	if slices.Contains(m.playbacks, p) || slices.Contains(m.pending, p) {
		return
	}
	if m.stepping {
		m.pending = append(m.pending, p)
		return
	}
	m.playbacks = append(m.playbacks, p)
}

// remove drops p from the playing list. While stepping, p has already been
// marked as not playing and is dropped when the step ends.
func (m *Manager) remove(p *Playback) {
	if m.stepping {
		return
	}
	if i := slices.Index(m.playbacks, p); i >= 0 {
		m.playbacks = slices.Delete(m.playbacks, i, i+1)
	}
}

// Step advances every playing interval to the clock's current frame time.
// Intervals that reach their end without looping are dropped. Intervals
// started during the step first advance on the next one.
func (m *Manager) Step() {
	now := m.clock.FrameTime()

	m.stepping = true
	for _, p := range slices.Clone(m.playbacks) {
		if p.playing {
			p.advance(now)
		}
	}
	m.stepping = false

	m.playbacks = slices.DeleteFunc(m.playbacks, func(p *Playback) bool { return !p.playing })
	for _, p := range m.pending {
		if p.playing && !slices.Contains(m.playbacks, p) {
			m.playbacks = append(m.playbacks, p)
		}
	}
	clear(m.pending)
	m.pending = m.pending[:0]
}

func (m *Manager) live() []*Playback {
	var live []*Playback
	for _, list := range [][]*Playback{m.playbacks, m.pending} {
		for _, p := range list {
			if p.playing {
				live = append(live, p)
			}
		}
	}
	return live
}

// Playing returns the names of the intervals currently playing.
func (m *Manager) Playing() []string {
	live := m.live()
	names := make([]string, 0, len(live))
	for _, p := range live {
		names = append(names, p.ival.Name())
	}
	return names
}

// Playbacks returns the live playbacks in start order.
func (m *Manager) Playbacks() []*Playback {
	return m.live()
}

// Len returns the number of playing intervals.
func (m *Manager) Len() int {
	return len(m.live())
}

// Close stops every playback without finishing it.
func (m *Manager) Close() {
	for _, p := range m.live() {
		p.playing = false
	}
	clear(m.playbacks)
	m.playbacks = m.playbacks[:0]
	clear(m.pending)
	m.pending = m.pending[:0]
}
