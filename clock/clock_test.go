package clock_test

import (
	"testing"
	"time"

	"github.com/plus3/pandawalk/clock"
	"github.com/stretchr/testify/assert"
)

type fakeTime struct {
	t time.Time
}

func (f *fakeTime) Now() time.Time { return f.t }

func (f *fakeTime) Advance(d time.Duration) { f.t = f.t.Add(d) }

func TestNormalClock(t *testing.T) {
	src := &fakeTime{t: time.Unix(1000, 0)}
	c := clock.New(clock.WithTimeSource(src.Now))

	assert.Equal(t, 0.0, c.FrameTime())

	src.Advance(500 * time.Millisecond)
	assert.Equal(t, 0.0, c.FrameTime(), "frame time only moves on Tick")
	assert.InDelta(t, 0.5, c.RealTime(), 1e-9)

	c.Tick()
	assert.InDelta(t, 0.5, c.FrameTime(), 1e-9)
	assert.InDelta(t, 0.5, c.Dt(), 1e-9)
	assert.Equal(t, int64(1), c.FrameCount())

	src.Advance(250 * time.Millisecond)
	c.Tick()
	assert.InDelta(t, 0.75, c.FrameTime(), 1e-9)
	assert.InDelta(t, 0.25, c.Dt(), 1e-9)
}

func TestNormalClockNeverRunsBackwards(t *testing.T) {
	src := &fakeTime{t: time.Unix(1000, 0)}
	c := clock.New(clock.WithTimeSource(src.Now))

	src.Advance(time.Second)
	c.Tick()
	src.Advance(-time.Second)
	c.Tick()

	assert.InDelta(t, 1.0, c.FrameTime(), 1e-9)
	assert.Equal(t, 0.0, c.Dt())
}

func TestNonRealTimeClock(t *testing.T) {
	c := clock.NewNonRealTime(1.0 / 60.0)
	assert.Equal(t, clock.NonRealTime, c.Mode())

	for range 60 {
		c.Tick()
	}

	assert.InDelta(t, 1.0, c.FrameTime(), 1e-9)
	assert.InDelta(t, 1.0/60.0, c.Dt(), 1e-12)
	assert.Equal(t, int64(60), c.FrameCount())

	c.Reset()
	assert.Equal(t, 0.0, c.FrameTime())
	assert.Equal(t, int64(0), c.FrameCount())
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want clock.Mode
		err  bool
	}{
		{"", clock.Normal, false},
		{"normal", clock.Normal, false},
		{"non-real-time", clock.NonRealTime, false},
		{"fixed", clock.NonRealTime, false},
		{"slow", clock.Normal, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := clock.ParseMode(tt.in)
			if tt.err {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
