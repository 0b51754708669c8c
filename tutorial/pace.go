package tutorial

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/pandawalk/interval"
	"github.com/plus3/pandawalk/scene"
	"github.com/plus3/pandawalk/task"
)

// Pace timings in seconds.
const (
	PaceWalk = 13.0
	PaceTurn = 3.0
)

// StepIntervals returns a task that advances mgr once per frame.
func StepIntervals(mgr *interval.Manager) task.Func {
	return func(*task.Frame) task.DoneStatus {
		mgr.Step()
		return task.Cont
	}
}

// PandaPace walks panda from y=10 to y=-10, turns it around, walks it back
// and turns it again. Each segment starts when the previous one ends.
func PandaPace(panda scene.NodePath) *interval.Sequence {
	north, south := mgl64.Vec3{0, 10, 0}, mgl64.Vec3{0, -10, 0}
	ahead, behind := mgl64.Vec3{0, 0, 0}, mgl64.Vec3{180, 0, 0}

	return interval.NewSequence("pandaPace",
		interval.LerpPos(panda, PaceWalk, south, interval.StartPos(north), interval.Named("pandaPosInterval1")),
		interval.LerpHpr(panda, PaceTurn, behind, interval.StartHpr(ahead), interval.Named("pandaHprInterval1")),
		interval.LerpPos(panda, PaceWalk, north, interval.StartPos(south), interval.Named("pandaPosInterval2")),
		interval.LerpHpr(panda, PaceTurn, ahead, interval.StartHpr(behind), interval.Named("pandaHprInterval2")),
	)
}
