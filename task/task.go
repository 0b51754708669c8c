// Package task implements the per-frame task manager.
//
// A task is a unit of work run once per frame, in registration order, on the
// goroutine that owns the scene graph. After each invocation a task reports a
// DoneStatus: Cont to be run again next frame, Done to retire.
package task

import "fmt"

// DoneStatus is the continuation signal a task returns after each invocation.
type DoneStatus int

const (
	// Cont runs the task again on the next frame.
	Cont DoneStatus = iota
	// Done retires the task; it is never invoked again.
	Done
)

func (s DoneStatus) String() string {
	switch s {
	case Cont:
		return "cont"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("DoneStatus(%d)", int(s))
	}
}

// State is the lifecycle state of a registered task.
type State int

const (
	// Scheduled tasks wait for their next invocation.
	Scheduled State = iota
	// Running is the state of a task while its Execute is on the stack.
	Running
	// Finished tasks returned Done and are no longer invoked.
	Finished
	// Cancelled tasks were removed or torn down with their manager.
	Cancelled
)

func (s State) String() string {
	switch s {
	case Scheduled:
		return "scheduled"
	case Running:
		return "running"
	case Finished:
		return "finished"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Task represents per-frame work. Implementations may keep state in their
// own fields; it persists between frames.
type Task interface {
	Execute(frame *Frame) DoneStatus
}

// Func adapts a plain function or closure to the Task interface.
type Func func(frame *Frame) DoneStatus

// Execute calls f.
func (f Func) Execute(frame *Frame) DoneStatus {
	return f(frame)
}

// GenericFunc is a task function that receives user data supplied at
// registration time.
type GenericFunc func(frame *Frame, data any) DoneStatus

type genericTask struct {
	fn   GenericFunc
	data any
}

func (g *genericTask) Execute(frame *Frame) DoneStatus {
	return g.fn(frame, g.data)
}

// Frame describes one invocation of one task.
type Frame struct {
	// Name is the name the task was registered under.
	Name string
	// ElapsedTime is the number of seconds since the task first ran. It is 0
	// on the first invocation.
	ElapsedTime float64
	// DeltaTime is the clock's frame delta.
	DeltaTime float64
	// FrameTime is the clock's current frame time.
	FrameTime float64
	// FrameCount counts invocations of this task, starting at 1.
	FrameCount int64
	// Commands queues task additions and removals until the step ends.
	Commands *Commands
}
