package task_test

import (
	"fmt"

	"github.com/plus3/pandawalk/clock"
	"github.com/plus3/pandawalk/task"
)

type countdown struct {
	Remaining int
}

func (c *countdown) Execute(frame *task.Frame) task.DoneStatus {
	c.Remaining--
	fmt.Printf("%s: %d left at t=%.1f\n", frame.Name, c.Remaining, frame.ElapsedTime)
	if c.Remaining == 0 {
		return task.Done
	}
	return task.Cont
}

// ExampleManager shows the three ways of registering per-frame work: a type
// implementing Task, a closure, and a function with user data. Tasks run in
// registration order once per Step; a task returning Done is retired.
func ExampleManager() {
	clk := clock.NewNonRealTime(0.5)
	mgr := task.NewManager(clk)

	mgr.AddTask("countdown", &countdown{Remaining: 2})

	frames := 0
	mgr.Add("closure", func(frame *task.Frame) task.DoneStatus {
		frames++
		return task.Cont
	})

	mgr.AddGeneric("generic", func(frame *task.Frame, data any) task.DoneStatus {
		fmt.Printf("%s sees %q\n", frame.Name, data)
		return task.Done
	}, "camera")

	for range 3 {
		clk.Tick()
		mgr.Step()
	}

	fmt.Println("closure frames:", frames)
	fmt.Println("live tasks:", mgr.Len())

	// Output:
	// countdown: 1 left at t=0.0
	// generic sees "camera"
	// countdown: 0 left at t=0.5
	// closure frames: 3
	// live tasks: 1
}
