package task_test

import (
	"fmt"
	"testing"

	"github.com/plus3/pandawalk/clock"
	"github.com/plus3/pandawalk/task"
)

func BenchmarkStep(b *testing.B) {
	for _, count := range []int{1, 10, 100, 1000} {
		b.Run(fmt.Sprintf("tasks=%d", count), func(b *testing.B) {
			clk := clock.NewNonRealTime(1.0 / 60.0)
			mgr := task.NewManager(clk)

			sum := 0.0
			for i := range count {
				mgr.Add(fmt.Sprintf("task-%d", i), func(frame *task.Frame) task.DoneStatus {
					sum += frame.ElapsedTime
					return task.Cont
				})
			}

			b.ResetTimer()
			for b.Loop() {
				clk.Tick()
				mgr.Step()
			}
			_ = sum
		})
	}
}
