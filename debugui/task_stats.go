package debugui

import (
	"fmt"
	"sort"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/AllenDang/cimgui-go/implot"
	"github.com/plus3/pandawalk/task"
)

// History is a fixed-size ring of samples.
type History struct {
	samples []float32
	offset  int
	filled  int
}

// NewHistory creates a ring holding size samples.
func NewHistory(size int) *History {
	return &History{samples: make([]float32, size)}
}

// Push records a sample, overwriting the oldest once full.
func (h *History) Push(v float32) {
	h.samples[h.offset] = v
	h.offset = (h.offset + 1) % len(h.samples)
	h.filled = min(h.filled+1, len(h.samples))
}

// Ordered returns the samples oldest first, zero padded until full.
func (h *History) Ordered() []float32 {
	out := make([]float32, len(h.samples))
	n := copy(out, h.samples[h.offset:])
	copy(out[n:], h.samples[:h.offset])
	return out
}

// Average returns the mean of the recorded samples.
func (h *History) Average() float32 {
	if h.filled == 0 {
		return 0
	}
	var sum float32
	for _, v := range h.samples {
		sum += v
	}
	return sum / float32(h.filled)
}

// TaskStatsWindow shows per-task timing and a frame time graph.
type TaskStatsWindow struct {
	frames  *History
	latency map[string]*History
	size    int
}

// NewTaskStatsWindow keeps historyFrames samples of frame and task times.
func NewTaskStatsWindow(historyFrames int) *TaskStatsWindow {
	return &TaskStatsWindow{
		frames:  NewHistory(historyFrames),
		latency: make(map[string]*History),
		size:    historyFrames,
	}
}

// Record adds one frame of samples without drawing.
func (w *TaskStatsWindow) Record(stats *task.ManagerStats, deltaTime float32) {
	w.frames.Push(deltaTime * 1000)

	seen := make(map[string]bool, len(stats.Tasks))
	for _, ts := range stats.Tasks {
		seen[ts.Name] = true
		h, ok := w.latency[ts.Name]
		if !ok {
			h = NewHistory(w.size)
			w.latency[ts.Name] = h
		}
		h.Push(float32(ts.LastDuration.Seconds() * 1000))
	}
	for name := range w.latency {
		if !seen[name] {
			delete(w.latency, name)
		}
	}
}

// Tracked returns the names of tasks with latency history, sorted.
func (w *TaskStatsWindow) Tracked() []string {
	names := make([]string, 0, len(w.latency))
	for name := range w.latency {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render records the frame and draws the window.
func (w *TaskStatsWindow) Render(tasks *task.Manager, deltaTime float32) {
	stats := tasks.GetStats()
	w.Record(stats, deltaTime)

	imgui.SetNextWindowPosV(imgui.NewVec2(10, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(420, 320), imgui.CondOnce)
	if !imgui.BeginV("Tasks", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	avg := w.frames.Average()
	fps := float32(0)
	if avg > 0 {
		fps = 1000 / avg
	}
	imgui.Text(fmt.Sprintf("Tasks: %d (%d retired)", stats.TaskCount, stats.RetiredCount))
	imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avg, fps))

	imgui.Separator()
	samples := w.frames.Ordered()
	imgui.PlotLinesFloatPtr("##frametime", &samples[0], int32(len(samples)))

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
	if imgui.BeginTableV("TaskTable", 5, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Task")
		imgui.TableSetupColumn("State")
		imgui.TableSetupColumn("Runs")
		imgui.TableSetupColumn("Avg")
		imgui.TableSetupColumn("Max")
		imgui.TableHeadersRow()

		for _, ts := range stats.Tasks {
			imgui.TableNextRow()
			imgui.TableNextColumn()
			imgui.Text(ts.Name)
			imgui.TableNextColumn()
			imgui.Text(ts.State.String())
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", ts.ExecutionCount))
			imgui.TableNextColumn()
			imgui.Text(ts.AvgDuration.String())
			imgui.TableNextColumn()
			imgui.Text(ts.MaxDuration.String())
		}
		imgui.EndTable()
	}

	if imgui.TreeNodeStr("Task Latency") {
		names := w.Tracked()
		if implot.BeginPlotV("Task Latency", imgui.NewVec2(-1, 200), 0) {
			implot.SetupAxesV("Frame", "Time (ms)", 0, implot.AxisFlagsAutoFit)
			for _, name := range names {
				series := w.latency[name].Ordered()
				implot.PlotLineFloatPtrInt(name, &series[0], int32(len(series)))
			}
			implot.EndPlot()
		}
		imgui.TreePop()
	}

	imgui.End()
}
