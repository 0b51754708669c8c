package task

import (
	"context"
	"log/slog"
	"time"

	"github.com/plus3/pandawalk/clock"
)

// ManagerStats provides statistics about task execution.
type ManagerStats struct {
	TaskCount       int
	RetiredCount    int64
	TotalExecutions int64
	Tasks           []TaskStats
}

// TaskStats provides execution statistics for a single task.
type TaskStats struct {
	Name           string
	State          State
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type taskStatsInternal struct {
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

// Handle is the registration record of one task.
type Handle struct {
	name      string
	task      Task
	state     State
	started   bool
	startTime float64
	stats     taskStatsInternal
	manager   *Manager
}

func newHandle(name string, t Task) *Handle {
	return &Handle{
		name:  name,
		task:  t,
		state: Scheduled,
		stats: taskStatsInternal{minDuration: time.Duration(1<<63 - 1)},
	}
}

// Name returns the name the task was registered under.
func (h *Handle) Name() string {
	return h.name
}

// Task returns the registered task.
func (h *Handle) Task() Task {
	return h.task
}

// State returns the task's lifecycle state.
func (h *Handle) State() State {
	return h.state
}

// Remove cancels this task. It is a no-op for tasks that already retired.
func (h *Handle) Remove() {
	if h.state == Finished || h.state == Cancelled {
		return
	}
	h.state = Cancelled
	if h.manager != nil {
		h.manager.retired++
	}
}

// Manager runs registered tasks once per Step, in registration order.
type Manager struct {
	clock    *clock.Clock
	tasks    []*Handle
	commands *Commands
	frame    Frame
	stepping bool
	retired  int64
}

// NewManager creates a task manager reading time from clk.
func NewManager(clk *clock.Clock) *Manager {
	m := &Manager{
		clock: clk,
		tasks: make([]*Handle, 0),
	}
	m.commands = newCommands(m)
	return m
}

// Clock returns the clock the manager reads frame time from.
func (m *Manager) Clock() *clock.Clock {
	return m.clock
}

// AddTask registers a task implementation under name.
func (m *Manager) AddTask(name string, t Task) *Handle {
	h := newHandle(name, t)
	if m.stepping {
		m.commands.adds = append(m.commands.adds, addCommand{handle: h})
	} else {
		m.insert(h)
	}
	return h
}

// Add registers a function or closure under name.
func (m *Manager) Add(name string, fn Func) *Handle {
	return m.AddTask(name, fn)
}

// AddGeneric registers fn under name; data is passed back on every call.
func (m *Manager) AddGeneric(name string, fn GenericFunc, data any) *Handle {
	return m.AddTask(name, &genericTask{fn: fn, data: data})
}

func (m *Manager) insert(h *Handle) {
	if h.state != Scheduled {
		return
	}
	h.manager = m
	m.tasks = append(m.tasks, h)
	slog.Debug("task added", "name", h.name)
}

// Remove cancels every live task registered under name and returns how many
// were cancelled.
func (m *Manager) Remove(name string) int {
	count := 0
	for _, h := range m.tasks {
		if h.name != name || h.state == Finished || h.state == Cancelled {
			continue
		}
		h.Remove()
		count++
	}
	if count > 0 {
		slog.Debug("task removed", "name", name, "count", count)
	}
	return count
}

// Find returns the first live task registered under name, or nil.
func (m *Manager) Find(name string) *Handle {
	for _, h := range m.tasks {
		if h.name == name && (h.state == Scheduled || h.state == Running) {
			return h
		}
	}
	return nil
}

// Tasks returns the live tasks in registration order.
func (m *Manager) Tasks() []*Handle {
	live := make([]*Handle, 0, len(m.tasks))
	for _, h := range m.tasks {
		if h.state == Scheduled || h.state == Running {
			live = append(live, h)
		}
	}
	return live
}

// Len returns the number of live tasks.
func (m *Manager) Len() int {
	return len(m.Tasks())
}

// Step runs every scheduled task once using the clock's current frame time,
// then applies queued commands and drops retired tasks.
func (m *Manager) Step() {
	now := m.clock.FrameTime()
	dt := m.clock.Dt()

	m.stepping = true
	for _, h := range m.tasks {
		if h.state != Scheduled {
			continue
		}

		if !h.started {
			h.started = true
			h.startTime = now
		}

		m.frame = Frame{
			Name:        h.name,
			ElapsedTime: now - h.startTime,
			DeltaTime:   dt,
			FrameTime:   now,
			FrameCount:  h.stats.executionCount + 1,
			Commands:    m.commands,
		}

		h.state = Running
		start := time.Now()
		status := h.task.Execute(&m.frame)
		duration := time.Since(start)

		stats := &h.stats
		stats.executionCount++
		stats.lastDuration = duration
		stats.totalDuration += duration
		if duration < stats.minDuration {
			stats.minDuration = duration
		}
		if duration > stats.maxDuration {
			stats.maxDuration = duration
		}

		// The task may have been cancelled from inside its own Execute.
		if h.state != Running {
			continue
		}
		if status == Done {
			h.state = Finished
			m.retired++
			slog.Debug("task finished", "name", h.name)
		} else {
			h.state = Scheduled
		}
	}
	m.stepping = false

	m.commands.flush(m)
	m.sweep()
}

func (m *Manager) sweep() {
	live := m.tasks[:0]
	for _, h := range m.tasks {
		if h.state == Scheduled || h.state == Running {
			live = append(live, h)
		}
	}
	clear(m.tasks[len(live):])
	m.tasks = live
}

// Run ticks the clock and steps the manager at the given interval until the
// context is cancelled.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.clock.Tick()
			m.Step()
		}
	}
}

// Close cancels every task. The manager can be reused afterwards.
func (m *Manager) Close() {
	for _, h := range m.tasks {
		h.Remove()
	}
	for _, cmd := range m.commands.adds {
		cmd.handle.state = Cancelled
	}
	m.commands.adds = m.commands.adds[:0]
	m.commands.removes = m.commands.removes[:0]
	m.commands.defers = m.commands.defers[:0]
	m.tasks = m.tasks[:0]
}

// GetStats returns statistics about live tasks.
func (m *Manager) GetStats() *ManagerStats {
	live := m.Tasks()
	stats := &ManagerStats{
		TaskCount:    len(live),
		RetiredCount: m.retired,
		Tasks:        make([]TaskStats, len(live)),
	}

	var totalExecs int64
	for i, h := range live {
		internal := h.stats
		avgDuration := time.Duration(0)
		minDuration := time.Duration(0)
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
			minDuration = internal.minDuration
		}

		stats.Tasks[i] = TaskStats{
			Name:           h.name,
			State:          h.state,
			ExecutionCount: internal.executionCount,
			MinDuration:    minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
		totalExecs += internal.executionCount
	}

	stats.TotalExecutions = totalExecs
	return stats
}
