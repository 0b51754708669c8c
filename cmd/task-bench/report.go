package main

import (
	"io"
	"runtime"
	"sort"
	"text/template"
	"time"

	"github.com/plus3/pandawalk/task"
)

// slowestTasks caps the per-task table in the report.
const slowestTasks = 10

type Report struct {
	// Configuration
	Duration time.Duration
	FrameDt  float64
	Spinners int
	Pacers   int
	Actors   int
	Nodes    int

	// Results
	TotalFrames    int64
	TotalTime      time.Duration
	SimulatedTime  float64
	StepTime       Stats
	TaskCount      int
	Slowest        []task.TaskStats
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	P99     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		if sample < s.Min {
			s.Min = sample
		}
		if sample > s.Max {
			s.Max = sample
		}
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))

	sorted := append([]time.Duration(nil), s.Samples...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	s.P99 = sorted[len(sorted)*99/100]
}

// collectTasks keeps the tasks with the largest total run time.
func (r *Report) collectTasks(stats *task.ManagerStats) {
	r.TaskCount = stats.TaskCount
	tasks := append([]task.TaskStats(nil), stats.Tasks...)
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].TotalDuration > tasks[j].TotalDuration
	})
	r.Slowest = tasks[:min(len(tasks), slowestTasks)]
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Task Benchmark Report

## Configuration
- **Run Duration:** {{.Duration}}
- **Frame Step:** {{printf "%.4f" .FrameDt}}s
- **Spinning Nodes:** {{.Spinners}}
- **Pacing Nodes:** {{.Pacers}}
- **Walking Pandas:** {{.Actors}}
- **Scene Nodes:** {{.Nodes}}

## Performance Results
- **Total Frames:** {{.TotalFrames}}
- **Total Time:** {{.TotalTime}}
- **Simulated Time:** {{printf "%.2f" .SimulatedTime}}s
- **Step Time (Frame):**
  - **Avg:** {{.StepTime.Avg}}
  - **Min:** {{.StepTime.Min}}
  - **Max:** {{.StepTime.Max}}
  - **P99:** {{.StepTime.P99}}

## Slowest Tasks ({{len .Slowest}} of {{.TaskCount}})
{{range .Slowest}}- {{.Name}}: {{.ExecutionCount}} runs, avg {{.AvgDuration}}, max {{.MaxDuration}}, total {{.TotalDuration}}
{{end}}
## Memory Usage
- Heap Alloc:     {{mb .MemStatsStart.HeapAlloc}} MiB (start) -> {{mb .MemStatsEnd.HeapAlloc}} MiB (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Sys Memory:     {{.MemStatsStart.Sys}} (start) -> {{.MemStatsEnd.Sys}} (end) -> delta: {{bsub .MemStatsEnd.Sys .MemStatsStart.Sys}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}

{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
- **Num GC Cycles:** {{ usub .MemStatsEnd.NumGC .MemStatsStart.NumGC }}
{{end}}
`

	fm := template.FuncMap{
		"mb": func(v uint64) float64 {
			return float64(v) / 1024 / 1024
		},
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
