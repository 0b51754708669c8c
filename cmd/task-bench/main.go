package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/pandawalk/framework"
	"github.com/plus3/pandawalk/scene"
	"github.com/plus3/pandawalk/tutorial"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the benchmark should run for.")
	spinners := flag.Int("spinners", 1000, "The number of nodes orbiting the origin, one task each.")
	pacers := flag.Int("pacers", 1000, "The number of nodes looping the panda pace.")
	actors := flag.Int("actors", 10, "The number of walking pandas.")
	frameDt := flag.Float64("dt", 1.0/60, "The simulated seconds per frame.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	cfg := framework.DefaultConfig()
	cfg.ClockMode = "non-real-time"
	cfg.FrameDt = *frameDt
	if err := cfg.SetupLogging(os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := run(cfg, *duration, *spinners, *pacers, *actors, *gcPauseMetrics); err != nil {
		slog.Error("benchmark failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg framework.Config, duration time.Duration, spinners, pacers, actors int, gcPauseMetrics bool) error {
	slog.Info("starting task benchmark")

	fw, err := framework.Open(cfg)
	if err != nil {
		return err
	}
	defer fw.Close()

	win, err := fw.OpenWindow()
	if err != nil {
		return err
	}

	slog.Info("populating scene", "spinners", spinners, "pacers", pacers, "actors", actors)
	populate(fw, win, spinners, pacers)
	for range actors {
		panda, err := win.LoadModel(win.Render(), "models/panda-model")
		if err != nil {
			return err
		}
		if _, err := win.LoadAnimation(panda, "models/panda-walk4"); err != nil {
			return err
		}
	}
	win.LoopAnimations()

	report := &Report{
		Duration:       duration,
		FrameDt:        cfg.FrameDt,
		Spinners:       spinners,
		Pacers:         pacers,
		Actors:         actors,
		Nodes:          fw.Graph().Len(),
		GCPauseMetrics: gcPauseMetrics,
		StepTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	slog.Info("running frames", "duration", duration)
	ctx, cancel := context.WithTimeout(context.Background(), duration)
	defer cancel()

	startTime := time.Now()
	var totalFrames int64

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			stepStart := time.Now()
			fw.Step()
			report.StepTime.Samples = append(report.StepTime.Samples, time.Since(stepStart))
			totalFrames++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.TotalFrames = totalFrames
	report.SimulatedTime = fw.Clock().FrameTime()
	report.StepTime.Finalize()
	report.collectTasks(fw.Tasks().GetStats())
	runtime.ReadMemStats(&report.MemStatsEnd)

	slog.Info("benchmark finished", "frames", totalFrames)

	fmt.Println("\n\n--- Task Benchmark Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		return err
	}
	fmt.Println("--- End of Report ---")
	return nil
}

// populate adds spinners nodes on widening orbits, each with its own task,
// and pacers nodes looping the panda pace.
func populate(fw *framework.Framework, win *framework.Window, spinners, pacers int) {
	box := scene.Box(mgl64.Vec3{-1, -1, -1}, mgl64.Vec3{1, 1, 1})

	for i := range spinners {
		np := win.Render().AttachNewNode(fmt.Sprintf("spinner-%d", i))
		np.SetGeometry(box)
		params := tutorial.DefaultSpin()
		params.Radius += float64(i % 50)
		params.Rate += float64(i % 7)
		fw.Tasks().AddTask(fmt.Sprintf("spin-%d", i), &tutorial.SpinCamera{Camera: np, Params: params})
	}

	for i := range pacers {
		np := win.Render().AttachNewNode(fmt.Sprintf("pacer-%d", i))
		np.SetGeometry(box)
		fw.Intervals().Loop(tutorial.PandaPace(np))
	}
	fw.Tasks().Add("intervals", tutorial.StepIntervals(fw.Intervals()))
}
