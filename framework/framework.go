// Package framework opens a window onto a scene graph and drives the frame
// loop: every frame the clock ticks, registered tasks run in order and the
// scene is drawn.
package framework

import (
	"log/slog"

	"github.com/pkg/errors"
	"github.com/plus3/pandawalk/anim"
	"github.com/plus3/pandawalk/clock"
	"github.com/plus3/pandawalk/interval"
	"github.com/plus3/pandawalk/loader"
	"github.com/plus3/pandawalk/scene"
	"github.com/plus3/pandawalk/task"
)

// Framework owns the engine services shared by every window.
type Framework struct {
	cfg        Config
	title      string
	clock      *clock.Clock
	tasks      *task.Manager
	intervals  *interval.Manager
	animations *anim.Player
	graph      *scene.Graph
	models     scene.NodePath
	loader     *loader.Loader
	window     *Window
	closed     bool
}

// Open creates the engine services described by cfg.
func Open(cfg Config) (*Framework, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "failed to open framework")
	}
	clk, err := cfg.NewClock()
	if err != nil {
		return nil, err
	}

	graph := scene.NewGraph()
	fw := &Framework{
		cfg:        cfg,
		title:      cfg.WindowTitle,
		clock:      clk,
		tasks:      task.NewManager(clk),
		intervals:  interval.NewManager(clk),
		animations: anim.NewPlayer(),
		graph:      graph,
		models:     graph.NewNode("models"),
		loader:     loader.New(cfg.ModelPath...),
	}
	slog.Debug("framework opened", "clock", clk.Mode(), "model_path", cfg.ModelPath)
	return fw, nil
}

// Config returns the settings the framework was opened with.
func (fw *Framework) Config() Config { return fw.cfg }

// Clock returns the frame clock.
func (fw *Framework) Clock() *clock.Clock { return fw.clock }

// Tasks returns the per-frame task manager.
func (fw *Framework) Tasks() *task.Manager { return fw.tasks }

// Intervals returns the interval manager. Nothing steps it unless a task does.
func (fw *Framework) Intervals() *interval.Manager { return fw.intervals }

// Animations returns the animation player.
func (fw *Framework) Animations() *anim.Player { return fw.animations }

// Graph returns the scene graph.
func (fw *Framework) Graph() *scene.Graph { return fw.graph }

// Models returns the detached node that newly loaded models are parented to.
func (fw *Framework) Models() scene.NodePath { return fw.models }

// Loader returns the model loader.
func (fw *Framework) Loader() *loader.Loader { return fw.loader }

// Title returns the window title.
func (fw *Framework) Title() string { return fw.title }

// SetWindowTitle sets the title used by windows opened afterwards.
func (fw *Framework) SetWindowTitle(title string) {
	fw.title = title
}

// OpenWindow creates the window with its camera and registers the
// animation task. A framework has a single window; later calls return it.
func (fw *Framework) OpenWindow() (*Window, error) {
	if fw.closed {
		return nil, errors.New("framework is closed")
	}
	if fw.window != nil {
		return fw.window, nil
	}

	render := fw.graph.Root()
	camera := render.AttachNewNode("camera")
	fw.window = &Window{
		fw:     fw,
		title:  fw.title,
		render: render,
		camera: camera,
		actors: make(map[scene.NodeId]*anim.Actor),
	}
	fw.tasks.Add("animations", fw.animations.Task())

	slog.Debug("window opened", "title", fw.title, "width", fw.cfg.Width, "height", fw.cfg.Height)
	return fw.window, nil
}

// Window returns the open window, or nil.
func (fw *Framework) Window() *Window {
	return fw.window
}

// Step runs one frame without drawing: the clock ticks and every task runs.
func (fw *Framework) Step() {
	fw.clock.Tick()
	fw.tasks.Step()
}

// RunFrames steps n frames headlessly.
func (fw *Framework) RunFrames(n int) {
	for range n {
		fw.Step()
	}
}

// Close cancels every task and stops every interval.
func (fw *Framework) Close() {
	if fw.closed {
		return
	}
	fw.closed = true
	fw.tasks.Close()
	fw.intervals.Close()
	slog.Debug("framework closed", "frames", fw.clock.FrameCount())
}
