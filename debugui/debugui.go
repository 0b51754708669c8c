// Package debugui draws Dear ImGui inspection windows over a running scene:
// task timings, the scene graph and playing intervals.
package debugui

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/AllenDang/cimgui-go/implot"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/pandawalk/clock"
	"github.com/plus3/pandawalk/interval"
	"github.com/plus3/pandawalk/scene"
	"github.com/plus3/pandawalk/task"
)

// InputState tracks whether ImGui is consuming mouse or keyboard input.
type InputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// Overlay owns the ImGui ebiten backend and the render functions drawn each
// frame.
type Overlay struct {
	backend     *ebitenbackend.EbitenBackend
	destroyPlot func()
	items       []func()
	input       InputState
}

// NewOverlay creates the ImGui backend and its window, along with the ImPlot
// context the task stats plots need.
func NewOverlay(title string, width, height int) *Overlay {
	backend := ebitenbackend.NewEbitenBackend()
	backend.CreateWindow(title, width, height)
	imgui.CurrentIO().SetIniFilename("")

	// The backend only runs its context hooks from Run, which the frame loop
	// never calls.
	return &Overlay{backend: backend, destroyPlot: CreatePlotContext()}
}

// CreatePlotContext creates an ImPlot context for the current ImGui context.
// The returned func destroys it.
func CreatePlotContext() (destroy func()) {
	ctx := implot.CreateContext()
	implot.SetCurrentContext(ctx)
	return func() { implot.DestroyContextV(ctx) }
}

// Close destroys the ImPlot context.
func (o *Overlay) Close() {
	if o.destroyPlot != nil {
		o.destroyPlot()
		o.destroyPlot = nil
	}
}

// Add registers a render function called once per frame inside the ImGui
// frame.
func (o *Overlay) Add(render func()) {
	o.items = append(o.items, render)
}

// Input returns the capture state as of the last frame.
func (o *Overlay) Input() InputState {
	return o.input
}

// Task returns the per-frame task that updates the input state and queues
// every render function to run once the frame's tasks have finished.
func (o *Overlay) Task() task.Func {
	return func(frame *task.Frame) task.DoneStatus {
		io := imgui.CurrentIO()
		o.input.WantCaptureMouse = io.WantCaptureMouse()
		o.input.WantCaptureKeyboard = io.WantCaptureKeyboard()

		for _, render := range o.items {
			frame.Commands.Defer(render)
		}
		return task.Cont
	}
}

// BeginFrame starts an ImGui frame; call it before stepping tasks.
func (o *Overlay) BeginFrame() {
	o.backend.BeginFrame()
}

// EndFrame finishes the ImGui frame started by BeginFrame.
func (o *Overlay) EndFrame() {
	o.backend.EndFrame()
}

// Draw renders the ImGui frame on top of screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	o.backend.Draw(screen)
}

// Layout forwards the window size to the backend.
func (o *Overlay) Layout(width, height int) {
	o.backend.Layout(width, height)
}

// Sources are the engine services the standard windows inspect.
type Sources struct {
	Clock     *clock.Clock
	Tasks     *task.Manager
	Intervals *interval.Manager
	Graph     *scene.Graph
}

// Install adds the task stats, scene browser and interval windows.
func Install(o *Overlay, src Sources) {
	stats := NewTaskStatsWindow(120)
	browser := NewSceneBrowser(50)
	intervals := &IntervalWindow{}

	o.Add(func() { stats.Render(src.Tasks, float32(src.Clock.Dt())) })
	o.Add(func() { browser.Render(src.Graph) })
	o.Add(func() { intervals.Render(src.Intervals) })
}
