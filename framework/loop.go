package framework

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/pkg/errors"
	"github.com/plus3/pandawalk/debugui"
	"github.com/plus3/pandawalk/render"
)

// game adapts the framework to ebiten's Game interface.
type game struct {
	fw       *Framework
	renderer *render.Renderer
	overlay  *debugui.Overlay
}

func (g *game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	if g.overlay != nil {
		g.overlay.BeginFrame()
	}
	g.fw.Step()
	if g.overlay != nil {
		g.overlay.EndFrame()
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	w := g.fw.window
	g.renderer.Draw(screen, g.fw.graph, w.camera)

	if g.overlay != nil {
		g.overlay.Draw(screen)
		return
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf("%.0f FPS  %d edges", ebiten.ActualFPS(), g.renderer.LastSegmentCount()))
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.overlay != nil {
		g.overlay.Layout(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// MainLoop runs the window until it is closed or Escape is pressed.
func (fw *Framework) MainLoop() error {
	if fw.window == nil {
		return errors.New("no window is open")
	}

	bg := fw.cfg.Background
	renderer := render.NewRenderer()
	renderer.Background = color.RGBA{bg[0], bg[1], bg[2], 255}
	g := &game{fw: fw, renderer: renderer}

	if fw.cfg.DebugUI {
		g.overlay = debugui.NewOverlay(fw.window.title, fw.cfg.Width, fw.cfg.Height)
		debugui.Install(g.overlay, debugui.Sources{
			Clock:     fw.clock,
			Tasks:     fw.tasks,
			Intervals: fw.intervals,
			Graph:     fw.graph,
		})
		fw.tasks.Add("debugui", g.overlay.Task())
		defer g.overlay.Close()
	} else {
		ebiten.SetWindowSize(fw.cfg.Width, fw.cfg.Height)
		ebiten.SetWindowTitle(fw.window.title)
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(g); err != nil {
		return errors.Wrap(err, "main loop failed")
	}
	return nil
}
