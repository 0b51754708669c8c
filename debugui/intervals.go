package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/pandawalk/interval"
)

// IntervalWindow lists playing intervals with their progress.
type IntervalWindow struct {
	paused []*interval.Playback
}

// Render draws the window. Paused playbacks stay listed so they can be
// resumed.
func (w *IntervalWindow) Render(mgr *interval.Manager) {
	imgui.SetNextWindowPosV(imgui.NewVec2(10, 340), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(420, 180), imgui.CondOnce)
	if !imgui.BeginV("Intervals", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	rows := append(mgr.Playbacks(), w.paused...)
	w.paused = w.paused[:0]

	if len(rows) == 0 {
		imgui.Text("No intervals playing")
	}
	for i, p := range rows {
		ival := p.Interval()
		duration := ival.Duration()
		fraction := float32(1)
		if duration > 0 {
			fraction = float32(p.T() / duration)
		}

		imgui.Text(ival.Name())
		if p.IsLooping() {
			imgui.SameLine()
			imgui.TextColored(imgui.NewVec4(0.6, 0.8, 1.0, 1.0), "loop")
		}
		imgui.ProgressBarV(fraction, imgui.NewVec2(-1, 0), fmt.Sprintf("%.1f/%.1fs", p.T(), duration))

		if p.IsPlaying() {
			if imgui.Button(fmt.Sprintf("Pause##%d", i)) {
				p.Pause()
			}
		} else if imgui.Button(fmt.Sprintf("Resume##%d", i)) {
			p.Resume()
		}
		imgui.SameLine()
		if imgui.Button(fmt.Sprintf("Finish##%d", i)) {
			p.Finish()
		}

		if !p.IsPlaying() && p.T() < duration {
			w.paused = append(w.paused, p)
		}
		imgui.Separator()
	}

	imgui.End()
}
