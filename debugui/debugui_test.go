package debugui_test

import (
	"testing"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/AllenDang/cimgui-go/implot"
	"github.com/plus3/pandawalk/debugui"
	"github.com/plus3/pandawalk/scene"
	"github.com/plus3/pandawalk/task"
	"github.com/stretchr/testify/assert"
)

func TestHistory(t *testing.T) {
	h := debugui.NewHistory(3)
	assert.Equal(t, float32(0), h.Average())

	h.Push(1)
	h.Push(2)
	assert.Equal(t, []float32{0, 1, 2}, h.Ordered(), "oldest first, padded until full")
	assert.Equal(t, float32(1.5), h.Average())

	h.Push(3)
	h.Push(4)
	assert.Equal(t, []float32{2, 3, 4}, h.Ordered())
	assert.Equal(t, float32(3), h.Average())
}

func TestTaskStatsRecord(t *testing.T) {
	w := debugui.NewTaskStatsWindow(4)
	w.Record(&task.ManagerStats{Tasks: []task.TaskStats{
		{Name: "SpinCameraTask", LastDuration: 2 * time.Millisecond},
	}}, 0.016)
	assert.Equal(t, []string{"SpinCameraTask"}, w.Tracked())

	w.Record(&task.ManagerStats{Tasks: []task.TaskStats{{Name: "intervals"}}}, 0.016)
	assert.Equal(t, []string{"intervals"}, w.Tracked(), "removed tasks are dropped")
}

func TestCollectNodes(t *testing.T) {
	g := scene.NewGraph()
	env := g.Root().AttachNewNode("environment")
	env.AttachNewNode("ground").SetGeometry(scene.Grid(10, 2))
	panda := g.Root().AttachNewNode("panda-model")
	panda.AttachNewNode("Body")

	all := debugui.CollectNodes(g, "")
	paths := make([]string, len(all))
	for i, n := range all {
		paths[i] = n.Path
	}
	assert.Equal(t, []string{
		"/render",
		"/render/environment",
		"/render/environment/ground",
		"/render/panda-model",
		"/render/panda-model/Body",
	}, paths)
	assert.Equal(t, 2, all[2].Depth)
	assert.Equal(t, 6, all[2].Edges)
	assert.Equal(t, 2, all[0].Children)

	filtered := debugui.CollectNodes(g, "PANDA")
	assert.Len(t, filtered, 2)
	assert.Equal(t, panda, filtered[0].Node)
}

func TestCreatePlotContext(t *testing.T) {
	gui := imgui.CreateContext()
	defer imgui.DestroyContextV(gui)

	destroy := debugui.CreatePlotContext()
	assert.NotNil(t, implot.GetCurrentContext().CData, "plots have a context to draw into")

	destroy()
	assert.Nil(t, implot.GetCurrentContext().CData)
}
