package debugui

import (
	"fmt"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/pandawalk/scene"
)

// NodeInfo is one row of the scene browser.
type NodeInfo struct {
	Node     scene.NodePath
	Path     string
	Depth    int
	Children int
	Edges    int
}

// CollectNodes lists the nodes under the graph root depth first. A non-empty
// filter keeps nodes whose path contains it, ignoring case.
func CollectNodes(g *scene.Graph, filter string) []NodeInfo {
	filter = strings.ToLower(filter)

	var nodes []NodeInfo
	var visit func(np scene.NodePath, prefix string, depth int)
	visit = func(np scene.NodePath, prefix string, depth int) {
		path := prefix + "/" + np.Name()
		children := np.Children()

		edges := 0
		if geom := np.Geometry(); geom != nil {
			edges = len(geom.Edges)
		}

		if filter == "" || strings.Contains(strings.ToLower(path), filter) {
			nodes = append(nodes, NodeInfo{
				Node:     np,
				Path:     path,
				Depth:    depth,
				Children: len(children),
				Edges:    edges,
			})
		}
		for _, c := range children {
			visit(c, path, depth+1)
		}
	}
	visit(g.Root(), "", 0)
	return nodes
}

// SceneBrowser lists scene nodes and edits the transform of the selected one.
type SceneBrowser struct {
	filterText  string
	selected    scene.NodePath
	nodes       []NodeInfo
	lastLen     int
	lastFilter  string
	pageSize    int
	currentPage int
}

// NewSceneBrowser shows pageSize nodes per page.
func NewSceneBrowser(pageSize int) *SceneBrowser {
	return &SceneBrowser{pageSize: pageSize, lastLen: -1}
}

// Selected returns the selected node, or the empty path.
func (sb *SceneBrowser) Selected() scene.NodePath {
	return sb.selected
}

func (sb *SceneBrowser) refresh(g *scene.Graph) {
	if g.Len() == sb.lastLen && sb.filterText == sb.lastFilter {
		return
	}
	sb.nodes = CollectNodes(g, sb.filterText)
	sb.lastLen = g.Len()
	sb.lastFilter = sb.filterText
	sb.currentPage = 0
	if !sb.selected.IsEmpty() && !sb.selected.Valid() {
		sb.selected = scene.NodePath{}
	}
}

// Render draws the browser window.
func (sb *SceneBrowser) Render(g *scene.Graph) {
	imgui.SetNextWindowPosV(imgui.NewVec2(440, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(380, 420), imgui.CondOnce)
	if !imgui.BeginV("Scene", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.InputTextWithHint("##search", "Search...", &sb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		sb.filterText = ""
	}
	sb.refresh(g)

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsScrollY
	if imgui.BeginTableV("NodeTable", 3, tableFlags, imgui.NewVec2(0, 220), 0) {
		imgui.TableSetupColumn("Node")
		imgui.TableSetupColumn("Children")
		imgui.TableSetupColumn("Edges")
		imgui.TableHeadersRow()

		start := sb.currentPage * sb.pageSize
		end := min(start+sb.pageSize, len(sb.nodes))
		for _, info := range sb.nodes[start:end] {
			imgui.TableNextRow()
			imgui.TableNextColumn()
			label := fmt.Sprintf("%s%s##%d", strings.Repeat("  ", info.Depth), info.Node.Name(), info.Node.Id())
			if imgui.SelectableBoolV(label, sb.selected == info.Node, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				sb.selected = info.Node
			}
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", info.Children))
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", info.Edges))
		}
		imgui.EndTable()
	}

	if len(sb.nodes) > sb.pageSize {
		totalPages := (len(sb.nodes) + sb.pageSize - 1) / sb.pageSize
		imgui.Text(fmt.Sprintf("Page %d / %d (%d nodes)", sb.currentPage+1, totalPages, len(sb.nodes)))
		imgui.SameLine()
		if imgui.Button("Prev") && sb.currentPage > 0 {
			sb.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && sb.currentPage < totalPages-1 {
			sb.currentPage++
		}
	} else {
		imgui.Text(fmt.Sprintf("Total: %d nodes", len(sb.nodes)))
	}

	if sb.selected.Valid() {
		imgui.Separator()
		sb.renderInspector(sb.selected)
	}

	imgui.End()
}

func (sb *SceneBrowser) renderInspector(np scene.NodePath) {
	imgui.Text(np.String())

	pos, hpr, scale := np.Pos(), np.Hpr(), np.Scale()
	if editVec3("Pos", &pos) {
		np.SetPos(pos[0], pos[1], pos[2])
	}
	if editVec3("Hpr", &hpr) {
		np.SetHpr(hpr[0], hpr[1], hpr[2])
	}
	if editVec3("Scale", &scale) {
		np.SetScaleXYZ(scale[0], scale[1], scale[2])
	}
}

func editVec3(label string, v *mgl64.Vec3) bool {
	changed := false
	axes := [3]string{"x", "y", "z"}
	imgui.Text(label)
	for i := range 3 {
		f := float32(v[i])
		imgui.SetNextItemWidth(90)
		if imgui.InputFloat(fmt.Sprintf("%s##%s%d", axes[i], label, i), &f) {
			v[i] = float64(f)
			changed = true
		}
		if i < 2 {
			imgui.SameLine()
		}
	}
	return changed
}
