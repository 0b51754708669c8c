package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// NodePath is a borrowed handle to one node of a Graph. The zero value is the
// empty path. Methods that read or write a node panic when the handle is
// empty or its node has been removed.
type NodePath struct {
	graph *Graph
	id    NodeId
}

// IsEmpty reports whether the path refers to no node at all.
func (np NodePath) IsEmpty() bool {
	return np.graph == nil || np.id == 0
}

// Valid reports whether the node still exists in its graph.
func (np NodePath) Valid() bool {
	return !np.IsEmpty() && np.graph.get(np.id) != nil
}

// Id returns the node id, or 0 for the empty path.
func (np NodePath) Id() NodeId {
	return np.id
}

// Graph returns the graph the node belongs to.
func (np NodePath) Graph() *Graph {
	return np.graph
}

func (np NodePath) String() string {
	if !np.Valid() {
		return "**removed**"
	}
	return np.node().name
}

func (np NodePath) node() *node {
	if np.IsEmpty() {
		panic("scene: operation on empty NodePath")
	}
	n := np.graph.get(np.id)
	if n == nil {
		panic(fmt.Sprintf("scene: operation on removed node %d", np.id))
	}
	return n
}

// Name returns the node name.
func (np NodePath) Name() string {
	return np.node().name
}

// SetName renames the node.
func (np NodePath) SetName(name string) {
	np.node().name = name
}

// AttachNewNode creates a new child node.
func (np NodePath) AttachNewNode(name string) NodePath {
	np.node()
	return NodePath{graph: np.graph, id: np.graph.newNode(name, np.id).id}
}

// ReparentTo moves the node under parent, keeping its local transform.
// Reparenting a node under itself or one of its descendants panics.
func (np NodePath) ReparentTo(parent NodePath) {
	n := np.node()
	p := parent.node()
	if parent.graph != np.graph {
		panic("scene: cannot reparent across graphs")
	}
	if np.graph.isAncestor(n.id, p.id) {
		panic(fmt.Sprintf("scene: reparenting %q under %q would create a cycle", n.name, p.name))
	}

	np.graph.detach(n)
	n.parent = p.id
	p.children = append(p.children, n.id)
}

// DetachNode unparents the node without removing it from the graph.
func (np NodePath) DetachNode() {
	np.graph.detach(np.node())
}

// RemoveNode deletes the node and its whole subtree. Every handle to a
// removed node becomes invalid.
func (np NodePath) RemoveNode() {
	n := np.node()
	if n.id == np.graph.root {
		panic("scene: cannot remove the root node")
	}
	np.graph.detach(n)
	np.graph.remove(n.id)
}

// Parent returns the parent node, or the empty path for root and detached nodes.
func (np NodePath) Parent() NodePath {
	n := np.node()
	if n.parent == 0 {
		return NodePath{}
	}
	return NodePath{graph: np.graph, id: n.parent}
}

// Children returns the direct children in attachment order.
func (np NodePath) Children() []NodePath {
	n := np.node()
	children := make([]NodePath, len(n.children))
	for i, id := range n.children {
		children[i] = NodePath{graph: np.graph, id: id}
	}
	return children
}

// Find returns the first descendant (depth-first) with the given name, or the
// empty path when none matches.
func (np NodePath) Find(name string) NodePath {
	for _, child := range np.node().children {
		cp := NodePath{graph: np.graph, id: child}
		if cp.node().name == name {
			return cp
		}
		if found := cp.Find(name); !found.IsEmpty() {
			return found
		}
	}
	return NodePath{}
}

// SetPos sets the position relative to the parent.
func (np NodePath) SetPos(x, y, z float64) {
	np.node().pos = mgl64.Vec3{x, y, z}
}

// Pos returns the position relative to the parent.
func (np NodePath) Pos() mgl64.Vec3 {
	return np.node().pos
}

// SetHpr sets heading, pitch and roll in degrees.
func (np NodePath) SetHpr(h, p, r float64) {
	np.node().hpr = mgl64.Vec3{h, p, r}
}

// Hpr returns heading, pitch and roll in degrees, exactly as last set.
func (np NodePath) Hpr() mgl64.Vec3 {
	return np.node().hpr
}

// SetPosHpr sets position and orientation together.
func (np NodePath) SetPosHpr(pos, hpr mgl64.Vec3) {
	n := np.node()
	n.pos = pos
	n.hpr = hpr
}

// SetQuat sets the orientation from a rotation quaternion.
func (np NodePath) SetQuat(q mgl64.Quat) {
	np.node().hpr = QuatToHpr(q)
}

// Quat returns the orientation as a quaternion.
func (np NodePath) Quat() mgl64.Quat {
	return HprToQuat(np.node().hpr)
}

// SetScale sets a uniform scale.
func (np NodePath) SetScale(s float64) {
	np.node().scale = mgl64.Vec3{s, s, s}
}

// SetScaleXYZ sets a per-axis scale.
func (np NodePath) SetScaleXYZ(x, y, z float64) {
	np.node().scale = mgl64.Vec3{x, y, z}
}

// Scale returns the per-axis scale.
func (np NodePath) Scale() mgl64.Vec3 {
	return np.node().scale
}

// Transform returns the local transform matrix.
func (np NodePath) Transform() mgl64.Mat4 {
	return np.node().localTransform()
}

// SetTransform sets position, orientation and scale from a matrix without
// shear.
func (np NodePath) SetTransform(m mgl64.Mat4) {
	n := np.node()
	n.pos, n.hpr, n.scale = DecomposeTransform(m)
}

// NetTransform returns the transform from the node's space to the space of
// its topmost ancestor.
func (np NodePath) NetTransform() mgl64.Mat4 {
	n := np.node()
	net := n.localTransform()
	for cur := n.parent; cur != 0; {
		p := np.graph.get(cur)
		net = p.localTransform().Mul4(net)
		cur = p.parent
	}
	return net
}

// SetGeometry attaches wireframe geometry to the node. Nil clears it.
func (np NodePath) SetGeometry(geom *Geometry) {
	np.node().geometry = geom
}

// Geometry returns the node's geometry, or nil.
func (np NodePath) Geometry() *Geometry {
	return np.node().geometry
}
