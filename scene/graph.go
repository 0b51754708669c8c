// Package scene implements the scene graph: a tree of named nodes, each with a
// local position, heading/pitch/roll orientation and scale, and optional
// wireframe geometry.
//
// Nodes are owned by a Graph and addressed through NodePath handles. A
// NodePath never owns its node; it stays valid until the node (or one of its
// ancestors) is removed from the graph.
package scene

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/kamstrup/intmap"
)

// NodeId identifies a node within its Graph. Ids are never reused, so a stale
// handle can always be detected.
type NodeId uint64

type node struct {
	id       NodeId
	name     string
	parent   NodeId
	children []NodeId
	pos      mgl64.Vec3
	hpr      mgl64.Vec3
	scale    mgl64.Vec3
	geometry *Geometry
}

// Graph owns every node reachable from its root.
type Graph struct {
	nodes  *intmap.Map[NodeId, *node]
	nextId NodeId
	root   NodeId
}

// GraphStats summarizes the contents of a graph.
type GraphStats struct {
	NodeCount     int
	GeometryNodes int
	VertexCount   int
	EdgeCount     int
}

// NewGraph creates a graph with a single root node named "render".
func NewGraph() *Graph {
	g := &Graph{
		nodes: intmap.New[NodeId, *node](64),
	}
	g.root = g.newNode("render", 0).id
	return g
}

// Root returns the handle of the graph's root node.
func (g *Graph) Root() NodePath {
	return NodePath{graph: g, id: g.root}
}

// NewNode creates a node that is not attached anywhere. It stays out of
// traversals until it is reparented under the root or one of its descendants.
func (g *Graph) NewNode(name string) NodePath {
	return NodePath{graph: g, id: g.newNode(name, 0).id}
}

// Len returns the number of live nodes, detached ones included.
func (g *Graph) Len() int {
	return g.nodes.Len()
}

// Walk visits every node below from (inclusive) depth-first, in child order,
// passing the node's net transform. Returning false from fn skips the node's
// children.
func (g *Graph) Walk(from NodePath, fn func(np NodePath, net mgl64.Mat4) bool) {
	if from.graph != g || !from.Valid() {
		return
	}

	var parentNet mgl64.Mat4
	if n := g.get(from.id); n.parent != 0 {
		parentNet = NodePath{graph: g, id: n.parent}.NetTransform()
	} else {
		parentNet = mgl64.Ident4()
	}
	g.walk(from.id, parentNet, fn)
}

func (g *Graph) walk(id NodeId, parentNet mgl64.Mat4, fn func(NodePath, mgl64.Mat4) bool) {
	n := g.get(id)
	net := parentNet.Mul4(n.localTransform())
	if !fn(NodePath{graph: g, id: id}, net) {
		return
	}

	for _, child := range n.children {
		g.walk(child, net, fn)
	}
}

// Stats walks the graph from the root and counts nodes and geometry.
func (g *Graph) Stats() GraphStats {
	var stats GraphStats
	g.Walk(g.Root(), func(np NodePath, _ mgl64.Mat4) bool {
		stats.NodeCount++
		if geom := g.get(np.id).geometry; geom != nil {
			stats.GeometryNodes++
			stats.VertexCount += len(geom.Vertices)
			stats.EdgeCount += len(geom.Edges)
		}
		return true
	})
	return stats
}

func (g *Graph) newNode(name string, parent NodeId) *node {
	g.nextId++
	n := &node{
		id:     g.nextId,
		name:   name,
		parent: parent,
		scale:  mgl64.Vec3{1, 1, 1},
	}
	g.nodes.Put(n.id, n)

	if parent != 0 {
		p := g.get(parent)
		p.children = append(p.children, n.id)
	}
	return n
}

func (g *Graph) get(id NodeId) *node {
	n, ok := g.nodes.Get(id)
	if !ok {
		return nil
	}
	return n
}

func (g *Graph) isAncestor(ancestor, id NodeId) bool {
	for cur := id; cur != 0; cur = g.get(cur).parent {
		if cur == ancestor {
			return true
		}
	}
	return false
}

func (g *Graph) detach(n *node) {
	if n.parent == 0 {
		return
	}

	p := g.get(n.parent)
	for i, child := range p.children {
		if child == n.id {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	n.parent = 0
}

func (g *Graph) remove(id NodeId) {
	n := g.get(id)
	for _, child := range n.children {
		g.remove(child)
	}
	n.children = nil
	g.nodes.Del(id)
}

func (n *node) localTransform() mgl64.Mat4 {
	return ComposeTransform(n.pos, n.hpr, n.scale)
}
