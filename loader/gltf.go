package loader

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"github.com/plus3/pandawalk/anim"
	"github.com/plus3/pandawalk/scene"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// index reads a glTF index field that may be a plain or an optional value.
func index[T uint32 | *uint32](v T) (uint32, bool) {
	switch x := any(v).(type) {
	case uint32:
		return x, true
	case *uint32:
		if x == nil {
			return 0, false
		}
		return *x, true
	}
	return 0, false
}

// glTF is Y-up and the scene graph is Z-up. Imported roots hang below a
// yUpNode pitched up by 90 degrees; exports wrap the subtree in a zUpNode
// with the inverse rotation.
const (
	yUpNode = "y-up"
	zUpNode = "z-up"
)

// zUpRotation pitches Z-up content down into glTF's Y-up frame, in glTF's
// (x, y, z, w) order.
var zUpRotation = [4]float32{-math.Sqrt2 / 2, 0, 0, math.Sqrt2 / 2}

func buildScene(doc *gltf.Document, root scene.NodePath) error {
	var roots []uint32
	switch {
	case doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes):
		roots = doc.Scenes[*doc.Scene].Nodes
	case len(doc.Scenes) > 0:
		roots = doc.Scenes[0].Nodes
	default:
		roots = orphanNodes(doc)
	}

	// Files written by Export are already Z-up below their wrapper.
	if len(roots) == 1 && isZUpWrapper(doc, roots[0]) {
		for _, c := range doc.Nodes[roots[0]].Children {
			if err := buildNode(doc, c, root, 1); err != nil {
				return err
			}
		}
		return nil
	}

	axis := root.AttachNewNode(yUpNode)
	axis.SetHpr(0, 90, 0)
	for _, idx := range roots {
		if err := buildNode(doc, idx, axis, 0); err != nil {
			return err
		}
	}
	return nil
}

func isZUpWrapper(doc *gltf.Document, idx uint32) bool {
	if int(idx) >= len(doc.Nodes) {
		return false
	}
	n := doc.Nodes[idx]
	if n.Name != zUpNode || n.Mesh != nil || n.Translation != [3]float32{} {
		return false
	}
	for i, v := range n.Rotation {
		if math.Abs(float64(v-zUpRotation[i])) > 1e-6 {
			return false
		}
	}
	return true
}

// orphanNodes returns the nodes no other node lists as a child.
func orphanNodes(doc *gltf.Document) []uint32 {
	isChild := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if int(c) < len(isChild) {
				isChild[c] = true
			}
		}
	}

	var roots []uint32
	for i, child := range isChild {
		if !child {
			roots = append(roots, uint32(i))
		}
	}
	return roots
}

func buildNode(doc *gltf.Document, idx uint32, parent scene.NodePath, depth int) error {
	if int(idx) >= len(doc.Nodes) {
		return errors.Errorf("node index %d out of range", idx)
	}
	if depth > len(doc.Nodes) {
		return errors.New("node hierarchy contains a cycle")
	}

	n := doc.Nodes[idx]
	name := n.Name
	if name == "" {
		name = fmt.Sprintf("node%d", idx)
	}
	np := parent.AttachNewNode(name)

	var m mgl64.Mat4
	for i := range m {
		m[i] = float64(n.Matrix[i])
	}
	if m != mgl64.Ident4() && m != (mgl64.Mat4{}) {
		np.SetTransform(m)
	} else {
		np.SetPos(float64(n.Translation[0]), float64(n.Translation[1]), float64(n.Translation[2]))
		q := mgl64.Quat{
			W: float64(n.Rotation[3]),
			V: mgl64.Vec3{float64(n.Rotation[0]), float64(n.Rotation[1]), float64(n.Rotation[2])},
		}
		if q.Len() > 0 {
			np.SetQuat(q.Normalize())
		}
		s := mgl64.Vec3{float64(n.Scale[0]), float64(n.Scale[1]), float64(n.Scale[2])}
		if s == (mgl64.Vec3{}) {
			s = mgl64.Vec3{1, 1, 1}
		}
		np.SetScaleXYZ(s[0], s[1], s[2])
	}

	if meshIdx, ok := index(n.Mesh); ok {
		geom, err := readMesh(doc, meshIdx)
		if err != nil {
			return errors.Wrapf(err, "node %q", name)
		}
		np.SetGeometry(geom)
	}

	for _, c := range n.Children {
		if err := buildNode(doc, c, np, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func accessor(doc *gltf.Document, idx uint32) (*gltf.Accessor, error) {
	if int(idx) >= len(doc.Accessors) {
		return nil, errors.Errorf("accessor index %d out of range", idx)
	}
	return doc.Accessors[idx], nil
}

func readMesh(doc *gltf.Document, idx uint32) (*scene.Geometry, error) {
	if int(idx) >= len(doc.Meshes) {
		return nil, errors.Errorf("mesh index %d out of range", idx)
	}
	mesh := doc.Meshes[idx]

	geom := &scene.Geometry{}
	for _, prim := range mesh.Primitives {
		posIdx, ok := prim.Attributes["POSITION"]
		if !ok {
			continue
		}
		acr, err := accessor(doc, posIdx)
		if err != nil {
			return nil, err
		}
		positions, err := modeler.ReadPosition(doc, acr, nil)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read positions of mesh %q", mesh.Name)
		}

		vertices := make([]mgl64.Vec3, len(positions))
		for i, p := range positions {
			vertices[i] = mgl64.Vec3{float64(p[0]), float64(p[1]), float64(p[2])}
		}

		var indices []uint32
		if indIdx, ok := index(prim.Indices); ok {
			acr, err := accessor(doc, indIdx)
			if err != nil {
				return nil, err
			}
			indices, err = modeler.ReadIndices(doc, acr, nil)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to read indices of mesh %q", mesh.Name)
			}
		} else {
			indices = make([]uint32, len(vertices))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		switch prim.Mode {
		case gltf.PrimitiveTriangles:
			geom.Append(scene.GeometryFromTriangles(vertices, indices))
		case gltf.PrimitiveLines:
			part := &scene.Geometry{Vertices: vertices}
			for i := 0; i+1 < len(indices); i += 2 {
				part.Edges = append(part.Edges, [2]uint32{indices[i], indices[i+1]})
			}
			geom.Append(part)
		default:
			slog.Debug("skipping primitive", "mesh", mesh.Name, "mode", prim.Mode)
		}
	}
	return geom, nil
}

func readClips(doc *gltf.Document, fallback string) (map[string]*anim.Clip, error) {
	clips := make(map[string]*anim.Clip, len(doc.Animations))
	for i, a := range doc.Animations {
		name := a.Name
		switch {
		case name != "":
		case len(doc.Animations) == 1:
			name = fallback
		default:
			name = fmt.Sprintf("%s%d", fallback, i)
		}

		var channels []anim.Channel
		for _, target := range a.Channels {
			ch, ok, err := readChannel(doc, a, target)
			if err != nil {
				return nil, errors.Wrapf(err, "animation %q", name)
			}
			if ok {
				channels = append(channels, ch)
			}
		}
		clips[name] = anim.NewClip(name, anim.DefaultFrameRate, channels...)
	}
	return clips, nil
}

func readChannel(doc *gltf.Document, a *gltf.Animation, ch *gltf.Channel) (anim.Channel, bool, error) {
	var out anim.Channel

	nodeIdx, ok := index(ch.Target.Node)
	if !ok || int(nodeIdx) >= len(doc.Nodes) {
		return out, false, nil
	}
	out.Joint = doc.Nodes[nodeIdx].Name

	switch ch.Target.Path {
	case gltf.TRSTranslation:
		out.Path = anim.Translation
	case gltf.TRSRotation:
		out.Path = anim.Rotation
	case gltf.TRSScale:
		out.Path = anim.ScalePath
	default:
		return out, false, nil
	}

	samplerIdx, ok := index(ch.Sampler)
	if !ok || int(samplerIdx) >= len(a.Samplers) {
		return out, false, errors.New("channel sampler out of range")
	}
	sampler := a.Samplers[samplerIdx]

	in, _ := index(sampler.Input)
	times, err := readFloats(doc, in)
	if err != nil {
		return out, false, err
	}
	outIdx, _ := index(sampler.Output)
	values, err := readVectors(doc, outIdx)
	if err != nil {
		return out, false, err
	}

	switch sampler.Interpolation {
	case gltf.InterpolationStep:
		out.Interpolation = anim.Step
	case gltf.InterpolationCubicSpline:
		// Keep the keyframe values and drop the tangents.
		keys := make([]mgl64.Vec4, 0, len(values)/3)
		for i := 1; i < len(values); i += 3 {
			keys = append(keys, values[i])
		}
		values = keys
	}

	if len(times) != len(values) {
		return out, false, errors.Errorf("channel of %q has %d times but %d values", out.Joint, len(times), len(values))
	}
	out.Times = times
	out.Values = values
	return out, true, nil
}

func readFloats(doc *gltf.Document, idx uint32) ([]float64, error) {
	acr, err := accessor(doc, idx)
	if err != nil {
		return nil, err
	}
	data, err := modeler.ReadAccessor(doc, acr, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read keyframe times")
	}
	raw, ok := data.([]float32)
	if !ok {
		return nil, errors.Errorf("keyframe times have unsupported type %T", data)
	}

	times := make([]float64, len(raw))
	for i, v := range raw {
		times[i] = float64(v)
	}
	return times, nil
}

func readVectors(doc *gltf.Document, idx uint32) ([]mgl64.Vec4, error) {
	acr, err := accessor(doc, idx)
	if err != nil {
		return nil, err
	}
	data, err := modeler.ReadAccessor(doc, acr, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read keyframe values")
	}

	switch raw := data.(type) {
	case [][3]float32:
		values := make([]mgl64.Vec4, len(raw))
		for i, v := range raw {
			values[i] = mgl64.Vec4{float64(v[0]), float64(v[1]), float64(v[2])}
		}
		return values, nil
	case [][4]float32:
		values := make([]mgl64.Vec4, len(raw))
		for i, v := range raw {
			values[i] = mgl64.Vec4{float64(v[0]), float64(v[1]), float64(v[2]), float64(v[3])}
		}
		return values, nil
	default:
		return nil, errors.Errorf("keyframe values have unsupported type %T", data)
	}
}

// Export writes the subtree rooted at np to path as binary glTF, converted to
// glTF's Y-up axes. Geometry is written as line primitives.
func Export(np scene.NodePath, path string) error {
	doc := gltf.NewDocument()

	var add func(n scene.NodePath) uint32
	add = func(n scene.NodePath) uint32 {
		pos, q, s := n.Pos(), n.Quat(), n.Scale()
		node := &gltf.Node{
			Name:        n.Name(),
			Translation: [3]float32{float32(pos[0]), float32(pos[1]), float32(pos[2])},
			Rotation:    [4]float32{float32(q.V[0]), float32(q.V[1]), float32(q.V[2]), float32(q.W)},
			Scale:       [3]float32{float32(s[0]), float32(s[1]), float32(s[2])},
		}

		if geom := n.Geometry(); geom != nil && len(geom.Edges) > 0 {
			positions := make([][3]float32, len(geom.Vertices))
			for i, v := range geom.Vertices {
				positions[i] = [3]float32{float32(v[0]), float32(v[1]), float32(v[2])}
			}
			indices := make([]uint32, 0, 2*len(geom.Edges))
			for _, e := range geom.Edges {
				indices = append(indices, e[0], e[1])
			}

			posAcc := modeler.WritePosition(doc, positions)
			indAcc := modeler.WriteIndices(doc, indices)
			doc.Meshes = append(doc.Meshes, &gltf.Mesh{
				Name: n.Name(),
				Primitives: []*gltf.Primitive{{
					Indices:    gltf.Index(indAcc),
					Attributes: map[string]uint32{"POSITION": posAcc},
					Mode:       gltf.PrimitiveLines,
				}},
			})
			node.Mesh = gltf.Index(uint32(len(doc.Meshes) - 1))
		}

		idx := uint32(len(doc.Nodes))
		doc.Nodes = append(doc.Nodes, node)
		for _, c := range n.Children() {
			child := add(c)
			node.Children = append(node.Children, child)
		}
		return idx
	}

	root := add(np)
	doc.Nodes = append(doc.Nodes, &gltf.Node{
		Name:     zUpNode,
		Children: []uint32{root},
		Rotation: zUpRotation,
		Scale:    [3]float32{1, 1, 1},
	})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)-1))

	if err := gltf.SaveBinary(doc, path); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	slog.Debug("model exported", "path", path, "nodes", len(doc.Nodes), "meshes", len(doc.Meshes))
	return nil
}
