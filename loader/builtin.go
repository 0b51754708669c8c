package loader

import (
	"math"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/pandawalk/anim"
	"github.com/plus3/pandawalk/scene"
)

// BuildFunc populates root with a procedural model.
type BuildFunc func(root scene.NodePath)

// ClipsFunc returns freshly built animation clips.
type ClipsFunc func() map[string]*anim.Clip

type builtin struct {
	model BuildFunc
	clips ClipsFunc
}

var builtins = map[string]builtin{}

// RegisterBuiltin makes a procedural model and/or clip set available under
// path for when no file matches it. Either function may be nil.
func RegisterBuiltin(path string, model BuildFunc, clips ClipsFunc) {
	builtins[builtinKey(path)] = builtin{model: model, clips: clips}
}

// Builtins returns the registered builtin paths, sorted.
func Builtins() []string {
	paths := make([]string, 0, len(builtins))
	for path := range builtins {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

func lookupBuiltin(path string) (builtin, bool) {
	b, ok := builtins[builtinKey(path)]
	return b, ok
}

func builtinKey(path string) string {
	for _, ext := range extensions[1:] {
		path = strings.TrimSuffix(path, ext)
	}
	return strings.TrimPrefix(path, "./")
}

func init() {
	RegisterBuiltin("models/environment", buildEnvironment, nil)
	RegisterBuiltin("models/panda-model", buildPanda, nil)
	RegisterBuiltin("models/panda-walk4", nil, pandaWalkClips)
}

// Panda joint names shared by the builtin model and walk cycle.
const (
	JointBody          = "Body"
	JointHead          = "Head"
	JointLeftFrontLeg  = "LeftFrontLeg"
	JointRightFrontLeg = "RightFrontLeg"
	JointLeftBackLeg   = "LeftBackLeg"
	JointRightBackLeg  = "RightBackLeg"
)

func buildEnvironment(root scene.NodePath) {
	ground := root.AttachNewNode("ground")
	ground.SetGeometry(scene.Grid(512, 32))

	// Rocks and trees scattered on a fixed pattern.
	props := root.AttachNewNode("props")
	for i := range 24 {
		a := float64(i) * 2.399963 // golden angle
		r := 40 + 8*float64(i)
		x, y := r*math.Cos(a), r*math.Sin(a)

		var prop scene.NodePath
		if i%3 == 0 {
			prop = props.AttachNewNode("rock")
			prop.SetGeometry(scene.Box(mgl64.Vec3{-6, -6, 0}, mgl64.Vec3{6, 6, 5}))
		} else {
			prop = props.AttachNewNode("tree")
			trunk := scene.Box(mgl64.Vec3{-2, -2, 0}, mgl64.Vec3{2, 2, 20})
			trunk.Append(scene.Box(mgl64.Vec3{-10, -10, 20}, mgl64.Vec3{10, 10, 40}))
			prop.SetGeometry(trunk)
		}
		prop.SetPos(x, y, 0)
		prop.SetHpr(math.Mod(a*180/math.Pi, 360), 0, 0)
	}
}

// The builtin panda faces -Y and stands about 700 units tall, so it expects
// a scale near 0.005 like the original asset.
func buildPanda(root scene.NodePath) {
	body := root.AttachNewNode(JointBody)
	body.SetGeometry(scene.Box(mgl64.Vec3{-150, -300, 250}, mgl64.Vec3{150, 300, 550}))

	head := body.AttachNewNode(JointHead)
	head.SetPos(0, -300, 500)
	head.SetGeometry(scene.Box(mgl64.Vec3{-120, -180, -50}, mgl64.Vec3{120, 20, 200}))

	legs := []struct {
		name string
		x, y float64
	}{
		{JointLeftFrontLeg, -100, -200},
		{JointRightFrontLeg, 100, -200},
		{JointLeftBackLeg, -100, 200},
		{JointRightBackLeg, 100, 200},
	}
	for _, l := range legs {
		leg := body.AttachNewNode(l.name)
		leg.SetPos(l.x, l.y, 280)
		leg.SetGeometry(scene.Box(mgl64.Vec3{-50, -50, -280}, mgl64.Vec3{50, 50, 0}))
	}
}

func pitchKey(deg float64) mgl64.Vec4 {
	q := mgl64.QuatRotate(mgl64.DegToRad(deg), mgl64.Vec3{1, 0, 0})
	return mgl64.Vec4{q.V[0], q.V[1], q.V[2], q.W}
}

// pandaWalkClips builds a one second walk cycle: diagonal leg pairs swing in
// opposition while the body bobs twice per cycle.
func pandaWalkClips() map[string]*anim.Clip {
	times := []float64{0, 0.25, 0.5, 0.75, 1}
	swing := func(joint string, sign float64) anim.Channel {
		return anim.Channel{
			Joint: joint,
			Path:  anim.Rotation,
			Times: times,
			Values: []mgl64.Vec4{
				pitchKey(0), pitchKey(30 * sign), pitchKey(0), pitchKey(-30 * sign), pitchKey(0),
			},
		}
	}

	walk := anim.NewClip("walk", anim.DefaultFrameRate,
		swing(JointLeftFrontLeg, 1),
		swing(JointRightBackLeg, 1),
		swing(JointRightFrontLeg, -1),
		swing(JointLeftBackLeg, -1),
		anim.Channel{
			Joint:  JointBody,
			Path:   anim.Translation,
			Times:  times,
			Values: []mgl64.Vec4{{0, 0, 0}, {0, 0, 20}, {0, 0, 0}, {0, 0, 20}, {0, 0, 0}},
		},
	)
	return map[string]*anim.Clip{walk.Name: walk}
}
