package scenefile

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"github.com/plus3/pandawalk/framework"
	"github.com/plus3/pandawalk/interval"
	"github.com/plus3/pandawalk/scene"
	"github.com/plus3/pandawalk/tutorial"
)

// Names of the nodes every window provides.
const (
	Render = "render"
	Camera = "camera"
)

// Task names registered by Build.
const (
	DefaultSpinTask = "Spins the camera"
	IntervalTask    = "intervals"
)

// Scene is what Build made of a manifest.
type Scene struct {
	Window *framework.Window
	Nodes  map[string]scene.NodePath
	Paces  map[string]*interval.Playback

	spinTask string
}

// Node returns the node called name, or an empty path.
func (s *Scene) Node(name string) scene.NodePath {
	return s.Nodes[name]
}

// Build opens the framework's window and populates it from m. If any part
// fails, whatever Build already added is torn down again.
func Build(fw *framework.Framework, m *Manifest) (_ *Scene, err error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if m.Window != nil && m.Window.Title != "" {
		fw.SetWindowTitle(m.Window.Title)
	}
	win, err := fw.OpenWindow()
	if err != nil {
		return nil, err
	}

	s := &Scene{
		Window: win,
		Nodes: map[string]scene.NodePath{
			Render: win.Render(),
			Camera: win.Camera(),
		},
		Paces: make(map[string]*interval.Playback),
	}
	defer func() {
		if err != nil {
			s.Teardown(fw)
		}
	}()

	for _, mb := range m.Models {
		if err := s.loadModel(mb); err != nil {
			return nil, err
		}
	}

	for _, ab := range m.Actors {
		model := s.Nodes[ab.Model]
		for _, path := range ab.Anims {
			if _, err := win.LoadAnimation(model, path); err != nil {
				return nil, errors.Wrapf(err, "actor %q", ab.Model)
			}
		}
		if ab.Loop {
			win.Actor(model).LoopAll()
		}
	}

	if m.Spin != nil {
		s.addSpin(fw, *m.Spin)
	}

	for _, pb := range m.Paces {
		seq, err := s.pace(pb)
		if err != nil {
			return nil, err
		}
		if pb.Loop == nil || *pb.Loop {
			s.Paces[pb.Name] = fw.Intervals().Loop(seq)
		} else {
			s.Paces[pb.Name] = fw.Intervals().Start(seq)
		}
	}
	if len(m.Paces) > 0 && fw.Tasks().Find(IntervalTask) == nil {
		fw.Tasks().Add(IntervalTask, tutorial.StepIntervals(fw.Intervals()))
	}

	slog.Debug("scene built", "models", len(m.Models), "actors", len(m.Actors), "paces", len(m.Paces))
	return s, nil
}

func (s *Scene) loadModel(mb ModelBlock) error {
	parent := Render
	if mb.Parent != "" {
		parent = mb.Parent
	}

	np, err := s.Window.LoadModel(s.Nodes[parent], mb.Path)
	if err != nil {
		return errors.Wrapf(err, "model %q", mb.Name)
	}
	np.SetName(mb.Name)

	if mb.Pos != nil {
		v, _ := vec3("pos", mb.Pos, false)
		np.SetPos(v[0], v[1], v[2])
	}
	if mb.Hpr != nil {
		v, _ := vec3("hpr", mb.Hpr, false)
		np.SetHpr(v[0], v[1], v[2])
	}
	if mb.Scale != nil {
		v, _ := vec3("scale", mb.Scale, true)
		np.SetScaleXYZ(v[0], v[1], v[2])
	}
	s.Nodes[mb.Name] = np
	return nil
}

func (s *Scene) addSpin(fw *framework.Framework, sb SpinBlock) {
	params := tutorial.DefaultSpin()
	if sb.Rate != nil {
		params.Rate = *sb.Rate
	}
	if sb.Radius != nil {
		params.Radius = *sb.Radius
	}
	if sb.Height != nil {
		params.Height = *sb.Height
	}

	node := Camera
	if sb.Node != "" {
		node = sb.Node
	}
	name := DefaultSpinTask
	if sb.Task != "" {
		name = sb.Task
	}
	fw.Tasks().AddTask(name, &tutorial.SpinCamera{Camera: s.Nodes[node], Params: params})
	s.spinTask = name
}

// Teardown removes the models, spin task and paces Build added. The window,
// its camera and the interval task stay.
func (s *Scene) Teardown(fw *framework.Framework) {
	for _, p := range s.Paces {
		p.Pause()
	}
	if s.spinTask != "" {
		fw.Tasks().Remove(s.spinTask)
		s.spinTask = ""
	}
	for name, np := range s.Nodes {
		if name == Render || name == Camera || !np.Valid() {
			continue
		}
		np.RemoveNode()
	}

	s.Nodes = map[string]scene.NodePath{
		Render: s.Window.Render(),
		Camera: s.Window.Camera(),
	}
	s.Paces = make(map[string]*interval.Playback)
	slog.Debug("scene torn down")
}

func (s *Scene) pace(pb PaceBlock) (*interval.Sequence, error) {
	node := s.Nodes[pb.Node]
	children := make([]interval.Interval, 0, len(pb.Segments))

	for _, sb := range pb.Segments {
		if sb.Kind == WaitFor {
			children = append(children, interval.Wait(sb.Duration))
			continue
		}

		var opts []interval.LerpOption
		if sb.Name != "" {
			opts = append(opts, interval.Named(sb.Name))
		}
		if sb.Blend != "" {
			blend, err := interval.ParseBlendType(sb.Blend)
			if err != nil {
				return nil, errors.Wrapf(err, "pace %q", pb.Name)
			}
			opts = append(opts, interval.WithBlend(blend))
		}

		uniform := sb.Kind == LerpScale
		end, _ := vec3("end", sb.End, uniform)
		if sb.Start != nil {
			start, _ := vec3("start", sb.Start, uniform)
			switch sb.Kind {
			case LerpPos:
				opts = append(opts, interval.StartPos(start))
			case LerpHpr:
				opts = append(opts, interval.StartHpr(start))
			case LerpScale:
				opts = append(opts, interval.StartScale(start))
			}
		}

		switch sb.Kind {
		case LerpPos:
			children = append(children, interval.LerpPos(node, sb.Duration, end, opts...))
		case LerpHpr:
			children = append(children, interval.LerpHpr(node, sb.Duration, end, opts...))
		case LerpScale:
			children = append(children, interval.LerpScale(node, sb.Duration, end, opts...))
		}
	}
	return interval.NewSequence(pb.Name, children...), nil
}

// vec3 converts an HCL list to a vector. A nil list yields the zero vector.
func vec3(attr string, v []float64, uniform bool) (mgl64.Vec3, error) {
	switch {
	case v == nil:
		return mgl64.Vec3{}, nil
	case len(v) == 3:
		return mgl64.Vec3{v[0], v[1], v[2]}, nil
	case len(v) == 1 && uniform:
		return mgl64.Vec3{v[0], v[0], v[0]}, nil
	case uniform:
		return mgl64.Vec3{}, errors.Errorf("%s takes one or three values, got %d", attr, len(v))
	default:
		return mgl64.Vec3{}, errors.Errorf("%s takes three values, got %d", attr, len(v))
	}
}
