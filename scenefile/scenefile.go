// Package scenefile describes a walking panda scene in HCL and builds it on a
// framework.
//
// A manifest names the models to load, where to put them, which animation
// files to bind, how the camera spins and which paces to loop:
//
//	window {
//	  title = "My Panda3D Window"
//	}
//
//	model "environment" {
//	  path  = "models/environment"
//	  scale = [0.25]
//	  pos   = [-8, 42, 0]
//	}
//
//	model "panda" {
//	  path  = "models/panda-model"
//	  scale = [0.005]
//	}
//
//	actor "panda" {
//	  anims = ["models/panda-walk4"]
//	  loop  = true
//	}
//
//	spin {}
//
//	pace "pandaPace" {
//	  node = "panda"
//	  segment "lerp_pos" {
//	    duration = 13
//	    start    = [0, 10, 0]
//	    end      = [0, -10, 0]
//	  }
//	}
package scenefile

import (
	"os"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/pkg/errors"
	"github.com/plus3/pandawalk/interval"
)

// Segment kinds accepted in a pace block.
const (
	LerpPos   = "lerp_pos"
	LerpHpr   = "lerp_hpr"
	LerpScale = "lerp_scale"
	WaitFor   = "wait"
)

// Manifest is the decoded form of a scene file.
type Manifest struct {
	Window *WindowBlock `hcl:"window,block"`
	Models []ModelBlock `hcl:"model,block"`
	Actors []ActorBlock `hcl:"actor,block"`
	Spin   *SpinBlock   `hcl:"spin,block"`
	Paces  []PaceBlock  `hcl:"pace,block"`
}

// WindowBlock overrides the window settings of the framework config.
type WindowBlock struct {
	Title string `hcl:"title,optional"`
}

// ModelBlock loads one model. Parent names "render", "camera" or an earlier
// model and defaults to "render". Scale takes one uniform or three values.
type ModelBlock struct {
	Name   string    `hcl:"name,label"`
	Path   string    `hcl:"path"`
	Parent string    `hcl:"parent,optional"`
	Pos    []float64 `hcl:"pos,optional"`
	Hpr    []float64 `hcl:"hpr,optional"`
	Scale  []float64 `hcl:"scale,optional"`
}

// ActorBlock binds animation files to a loaded model.
type ActorBlock struct {
	Model string   `hcl:"model,label"`
	Anims []string `hcl:"anims"`
	Loop  bool     `hcl:"loop,optional"`
}

// SpinBlock orbits a node around the origin. Unset fields take the
// tutorial defaults.
type SpinBlock struct {
	Task   string   `hcl:"task,optional"`
	Node   string   `hcl:"node,optional"`
	Rate   *float64 `hcl:"rate,optional"`
	Radius *float64 `hcl:"radius,optional"`
	Height *float64 `hcl:"height,optional"`
}

// PaceBlock plays its segments one after another on a node, looping unless
// loop is false.
type PaceBlock struct {
	Name     string         `hcl:"name,label"`
	Node     string         `hcl:"node"`
	Loop     *bool          `hcl:"loop,optional"`
	Segments []SegmentBlock `hcl:"segment,block"`
}

// SegmentBlock is one lerp or wait within a pace.
type SegmentBlock struct {
	Kind     string    `hcl:"kind,label"`
	Name     string    `hcl:"name,optional"`
	Duration float64   `hcl:"duration"`
	Start    []float64 `hcl:"start,optional"`
	End      []float64 `hcl:"end,optional"`
	Blend    string    `hcl:"blend,optional"`
}

// Parse decodes a manifest from src. The filename is used in diagnostics.
func Parse(filename string, src []byte) (*Manifest, error) {
	var m Manifest
	if err := hclsimple.Decode(filename, src, nil, &m); err != nil {
		return nil, errors.Wrap(err, "failed to decode scene file")
	}
	if err := m.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid scene file %s", filename)
	}
	return &m, nil
}

// Load reads and decodes the manifest at path.
func Load(path string) (*Manifest, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read scene file")
	}
	return Parse(path, src)
}

// Validate checks the references and shapes that decoding cannot.
func (m *Manifest) Validate() error {
	known := map[string]bool{Render: true, Camera: true}

	for _, mb := range m.Models {
		if known[mb.Name] {
			return errors.Errorf("model %q is declared twice or shadows a builtin node", mb.Name)
		}
		if mb.Parent != "" && !known[mb.Parent] {
			return errors.Errorf("model %q: unknown parent %q", mb.Name, mb.Parent)
		}
		if _, err := vec3("pos", mb.Pos, false); err != nil {
			return errors.Wrapf(err, "model %q", mb.Name)
		}
		if _, err := vec3("hpr", mb.Hpr, false); err != nil {
			return errors.Wrapf(err, "model %q", mb.Name)
		}
		if _, err := vec3("scale", mb.Scale, true); err != nil {
			return errors.Wrapf(err, "model %q", mb.Name)
		}
		known[mb.Name] = true
	}

	for _, ab := range m.Actors {
		if !known[ab.Model] || ab.Model == Render || ab.Model == Camera {
			return errors.Errorf("actor %q: no such model", ab.Model)
		}
	}

	if m.Spin != nil && m.Spin.Node != "" && !known[m.Spin.Node] {
		return errors.Errorf("spin: unknown node %q", m.Spin.Node)
	}
	if m.Spin != nil && m.Spin.Rate != nil && *m.Spin.Rate == 0 {
		return errors.New("spin: rate must not be zero")
	}

	for _, pb := range m.Paces {
		if !known[pb.Node] {
			return errors.Errorf("pace %q: unknown node %q", pb.Name, pb.Node)
		}
		if len(pb.Segments) == 0 {
			return errors.Errorf("pace %q has no segments", pb.Name)
		}
		for i, sb := range pb.Segments {
			if err := sb.validate(); err != nil {
				return errors.Wrapf(err, "pace %q segment %d", pb.Name, i)
			}
		}
	}
	return nil
}

func (sb SegmentBlock) validate() error {
	switch sb.Kind {
	case LerpPos, LerpHpr, LerpScale:
		if sb.End == nil {
			return errors.Errorf("%s needs an end", sb.Kind)
		}
	case WaitFor:
		if sb.Start != nil || sb.End != nil {
			return errors.New("wait takes no start or end")
		}
	default:
		return errors.Errorf("unknown segment kind %q", sb.Kind)
	}
	if _, err := interval.ParseBlendType(sb.Blend); err != nil {
		return err
	}
	if sb.Duration < 0 {
		return errors.Errorf("negative duration %v", sb.Duration)
	}

	uniform := sb.Kind == LerpScale
	if _, err := vec3("start", sb.Start, uniform); err != nil {
		return err
	}
	if _, err := vec3("end", sb.End, uniform); err != nil {
		return err
	}
	return nil
}
