package anim

import (
	"log/slog"
	"math"
	"sort"

	"github.com/pkg/errors"
	"github.com/plus3/pandawalk/scene"
	"github.com/plus3/pandawalk/task"
)

// Control plays one clip bound to one actor.
type Control struct {
	name    string
	clip    *Clip
	joints  []scene.NodePath
	playing bool
	loop    bool
	rate    float64
	t       float64
}

// Name returns the name the clip was bound under.
func (c *Control) Name() string { return c.name }

// Clip returns the bound clip.
func (c *Control) Clip() *Clip { return c.clip }

// IsPlaying reports whether Update advances the control.
func (c *Control) IsPlaying() bool { return c.playing }

// Time returns the current position in the clip in seconds.
func (c *Control) Time() float64 { return c.t }

// Frame returns the current frame number.
func (c *Control) Frame() int {
	return int(math.Floor(c.t*c.clip.FrameRate + 1e-9))
}

func (c *Control) apply() {
	for i, ch := range c.clip.Channels {
		joint := c.joints[i]
		if joint.IsEmpty() {
			continue
		}

		v := ch.Sample(c.t)
		switch ch.Path {
		case Translation:
			joint.SetPos(v[0], v[1], v[2])
		case Rotation:
			joint.SetQuat(vecToQuat(v).Normalize())
		case ScalePath:
			joint.SetScaleXYZ(v[0], v[1], v[2])
		}
	}
}

func (c *Control) advance(dt float64) {
	if !c.playing {
		return
	}

	c.t += dt * c.rate
	d := c.clip.Duration()
	switch {
	case d <= 0:
		c.t = 0
		c.playing = c.loop
	case c.loop:
		c.t = math.Mod(c.t, d)
	case c.t >= d:
		c.t = d
		c.playing = false
	}
	c.apply()
}

// Actor is a model with animation clips bound to its joints. Joints are the
// model's descendant nodes, matched by name.
type Actor struct {
	model    scene.NodePath
	controls map[string]*Control
}

// NewActor wraps a loaded model.
func NewActor(model scene.NodePath) *Actor {
	return &Actor{
		model:    model,
		controls: make(map[string]*Control),
	}
}

// Node returns the actor's model node.
func (a *Actor) Node() scene.NodePath {
	return a.model
}

// BindClip binds clip under name. Channels whose joint is missing from the
// model are ignored; a clip that matches no joint at all is an error.
func (a *Actor) BindClip(name string, clip *Clip) (*Control, error) {
	joints := make([]scene.NodePath, len(clip.Channels))
	bound := 0
	for i, ch := range clip.Channels {
		joints[i] = a.model.Find(ch.Joint)
		if !joints[i].IsEmpty() {
			bound++
		}
	}

	if bound == 0 && len(clip.Channels) > 0 {
		return nil, errors.Errorf("clip %q matches no joints of %q", clip.Name, a.model.Name())
	}
	if bound < len(clip.Channels) {
		slog.Warn("clip channels without joints", "clip", clip.Name, "model", a.model.Name(), "unbound", len(clip.Channels)-bound)
	}

	ctrl := &Control{name: name, clip: clip, joints: joints, rate: 1}
	a.controls[name] = ctrl
	return ctrl, nil
}

// Control returns the control bound under name, or nil.
func (a *Actor) Control(name string) *Control {
	return a.controls[name]
}

// Names returns the bound clip names, sorted.
func (a *Actor) Names() []string {
	names := make([]string, 0, len(a.controls))
	for name := range a.controls {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (a *Actor) mustControl(name string) (*Control, error) {
	ctrl, ok := a.controls[name]
	if !ok {
		return nil, errors.Errorf("actor %q has no animation %q", a.model.Name(), name)
	}
	return ctrl, nil
}

// Loop plays the named clip repeatedly from the start.
func (a *Actor) Loop(name string) error {
	ctrl, err := a.mustControl(name)
	if err != nil {
		return err
	}
	ctrl.t = 0
	ctrl.loop = true
	ctrl.playing = true
	ctrl.apply()
	return nil
}

// LoopAll loops every bound clip.
func (a *Actor) LoopAll() {
	for _, name := range a.Names() {
		_ = a.Loop(name)
	}
}

// Play plays the named clip once and holds its last frame.
func (a *Actor) Play(name string) error {
	ctrl, err := a.mustControl(name)
	if err != nil {
		return err
	}
	ctrl.t = 0
	ctrl.loop = false
	ctrl.playing = true
	ctrl.apply()
	return nil
}

// Stop halts the named clip, or every clip when name is empty.
func (a *Actor) Stop(name string) {
	for n, ctrl := range a.controls {
		if name == "" || n == name {
			ctrl.playing = false
		}
	}
}

// Pose stops the named clip and holds the given frame.
func (a *Actor) Pose(name string, frame int) error {
	ctrl, err := a.mustControl(name)
	if err != nil {
		return err
	}
	ctrl.playing = false
	ctrl.t = math.Min(float64(frame)/ctrl.clip.FrameRate, ctrl.clip.Duration())
	ctrl.apply()
	return nil
}

// IsPlaying reports whether the named clip is playing.
func (a *Actor) IsPlaying(name string) bool {
	ctrl, ok := a.controls[name]
	return ok && ctrl.playing
}

// SetPlayRate changes the speed of the named clip.
func (a *Actor) SetPlayRate(name string, rate float64) error {
	ctrl, err := a.mustControl(name)
	if err != nil {
		return err
	}
	ctrl.rate = rate
	return nil
}

// Update advances every playing clip by dt seconds.
func (a *Actor) Update(dt float64) {
	for _, name := range a.Names() {
		a.controls[name].advance(dt)
	}
}

// Player advances a set of actors.
type Player struct {
	actors []*Actor
}

// NewPlayer creates an empty player.
func NewPlayer() *Player {
	return &Player{}
}

// Add registers an actor. Adding the same actor twice is a no-op.
func (p *Player) Add(a *Actor) {
	for _, existing := range p.actors {
		if existing == a {
			return
		}
	}
	p.actors = append(p.actors, a)
}

// Actors returns the registered actors.
func (p *Player) Actors() []*Actor {
	return p.actors
}

// Update advances every actor by dt seconds. Actors whose model has been
// removed from the scene are dropped.
func (p *Player) Update(dt float64) {
	live := p.actors[:0]
	for _, a := range p.actors {
		if !a.model.Valid() {
			continue
		}
		a.Update(dt)
		live = append(live, a)
	}
	clear(p.actors[len(live):])
	p.actors = live
}

// Task returns a per-frame task that advances the player by the frame delta.
func (p *Player) Task() task.Func {
	return func(frame *task.Frame) task.DoneStatus {
		p.Update(frame.DeltaTime)
		return task.Cont
	}
}
