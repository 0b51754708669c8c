package interval

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/pandawalk/scene"
)

// Property selects which node attributes a Lerp drives.
type Property uint8

const (
	Pos Property = 1 << iota
	Hpr
	Scale
)

type lerpValue struct {
	start    mgl64.Vec3
	end      mgl64.Vec3
	hasStart bool
	from     mgl64.Vec3
}

func (v *lerpValue) at(d float64) mgl64.Vec3 {
	return v.from.Add(v.end.Sub(v.from).Mul(d))
}

// Lerp linearly interpolates position, orientation and/or scale of one node
// over a fixed duration. Start values that were not given explicitly are
// read from the node when the interval initializes.
type Lerp struct {
	name     string
	node     scene.NodePath
	duration float64
	blend    BlendType
	props    Property
	pos      lerpValue
	hpr      lerpValue
	scale    lerpValue
	state    State
}

// LerpOption configures a Lerp.
type LerpOption func(*Lerp)

// StartPos fixes the start position instead of reading it from the node.
func StartPos(v mgl64.Vec3) LerpOption {
	return func(l *Lerp) {
		l.pos.start = v
		l.pos.hasStart = true
	}
}

// StartHpr fixes the start orientation.
func StartHpr(v mgl64.Vec3) LerpOption {
	return func(l *Lerp) {
		l.hpr.start = v
		l.hpr.hasStart = true
	}
}

// StartScale fixes the start scale.
func StartScale(v mgl64.Vec3) LerpOption {
	return func(l *Lerp) {
		l.scale.start = v
		l.scale.hasStart = true
	}
}

// EndHpr adds orientation to a lerp built for another property.
func EndHpr(v mgl64.Vec3) LerpOption {
	return func(l *Lerp) {
		l.props |= Hpr
		l.hpr.end = v
	}
}

// WithBlend sets the progress curve.
func WithBlend(b BlendType) LerpOption {
	return func(l *Lerp) {
		l.blend = b
	}
}

// Named overrides the generated interval name.
func Named(name string) LerpOption {
	return func(l *Lerp) {
		l.name = name
	}
}

func newLerp(kind string, node scene.NodePath, duration float64, opts []LerpOption) *Lerp {
	l := &Lerp{
		name:     defaultName(kind),
		node:     node,
		duration: max(duration, 0),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LerpPos moves node to end over duration seconds.
func LerpPos(node scene.NodePath, duration float64, end mgl64.Vec3, opts ...LerpOption) *Lerp {
	l := newLerp("LerpPosInterval", node, duration, opts)
	l.props |= Pos
	l.pos.end = end
	return l
}

// LerpHpr turns node to end (heading, pitch, roll in degrees) over duration
// seconds. Angles are interpolated component-wise, without wrapping.
func LerpHpr(node scene.NodePath, duration float64, end mgl64.Vec3, opts ...LerpOption) *Lerp {
	l := newLerp("LerpHprInterval", node, duration, opts)
	l.props |= Hpr
	l.hpr.end = end
	return l
}

// LerpScale scales node to end over duration seconds.
func LerpScale(node scene.NodePath, duration float64, end mgl64.Vec3, opts ...LerpOption) *Lerp {
	l := newLerp("LerpScaleInterval", node, duration, opts)
	l.props |= Scale
	l.scale.end = end
	return l
}

func (l *Lerp) Name() string      { return l.name }
func (l *Lerp) Duration() float64 { return l.duration }
func (l *Lerp) State() State      { return l.state }

// Node returns the node the lerp animates.
func (l *Lerp) Node() scene.NodePath { return l.node }

// Properties returns the set of animated attributes.
func (l *Lerp) Properties() Property { return l.props }

// Blend returns the progress curve.
func (l *Lerp) Blend() BlendType { return l.blend }

func (l *Lerp) Reset() {
	l.state = Initial
}

func (l *Lerp) SetT(t float64) {
	if l.state == Initial {
		l.initialize()
	}

	t = clampT(t, l.duration)
	d := 1.0
	if l.duration > 0 {
		d = l.blend.Apply(t / l.duration)
	}

	if l.props&Pos != 0 {
		v := l.pos.at(d)
		l.node.SetPos(v[0], v[1], v[2])
	}
	if l.props&Hpr != 0 {
		v := l.hpr.at(d)
		l.node.SetHpr(v[0], v[1], v[2])
	}
	if l.props&Scale != 0 {
		v := l.scale.at(d)
		l.node.SetScaleXYZ(v[0], v[1], v[2])
	}

	if t >= l.duration {
		l.state = Final
	} else {
		l.state = Started
	}
}

func (l *Lerp) initialize() {
	l.pos.from = l.pos.start
	if !l.pos.hasStart && l.props&Pos != 0 {
		l.pos.from = l.node.Pos()
	}
	l.hpr.from = l.hpr.start
	if !l.hpr.hasStart && l.props&Hpr != 0 {
		l.hpr.from = l.node.Hpr()
	}
	l.scale.from = l.scale.start
	if !l.scale.hasStart && l.props&Scale != 0 {
		l.scale.from = l.node.Scale()
	}
}
