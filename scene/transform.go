package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// The graph is Z-up with +Y pointing forward. Heading rotates about +Z, pitch
// about +X and roll about +Y, composed as R = Rz(h) * Rx(p) * Ry(r).

// ComposeTransform builds T * R * S from a position, heading/pitch/roll in
// degrees and a per-axis scale.
func ComposeTransform(pos, hpr, scale mgl64.Vec3) mgl64.Mat4 {
	return mgl64.Translate3D(pos[0], pos[1], pos[2]).
		Mul4(HprMatrix(hpr)).
		Mul4(mgl64.Scale3D(scale[0], scale[1], scale[2]))
}

// HprMatrix returns the rotation matrix for heading/pitch/roll in degrees.
func HprMatrix(hpr mgl64.Vec3) mgl64.Mat4 {
	return mgl64.HomogRotate3DZ(mgl64.DegToRad(hpr[0])).
		Mul4(mgl64.HomogRotate3DX(mgl64.DegToRad(hpr[1]))).
		Mul4(mgl64.HomogRotate3DY(mgl64.DegToRad(hpr[2])))
}

// HprToQuat converts heading/pitch/roll in degrees to a unit quaternion.
func HprToQuat(hpr mgl64.Vec3) mgl64.Quat {
	h := mgl64.QuatRotate(mgl64.DegToRad(hpr[0]), mgl64.Vec3{0, 0, 1})
	p := mgl64.QuatRotate(mgl64.DegToRad(hpr[1]), mgl64.Vec3{1, 0, 0})
	r := mgl64.QuatRotate(mgl64.DegToRad(hpr[2]), mgl64.Vec3{0, 1, 0})
	return h.Mul(p).Mul(r)
}

// QuatToHpr converts a rotation quaternion to heading/pitch/roll in degrees.
// Heading and roll come back in (-180, 180], pitch in [-90, 90].
func QuatToHpr(q mgl64.Quat) mgl64.Vec3 {
	return hprFromRotation(q.Normalize().Mat4().Mat3())
}

// DecomposeTransform splits a matrix without shear back into position,
// heading/pitch/roll and scale.
func DecomposeTransform(m mgl64.Mat4) (pos, hpr, scale mgl64.Vec3) {
	pos = m.Col(3).Vec3()

	c0 := m.Col(0).Vec3()
	c1 := m.Col(1).Vec3()
	c2 := m.Col(2).Vec3()
	scale = mgl64.Vec3{c0.Len(), c1.Len(), c2.Len()}
	if m.Det() < 0 {
		scale[0] = -scale[0]
	}

	for i := range 3 {
		if scale[i] == 0 {
			return pos, mgl64.Vec3{}, scale
		}
	}

	rot := mgl64.Mat3FromCols(c0.Mul(1/scale[0]), c1.Mul(1/scale[1]), c2.Mul(1/scale[2]))
	return pos, hprFromRotation(rot), scale
}

const gimbalEpsilon = 1e-6

func hprFromRotation(m mgl64.Mat3) mgl64.Vec3 {
	sp := mgl64.Clamp(m.At(2, 1), -1, 1)
	p := math.Asin(sp)

	var h, r float64
	if math.Abs(math.Cos(p)) > gimbalEpsilon {
		h = math.Atan2(-m.At(0, 1), m.At(1, 1))
		r = math.Atan2(-m.At(2, 0), m.At(2, 2))
	} else {
		// Heading and roll share an axis; fold everything into heading.
		p = math.Copysign(math.Pi/2, sp)
		h = math.Atan2(m.At(1, 0), m.At(0, 0))
	}

	return mgl64.Vec3{mgl64.RadToDeg(h), mgl64.RadToDeg(p), mgl64.RadToDeg(r)}
}
