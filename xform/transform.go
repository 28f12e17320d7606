// Package xform implements the affine transform every scene Node and the
// Camera use to place local-space geometry and rays into world space, and
// back.
package xform

import (
	"math"

	"github.com/nthery/qdtracer/vec3"
)

// Mat3 is a row-major 3x3 rotation matrix.
type Mat3 [3][3]float64

var Identity3 = Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

func (m Mat3) MulVec(v vec3.Vec3) vec3.Vec3 {
	return vec3.Vec3{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// Transpose returns the transpose of m, which is also its inverse for a
// pure rotation matrix.
func (m Mat3) Transpose() Mat3 {
	var r Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[j][i]
		}
	}
	return r
}

func (m Mat3) Mul(o Mat3) Mat3 {
	var r Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			s := 0.0
			for k := 0; k < 3; k++ {
				s += m[i][k] * o[k][j]
			}
			r[i][j] = s
		}
	}
	return r
}

// RotationY/X/Z build elementary rotation matrices (radians), right-handed,
// Y-up.
func RotationY(a float64) Mat3 {
	s, c := math.Sin(a), math.Cos(a)
	return Mat3{{c, 0, s}, {0, 1, 0}, {-s, 0, c}}
}

func RotationX(a float64) Mat3 {
	s, c := math.Sin(a), math.Cos(a)
	return Mat3{{1, 0, 0}, {0, c, -s}, {0, s, c}}
}

func RotationZ(a float64) Mat3 {
	s, c := math.Sin(a), math.Cos(a)
	return Mat3{{c, -s, 0}, {s, c, 0}, {0, 0, 1}}
}

// EulerZXY builds the Z*X*Y (roll*pitch*yaw) rotation spec.md §4.6 calls for:
// yaw around Y, pitch around X, roll around Z, composed roll after pitch
// after yaw.
func EulerZXY(yaw, pitch, roll float64) Mat3 {
	return RotationZ(roll).Mul(RotationX(pitch)).Mul(RotationY(yaw))
}

// Transform is a scale -> rotate -> translate affine map, and its inverse.
type Transform struct {
	Offset   vec3.Vec3
	Scale    vec3.Vec3
	Rotation Mat3
}

// NewTransform returns the identity transform.
func NewTransform() Transform {
	return Transform{Scale: vec3.Vec3{X: 1, Y: 1, Z: 1}, Rotation: Identity3}
}

// Point maps a local-space point to world space.
func (t Transform) Point(p vec3.Vec3) vec3.Vec3 {
	scaled := vec3.Vec3{X: p.X * t.Scale.X, Y: p.Y * t.Scale.Y, Z: p.Z * t.Scale.Z}
	return t.Rotation.MulVec(scaled).Add(t.Offset)
}

// Vector maps a local-space direction/offset vector to world space (no
// translation).
func (t Transform) Vector(v vec3.Vec3) vec3.Vec3 {
	scaled := vec3.Vec3{X: v.X * t.Scale.X, Y: v.Y * t.Scale.Y, Z: v.Z * t.Scale.Z}
	return t.Rotation.MulVec(scaled)
}

// Normal maps a local-space unit normal to world space via the
// inverse-transpose of the linear part, then renormalizes. For an
// orthonormal rotation composed with a diagonal scale S, that inverse
// transpose is R * S^-1.
func (t Transform) Normal(n vec3.Vec3) vec3.Vec3 {
	inv := vec3.Vec3{X: safeInv(t.Scale.X), Y: safeInv(t.Scale.Y), Z: safeInv(t.Scale.Z)}
	scaled := vec3.Vec3{X: n.X * inv.X, Y: n.Y * inv.Y, Z: n.Z * inv.Z}
	return t.Rotation.MulVec(scaled).Normalize()
}

func safeInv(s float64) float64 {
	if s == 0 {
		return 0
	}
	return 1 / s
}

// UndoPoint maps a world-space point back into local space.
func (t Transform) UndoPoint(p vec3.Vec3) vec3.Vec3 {
	local := t.Rotation.Transpose().MulVec(p.Sub(t.Offset))
	return vec3.Vec3{X: local.X * safeInv(t.Scale.X), Y: local.Y * safeInv(t.Scale.Y), Z: local.Z * safeInv(t.Scale.Z)}
}

// UndoVector maps a world-space direction back into local space (no
// translation).
func (t Transform) UndoVector(v vec3.Vec3) vec3.Vec3 {
	local := t.Rotation.Transpose().MulVec(v)
	return vec3.Vec3{X: local.X * safeInv(t.Scale.X), Y: local.Y * safeInv(t.Scale.Y), Z: local.Z * safeInv(t.Scale.Z)}
}
