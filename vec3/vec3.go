// Package vec3 implements the 3-component real-valued vector algebra the
// rest of the renderer is built on: points, directions, and the handful of
// geometric operators (reflect, refract, faceforward) the shading layer
// needs.
package vec3

import "math"

// Vec3 is a 3-component vector or point, depending on context.
type Vec3 struct {
	X, Y, Z float64
}

// Zero is the additive identity.
var Zero = Vec3{}

func New(x, y, z float64) Vec3 { return Vec3{x, y, z} }

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Negate() Vec3    { return Vec3{-v.X, -v.Y, -v.Z} }

// Scale multiplies every component by a scalar.
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Mul is the component-wise (Hadamard) product.
func (v Vec3) Mul(o Vec3) Vec3 { return Vec3{v.X * o.X, v.Y * o.Y, v.Z * o.Z} }

func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) LengthSqr() float64 { return v.Dot(v) }
func (v Vec3) Length() float64    { return math.Sqrt(v.LengthSqr()) }

// Normalize returns a unit vector in the direction of v. The zero vector
// normalizes to itself rather than NaN-ing out, since several callers
// (degenerate triangles, zero-length shadow rays) pass it transiently.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// Reflect mirrors v about unit normal n: reflect(reflect(v,n),n) == v.
func Reflect(v, n Vec3) Vec3 {
	return v.Sub(n.Scale(2 * v.Dot(n)))
}

// Faceforward flips n so that it points against v (n.Dot(v) <= 0 on return).
func Faceforward(v, n Vec3) Vec3 {
	if n.Dot(v) < 0 {
		return n
	}
	return n.Negate()
}

// Refract bends v through a unit normal n (facing the incoming ray) with
// relative index of refraction ior = n1/n2. ok is false on total internal
// reflection. ior == 1 returns v unchanged (the identity direction).
func Refract(v, n Vec3, ior float64) (Vec3, bool) {
	cosI := -n.Dot(v)
	sin2T := ior * ior * (1 - cosI*cosI)
	if sin2T > 1 {
		return Vec3{}, false
	}
	cosT := math.Sqrt(1 - sin2T)
	return v.Scale(ior).Add(n.Scale(ior*cosI - cosT)), true
}

// Lerp linearly interpolates between a and b.
func Lerp(a, b Vec3, t float64) Vec3 {
	return a.Scale(1 - t).Add(b.Scale(t))
}

// Min/Max are the component-wise extrema used by BBox construction.
func Min(a, b Vec3) Vec3 {
	return Vec3{math.Min(a.X, b.X), math.Min(a.Y, b.Y), math.Min(a.Z, b.Z)}
}

func Max(a, b Vec3) Vec3 {
	return Vec3{math.Max(a.X, b.X), math.Max(a.Y, b.Y), math.Max(a.Z, b.Z)}
}

// Axis indexes Vec3 components for the KD-tree's per-depth split axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (v Vec3) Get(a Axis) float64 {
	switch a {
	case AxisX:
		return v.X
	case AxisY:
		return v.Y
	default:
		return v.Z
	}
}

func (v *Vec3) Set(a Axis, val float64) {
	switch a {
	case AxisX:
		v.X = val
	case AxisY:
		v.Y = val
	default:
		v.Z = val
	}
}
