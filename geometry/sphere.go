package geometry

import (
	"math"

	"github.com/nthery/qdtracer/ray"
	"github.com/nthery/qdtracer/vec3"
)

// Sphere is centered at O with radius R.
type Sphere struct {
	O vec3.Vec3
	R float64
}

func (s Sphere) Intersect(r ray.Ray, hit *ray.Hit) bool {
	oc := r.Start.Sub(s.O)
	a := r.Dir.Dot(r.Dir)
	b := 2 * oc.Dot(r.Dir)
	c := oc.Dot(oc) - s.R*s.R
	disc := b*b - 4*a*c
	if disc < 0 {
		return false
	}
	sq := math.Sqrt(disc)
	t0 := (-b - sq) / (2 * a)
	t1 := (-b + sq) / (2 * a)

	var t float64
	backNormal := false
	switch {
	case t0 > 1e-9:
		t = t0
	case t1 > 1e-9:
		// Only the larger root is positive: the ray origin is inside the
		// sphere. Use it and flip the normal.
		t = t1
		backNormal = true
	default:
		return false
	}
	if t >= hit.Dist {
		return false
	}

	ip := r.At(t)
	n := ip.Sub(s.O).Scale(1 / s.R)
	if backNormal {
		n = n.Negate()
	}

	hit.Dist = t
	hit.IP = ip
	hit.Normal = n
	hit.U, hit.V = sphereUV(ip.Sub(s.O).Scale(1 / s.R))
	return true
}

// sphereUV remaps spherical coordinates of a unit-sphere point to [0,1]^2.
func sphereUV(n vec3.Vec3) (u, v float64) {
	theta := math.Acos(clampUnit(n.Y))
	phi := math.Atan2(n.Z, n.X)
	if phi < 0 {
		phi += 2 * math.Pi
	}
	return phi / (2 * math.Pi), theta / math.Pi
}

func clampUnit(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
