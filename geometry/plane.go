package geometry

import (
	"math"

	"github.com/nthery/qdtracer/ray"
	"github.com/nthery/qdtracer/vec3"
)

// Plane is a horizontal plane at world (or local, pre-Node-transform) height
// Y. Limit is carried but, per spec.md §4.1, not enforced by the core
// intersection; a node's shader/texture stage is free to clip to the
// +/-Limit square using the returned (u,v).
type Plane struct {
	Y     float64
	Limit float64 // 0 means unbounded
}

func (p Plane) Intersect(r ray.Ray, hit *ray.Hit) bool {
	if math.Abs(r.Dir.Y) < 1e-12 {
		return false
	}
	startAbove := r.Start.Y > p.Y
	headingUp := r.Dir.Y > 0
	if startAbove == headingUp {
		// Ray starts and points on the same side: moving away from the
		// plane, or starting on it and moving further away.
		return false
	}
	t := (p.Y - r.Start.Y) / r.Dir.Y
	if t <= 0 || t >= hit.Dist {
		return false
	}
	ip := r.At(t)
	hit.Dist = t
	hit.IP = ip
	if startAbove {
		hit.Normal = vec3.Vec3{X: 0, Y: 1, Z: 0}
	} else {
		hit.Normal = vec3.Vec3{X: 0, Y: -1, Z: 0}
	}
	hit.U = ip.X
	hit.V = ip.Z
	return true
}
