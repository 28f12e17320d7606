// Package ray defines the Ray and Hit types threaded through every
// intersection and shading call in the renderer.
package ray

import "github.com/nthery/qdtracer/vec3"

// Flags is a bit field carried on a Ray. Further bits are reserved for
// future diagnostics beyond Debug/Diffuse.
type Flags uint32

const (
	// Debug enables tracing-time diagnostics on this ray.
	Debug Flags = 1 << iota
	// Diffuse marks a ray spawned from a diffuse scatter event; the path
	// tracer suppresses direct light hits on such rays to avoid double
	// counting against next-event estimation.
	Diffuse
)

// Ray is a half-line: an origin point and a unit direction, carrying a
// recursion depth and a flag bitset.
type Ray struct {
	Start vec3.Vec3
	Dir   vec3.Vec3
	Depth int
	Flags Flags
}

func (r Ray) Has(f Flags) bool { return r.Flags&f != 0 }

// With returns a copy of r with f set.
func (r Ray) With(f Flags) Ray {
	r.Flags |= f
	return r
}

// Without returns a copy of r with f cleared.
func (r Ray) Without(f Flags) Ray {
	r.Flags &^= f
	return r
}

// At evaluates the point at parameter t along the ray.
func (r Ray) At(t float64) vec3.Vec3 {
	return r.Start.Add(r.Dir.Scale(t))
}

// Hit is a populated intersection record. Invariant: when an Intersect call
// returns true, Dist > 0 and Normal has unit length.
type Hit struct {
	Dist   float64
	IP     vec3.Vec3 // intersection point
	Normal vec3.Vec3 // outward unit normal
	U, V   float64   // surface parameterization

	// RayDir is the incoming ray direction, copied in by the caller once
	// the nearest hit across the scene has been decided (spec.md §4.5:
	// "copy ray.dir into hit.rayDir").
	RayDir vec3.Vec3

	// DNdx, DNdy are tangent-plane derivatives of the shading normal with
	// respect to texture-space x/y, used by bump textures.
	DNdx, DNdy vec3.Vec3
}
