// Package geometry implements the ray/scene intersection primitives: Plane,
// Sphere, Cube, the KD-tree-accelerated triangle Mesh, and CSG boolean
// combinators, all exposed behind a single Geometry contract.
package geometry

import "github.com/nthery/qdtracer/ray"

// Geometry is the uniform intersection contract every primitive satisfies.
// Intersect returns true iff a valid intersection exists with positive
// distance strictly less than hit.Dist on entry (callers pre-initialize
// hit.Dist to the current best distance, typically +Inf for a fresh probe);
// on true, every Hit field except RayDir is fully populated.
type Geometry interface {
	Intersect(r ray.Ray, hit *ray.Hit) bool
}
