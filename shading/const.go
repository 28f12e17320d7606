package shading

import (
	"github.com/nthery/qdtracer/radiance"
	"github.com/nthery/qdtracer/ray"
	"github.com/nthery/qdtracer/vec3"
)

// Const shades every hit with a fixed color, ignoring lights and normals.
// Used for emissive caps and debug geometry.
type Const struct {
	Color radiance.Color
}

func (c Const) Shade(ctx TraceContext, r ray.Ray, hit ray.Hit) radiance.Color {
	return c.Color
}

func (c Const) Eval(hit ray.Hit, wo, wi vec3.Vec3) (radiance.Color, float64) {
	return radiance.Black, PdfTerminate
}

// SpawnRay terminates the path: a constant shader represents a surface with
// no further light transport to trace (it does not, itself, know how to
// scatter).
func (c Const) SpawnRay(ctx TraceContext, r ray.Ray, hit ray.Hit) (ray.Ray, radiance.Color, float64) {
	return ray.Ray{}, radiance.Black, PdfTerminate
}

func (c Const) Validate() error {
	return c.Color.Validate()
}
