package shading

import (
	"fmt"

	"github.com/nthery/qdtracer/radiance"
	"github.com/nthery/qdtracer/ray"
	"github.com/nthery/qdtracer/vec3"
)

// Refr is a dielectric (glass-like) refractor. IOR is eta2/eta1: the ratio
// of the index of refraction inside the surface to the index outside it.
type Refr struct {
	IOR        float64
	Multiplier float64
}

func (r Refr) refractedRay(ry ray.Ray, hit ray.Hit) (vec3.Vec3, bool) {
	if hit.Normal.Dot(ry.Dir) < 0 {
		// entering the geometry
		return vec3.Refract(ry.Dir, hit.Normal, 1/r.IOR)
	}
	// leaving the geometry
	return vec3.Refract(ry.Dir, hit.Normal.Negate(), r.IOR)
}

func (r Refr) Shade(ctx TraceContext, ry ray.Ray, hit ray.Hit) radiance.Color {
	dir, ok := r.refractedRay(ry, hit)
	if !ok {
		return radiance.Black
	}
	newRay := ray.Ray{
		Start: hit.IP.Sub(vec3.Faceforward(ry.Dir, hit.Normal).Scale(shadowBias)),
		Dir:   dir,
		Depth: ry.Depth + 1,
		Flags: ry.Flags,
	}
	return ctx.Trace(newRay).Scale(r.Multiplier)
}

// Eval, like Refl, is a delta distribution and contributes nothing to
// next-event estimation.
func (r Refr) Eval(hit ray.Hit, wo, wi vec3.Vec3) (radiance.Color, float64) {
	return radiance.Black, PdfTerminate
}

func (r Refr) SpawnRay(ctx TraceContext, ry ray.Ray, hit ray.Hit) (ray.Ray, radiance.Color, float64) {
	dir, ok := r.refractedRay(ry, hit)
	if !ok {
		// total internal reflection: this shader models only the refracted
		// branch, so the path ends here.
		return ray.Ray{}, radiance.Black, PdfTerminate
	}
	newRay := ray.Ray{
		Start: hit.IP.Sub(vec3.Faceforward(ry.Dir, hit.Normal).Scale(shadowBias)),
		Dir:   dir,
		Depth: ry.Depth + 1,
		Flags: ry.Flags,
	}
	return newRay, radiance.Gray(r.Multiplier), 1
}

func (r Refr) Validate() error {
	if r.IOR <= 1e-6 || r.IOR > 10 {
		return fmt.Errorf("refr shader: ior must be in (1e-6,10], got %g", r.IOR)
	}
	return nil
}
