package shading

import (
	"fmt"
	"math"

	"github.com/nthery/qdtracer/radiance"
	"github.com/nthery/qdtracer/ray"
	"github.com/nthery/qdtracer/vec3"
)

// Refl is a mirror (glossiness 1) or glossy reflector. Glossy reflection
// perturbs the mirror direction within a cone whose width grows as
// glossiness falls away from 1, and clamps its sample count on deeper bounces
// to keep recursive path cost bounded.
type Refl struct {
	Multiplier float64
	Glossiness float64
	NumSamples int
}

func (r Refl) Shade(ctx TraceContext, ry ray.Ray, hit ray.Hit) radiance.Color {
	n := vec3.Faceforward(ry.Dir, hit.Normal)

	if r.Glossiness >= 1 {
		newRay := ray.Ray{
			Start: hit.IP.Add(n.Scale(shadowBias)),
			Dir:   vec3.Reflect(ry.Dir, n),
			Depth: ry.Depth + 1,
			Flags: ry.Flags,
		}
		return ctx.Trace(newRay).Scale(r.Multiplier)
	}

	count := r.NumSamples
	if ry.Depth > 0 {
		count = 2
	}
	rnd := ctx.Sampler()
	result := radiance.Black
	scaling := math.Tan((1 - r.Glossiness) * math.Pi / 2)
	a, b := orthonormalBasis(n)
	for i := 0; i < count; i++ {
		x, y := rnd.UnitDisc()
		modifiedNormal := n.Add(a.Scale(x * scaling)).Add(b.Scale(y * scaling))
		newRay := ray.Ray{
			Start: hit.IP.Add(n.Scale(shadowBias)),
			Dir:   vec3.Reflect(ry.Dir, modifiedNormal),
			Depth: ry.Depth + 1,
			Flags: ry.Flags,
		}
		result = result.Add(ctx.Trace(newRay).Scale(r.Multiplier))
	}
	return result.Scale(1 / float64(count))
}

// Eval treats Refl as a delta distribution: it can't be evaluated at an
// arbitrary wi, so it reports no contribution (a path tracer must route
// through SpawnRay instead of next-event estimation for this shader).
func (r Refl) Eval(hit ray.Hit, wo, wi vec3.Vec3) (radiance.Color, float64) {
	return radiance.Black, PdfTerminate
}

// SpawnRay only gives the perfect-mirror case (Glossiness == 1) a real
// continuation: the glossy case's cone sampling has no closed-form pdf this
// dispatch tracks, so a path tracer reaching it gets the diagnostic
// unimplemented sentinel instead, same as Phong and Layered. The mirror
// continuation clears the Diffuse flag since a specular bounce does not
// double-count against next-event estimation the way a diffuse one does.
func (r Refl) SpawnRay(ctx TraceContext, ry ray.Ray, hit ray.Hit) (ray.Ray, radiance.Color, float64) {
	if r.Glossiness < 1 {
		return ray.Ray{}, radiance.Red, PdfUnimplemented
	}
	n := vec3.Faceforward(ry.Dir, hit.Normal)
	newRay := ray.Ray{
		Start: hit.IP.Add(n.Scale(shadowBias)),
		Dir:   vec3.Reflect(ry.Dir, n),
		Depth: ry.Depth + 1,
		Flags: ry.Without(ray.Diffuse).Flags,
	}
	return newRay, radiance.Gray(r.Multiplier), 1
}

func (r Refl) Validate() error {
	if r.Glossiness < 0 || r.Glossiness > 1 {
		return fmt.Errorf("refl shader: glossiness must be in [0,1], got %g", r.Glossiness)
	}
	if r.NumSamples < 1 {
		return fmt.Errorf("refl shader: numSamples must be positive")
	}
	return nil
}
