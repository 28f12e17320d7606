package shading

import (
	"fmt"
	"math"

	"github.com/nthery/qdtracer/radiance"
	"github.com/nthery/qdtracer/ray"
	"github.com/nthery/qdtracer/texture"
	"github.com/nthery/qdtracer/vec3"
)

// Phong adds a specular highlight lobe on top of a Lambertian base.
type Phong struct {
	Color              radiance.Color
	SpecularExponent   float64
	SpecularMultiplier float64
	Texture            texture.Texture
}

func (p Phong) albedo(hit ray.Hit) radiance.Color {
	if p.Texture != nil {
		return p.Texture.Sample(hit)
	}
	return p.Color
}

func (p Phong) Shade(ctx TraceContext, r ray.Ray, hit ray.Hit) radiance.Color {
	diffuse := p.albedo(hit)
	toCamera := r.Dir.Negate()

	direct := sumLights(ctx, hit, func(sample LightSample, fromLight radiance.Color) radiance.Color {
		toLight := hit.IP.Sub(sample.Pos).Normalize()
		n := vec3.Faceforward(r.Dir, hit.Normal)
		lambertCoeff := n.Dot(toLight.Negate())

		reflected := vec3.Reflect(toLight, n)
		cosGamma := toCamera.Dot(reflected)
		phongCoeff := 0.0
		if cosGamma > 0 {
			phongCoeff = math.Pow(cosGamma, p.SpecularExponent)
		}

		result := radiance.Black
		if lambertCoeff > 0 {
			result = diffuse.Scale(lambertCoeff).Mul(fromLight)
		}
		return result.Add(fromLight.Scale(phongCoeff * p.SpecularMultiplier))
	})
	return direct.Add(ctx.Ambient().Mul(diffuse))
}

// Eval is unsupported: only Lambert, mirror Refl, and Refr get analytic
// path-tracer continuations — Phong's combined diffuse+specular lobe is not
// importance-sampled, matching Layered's own precedent for the same reason
// (a correct continuation would need to track per-lobe weights this simple
// BRDF dispatch does not attempt).
func (p Phong) Eval(hit ray.Hit, wo, wi vec3.Vec3) (radiance.Color, float64) {
	return radiance.Black, PdfUnimplemented
}

// SpawnRay: see Eval. Diagnostic red is the honest rendering for a path
// tracer that reaches a Phong surface.
func (p Phong) SpawnRay(ctx TraceContext, r ray.Ray, hit ray.Hit) (ray.Ray, radiance.Color, float64) {
	return ray.Ray{}, radiance.Red, PdfUnimplemented
}

func (p Phong) Validate() error {
	if err := p.Color.Validate(); err != nil {
		return err
	}
	if p.SpecularExponent <= 0 {
		return fmt.Errorf("phong shader: specularExponent must be positive")
	}
	if p.Texture != nil {
		return p.Texture.Validate()
	}
	return nil
}

// orthonormalBasis builds two vectors perpendicular to n and each other, the
// way the reference orthonormalSystem helper does.
func orthonormalBasis(n vec3.Vec3) (a, b vec3.Vec3) {
	up := vec3.Vec3{X: 0, Y: 1, Z: 0}
	if math.Abs(n.Y) > 0.9 {
		up = vec3.Vec3{X: 1, Y: 0, Z: 0}
	}
	a = up.Cross(n).Normalize()
	b = n.Cross(a)
	return a, b
}
