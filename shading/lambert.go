package shading

import (
	"math"

	"github.com/nthery/qdtracer/radiance"
	"github.com/nthery/qdtracer/ray"
	"github.com/nthery/qdtracer/texture"
	"github.com/nthery/qdtracer/vec3"
)

// Lambert is an ideal diffuse (Lambertian) shader. Its albedo comes from
// Texture when set, otherwise from the flat Color.
type Lambert struct {
	Color   radiance.Color
	Texture texture.Texture
}

func (l Lambert) albedo(hit ray.Hit) radiance.Color {
	if l.Texture != nil {
		return l.Texture.Sample(hit)
	}
	return l.Color
}

func (l Lambert) Shade(ctx TraceContext, r ray.Ray, hit ray.Hit) radiance.Color {
	diffuse := l.albedo(hit)
	direct := sumLights(ctx, hit, func(sample LightSample, fromLight radiance.Color) radiance.Color {
		toLight := hit.IP.Sub(sample.Pos).Normalize()
		n := vec3.Faceforward(r.Dir, hit.Normal)
		lambertCoeff := n.Dot(toLight.Negate())
		if lambertCoeff <= 0 {
			return radiance.Black
		}
		return diffuse.Scale(lambertCoeff).Mul(fromLight)
	})
	return direct.Add(ctx.Ambient().Mul(diffuse))
}

func (l Lambert) Eval(hit ray.Hit, wo, wi vec3.Vec3) (radiance.Color, float64) {
	cosTheta := hit.Normal.Dot(wi)
	if cosTheta <= 0 {
		return radiance.Black, PdfTerminate
	}
	return l.albedo(hit).Scale(1 / math.Pi), cosTheta / math.Pi
}

func (l Lambert) SpawnRay(ctx TraceContext, r ray.Ray, hit ray.Hit) (ray.Ray, radiance.Color, float64) {
	n := vec3.Faceforward(r.Dir, hit.Normal)
	dir, pdf := ctx.Sampler().HemisphereSample(n)
	cosTheta := dir.Dot(n)
	if pdf <= 0 || cosTheta <= 0 {
		return ray.Ray{}, radiance.Black, PdfTerminate
	}
	newRay := ray.Ray{
		Start: hit.IP.Add(n.Scale(shadowBias)),
		Dir:   dir,
		Depth: r.Depth + 1,
		Flags: r.Flags | ray.Diffuse,
	}
	// Uniform (not cosine-weighted) hemisphere sampling per spec: weight is
	// brdf·cos(theta)/pdf = (albedo/pi)·cosTheta/(1/(2*pi)) = 2·albedo·cosTheta.
	weight := l.albedo(hit).Scale(2 * cosTheta)
	return newRay, weight, pdf
}

func (l Lambert) Validate() error {
	if err := l.Color.Validate(); err != nil {
		return err
	}
	if l.Texture != nil {
		return l.Texture.Validate()
	}
	return nil
}
