// Package shading implements the BRDF dispatch layer: shaders compute
// reflected radiance either directly (Shade, next-event estimation against
// scene lights) or stochastically (Eval/SpawnRay, for the path-traced
// integrator).
//
// SpawnRay's pdf return value is a sentinel as much as a density: pdf < 0
// means the shader has no stochastic continuation (a diagnostic red pixel is
// the correct rendering, not a bug); pdf == 0 means the path terminates here
// with no further contribution; pdf > 0 means continue tracing with
// throughput multiplied by the returned weight.
package shading

import (
	"github.com/nthery/qdtracer/radiance"
	"github.com/nthery/qdtracer/ray"
	"github.com/nthery/qdtracer/sampling"
	"github.com/nthery/qdtracer/vec3"
)

// PdfUnimplemented and PdfTerminate are the two SpawnRay sentinel values;
// any strictly positive pdf is a genuine sampling density.
const (
	PdfUnimplemented = -1.0
	PdfTerminate     = 0.0
)

// LightSample is one stochastic sample of a light's contribution towards a
// shading point: a position to test visibility against and the radiance it
// would deliver if unoccluded.
type LightSample struct {
	Pos   vec3.Vec3
	Color radiance.Color
}

// Light is the subset of light.Light that shaders need for next-event
// estimation. Declared here, the consumer, rather than in package light, so
// the two packages never import each other.
type Light interface {
	NumSamples() int
	SampleNth(i int, shadingPoint vec3.Vec3, rnd *sampling.Source) LightSample
	// SolidAngle estimates this light's importance weight from shading point
	// x (0 if x cannot see the light's emitting side at all), used by the
	// path tracer's next-event estimation to compute probPickPointOnLight.
	SolidAngle(x vec3.Vec3) float64
}

// TraceContext is the integrator-provided environment a shader needs:
// the lights to sum over, a shadow-ray visibility test, a way to recurse
// into the integrator for reflection/refraction rays, and a per-worker RNG
// stream.
type TraceContext interface {
	Lights() []Light
	Ambient() radiance.Color
	Visible(from, to vec3.Vec3) bool
	Trace(r ray.Ray) radiance.Color
	Sampler() *sampling.Source
}

// Shader is a BRDF: Shade computes outgoing radiance via next-event
// estimation (direct analytic light sampling); Eval and SpawnRay support
// unidirectional path tracing.
type Shader interface {
	Shade(ctx TraceContext, r ray.Ray, hit ray.Hit) radiance.Color
	Eval(hit ray.Hit, wo, wi vec3.Vec3) (radiance.Color, float64)
	SpawnRay(ctx TraceContext, r ray.Ray, hit ray.Hit) (ray.Ray, radiance.Color, float64)
	Validate() error
}

// shadowBias offsets shadow and secondary ray origins off the surface to
// avoid immediate self-intersection.
const shadowBias = 1e-6

// directLightContrib evaluates one light sample's unoccluded contribution:
// its color divided by squared distance, zeroed out if occluded. Grounded on
// the reference getLightContrib: the inverse-square falloff is applied here
// rather than inside the light, since point and area lights share it.
func directLightContrib(ctx TraceContext, hit ray.Hit, sample LightSample) radiance.Color {
	distSqr := hit.IP.Sub(sample.Pos).LengthSqr()
	if distSqr <= 0 {
		return radiance.Black
	}
	shadowOrigin := hit.IP.Add(hit.Normal.Scale(shadowBias))
	if !ctx.Visible(shadowOrigin, sample.Pos) {
		return radiance.Black
	}
	return sample.Color.Scale(1 / distSqr)
}

// sumLights runs contribute once per light sample across every light in the
// scene, averaging each light's own samples (stratified area-light jitter
// washes out within a light, but different lights are summed, not averaged).
func sumLights(ctx TraceContext, hit ray.Hit, contribute func(sample LightSample, fromLight radiance.Color) radiance.Color) radiance.Color {
	result := radiance.Black
	for _, l := range ctx.Lights() {
		n := l.NumSamples()
		if n <= 0 {
			continue
		}
		sum := radiance.Black
		for i := 0; i < n; i++ {
			sample := l.SampleNth(i, hit.IP, ctx.Sampler())
			fromLight := directLightContrib(ctx, hit, sample)
			sum = sum.Add(contribute(sample, fromLight))
		}
		result = result.Add(sum.Scale(1 / float64(n)))
	}
	return result
}
