package integrator

import (
	"github.com/nthery/qdtracer/radiance"
	"github.com/nthery/qdtracer/ray"
	"github.com/nthery/qdtracer/sampling"
	"github.com/nthery/qdtracer/scene"
	"github.com/nthery/qdtracer/shading"
)

// rouletteCutoff is the accumulated-throughput intensity below which a path
// is terminated rather than continued, per spec.md §4.5.
const rouletteCutoff = 1e-3

// Pathtrace is the unidirectional path tracer with next-event estimation:
// at every hit, direct lighting is estimated from one randomly picked light
// sample via the shader's Eval (see directLighting), and the path continues
// stochastically via SpawnRay. Delta-distribution shaders (Refl, Refr) correctly contribute
// nothing to the direct term (their Eval returns zero) and everything
// through the continuation ray instead.
func Pathtrace(sc *scene.Scene, r ray.Ray, rnd *sampling.Source) radiance.Color {
	maxDepth := sc.Settings.MaxRayDepth
	throughput := radiance.White
	result := radiance.Black
	current := r

	for bounce := 0; bounce < maxDepth; bounce++ {
		node, hit, found := sc.Intersect(current)

		dist := lightSearchHorizon
		if found {
			dist = hit.Dist
		}
		if lcolor, lfound := sc.IntersectLights(current, &dist); lfound {
			// A ray spawned from a diffuse scatter already had this light's
			// contribution counted by next-event estimation at the previous
			// bounce; counting it again here would double it.
			if !current.Has(ray.Diffuse) {
				result = result.Add(lcolor.Mul(throughput))
			}
			return result
		}

		if !found {
			if ec, ok := sc.EnvironmentColor(current.Dir); ok {
				result = result.Add(ec.Mul(throughput))
			} else {
				result = result.Add(sc.Settings.BackgroundColor.Mul(throughput))
			}
			break
		}

		ctx := &traceContext{sc: sc, rnd: rnd, maxDepth: maxDepth}
		ctx.recurse = func(rr ray.Ray) radiance.Color {
			return raytraceDepth(sc, rr, rnd, maxDepth)
		}

		result = result.Add(directLighting(ctx, node.Shader, current, hit).Mul(throughput))

		newRay, weight, pdf := node.Shader.SpawnRay(ctx, current, hit)
		switch {
		case pdf < 0:
			// Diagnostic: this shader has no stochastic continuation.
			result = result.Add(radiance.Red.Mul(throughput))
			return result
		case pdf == 0:
			return result
		}

		throughput = throughput.Mul(weight)
		if throughput.Intensity() < rouletteCutoff {
			return result
		}
		current = newRay
	}
	return result
}

// directLighting implements next-event estimation exactly as spec.md §4.5
// step 1 describes it: pick one light uniformly at random and one of its
// samples uniformly at random (never the deterministic sum over every light
// and every sample), weighting the single sample's contribution by the
// inverse of both picking probabilities so the estimator stays unbiased.
func directLighting(ctx shading.TraceContext, shader shading.Shader, r ray.Ray, hit ray.Hit) radiance.Color {
	lights := ctx.Lights()
	if len(lights) == 0 {
		return radiance.Black
	}
	rnd := ctx.Sampler()
	l := lights[rnd.Intn(len(lights))]

	solidAngle := l.SolidAngle(hit.IP)
	if solidAngle <= 0 {
		return radiance.Black
	}

	n := l.NumSamples()
	if n <= 0 {
		return radiance.Black
	}
	sample := l.SampleNth(rnd.Intn(n), hit.IP, rnd)

	distSqr := hit.IP.Sub(sample.Pos).LengthSqr()
	if distSqr <= 0 {
		return radiance.Black
	}
	wi := hit.IP.Sub(sample.Pos).Normalize().Negate()
	wo := r.Dir.Negate()
	brdf, _ := shader.Eval(hit, wo, wi)
	if brdf.IsZero() {
		return radiance.Black
	}

	shadowOrigin := hit.IP.Add(hit.Normal.Scale(1e-6))
	if !ctx.Visible(shadowOrigin, sample.Pos) {
		return radiance.Black
	}

	cosTheta := hit.Normal.Dot(wi)
	if cosTheta <= 0 {
		return radiance.Black
	}

	fromLight := sample.Color.Scale(1 / distSqr)
	probPickLight := 1 / float64(len(lights))
	probPickPointOnLight := 1 / solidAngle
	return fromLight.Scale(cosTheta).Mul(brdf).Scale(1 / (probPickLight * probPickPointOnLight))
}
