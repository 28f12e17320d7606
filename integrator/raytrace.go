package integrator

import (
	"github.com/nthery/qdtracer/radiance"
	"github.com/nthery/qdtracer/ray"
	"github.com/nthery/qdtracer/sampling"
	"github.com/nthery/qdtracer/scene"
)

// lightSearchHorizon bounds the light-intersection test when no node was hit,
// so a light can still be struck even when it's the only thing along the ray.
const lightSearchHorizon = 1e30

// Raytrace is the Whitted-style integrator: each hit is shaded directly via
// its shader's Shade method (next-event estimation against scene lights),
// and Shade itself recurses into Raytrace for mirror/glass continuation
// through ctx.Trace. rnd must be a per-worker stream, never shared.
func Raytrace(sc *scene.Scene, r ray.Ray, rnd *sampling.Source) radiance.Color {
	return raytraceDepth(sc, r, rnd, sc.Settings.MaxRayDepth)
}

func raytraceDepth(sc *scene.Scene, r ray.Ray, rnd *sampling.Source, maxDepth int) radiance.Color {
	if r.Depth >= maxDepth {
		return radiance.Black
	}
	node, hit, found := sc.Intersect(r)

	dist := lightSearchHorizon
	if found {
		dist = hit.Dist
	}
	if lcolor, lfound := sc.IntersectLights(r, &dist); lfound {
		return lcolor
	}

	if !found {
		if ec, ok := sc.EnvironmentColor(r.Dir); ok {
			return ec
		}
		return sc.Settings.BackgroundColor
	}

	ctx := &traceContext{sc: sc, rnd: rnd, maxDepth: maxDepth}
	ctx.recurse = func(rr ray.Ray) radiance.Color {
		return raytraceDepth(sc, rr, rnd, maxDepth)
	}
	return node.Shader.Shade(ctx, r, hit)
}
