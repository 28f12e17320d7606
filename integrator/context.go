// Package integrator implements the two ray-tracing strategies the renderer
// dispatches between: Raytrace (Whitted-style recursive tracing, used for
// specular/refractive materials and the default mode) and Pathtrace
// (unidirectional path tracing with next-event estimation, used when the
// scene settings request global illumination).
package integrator

import (
	"github.com/nthery/qdtracer/radiance"
	"github.com/nthery/qdtracer/ray"
	"github.com/nthery/qdtracer/sampling"
	"github.com/nthery/qdtracer/scene"
	"github.com/nthery/qdtracer/shading"
	"github.com/nthery/qdtracer/vec3"
)

// traceContext adapts a *scene.Scene and a worker's RNG stream into the
// shading.TraceContext a shader's Shade/SpawnRay needs, closing over the
// integrator function so Refl/Refr's Shade can recurse back into Raytrace.
type traceContext struct {
	sc       *scene.Scene
	rnd      *sampling.Source
	maxDepth int
	recurse  func(r ray.Ray) radiance.Color
}

func (c *traceContext) Lights() []shading.Light          { return c.sc.ShadingLights() }
func (c *traceContext) Ambient() radiance.Color           { return c.sc.Settings.AmbientLight }
func (c *traceContext) Visible(from, to vec3.Vec3) bool   { return c.sc.Visible(from, to) }
func (c *traceContext) Sampler() *sampling.Source         { return c.rnd }

func (c *traceContext) Trace(r ray.Ray) radiance.Color {
	if r.Depth >= c.maxDepth {
		return radiance.Black
	}
	return c.recurse(r)
}
