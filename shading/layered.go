package shading

import (
	"fmt"

	"github.com/nthery/qdtracer/radiance"
	"github.com/nthery/qdtracer/ray"
	"github.com/nthery/qdtracer/texture"
	"github.com/nthery/qdtracer/vec3"
)

// MaxLayers is the largest layer count Layered.Validate accepts, matching
// the reference implementation's layers[32]; Layers itself is a slice.
const MaxLayers = 32

// LayeredEntry is one coat in a Layered stack: a sub-shader, a blend color
// (optionally modulated per-pixel by a texture) controlling how much of the
// accumulated result below shows through.
type LayeredEntry struct {
	Shader  Shader
	Blend   radiance.Color
	Texture texture.Texture
}

// Layered composites up to MaxLayers sub-shaders back-to-front: each layer's
// blend amount interpolates between its own shaded result and whatever the
// layers beneath it produced.
type Layered struct {
	Layers []LayeredEntry
}

func (l Layered) Shade(ctx TraceContext, r ray.Ray, hit ray.Hit) radiance.Color {
	result := radiance.Black
	for _, layer := range l.Layers {
		fromLayer := layer.Shader.Shade(ctx, r, hit)
		blend := layer.Blend
		if layer.Texture != nil {
			blend = blend.Mul(layer.Texture.Sample(hit))
		}
		result = blend.Mul(fromLayer).Add(radiance.White.Sub(blend).Mul(result))
	}
	return result
}

// Eval is unsupported: compositing each layer's stochastic density correctly
// requires tracking per-layer blend weights through the sampling process,
// which this dispatch does not attempt. Diagnostic red, per the SpawnRay
// contract, is the honest rendering for a path tracer that reaches a
// Layered surface.
func (l Layered) Eval(hit ray.Hit, wo, wi vec3.Vec3) (radiance.Color, float64) {
	return radiance.Black, PdfUnimplemented
}

func (l Layered) SpawnRay(ctx TraceContext, r ray.Ray, hit ray.Hit) (ray.Ray, radiance.Color, float64) {
	return ray.Ray{}, radiance.Red, PdfUnimplemented
}

func (l Layered) Validate() error {
	if len(l.Layers) > MaxLayers {
		return fmt.Errorf("layered shader: %d layers exceeds MaxLayers (%d)", len(l.Layers), MaxLayers)
	}
	for i, layer := range l.Layers {
		if layer.Shader == nil {
			return fmt.Errorf("layered shader: layer %d has no shader", i)
		}
		if err := layer.Shader.Validate(); err != nil {
			return fmt.Errorf("layered shader: layer %d: %w", i, err)
		}
		if layer.Texture != nil {
			if err := layer.Texture.Validate(); err != nil {
				return fmt.Errorf("layered shader: layer %d texture: %w", i, err)
			}
		}
	}
	return nil
}
