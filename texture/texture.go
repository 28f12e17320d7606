// Package texture implements the surface-varying inputs a shader samples:
// procedural patterns, bitmap lookups, bump perturbation and the Fresnel
// reflectance term.
package texture

import (
	"fmt"

	"github.com/nthery/qdtracer/radiance"
	"github.com/nthery/qdtracer/ray"
)

// Texture samples a color at a hit point and, optionally, perturbs its
// shading normal (bump-mapping). Most textures only do the former; those
// embed NoBump to satisfy the interface with a no-op.
type Texture interface {
	Sample(hit ray.Hit) radiance.Color
	ModifyNormal(hit *ray.Hit)
	Validate() error
}

// NoBump is embedded by textures that never touch the shading normal.
type NoBump struct{}

func (NoBump) ModifyNormal(hit *ray.Hit) {}

// CheckerTexture alternates between two colors on a 2D grid in UV space.
type CheckerTexture struct {
	NoBump
	Color1, Color2 radiance.Color
	Scaling        float64
}

func (c CheckerTexture) Sample(hit ray.Hit) radiance.Color {
	x := int(floorDiv(hit.U*c.Scaling, 5.0))
	y := int(floorDiv(hit.V*c.Scaling, 5.0))
	if (x+y)%2 == 0 {
		return c.Color1
	}
	return c.Color2
}

func (c CheckerTexture) Validate() error {
	if c.Scaling == 0 {
		return fmt.Errorf("checker texture: scaling must be nonzero")
	}
	return nil
}

func floorDiv(v, div float64) float64 {
	q := v / div
	return qFloor(q)
}

func qFloor(v float64) float64 {
	i := float64(int64(v))
	if v < 0 && i != v {
		i--
	}
	return i
}
