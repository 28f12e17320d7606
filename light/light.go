// Package light implements the scene's light sources: an ideal point light
// and a finite-area rectangular light sampled with stratified jitter.
package light

import (
	"fmt"

	"github.com/nthery/qdtracer/radiance"
	"github.com/nthery/qdtracer/ray"
	"github.com/nthery/qdtracer/sampling"
	"github.com/nthery/qdtracer/shading"
	"github.com/nthery/qdtracer/vec3"
	"github.com/nthery/qdtracer/xform"
)

// Light is the scene-facing contract every light source implements. It
// embeds shading.Light so every concrete light here can be handed straight
// to a shader's TraceContext without adapting.
type Light interface {
	shading.Light
	BeginFrame()
	Validate() error
	// Intersect tests whether r strikes this light's own emitting surface,
	// used by Scene.IntersectLights so a camera or reflection ray that looks
	// straight at a light renders its emission rather than whatever
	// geometry (if any) happens to sit behind it.
	Intersect(r ray.Ray, dist *float64) bool
	// EmissionColor is the raw color a direct hit on this light renders,
	// unscaled by power (power only weights the light's contribution when
	// it is sampled for shading, not when seen directly).
	EmissionColor() radiance.Color
}

// Sample is the value type SampleNth returns.
type Sample = shading.LightSample

// PointLight is an idealized zero-size light: every sample returns the same
// position and color.
type PointLight struct {
	Pos   vec3.Vec3
	Color radiance.Color
	Power float64
}

func (PointLight) NumSamples() int { return 1 }

func (p PointLight) SampleNth(sampleIdx int, shadePos vec3.Vec3, rnd *sampling.Source) Sample {
	return Sample{Pos: p.Pos, Color: p.Color.Scale(p.Power)}
}

func (p *PointLight) BeginFrame() {}

// Intersect always misses: a point light has zero surface area, so a ray
// can never strike it directly — it only ever contributes through
// SampleNth.
func (p PointLight) Intersect(r ray.Ray, dist *float64) bool { return false }

// SolidAngle is a neutral 1 for a point light: there is exactly one
// position to sample (no area to weight stochastically), so
// probPickPointOnLight cancels cleanly rather than biasing NEE toward or
// away from point lights relative to area lights.
func (p PointLight) SolidAngle(x vec3.Vec3) float64 { return 1 }

func (p PointLight) EmissionColor() radiance.Color { return p.Color }

func (p PointLight) Validate() error {
	if err := p.Color.Validate(); err != nil {
		return fmt.Errorf("point light: %w", err)
	}
	if p.Power < 0 {
		return fmt.Errorf("point light: power must be non-negative, got %g", p.Power)
	}
	return nil
}

// RectLight is a finite 1x1 (local space) rectangular area light, oriented
// and positioned by Transform, stochastically sampled over an xSubd*ySubd
// stratified grid.
type RectLight struct {
	Color     radiance.Color
	Power     float64
	XSubd     int
	YSubd     int
	Transform xform.Transform

	center vec3.Vec3
	area   float64
}

// BeginFrame recomputes the light's world-space center and area from its
// transform, matching RectLight::beginFrame: the area is derived from the
// transformed corners of the local 1x1 square rather than stored directly,
// so a non-uniform scale in Transform is reflected automatically.
func (l *RectLight) BeginFrame() {
	l.center = l.Transform.Point(vec3.Zero)
	a := l.Transform.Point(vec3.New(-0.5, 0, -0.5))
	b := l.Transform.Point(vec3.New(0.5, 0, -0.5))
	c := l.Transform.Point(vec3.New(0.5, 0, 0.5))
	width := b.Sub(a).Length()
	height := b.Sub(c).Length()
	l.area = width * height
}

func (l RectLight) NumSamples() int { return l.XSubd * l.YSubd }

// SampleNth draws stratified-jittered sample sampleIdx of xSubd*ySubd,
// converts it to a local-space point on the square, and weighs its color by
// the cosine between the light's downward-facing normal and the direction
// to the shading point — zero if the shading point sits on or above the
// light's local XZ plane (behind the light).
func (l RectLight) SampleNth(sampleIdx int, shadePos vec3.Vec3, rnd *sampling.Source) Sample {
	x, y := rnd.Stratified2D(sampleIdx, l.XSubd, l.YSubd)
	localSample := vec3.New(x-0.5, 0, y-0.5)

	shadePosLS := l.Transform.UndoPoint(shadePos)

	var color radiance.Color
	if shadePosLS.Y < 0 {
		down := vec3.New(0, -1, 0)
		cosWeight := down.Dot(shadePosLS) / shadePosLS.Length()
		color = l.Color.Scale(l.Power * l.area * cosWeight)
	} else {
		color = radiance.Black
	}

	return Sample{Pos: l.Transform.Point(localSample), Color: color}
}

// Intersect tests whether r hits the light's local 1x1 square, used so
// camera/reflection rays that strike a visible light render it directly.
// dist is updated (and true returned) only if the hit improves on the
// caller's current closest distance.
func (l RectLight) Intersect(r ray.Ray, dist *float64) bool {
	localStart := l.Transform.UndoPoint(r.Start)
	localDir := l.Transform.UndoVector(r.Dir)

	if localStart.Y >= 0 {
		return false
	}
	if localDir.Y <= 0 {
		return false
	}
	t := -(localStart.Y / localDir.Y)
	p := localStart.Add(localDir.Scale(t))
	if absF(p.X) >= 0.5 || absF(p.Z) >= 0.5 {
		return false
	}

	worldP := l.Transform.Point(p)
	d := worldP.Sub(r.Start).Length()
	if d < *dist {
		*dist = d
		return true
	}
	return false
}

// SolidAngle approximates the light's contribution weight from point x, used
// by multiple-importance-style integrators that need a light importance
// measure without drawing a full sample. The "/ (1+d)" term is an ad-hoc
// regularizer from the original implementation, not a physically derived
// solid angle — kept verbatim rather than corrected.
func (l RectLight) SolidAngle(x vec3.Vec3) float64 {
	xCanonic := l.Transform.UndoPoint(x)
	if xCanonic.Y >= 0 {
		return 0
	}
	xDir := xCanonic.Normalize()
	cosA := xDir.Dot(vec3.New(0, -1, 0))
	d := x.Sub(l.center).LengthSqr()
	return l.area * cosA / (1 + d)
}

func (l RectLight) EmissionColor() radiance.Color { return l.Color }

func (l RectLight) Validate() error {
	if err := l.Color.Validate(); err != nil {
		return fmt.Errorf("rect light: %w", err)
	}
	if l.XSubd < 1 || l.YSubd < 1 {
		return fmt.Errorf("rect light: xSubd/ySubd must be positive, got %d/%d", l.XSubd, l.YSubd)
	}
	if l.Power < 0 {
		return fmt.Errorf("rect light: power must be non-negative, got %g", l.Power)
	}
	return nil
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
