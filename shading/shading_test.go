package shading

import (
	"math"
	"testing"

	"github.com/nthery/qdtracer/radiance"
	"github.com/nthery/qdtracer/ray"
	"github.com/nthery/qdtracer/sampling"
	"github.com/nthery/qdtracer/vec3"
)

// fakeContext is a minimal TraceContext for unit-testing individual shaders
// in isolation from the scene/integrator packages.
type fakeContext struct {
	lights  []Light
	ambient radiance.Color
	visible bool
	traced  radiance.Color
	sampler *sampling.Source
}

func (f *fakeContext) Lights() []Light             { return f.lights }
func (f *fakeContext) Ambient() radiance.Color      { return f.ambient }
func (f *fakeContext) Visible(a, b vec3.Vec3) bool  { return f.visible }
func (f *fakeContext) Trace(r ray.Ray) radiance.Color {
	return f.traced
}
func (f *fakeContext) Sampler() *sampling.Source { return f.sampler }

type fakeLight struct {
	pos   vec3.Vec3
	color radiance.Color
}

func (fakeLight) NumSamples() int { return 1 }
func (l fakeLight) SampleNth(i int, shadingPoint vec3.Vec3, rnd *sampling.Source) LightSample {
	return LightSample{Pos: l.pos, Color: l.color}
}
func (fakeLight) SolidAngle(x vec3.Vec3) float64 { return 1 }

func TestLambertShadeDirectlyBelowLight(t *testing.T) {
	ctx := &fakeContext{
		lights:  []Light{fakeLight{pos: vec3.New(0, 10, 0), color: radiance.Gray(100)}},
		visible: true,
		sampler: sampling.NewSourceFromSeed(1),
	}
	l := Lambert{Color: radiance.White}
	hit := ray.Hit{IP: vec3.New(0, 0, 0), Normal: vec3.New(0, 1, 0)}
	r := ray.Ray{Dir: vec3.New(0, -1, 0)}
	c := l.Shade(ctx, r, hit)
	if c.R <= 0 {
		t.Fatalf("expected positive illumination directly under a light, got %v", c)
	}
}

func TestLambertShadeOccluded(t *testing.T) {
	ctx := &fakeContext{
		lights:  []Light{fakeLight{pos: vec3.New(0, 10, 0), color: radiance.Gray(100)}},
		visible: false,
		sampler: sampling.NewSourceFromSeed(1),
	}
	l := Lambert{Color: radiance.White}
	hit := ray.Hit{IP: vec3.New(0, 0, 0), Normal: vec3.New(0, 1, 0)}
	r := ray.Ray{Dir: vec3.New(0, -1, 0)}
	c := l.Shade(ctx, r, hit)
	if c.R != 0 {
		t.Fatalf("expected no direct contribution when occluded, got %v", c)
	}
}

func TestLambertEvalZeroBelowHorizon(t *testing.T) {
	l := Lambert{Color: radiance.White}
	hit := ray.Hit{Normal: vec3.New(0, 1, 0)}
	_, pdf := l.Eval(hit, vec3.New(0, 1, 0), vec3.New(0, -1, 0))
	if pdf != PdfTerminate {
		t.Errorf("Eval below horizon pdf = %g, want %g", pdf, PdfTerminate)
	}
}

func TestLambertSpawnRayStaysAboveHorizon(t *testing.T) {
	l := Lambert{Color: radiance.White}
	ctx := &fakeContext{sampler: sampling.NewSourceFromSeed(7)}
	hit := ray.Hit{IP: vec3.New(0, 0, 0), Normal: vec3.New(0, 1, 0)}
	r := ray.Ray{Dir: vec3.New(0, -1, 0)}
	for i := 0; i < 50; i++ {
		newRay, _, pdf := l.SpawnRay(ctx, r, hit)
		if pdf <= 0 {
			t.Fatalf("unexpected non-positive pdf %g", pdf)
		}
		if newRay.Dir.Dot(hit.Normal) <= 0 {
			t.Fatalf("sampled direction %v fell below the horizon", newRay.Dir)
		}
	}
}

func TestReflMirrorTracesReflectedRay(t *testing.T) {
	ctx := &fakeContext{traced: radiance.Gray(0.5)}
	refl := Refl{Multiplier: 0.9, Glossiness: 1, NumSamples: 1}
	hit := ray.Hit{IP: vec3.New(0, 0, 0), Normal: vec3.New(0, 1, 0)}
	r := ray.Ray{Dir: vec3.New(0, -1, 0)}
	c := refl.Shade(ctx, r, hit)
	want := 0.5 * 0.9
	if math.Abs(c.R-want) > 1e-9 {
		t.Errorf("Shade = %v, want gray(%g)", c, want)
	}
}

func TestRefrTotalInternalReflectionTerminates(t *testing.T) {
	refr := Refr{IOR: 1.5, Multiplier: 0.9}
	hit := ray.Hit{IP: vec3.New(0, 0, 0), Normal: vec3.New(0, 1, 0)}
	// A grazing ray exiting a denser medium triggers TIR.
	r := ray.Ray{Dir: vec3.New(0.999, 0.045, 0).Normalize()}
	ctx := &fakeContext{}
	_, weight, pdf := refr.SpawnRay(ctx, r, hit)
	if pdf != PdfTerminate {
		t.Errorf("pdf = %g, want PdfTerminate", pdf)
	}
	if !weight.IsZero() {
		t.Errorf("weight = %v, want zero", weight)
	}
}

func TestLayeredSpawnRayIsUnimplemented(t *testing.T) {
	l := Layered{Layers: []LayeredEntry{{Shader: Lambert{Color: radiance.White}, Blend: radiance.White}}}
	ctx := &fakeContext{sampler: sampling.NewSourceFromSeed(1)}
	hit := ray.Hit{Normal: vec3.New(0, 1, 0)}
	r := ray.Ray{Dir: vec3.New(0, -1, 0)}
	_, _, pdf := l.SpawnRay(ctx, r, hit)
	if pdf != PdfUnimplemented {
		t.Errorf("pdf = %g, want PdfUnimplemented", pdf)
	}
}

func TestConstShadeIgnoresEverything(t *testing.T) {
	c := Const{Color: radiance.Red}
	ctx := &fakeContext{}
	got := c.Shade(ctx, ray.Ray{}, ray.Hit{})
	if got != radiance.Red {
		t.Errorf("Shade = %v, want red", got)
	}
}
