package light

import (
	"math"
	"testing"

	"github.com/nthery/qdtracer/radiance"
	"github.com/nthery/qdtracer/ray"
	"github.com/nthery/qdtracer/sampling"
	"github.com/nthery/qdtracer/vec3"
	"github.com/nthery/qdtracer/xform"
)

func TestPointLightSampleIsConstant(t *testing.T) {
	pl := PointLight{Pos: vec3.New(1, 2, 3), Color: radiance.White, Power: 2}
	rnd := sampling.NewSourceFromSeed(1)
	s1 := pl.SampleNth(0, vec3.Zero, rnd)
	s2 := pl.SampleNth(3, vec3.New(9, 9, 9), rnd)
	if s1.Pos != pl.Pos || s2.Pos != pl.Pos {
		t.Fatalf("point light sample position should always equal Pos, got %v / %v", s1.Pos, s2.Pos)
	}
	if s1.Color.R != 2 {
		t.Errorf("sample color = %v, want gray(2)", s1.Color)
	}
}

func TestRectLightBeginFrameComputesArea(t *testing.T) {
	rl := &RectLight{Color: radiance.White, Power: 1, XSubd: 1, YSubd: 1, Transform: scaledIdentity(2, 1, 3)}
	rl.BeginFrame()
	want := 2.0 * 3.0
	if math.Abs(rl.area-want) > 1e-6 {
		t.Errorf("area = %g, want %g", rl.area, want)
	}
}

func TestRectLightSampleZeroAboveLight(t *testing.T) {
	rl := &RectLight{Color: radiance.White, Power: 1, XSubd: 2, YSubd: 2, Transform: xform.NewTransform()}
	rl.BeginFrame()
	rnd := sampling.NewSourceFromSeed(1)
	s := rl.SampleNth(0, vec3.New(0, 5, 0), rnd)
	if !s.Color.IsZero() {
		t.Errorf("shading point above the light plane should get zero contribution, got %v", s.Color)
	}
}

func TestRectLightNumSamples(t *testing.T) {
	rl := &RectLight{XSubd: 3, YSubd: 4}
	if rl.NumSamples() != 12 {
		t.Errorf("NumSamples = %d, want 12", rl.NumSamples())
	}
}

func TestRectLightIntersectHitsSquare(t *testing.T) {
	rl := &RectLight{Transform: xform.NewTransform()}
	rl.BeginFrame()
	r := rayUpwardsFromBelow()
	dist := math.Inf(1)
	if !rl.Intersect(r, &dist) {
		t.Fatalf("expected a ray straight up through the light's center from below to hit it")
	}
}

func rayUpwardsFromBelow() ray.Ray {
	return ray.Ray{Start: vec3.New(0, -5, 0), Dir: vec3.New(0, 1, 0)}
}

func scaledIdentity(sx, sy, sz float64) xform.Transform {
	tr := xform.NewTransform()
	tr.Scale = vec3.New(sx, sy, sz)
	return tr
}
