package integrator

import (
	"testing"

	"github.com/nthery/qdtracer/camera"
	"github.com/nthery/qdtracer/geometry"
	"github.com/nthery/qdtracer/light"
	"github.com/nthery/qdtracer/radiance"
	"github.com/nthery/qdtracer/ray"
	"github.com/nthery/qdtracer/sampling"
	"github.com/nthery/qdtracer/scene"
	"github.com/nthery/qdtracer/shading"
	"github.com/nthery/qdtracer/vec3"
	"github.com/nthery/qdtracer/xform"
)

func newTestScene(t *testing.T) *scene.Scene {
	t.Helper()
	sphereNode := &scene.Node{
		Name:      "sphere",
		Geometry:  geometry.Sphere{O: vec3.New(0, 0, 5), R: 1},
		Shader:    shading.Lambert{Color: radiance.White},
		Transform: xform.NewTransform(),
	}
	pl := &light.PointLight{Pos: vec3.New(0, 5, 0), Color: radiance.White, Power: 50}
	cam := &camera.Camera{Position: vec3.Zero, AspectRatio: 1, FOV: 90, NumSamples: 1, FNumber: 2}
	sc := &scene.Scene{
		Nodes:  []*scene.Node{sphereNode},
		Lights: []light.Light{pl},
		Camera: cam,
		Settings: scene.Settings{
			FrameWidth: 10, FrameHeight: 10, NumThreads: 1, MaxRayDepth: 5,
			BackgroundColor: radiance.Black, AmbientLight: radiance.Gray(0.05),
			Gamma: 2.2,
		},
	}
	sc.BeginRender()
	sc.BeginFrame()
	return sc
}

func TestRaytraceHitsLitSphere(t *testing.T) {
	sc := newTestScene(t)
	rnd := sampling.NewSourceFromSeed(1)
	r := ray.Ray{Start: vec3.Zero, Dir: vec3.New(0, 0, 1)}
	c := Raytrace(sc, r, rnd)
	if c.IsZero() {
		t.Fatalf("expected non-zero radiance hitting a lit sphere, got %v", c)
	}
}

func TestRaytraceMissReturnsBackground(t *testing.T) {
	sc := newTestScene(t)
	sc.Settings.BackgroundColor = radiance.Gray(0.25)
	rnd := sampling.NewSourceFromSeed(1)
	r := ray.Ray{Start: vec3.Zero, Dir: vec3.New(0, 1, 0)}
	c := Raytrace(sc, r, rnd)
	if c.R != 0.25 {
		t.Errorf("missed ray should return the background color, got %v", c)
	}
}

func TestPathtraceHitsLitSphere(t *testing.T) {
	sc := newTestScene(t)
	rnd := sampling.NewSourceFromSeed(2)
	r := ray.Ray{Start: vec3.Zero, Dir: vec3.New(0, 0, 1)}
	c := Pathtrace(sc, r, rnd)
	if c.IsZero() {
		t.Fatalf("expected non-zero radiance from the path tracer on a lit sphere, got %v", c)
	}
}
