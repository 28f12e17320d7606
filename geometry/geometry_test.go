package geometry

import (
	"math"
	"testing"

	"github.com/nthery/qdtracer/ray"
	"github.com/nthery/qdtracer/vec3"
)

func straightRay(origin, dir vec3.Vec3) ray.Ray {
	return ray.Ray{Start: origin, Dir: dir.Normalize()}
}

func TestSphereIntersectFrontFace(t *testing.T) {
	s := Sphere{O: vec3.New(0, 0, 5), R: 1}
	hit := ray.Hit{Dist: 1e30}
	if !s.Intersect(straightRay(vec3.Zero, vec3.New(0, 0, 1)), &hit) {
		t.Fatalf("expected a hit")
	}
	if math.Abs(hit.Dist-4) > 1e-9 {
		t.Errorf("expected dist 4, got %v", hit.Dist)
	}
	if hit.Normal.Dot(vec3.New(0, 0, -1)) < 0.99 {
		t.Errorf("expected normal facing the ray origin, got %v", hit.Normal)
	}
}

func TestSphereIntersectMiss(t *testing.T) {
	s := Sphere{O: vec3.New(10, 0, 5), R: 1}
	hit := ray.Hit{Dist: 1e30}
	if s.Intersect(straightRay(vec3.Zero, vec3.New(0, 0, 1)), &hit) {
		t.Errorf("expected a miss")
	}
}

func TestSphereIntersectFromInsideFlipsNormal(t *testing.T) {
	s := Sphere{O: vec3.Zero, R: 2}
	hit := ray.Hit{Dist: 1e30}
	if !s.Intersect(straightRay(vec3.Zero, vec3.New(0, 0, 1)), &hit) {
		t.Fatalf("expected a hit from inside the sphere")
	}
	if hit.Normal.Dot(vec3.New(0, 0, 1)) > -0.99 {
		t.Errorf("expected inward-facing normal flipped to face the ray, got %v", hit.Normal)
	}
}

func TestPlaneIntersectFromAbove(t *testing.T) {
	p := Plane{Y: 1}
	hit := ray.Hit{Dist: 1e30}
	if !p.Intersect(straightRay(vec3.New(0, 5, 0), vec3.New(0, -1, 0)), &hit) {
		t.Fatalf("expected a hit")
	}
	if math.Abs(hit.Dist-4) > 1e-9 {
		t.Errorf("expected dist 4, got %v", hit.Dist)
	}
}

func TestPlaneIntersectParallelMisses(t *testing.T) {
	p := Plane{Y: 1}
	hit := ray.Hit{Dist: 1e30}
	if p.Intersect(straightRay(vec3.New(0, 5, 0), vec3.New(1, 0, 0)), &hit) {
		t.Errorf("expected a parallel ray to miss the plane")
	}
}

func TestCubeIntersectFrontFace(t *testing.T) {
	c := Cube{O: vec3.Zero, HalfSide: 1}
	hit := ray.Hit{Dist: 1e30}
	if !c.Intersect(straightRay(vec3.New(0, 0, -5), vec3.New(0, 0, 1)), &hit) {
		t.Fatalf("expected a hit")
	}
	if math.Abs(hit.Dist-4) > 1e-9 {
		t.Errorf("expected dist 4, got %v", hit.Dist)
	}
}

func TestCubeIntersectMiss(t *testing.T) {
	c := Cube{O: vec3.New(20, 0, 0), HalfSide: 1}
	hit := ray.Hit{Dist: 1e30}
	if c.Intersect(straightRay(vec3.New(0, 0, -5), vec3.New(0, 0, 1)), &hit) {
		t.Errorf("expected a miss")
	}
}

func TestTriangleViaMeshIntersects(t *testing.T) {
	verts := []MeshVertex{
		{Pos: [3]float64{-1, -1, 5}, Normal: [3]float64{0, 0, -1}},
		{Pos: [3]float64{1, -1, 5}, Normal: [3]float64{0, 0, -1}},
		{Pos: [3]float64{0, 1, 5}, Normal: [3]float64{0, 0, -1}},
	}
	mesh, err := NewMesh(verts, [][3]int{{0, 1, 2}}, false, false, false)
	if err != nil {
		t.Fatalf("NewMesh: %v", err)
	}
	hit := ray.Hit{Dist: 1e30}
	if !mesh.Intersect(straightRay(vec3.Zero, vec3.New(0, 0, 1)), &hit) {
		t.Fatalf("expected ray through the triangle's interior to hit")
	}
}

func TestMeshWithKDTreeAgreesWithLinearScan(t *testing.T) {
	verts := []MeshVertex{
		{Pos: [3]float64{-1, -1, 5}}, {Pos: [3]float64{1, -1, 5}}, {Pos: [3]float64{0, 1, 5}},
	}
	tris := [][3]int{{0, 1, 2}}

	linear, err := NewMesh(verts, tris, false, false, false)
	if err != nil {
		t.Fatalf("NewMesh (linear): %v", err)
	}
	accel, err := NewMesh(verts, tris, false, false, true)
	if err != nil {
		t.Fatalf("NewMesh (kdtree): %v", err)
	}
	accel.BeginRender()

	r := straightRay(vec3.Zero, vec3.New(0, 0, 1))
	h1, h2 := ray.Hit{Dist: 1e30}, ray.Hit{Dist: 1e30}
	ok1 := linear.Intersect(r, &h1)
	ok2 := accel.Intersect(r, &h2)
	if ok1 != ok2 {
		t.Fatalf("linear scan and kd-tree disagree on hit: %v vs %v", ok1, ok2)
	}
	if ok1 && math.Abs(h1.Dist-h2.Dist) > 1e-9 {
		t.Errorf("linear scan and kd-tree disagree on distance: %v vs %v", h1.Dist, h2.Dist)
	}
}

func TestCSGMinusCarvesOutOverlap(t *testing.T) {
	cube := Cube{O: vec3.Zero, HalfSide: 2}
	sphere := Sphere{O: vec3.Zero, R: 1}
	carved := CSG{Left: cube, Right: sphere, Op: CSGMinus}

	// A ray through the center meets the cube's near face (dist 8) before it
	// reaches the carved-out sphere cavity (dist 9), so the near face is the
	// first surface reported.
	hit := ray.Hit{Dist: 1e30}
	if !carved.Intersect(straightRay(vec3.New(0, 0, -10), vec3.New(0, 0, 1)), &hit) {
		t.Fatalf("expected the carved cube's near face to be hit")
	}
	if math.Abs(hit.Dist-8) > 1e-6 {
		t.Errorf("expected the near cube face at dist 8, got %v", hit.Dist)
	}
}

func TestCSGOrUnionsBothShapes(t *testing.T) {
	a := Sphere{O: vec3.New(-0.5, 0, 5), R: 1}
	b := Sphere{O: vec3.New(0.5, 0, 5), R: 1}
	u := CSG{Left: a, Right: b, Op: CSGOr}
	hit := ray.Hit{Dist: 1e30}
	if !u.Intersect(straightRay(vec3.Zero, vec3.New(0, 0, 1)), &hit) {
		t.Fatalf("expected the union to be hit along the shared axis")
	}
}

func TestCSGAndRequiresBothShapes(t *testing.T) {
	// Two spheres that don't overlap: AND should produce no hit anywhere.
	a := Sphere{O: vec3.New(-5, 0, 5), R: 1}
	b := Sphere{O: vec3.New(5, 0, 5), R: 1}
	inter := CSG{Left: a, Right: b, Op: CSGAnd}
	hit := ray.Hit{Dist: 1e30}
	if inter.Intersect(straightRay(vec3.Zero, vec3.New(0, 0, 1)), &hit) {
		t.Errorf("expected disjoint spheres under AND to never hit")
	}
}
