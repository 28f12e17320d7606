package sampling

import (
	"testing"

	"github.com/nthery/qdtracer/vec3"
)

func TestHemisphereSampleStaysAboveHorizon(t *testing.T) {
	s := NewSourceFromSeed(1)
	n := vec3.Vec3{X: 0, Y: 1, Z: 0}
	for i := 0; i < 1000; i++ {
		d, pdf := s.HemisphereSample(n)
		if d.Dot(n) < -1e-9 {
			t.Fatalf("sample below horizon: %v . %v = %v", d, n, d.Dot(n))
		}
		if pdf <= 0 {
			t.Fatalf("expected positive pdf, got %v", pdf)
		}
	}
}

func TestUnitDiscWithinRadius(t *testing.T) {
	s := NewSourceFromSeed(2)
	for i := 0; i < 1000; i++ {
		x, y := s.UnitDisc()
		if x*x+y*y > 1+1e-9 {
			t.Fatalf("point outside unit disc: (%v, %v)", x, y)
		}
	}
}

func TestStratified2DCoversGrid(t *testing.T) {
	s := NewSourceFromSeed(3)
	nx, ny := 4, 4
	for i := 0; i < nx*ny; i++ {
		x, y := s.Stratified2D(i, nx, ny)
		if x < 0 || x > 1 || y < 0 || y > 1 {
			t.Fatalf("stratified sample out of [0,1]: (%v, %v)", x, y)
		}
	}
}

func TestSourcesFromSameSeedAreDeterministic(t *testing.T) {
	a := NewSourceFromSeed(42)
	b := NewSourceFromSeed(42)
	for i := 0; i < 10; i++ {
		if a.Float64() != b.Float64() {
			t.Fatalf("expected identical sequences from identical seeds")
		}
	}
}
