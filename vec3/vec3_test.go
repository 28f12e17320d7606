package vec3

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func floatsEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func vecsEqual(a, b Vec3, eps float64) bool {
	return floatsEqual(a.X, b.X, eps) && floatsEqual(a.Y, b.Y, eps) && floatsEqual(a.Z, b.Z, eps)
}

var dotData = [...]struct {
	a, b Vec3
	exp  float64
}{
	{Vec3{1, 0, 0}, Vec3{0, 1, 0}, 0},
	{Vec3{2, 3, 4}, Vec3{3, 4, 5}, 2*3 + 3*4 + 4*5},
	{Vec3{1, 1, 1}, Vec3{1, 1, 1}, 3},
}

func TestDot(t *testing.T) {
	for _, td := range dotData {
		if got := td.a.Dot(td.b); got != td.exp {
			t.Fatalf("exp: %v act: %v", td.exp, got)
		}
	}
}

func TestCrossOrthogonal(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	z := x.Cross(y)
	if !vecsEqual(z, Vec3{0, 0, 1}, epsilon) {
		t.Fatalf("exp: (0,0,1) act: %v", z)
	}
}

func TestReflectIsInvolution(t *testing.T) {
	v := Vec3{1, -2, 3}.Normalize()
	n := Vec3{0, 1, 0}
	r := Reflect(v, n)
	back := Reflect(r, n)
	if !vecsEqual(back, v, epsilon) {
		t.Fatalf("reflect(reflect(v,n),n) != v: exp %v act %v", v, back)
	}
}

func TestFaceforwardOpposesV(t *testing.T) {
	v := Vec3{1, 1, 1}.Normalize()
	n := Vec3{0, 1, 0}
	f := Faceforward(v, n)
	if f.Dot(v) > 0 {
		t.Fatalf("faceforward(v,n).Dot(v) > 0: %v", f.Dot(v))
	}
}

func TestRefractIdentityAtIorOne(t *testing.T) {
	v := Vec3{0.6, -0.8, 0}
	n := Vec3{0, 1, 0}
	got, ok := Refract(v, n, 1.0)
	if !ok {
		t.Fatalf("expected refraction to succeed at ior=1")
	}
	if !vecsEqual(got, v, epsilon) {
		t.Fatalf("refract with ior=1 should be identity: exp %v act %v", v, got)
	}
}

func TestRefractTotalInternalReflection(t *testing.T) {
	// Shallow grazing angle through a much denser-to-rarer boundary triggers TIR.
	v := Vec3{0.99, -0.14, 0}.Normalize()
	n := Vec3{0, 1, 0}
	_, ok := Refract(v, n, 2.0)
	if ok {
		t.Fatalf("expected total internal reflection")
	}
}

func TestNormalizeUnitLength(t *testing.T) {
	v := Vec3{3, 4, 0}.Normalize()
	if !floatsEqual(v.Length(), 1, epsilon) {
		t.Fatalf("expected unit length, got %v", v.Length())
	}
}
