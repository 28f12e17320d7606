package texture

import (
	"math"
	"testing"

	"github.com/nthery/qdtracer/radiance"
	"github.com/nthery/qdtracer/ray"
	"github.com/nthery/qdtracer/vec3"
)

func TestCheckerTextureAlternates(t *testing.T) {
	c := CheckerTexture{Color1: radiance.White, Color2: radiance.Black, Scaling: 1}
	testData := []struct {
		u, v float64
		want radiance.Color
	}{
		{0, 0, radiance.White},
		{5, 0, radiance.Black},
		{10, 0, radiance.White},
		{0, 5, radiance.Black},
	}
	for _, d := range testData {
		got := c.Sample(ray.Hit{U: d.u, V: d.v})
		if got != d.want {
			t.Errorf("Sample(%g,%g) = %v, want %v", d.u, d.v, got, d.want)
		}
	}
}

func TestBitmapGetFilteredPixelAtCorner(t *testing.T) {
	bm := &Bitmap{width: 2, height: 2, pixels: []radiance.Color{
		radiance.Black, radiance.White,
		radiance.White, radiance.Black,
	}}
	got := bm.GetFilteredPixel(0, 0)
	if got != radiance.Black {
		t.Errorf("corner sample = %v, want black", got)
	}
}

func TestBitmapDifferentiateZeroOnFlatImage(t *testing.T) {
	bm := &Bitmap{width: 4, height: 4, pixels: make([]radiance.Color, 16)}
	for i := range bm.pixels {
		bm.pixels[i] = radiance.Gray(0.5)
	}
	bm.Differentiate()
	for _, p := range bm.pixels {
		if math.Abs(p.R) > 1e-9 || math.Abs(p.G) > 1e-9 {
			t.Fatalf("flat image should differentiate to zero gradient, got %v", p)
		}
	}
}

func TestFresnelGrazingApproachesOne(t *testing.T) {
	f := Fresnel{IOR: 1.5}
	hit := ray.Hit{Normal: vec3.New(0, 1, 0), RayDir: vec3.New(1, -0.001, 0).Normalize()}
	c := f.Sample(hit)
	if c.R < 0.5 {
		t.Errorf("grazing angle fresnel = %g, want close to 1", c.R)
	}
}

func TestFresnelNormalIncidenceMatchesSchlickF0(t *testing.T) {
	f := Fresnel{IOR: 1.5}
	hit := ray.Hit{Normal: vec3.New(0, 1, 0), RayDir: vec3.New(0, -1, 0)}
	c := f.Sample(hit)
	f0 := math.Pow((1-1.5)/(1+1.5), 2)
	if math.Abs(c.R-f0) > 1e-9 {
		t.Errorf("normal incidence fresnel = %g, want %g", c.R, f0)
	}
}

func TestBumpsModifyNormalStaysUnit(t *testing.T) {
	b := Bumps{Strength: 1}
	hit := ray.Hit{Normal: vec3.New(0, 1, 0), U: 0.3, V: 0.7, DNdx: vec3.New(1, 0, 0), DNdy: vec3.New(0, 0, 1)}
	b.ModifyNormal(&hit)
	if math.Abs(hit.Normal.Length()-1) > 1e-9 {
		t.Errorf("normal length after bump = %g, want 1", hit.Normal.Length())
	}
}
