package texture

import (
	"fmt"
	"math"

	"github.com/nthery/qdtracer/radiance"
	"github.com/nthery/qdtracer/ray"
	"github.com/nthery/qdtracer/vec3"
)

// BitmapTexture samples a loaded image, tiling by Scaling and wrapping
// negative UVs back into range.
type BitmapTexture struct {
	NoBump
	Bitmap  *Bitmap
	Scaling float64
}

func (b BitmapTexture) Sample(hit ray.Hit) radiance.Color {
	w, h := float64(b.Bitmap.Width()), float64(b.Bitmap.Height())
	x := math.Mod(hit.U*b.Scaling*w, w)
	y := math.Mod(hit.V*b.Scaling*h, h)
	if x < 0 {
		x += w
	}
	if y < 0 {
		y += h
	}
	// 0 <= x < width, 0 <= y < height.
	// Re-checked deliberately: preserved from the reference implementation,
	// a harmless no-op once the block above already ran.
	if x < 0 {
		x += w
	}
	if y < 0 {
		y += h
	}
	return b.Bitmap.GetFilteredPixel(x, y)
}

func (b BitmapTexture) Validate() error {
	if b.Bitmap == nil {
		return fmt.Errorf("bitmap texture: no bitmap loaded")
	}
	if b.Scaling == 0 {
		return fmt.Errorf("bitmap texture: scaling must be nonzero")
	}
	return nil
}

// BumpTexture perturbs the shading normal using a differentiated bitmap
// (see Bitmap.Differentiate), never contributing color on its own.
type BumpTexture struct {
	Bitmap   *Bitmap
	Strength float64
	Scaling  float64
}

func (BumpTexture) Sample(hit ray.Hit) radiance.Color { return radiance.Black }

func (bt BumpTexture) ModifyNormal(hit *ray.Hit) {
	w, h := float64(bt.Bitmap.Width()), float64(bt.Bitmap.Height())
	x := math.Mod(hit.U*bt.Scaling*w, w)
	y := math.Mod(hit.V*bt.Scaling*h, h)
	if x < 0 {
		x += w
	}
	if y < 0 {
		y += h
	}

	bump := bt.Bitmap.GetFilteredPixel(x, y)
	hit.Normal = hit.Normal.Add(hit.DNdx.Scale(bump.R * bt.Strength)).Add(hit.DNdy.Scale(bump.G * bt.Strength)).Normalize()
}

// BeginRender differentiates the bump bitmap once per scene, the way
// BumpTexture::beginRender does.
func (bt *BumpTexture) BeginRender() {
	bt.Bitmap.Differentiate()
}

func (bt BumpTexture) Validate() error {
	if bt.Bitmap == nil {
		return fmt.Errorf("bump texture: no bitmap loaded")
	}
	return nil
}

// Bumps is a procedural, file-free alternative to BumpTexture: three sine
// octaves along U and V perturb the normal, never contributing color.
type Bumps struct {
	Strength float64
}

var (
	bumpFreqU = [3]float64{0.5, 1.21, 1.9}
	bumpFreqV = [3]float64{0.4, 1.13, 1.81}
	bumpAmpU  = [3]float64{0.1, 0.08, 0.05}
	bumpAmpV  = [3]float64{0.1, 0.08, 0.05}
)

const bumpsModulation = 0.2

func (Bumps) Sample(hit ray.Hit) radiance.Color { return radiance.Black }

func (b Bumps) ModifyNormal(hit *ray.Hit) {
	if b.Strength <= 0 {
		return
	}
	var du, dv float64
	for i := 0; i < 3; i++ {
		du += math.Sin(bumpsModulation*bumpFreqU[i]*hit.U) * bumpAmpU[i] * b.Strength
		dv += math.Sin(bumpsModulation*bumpFreqV[i]*hit.V) * bumpAmpV[i] * b.Strength
	}
	hit.Normal = hit.Normal.Add(hit.DNdx.Scale(du)).Add(hit.DNdy.Scale(dv)).Normalize()
}

func (Bumps) Validate() error { return nil }

// Environment is a panoramic bitmap sampled by ray direction (equirectangular
// projection) rather than surface uv, used by the integrators whenever a
// primary or secondary ray escapes the scene without hitting any node.
type Environment struct {
	Bitmap *Bitmap
}

// Sample looks up the color visible along dir: longitude from atan2(z,x)
// maps to u, latitude from acos(y) maps to v.
func (e Environment) Sample(dir vec3.Vec3) radiance.Color {
	y := dir.Y
	if y < -1 {
		y = -1
	} else if y > 1 {
		y = 1
	}
	u := math.Atan2(dir.Z, dir.X)/(2*math.Pi) + 0.5
	v := math.Acos(y) / math.Pi
	w, h := float64(e.Bitmap.Width()), float64(e.Bitmap.Height())
	return e.Bitmap.GetFilteredPixel(u*w, v*h)
}

func (e Environment) Validate() error {
	if e.Bitmap == nil {
		return fmt.Errorf("environment: no bitmap loaded")
	}
	return nil
}

// Fresnel samples the Schlick-approximated dielectric reflectance as a
// grayscale color, for blending reflection/refraction layers by viewing
// angle.
type Fresnel struct {
	NoBump
	IOR float64
}

func (f Fresnel) Sample(hit ray.Hit) radiance.Color {
	eta := f.IOR
	if hit.Normal.Dot(hit.RayDir) > 0 {
		eta = 1 / eta
	}
	n := vec3.Faceforward(hit.RayDir, hit.Normal)
	fr := schlickFresnel(hit.RayDir, n, eta)
	return radiance.Gray(fr)
}

func schlickFresnel(i, n vec3.Vec3, ior float64) float64 {
	f0 := (1 - ior) / (1 + ior)
	f0 *= f0
	ndoti := -n.Dot(i)
	return f0 + (1-f0)*math.Pow(1-ndoti, 5)
}

func (f Fresnel) Validate() error {
	if f.IOR <= 0 {
		return fmt.Errorf("fresnel texture: ior must be positive, got %g", f.IOR)
	}
	return nil
}
