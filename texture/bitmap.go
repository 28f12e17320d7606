package texture

import (
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"

	"github.com/nthery/qdtracer/radiance"
)

// Bitmap is an in-memory image sampled with bilinear filtering and wraparound
// addressing, the way BitmapTexture and BumpTexture consume image files.
type Bitmap struct {
	width, height int
	pixels        []radiance.Color // row-major, len == width*height
}

// LoadBitmap decodes an image file via github.com/disintegration/imaging,
// which covers PNG/JPEG/BMP/TIFF without per-format boilerplate.
func LoadBitmap(path string) (*Bitmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("bitmap: %w", err)
	}
	defer f.Close()

	img, err := imaging.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("bitmap: decode %s: %w", path, err)
	}
	return NewBitmapFromImage(img), nil
}

// NewBitmapFromImage converts a decoded image into float pixels in [0,1];
// no gamma conversion is applied.
func NewBitmapFromImage(img image.Image) *Bitmap {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	bm := &Bitmap{width: w, height: h, pixels: make([]radiance.Color, w*h)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bch, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			bm.pixels[y*w+x] = radiance.Color{
				R: float64(r) / 65535,
				G: float64(g) / 65535,
				B: float64(bch) / 65535,
			}
		}
	}
	return bm
}

func (b *Bitmap) Width() int  { return b.width }
func (b *Bitmap) Height() int { return b.height }

func (b *Bitmap) at(x, y int) radiance.Color {
	x = ((x % b.width) + b.width) % b.width
	y = ((y % b.height) + b.height) % b.height
	return b.pixels[y*b.width+x]
}

// GetFilteredPixel bilinearly samples the bitmap at fractional coordinates.
func (b *Bitmap) GetFilteredPixel(x, y float64) radiance.Color {
	x0, y0 := int(x), int(y)
	fx, fy := x-float64(x0), y-float64(y0)

	c00 := b.at(x0, y0)
	c10 := b.at(x0+1, y0)
	c01 := b.at(x0, y0+1)
	c11 := b.at(x0+1, y0+1)

	top := lerpColor(c00, c10, fx)
	bottom := lerpColor(c01, c11, fx)
	return lerpColor(top, bottom, fy)
}

func lerpColor(a, b radiance.Color, t float64) radiance.Color {
	return radiance.Color{
		R: a.R + (b.R-a.R)*t,
		G: a.G + (b.G-a.G)*t,
		B: a.B + (b.B-a.B)*t,
	}
}

// Differentiate replaces the bitmap's pixels with a central-difference
// gradient map (R channel holds d/dx, G channel holds d/dy) so BumpTexture
// can read perturbation amounts directly off the loaded image, rather than
// recomputing them on every sample.
func (b *Bitmap) Differentiate() {
	out := make([]radiance.Color, len(b.pixels))
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			l := b.at(x-1, y).Luminance()
			r := b.at(x+1, y).Luminance()
			u := b.at(x, y-1).Luminance()
			d := b.at(x, y+1).Luminance()
			out[y*b.width+x] = radiance.Color{R: (r - l) / 2, G: (d - u) / 2, B: 0}
		}
	}
	b.pixels = out
}
