package render

import (
	"image"

	"github.com/nthery/qdtracer/radiance"
)

// Result is the linear-radiance framebuffer a render pass produces; gamma
// and saturation are applied lazily in ToImage rather than per-pixel during
// tracing, so a caller can adjust display settings without re-rendering.
type Result struct {
	Width, Height int
	Pixels        []radiance.Color
}

func newResult(w, h int) *Result {
	return &Result{Width: w, Height: h, Pixels: make([]radiance.Color, w*h)}
}

func (r *Result) at(x, y int) radiance.Color { return r.Pixels[y*r.Width+x] }

func (r *Result) set(x, y int, c radiance.Color) { r.Pixels[y*r.Width+x] = c }

// ToImage converts the linear framebuffer to a display-ready RGBA image,
// applying saturation then gamma correction per settings.
func (r *Result) ToImage(gamma, saturation float64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			c := r.at(x, y)
			if saturation != 1 {
				c = c.Saturate(saturation)
			}
			img.SetRGBA(x, y, c.ToRGBA(gamma))
		}
	}
	return img
}
