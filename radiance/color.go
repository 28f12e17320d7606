// Package radiance implements the Color type shared by shaders, lights and
// the framebuffer, generalized from the teacher's raytracer.Color.
package radiance

import (
	"encoding/json"
	"fmt"
	"image/color"
	"math"

	"golang.org/x/image/colornames"
)

// Color is a red/green/blue radiance triplet. Unlike the teacher's Color,
// values are not clamped to [0,1] in-flight (path-tracer accumulators and
// light power routinely exceed 1); clamping only happens at ToRGBA time.
type Color struct {
	R, G, B float64
}

var (
	Black = Color{}
	White = Color{1, 1, 1}
	// Red is the diagnostic color for a shader's unimplemented stochastic
	// continuation (shading.PdfUnimplemented), sourced from the named-colour
	// table rather than a hand-picked triplet.
	Red = fromRGBA(colornames.Red)
)

func fromRGBA(c color.RGBA) Color {
	return Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func Gray(v float64) Color { return Color{v, v, v} }

// UnmarshalJSON accepts either a [r,g,b] array (the scene file convention
// used throughout the node/shader property blocks) or an {"r":..,"g":..,
// "b":..} object, so a top-level settings struct embedding Color fields
// decodes the same array shorthand ParsedBlock.GetColorProp uses.
func (c *Color) UnmarshalJSON(data []byte) error {
	var triplet [3]float64
	if err := json.Unmarshal(data, &triplet); err == nil {
		c.R, c.G, c.B = triplet[0], triplet[1], triplet[2]
		return nil
	}
	var obj struct{ R, G, B float64 }
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("radiance: decoding color: %w", err)
	}
	c.R, c.G, c.B = obj.R, obj.G, obj.B
	return nil
}

func (c Color) Add(o Color) Color { return Color{c.R + o.R, c.G + o.G, c.B + o.B} }
func (c Color) Sub(o Color) Color { return Color{c.R - o.R, c.G - o.G, c.B - o.B} }
func (c Color) Mul(o Color) Color { return Color{c.R * o.R, c.G * o.G, c.B * o.B} }

func (c Color) Scale(s float64) Color { return Color{c.R * s, c.G * s, c.B * s} }

// Intensity is the Russian-roulette-style magnitude used by the path tracer
// to decide when accumulated throughput has decayed below significance.
func (c Color) Intensity() float64 {
	return (c.R + c.G + c.B) / 3
}

// Luminance is the perceptual brightness (Rec. 709 weights).
func (c Color) Luminance() float64 {
	return 0.2126*c.R + 0.7152*c.G + 0.0722*c.B
}

func (c Color) IsZero() bool {
	return c.R == 0 && c.G == 0 && c.B == 0
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Clamp clamps every channel to [0,1].
func (c Color) Clamp() Color {
	return Color{clamp01(c.R), clamp01(c.G), clamp01(c.B)}
}

// Saturate interpolates each channel towards the color's own luminance,
// sharpening (s>1) or desaturating (s<1) it; s=1 is a no-op.
func (c Color) Saturate(s float64) Color {
	l := c.Luminance()
	return Color{
		R: l + (c.R-l)*s,
		G: l + (c.G-l)*s,
		B: l + (c.B-l)*s,
	}
}

// GammaCorrect applies an inverse-gamma power curve before byte conversion.
func (c Color) GammaCorrect(gamma float64) Color {
	inv := 1 / gamma
	return Color{math.Pow(c.R, inv), math.Pow(c.G, inv), math.Pow(c.B, inv)}
}

// Validate reports whether every channel is finite and non-negative; this
// mirrors the teacher's Color.Validate but does not bound channels to [0,1]
// since light power and accumulated radiance legitimately exceed it.
func (c Color) Validate() error {
	for name, v := range map[string]float64{"R": c.R, "G": c.G, "B": c.B} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("color channel out of range: %s=%v", name, v)
		}
	}
	return nil
}

// ToRGBA converts to standard 32bpp sRGB-ish output after gamma correction
// and clamping. Saturation (settings.saturation) is applied by the caller
// before this conversion.
func (c Color) ToRGBA(gamma float64) color.RGBA {
	g := c.GammaCorrect(gamma).Clamp()
	return color.RGBA{
		R: uint8(255*g.R + 0.5),
		G: uint8(255*g.G + 0.5),
		B: uint8(255*g.B + 0.5),
		A: 255,
	}
}
