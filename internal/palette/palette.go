// Package palette maps escape data to colors.
package palette

import (
	"image"
	"image/color"

	"github.com/rook-computer/mandelview/internal/fractal"
)

// Params are the user facing style parameters. Params is comparable; two
// values are the same style iff they are ==.
type Params struct {
	HueModifier float64 `json:"hueModifier"`
	Saturation  float64 `json:"saturation"`
	Value       float64 `json:"value"`
	Grayscale   bool    `json:"grayscale"`
}

// DefaultParams is the style of the first frame.
var DefaultParams = Params{HueModifier: 1, Saturation: 100, Value: 100}

// Background is the color of interior points and unmerged pixels.
var Background = color.RGBA{A: 0xFF}

// hueBase is added to the scaled escape value.
const hueBase = 0.95

// Map colors one escape value. z is the final iterate; the current style
// derives hue from escape alone.
func Map(escape float64, z complex128, maxIterations int, p Params) color.RGBA {
	if escape >= float64(maxIterations) {
		return Background
	}
	sat := p.Saturation
	if p.Grayscale {
		sat = 0
	}
	r, g, b := HSVToRGB(hueBase+p.HueModifier*escape, sat, p.Value)
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}
}

// NewImage allocates an RGBA buffer matching f.
func NewImage(f *fractal.Field) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
}

// Paint colors every pixel of f into dst, which must have f's size. It only
// reads f.
func Paint(dst *image.RGBA, f *fractal.Field, p Params) {
	bounds := dst.Bounds()
	for x := 0; x < f.Width; x++ {
		if !f.Covered(x) {
			for y := 0; y < f.Height; y++ {
				dst.SetRGBA(bounds.Min.X+x, bounds.Min.Y+y, Background)
			}
			continue
		}
		for y := 0; y < f.Height; y++ {
			pt := f.At(x, y)
			dst.SetRGBA(bounds.Min.X+x, bounds.Min.Y+y, Map(pt.Escape, pt.Z, f.MaxIterations, p))
		}
	}
}
