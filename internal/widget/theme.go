package widget

import "image/color"

// Theme is the panel colorscheme. Every color is drawn with Opacity.
type Theme struct {
	Outline  color.RGBA
	Fill     color.RGBA
	Text     color.RGBA
	Hover    color.RGBA
	Selected color.RGBA
	Opacity  uint8
}

var DefaultTheme = Theme{
	Outline:  color.RGBA{R: 33, G: 32, B: 31, A: 0xFF},
	Fill:     color.RGBA{R: 79, G: 77, B: 75, A: 0xFF},
	Text:     color.RGBA{R: 255, G: 255, B: 255, A: 0xFF},
	Hover:    color.RGBA{R: 28, G: 20, B: 13, A: 0xFF},
	Selected: color.RGBA{R: 12, G: 9, B: 5, A: 0xFF},
	Opacity:  200,
}

// With returns c at the theme opacity.
func (t Theme) With(c color.RGBA) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: t.Opacity}
}

// TextColor is the caption color, always opaque so labels stay legible.
func (t Theme) TextColor() color.RGBA {
	c := t.Text
	c.A = 0xFF
	return c
}
