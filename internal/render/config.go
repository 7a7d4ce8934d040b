package render

import "image/color"

// Global render configuration for colors and logical canvas.
var (
	// HUD text and the letterbox around the fractal.
	Foreground = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	Background = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xFF}

	// Logical canvas size used when the display does not dictate one.
	CanvasWidth  = 1280
	CanvasHeight = 720

	// DefaultHz is the tick rate of the display loop.
	DefaultHz = 60
)
