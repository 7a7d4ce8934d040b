package palette

import "math"

// WrapHue folds h into [0, 360). Non-finite input maps to 0.
func WrapHue(h float64) float64 {
	if math.IsNaN(h) || math.IsInf(h, 0) {
		return 0
	}
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	// Mod of a tiny negative value rounds back up to 360.
	if h >= 360 {
		h = 0
	}
	return h
}

func clampPercent(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}

// HSVToRGB converts hue in degrees and saturation/value in percent.
// Out of range input is wrapped or clamped, so the conversion never fails.
func HSVToRGB(h, s, v float64) (r, g, b uint8) {
	h = WrapHue(h)
	s = clampPercent(s) / 100
	v = clampPercent(v) / 100

	c := s * v
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	var rf, gf, bf float64
	switch {
	case h < 60:
		rf, gf, bf = c, x, 0
	case h < 120:
		rf, gf, bf = x, c, 0
	case h < 180:
		rf, gf, bf = 0, c, x
	case h < 240:
		rf, gf, bf = 0, x, c
	case h < 300:
		rf, gf, bf = x, 0, c
	default:
		rf, gf, bf = c, 0, x
	}
	return channel(rf + m), channel(gf + m), channel(bf + m)
}

func channel(f float64) uint8 {
	n := f * 255
	if n <= 0 {
		return 0
	}
	if n >= 255 {
		return 255
	}
	return uint8(n)
}
