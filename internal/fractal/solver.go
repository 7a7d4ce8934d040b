package fractal

import (
	"math"
	"math/cmplx"
)

// Viewport is the rectangle of the complex plane mapped onto the pixel grid.
type Viewport struct {
	RealMin, RealMax float64
	ImagMin, ImagMax float64
}

// DefaultViewport shows the whole set.
var DefaultViewport = Viewport{
	RealMin: -2,
	RealMax: 1,
	ImagMin: -1,
	ImagMax: 1,
}

// Point maps pixel (px, py) of a width x height grid onto the plane.
func (vp Viewport) Point(px, py, width, height int) complex128 {
	re := vp.RealMin + (float64(px)/float64(width))*(vp.RealMax-vp.RealMin)
	im := vp.ImagMin + (float64(py)/float64(height))*(vp.ImagMax-vp.ImagMin)
	return complex(re, im)
}

// EscapePoint is the solver output for one pixel.
type EscapePoint struct {
	X, Y int
	// Escape is the smoothed iteration count, or MaxIterations for points
	// that never left the radius 2 disc.
	Escape float64
	// Z is the last iterate.
	Z complex128
}

// Interior reports whether the point stayed bounded for maxIterations.
func (p EscapePoint) Interior(maxIterations int) bool {
	return p.Escape >= float64(maxIterations)
}

// SolveFunc computes one pixel. Computer uses Solve unless overridden.
type SolveFunc func(c complex128, maxIterations int) (escape float64, z complex128)

var ln2 = math.Log(2)

// Solve iterates z = z*z + c from zero until |z| > 2 or maxIterations is
// reached. Escaping points return n + 1 - ln(ln|z|)/ln 2 where n is the
// zero based step that escaped, capped just below maxIterations so only
// bounded points read as interior.
func Solve(c complex128, maxIterations int) (float64, complex128) {
	var z complex128
	for n := 0; n < maxIterations; n++ {
		z = z*z + c
		if real(z)*real(z)+imag(z)*imag(z) > 4 {
			escape := float64(n) + 1 - math.Log(math.Log(cmplx.Abs(z)))/ln2
			return math.Min(escape, lastEscape(maxIterations)), z
		}
	}
	return float64(maxIterations), z
}

// lastEscape is the largest count an escaping point may report.
func lastEscape(maxIterations int) float64 {
	return math.Nextafter(float64(maxIterations), 0)
}

// SolvePixel maps (x, y) through vp and solves it.
func SolvePixel(vp Viewport, x, y, width, height, maxIterations int) EscapePoint {
	return SolveFunc(Solve).Pixel(vp, x, y, width, height, maxIterations)
}

// Pixel is SolvePixel with solve in place of Solve.
func (solve SolveFunc) Pixel(vp Viewport, x, y, width, height, maxIterations int) EscapePoint {
	escape, z := solve(vp.Point(x, y, width, height), maxIterations)
	return EscapePoint{X: x, Y: y, Escape: escape, Z: z}
}
