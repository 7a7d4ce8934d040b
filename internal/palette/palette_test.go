package palette

import (
	"bytes"
	"math"
	"testing"

	"github.com/rook-computer/mandelview/internal/fractal"
)

func TestHSVBoundaries(t *testing.T) {
	for _, h := range []float64{0, 359.999} {
		for _, s := range []float64{0, 100} {
			for _, v := range []float64{0, 100} {
				r, g, b := HSVToRGB(h, s, v)
				if v == 0 && (r != 0 || g != 0 || b != 0) {
					t.Fatalf("HSV(%v,%v,0) = %d,%d,%d, want black", h, s, r, g, b)
				}
				if s == 0 && (r != g || g != b) {
					t.Fatalf("HSV(%v,0,%v) = %d,%d,%d, want gray", h, v, r, g, b)
				}
			}
		}
	}
}

func TestHSVPrimaries(t *testing.T) {
	tests := []struct {
		h       float64
		r, g, b uint8
	}{
		{0, 255, 0, 0},
		{120, 0, 255, 0},
		{240, 0, 0, 255},
	}
	for _, tt := range tests {
		r, g, b := HSVToRGB(tt.h, 100, 100)
		if r != tt.r || g != tt.g || b != tt.b {
			t.Fatalf("HSV(%v) = %d,%d,%d, want %d,%d,%d", tt.h, r, g, b, tt.r, tt.g, tt.b)
		}
	}
}

func TestHSVClampsOutOfRange(t *testing.T) {
	r1, g1, b1 := HSVToRGB(30, 250, -4)
	r2, g2, b2 := HSVToRGB(30, 100, 0)
	if r1 != r2 || g1 != g2 || b1 != b2 {
		t.Fatalf("clamped conversion differs")
	}
}

func TestWrapHue(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 0},
		{360, 0},
		{725, 5},
		{-90, 270},
		{math.NaN(), 0},
		{math.Inf(1), 0},
	}
	for _, tt := range tests {
		if got := WrapHue(tt.in); got != tt.want {
			t.Fatalf("WrapHue(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if got := WrapHue(-1e-20); got < 0 || got >= 360 {
		t.Fatalf("WrapHue(-1e-20) = %v out of range", got)
	}
}

func TestMapInteriorIgnoresParams(t *testing.T) {
	styles := []Params{
		DefaultParams,
		{HueModifier: -3, Saturation: 0, Value: 10, Grayscale: true},
		{HueModifier: 1e9, Saturation: 500, Value: -5},
	}
	for _, p := range styles {
		if got := Map(50, 0, 50, p); got != Background {
			t.Fatalf("Map(interior, %+v) = %v", p, got)
		}
	}
}

func TestMapLastStepEscapeIsColored(t *testing.T) {
	escape, z := fractal.Solve(2.5, 1)
	if got := Map(escape, z, 1, DefaultParams); got == Background {
		t.Fatalf("Map(%v) painted background for an escaping point", escape)
	}
}

func TestMapGrayscale(t *testing.T) {
	p := Params{HueModifier: 2.5, Saturation: 100, Value: 80, Grayscale: true}
	for _, escape := range []float64{0.3, 1.7, 12, 49.99} {
		c := Map(escape, 0, 50, p)
		if c.R != c.G || c.G != c.B {
			t.Fatalf("grayscale Map(%v) = %v", escape, c)
		}
	}
}

func TestPaintOnlyReadsField(t *testing.T) {
	f, err := fractal.NewComputer(4).Compute(48, 32, 80)
	if err != nil {
		t.Fatal(err)
	}
	p1 := Params{HueModifier: 1, Saturation: 90, Value: 100}
	p2 := Params{HueModifier: 7, Saturation: 30, Value: 60, Grayscale: true}

	first := NewImage(f)
	Paint(first, f, p1)
	other := NewImage(f)
	Paint(other, f, p2)
	again := NewImage(f)
	Paint(again, f, p1)

	if !bytes.Equal(first.Pix, again.Pix) {
		t.Fatal("P1 -> P2 -> P1 did not reproduce the first buffer")
	}
	if bytes.Equal(first.Pix, other.Pix) {
		t.Fatal("different params produced identical buffers")
	}
}

func TestPaintBackgroundForMissingPartition(t *testing.T) {
	c := &fractal.Computer{
		Workers: 2,
		Solve: func(z complex128, max int) (float64, complex128) {
			if real(z) > -0.5 {
				panic("bad partition")
			}
			return 0.5, z
		},
	}
	f, _ := c.Compute(4, 2, 10)
	img := NewImage(f)
	Paint(img, f, DefaultParams)
	if got := img.RGBAAt(3, 1); got != Background {
		t.Fatalf("missing pixel = %v", got)
	}
	if got := img.RGBAAt(0, 0); got == Background {
		t.Fatal("merged pixel painted as background")
	}
}
