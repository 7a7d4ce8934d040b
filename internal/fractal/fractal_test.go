package fractal

import (
	"errors"
	"math"
	"testing"
)

func TestScenarioFourByFour(t *testing.T) {
	c := NewComputer(DefaultWorkers)
	f, err := c.Compute(4, 4, 50)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	corner := f.At(0, 0)
	if got := DefaultViewport.Point(0, 0, 4, 4); got != complex(-2, -1) {
		t.Fatalf("pixel (0,0) maps to %v", got)
	}
	if corner.Interior(50) {
		t.Fatalf("corner should escape, got escape=%v", corner.Escape)
	}
	if math.Abs(corner.Escape-1) > 0.5 {
		t.Fatalf("corner smoothed escape = %v, want 1 +- 0.5", corner.Escape)
	}

	center := f.At(2, 2)
	if got := DefaultViewport.Point(2, 2, 4, 4); got != complex(-0.5, 0) {
		t.Fatalf("center maps to %v", got)
	}
	if center.Escape != 50 {
		t.Fatalf("center escape = %v, want 50", center.Escape)
	}
}

func TestOriginIsInterior(t *testing.T) {
	for _, max := range []int{1, 2, 7, 100, 1000} {
		escape, _ := Solve(0, max)
		if escape < float64(max) {
			t.Fatalf("max=%d: escape=%v", max, escape)
		}
	}
}

func TestEscapeOnLastStepIsNotInterior(t *testing.T) {
	// c = 2.5 escapes on step one with ln|z| < 1, so the raw smoothed count
	// lands above a limit of one.
	escape, z := Solve(2.5, 1)
	if real(z) != 2.5 {
		t.Fatalf("z = %v", z)
	}
	p := EscapePoint{Escape: escape}
	if escape >= 1 || p.Interior(1) {
		t.Fatalf("escape = %v reads as interior", escape)
	}
}

func TestEscapedPixelsNeverInterior(t *testing.T) {
	const max = 50
	f, err := NewComputer(4).Compute(400, 300, max)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range f.Points() {
		escaped := real(p.Z)*real(p.Z)+imag(p.Z)*imag(p.Z) > 4
		if escaped == p.Interior(max) {
			t.Fatalf("pixel (%d,%d) escaped=%v escape=%v", p.X, p.Y, escaped, p.Escape)
		}
	}
}

func TestSolveSmoothing(t *testing.T) {
	// c = 2 escapes on the second step: z1 = 2, z2 = 6.
	escape, z := Solve(2, 100)
	if z != 6 {
		t.Fatalf("z = %v, want 6", z)
	}
	want := 2 - math.Log(math.Log(6))/math.Log(2)
	if escape != want {
		t.Fatalf("escape = %v, want %v", escape, want)
	}
}

func TestViewportUsesBothAxes(t *testing.T) {
	got := DefaultViewport.Point(3, 1, 6, 4)
	if real(got) != -0.5 || imag(got) != -0.5 {
		t.Fatalf("Point(3,1) = %v", got)
	}
}

func TestSplitColumns(t *testing.T) {
	tests := []struct {
		width, workers int
		want           int
	}{
		{width: 100, workers: 8, want: 8},
		{width: 3, workers: 8, want: 3},
		{width: 16, workers: 16, want: 16},
		{width: 10, workers: 0, want: 1},
		{width: 0, workers: 4, want: 0},
	}
	for _, tt := range tests {
		parts := SplitColumns(tt.width, tt.workers)
		if len(parts) != tt.want {
			t.Fatalf("SplitColumns(%d,%d) = %d parts, want %d", tt.width, tt.workers, len(parts), tt.want)
		}
		next := 0
		for i, p := range parts {
			if p.Index != i || p.X0 != next || p.X1 <= p.X0 {
				t.Fatalf("SplitColumns(%d,%d): bad partition %v", tt.width, tt.workers, p)
			}
			if d := (p.X1 - p.X0) - (parts[0].X1 - parts[0].X0); d < -1 || d > 0 {
				t.Fatalf("SplitColumns(%d,%d): uneven partition %v", tt.width, tt.workers, p)
			}
			next = p.X1
		}
		if next != tt.width {
			t.Fatalf("SplitColumns(%d,%d) covers [0,%d)", tt.width, tt.workers, next)
		}
	}
}

func TestComputeDeterministic(t *testing.T) {
	c := NewComputer(DefaultWorkers)
	a, err := c.Compute(97, 61, 200)
	if err != nil {
		t.Fatal(err)
	}
	b, err := c.Compute(97, 61, 200)
	if err != nil {
		t.Fatal(err)
	}
	if !a.Equal(b) {
		t.Fatal("two passes produced different fields")
	}
}

func TestComputePartitionInvariant(t *testing.T) {
	ref, err := NewComputer(1).Compute(64, 40, 150)
	if err != nil {
		t.Fatal(err)
	}
	for _, workers := range []int{4, 16} {
		f, err := NewComputer(workers).Compute(64, 40, 150)
		if err != nil {
			t.Fatal(err)
		}
		if !ref.Equal(f) {
			t.Fatalf("workers=%d differs from single partition", workers)
		}
	}
}

func TestComputeFillsEveryCoordinate(t *testing.T) {
	f, err := NewComputer(5).Compute(23, 9, 30)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			p := f.At(x, y)
			if p.X != x || p.Y != y {
				t.Fatalf("At(%d,%d) holds (%d,%d)", x, y, p.X, p.Y)
			}
		}
	}
	if !f.Complete() {
		t.Fatal("field reports missing partitions")
	}
}

func TestComputeRejectsBadArguments(t *testing.T) {
	c := NewComputer(2)
	if _, err := c.Compute(0, 10, 10); !errors.Is(err, ErrInvalidGrid) {
		t.Fatalf("width 0: err = %v", err)
	}
	if _, err := c.Compute(10, -1, 10); !errors.Is(err, ErrInvalidGrid) {
		t.Fatalf("height -1: err = %v", err)
	}
	if _, err := c.Compute(10, 10, 0); !errors.Is(err, ErrInvalidIterations) {
		t.Fatalf("max 0: err = %v", err)
	}
}

func TestComputeSkipsFailedPartition(t *testing.T) {
	c := &Computer{
		Workers: 4,
		Solve: func(z complex128, max int) (float64, complex128) {
			if real(z) >= 0.2 {
				panic("boom")
			}
			return Solve(z, max)
		},
	}
	f, err := c.Compute(8, 4, 20)
	if f == nil {
		t.Fatal("field should be returned on partition failure")
	}
	var perr *PartitionError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want PartitionError", err)
	}
	// Columns 6 and 7 map to re >= 0.25 and belong to the last partition.
	if len(f.Missing()) != 1 || f.Missing()[0].X0 != 6 {
		t.Fatalf("missing = %v", f.Missing())
	}
	if f.Covered(7) || !f.Covered(0) {
		t.Fatal("Covered disagrees with Missing")
	}
	if p := f.At(0, 0); p.X != 0 || p.Escape == 0 {
		t.Fatalf("healthy partition not merged: %+v", p)
	}
}

func TestComputeMatchesSolvePixel(t *testing.T) {
	f, err := NewComputer(3).Compute(9, 5, 40)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 5; y++ {
		for x := 0; x < 9; x++ {
			if got, want := f.At(x, y), SolvePixel(DefaultViewport, x, y, 9, 5, 40); got != want {
				t.Fatalf("(%d,%d) = %+v, want %+v", x, y, got, want)
			}
		}
	}
}
