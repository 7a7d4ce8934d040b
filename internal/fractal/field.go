package fractal

import "math"

// Field is the complete escape data of one compute pass. It is built by
// Computer.Compute and never modified afterwards, so it can be shared with
// recolor workers without locking.
type Field struct {
	Width, Height int
	MaxIterations int
	Viewport      Viewport

	points  []EscapePoint
	missing []Partition
}

func newField(width, height, maxIterations int, vp Viewport) *Field {
	return &Field{
		Width:         width,
		Height:        height,
		MaxIterations: maxIterations,
		Viewport:      vp,
		points:        make([]EscapePoint, width*height),
	}
}

// At returns the point at pixel (x, y).
func (f *Field) At(x, y int) EscapePoint {
	return f.points[y*f.Width+x]
}

// Points returns the row-major point slice. Callers must not modify it.
func (f *Field) Points() []EscapePoint {
	return f.points
}

// Missing lists partitions whose worker failed. Their pixels hold zero
// values and are painted as background.
func (f *Field) Missing() []Partition {
	return f.missing
}

// Complete reports whether every partition merged.
func (f *Field) Complete() bool {
	return len(f.missing) == 0
}

// Covered reports whether column x belongs to a merged partition.
func (f *Field) Covered(x int) bool {
	for _, p := range f.missing {
		if x >= p.X0 && x < p.X1 {
			return false
		}
	}
	return true
}

// Equal compares two fields bit for bit.
func (f *Field) Equal(other *Field) bool {
	if f == nil || other == nil {
		return f == other
	}
	if f.Width != other.Width || f.Height != other.Height || f.MaxIterations != other.MaxIterations || f.Viewport != other.Viewport {
		return false
	}
	if len(f.points) != len(other.points) || len(f.missing) != len(other.missing) {
		return false
	}
	for i := range f.points {
		a, b := f.points[i], other.points[i]
		if a.X != b.X || a.Y != b.Y {
			return false
		}
		if math.Float64bits(a.Escape) != math.Float64bits(b.Escape) ||
			math.Float64bits(real(a.Z)) != math.Float64bits(real(b.Z)) ||
			math.Float64bits(imag(a.Z)) != math.Float64bits(imag(b.Z)) {
			return false
		}
	}
	return true
}

func (f *Field) merge(points []EscapePoint) {
	for _, p := range points {
		f.points[p.Y*f.Width+p.X] = p
	}
}
