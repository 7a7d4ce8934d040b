// Package widget is the small immediate-mode control panel drawn over the
// fractal. The widget set is closed: every widget is one of the Kind values
// and behaviour switches on Kind.
package widget

import (
	"image"
	"math"
)

type Kind int

const (
	Button Kind = iota
	Slider
	Checkbox
	Label
)

func (k Kind) String() string {
	switch k {
	case Button:
		return "button"
	case Slider:
		return "slider"
	case Checkbox:
		return "checkbox"
	case Label:
		return "label"
	default:
		return "unknown"
	}
}

// Widget is one control. Min, Max, Step and Value are only meaningful for
// sliders, Checked only for checkboxes.
type Widget struct {
	ID   string
	Kind Kind
	Rect image.Rectangle
	Text string

	Min, Max, Step float64
	Value          float64
	Checked        bool
}

// Contains reports whether x,y lies inside the widget rectangle (Max is
// exclusive).
func (w Widget) Contains(x, y int) bool {
	return image.Pt(x, y).In(w.Rect)
}

// Interactive reports whether the widget reacts to the pointer.
func (w Widget) Interactive() bool { return w.Kind != Label }

// Fraction is the slider position in [0,1].
func (w Widget) Fraction() float64 {
	if w.Max <= w.Min {
		return 0
	}
	f := (w.Value - w.Min) / (w.Max - w.Min)
	return math.Min(1, math.Max(0, f))
}

// clampValue limits v to [Min,Max] and snaps it to Step.
func (w Widget) clampValue(v float64) float64 {
	if math.IsNaN(v) {
		v = w.Min
	}
	if w.Step > 0 {
		v = w.Min + math.Round((v-w.Min)/w.Step)*w.Step
	}
	if v < w.Min {
		v = w.Min
	}
	if v > w.Max {
		v = w.Max
	}
	return v
}

// valueAt maps a pointer x coordinate onto the slider range.
func (w Widget) valueAt(x int) float64 {
	width := w.Rect.Dx() - 1
	if width <= 0 {
		return w.Min
	}
	f := float64(x-w.Rect.Min.X) / float64(width)
	return w.clampValue(w.Min + f*(w.Max-w.Min))
}

// Event is emitted by Panel.Update when a widget changes or is clicked.
type Event struct {
	ID      string
	Kind    Kind
	Value   float64
	Checked bool
}
