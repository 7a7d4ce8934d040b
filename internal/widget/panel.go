package widget

import (
	"image"

	"github.com/rook-computer/mandelview/internal/input"
)

// Panel owns a fixed list of widgets. All methods are called from the
// control thread.
type Panel struct {
	Widgets []Widget
	// Bounds is the panel background, empty for none.
	Bounds image.Rectangle

	// active is the widget that received the press, -1 when none. A slider
	// keeps tracking the pointer while active even outside its rect.
	active int
}

func NewPanel(widgets ...Widget) *Panel {
	return &Panel{Widgets: widgets, active: -1}
}

// Update applies one tick of pointer input and returns what changed.
// Buttons fire and checkboxes toggle on release inside the widget that took
// the press. Sliders follow the pointer while the left button is held.
func (p *Panel) Update(prev, cur input.Pointer) []Event {
	var events []Event

	if input.Pressed(prev.Left, cur.Left) {
		p.active = p.hit(cur.X, cur.Y)
	}
	if p.active < 0 {
		return nil
	}
	w := &p.Widgets[p.active]

	if w.Kind == Slider && cur.Left {
		if v := w.valueAt(cur.X); v != w.Value {
			w.Value = v
			events = append(events, Event{ID: w.ID, Kind: Slider, Value: v})
		}
	}

	if input.Released(prev.Left, cur.Left) {
		if w.Contains(cur.X, cur.Y) {
			switch w.Kind {
			case Button:
				events = append(events, Event{ID: w.ID, Kind: Button})
			case Checkbox:
				w.Checked = !w.Checked
				events = append(events, Event{ID: w.ID, Kind: Checkbox, Checked: w.Checked})
			}
		}
		p.active = -1
	}
	return events
}

// hit returns the topmost interactive widget under x,y or -1.
func (p *Panel) hit(x, y int) int {
	for i := len(p.Widgets) - 1; i >= 0; i-- {
		if p.Widgets[i].Interactive() && p.Widgets[i].Contains(x, y) {
			return i
		}
	}
	return -1
}

// Active returns the widget holding the pointer capture.
func (p *Panel) Active() *Widget {
	if p.active < 0 || p.active >= len(p.Widgets) {
		return nil
	}
	return &p.Widgets[p.active]
}

// Find returns the widget with id or nil.
func (p *Panel) Find(id string) *Widget {
	for i := range p.Widgets {
		if p.Widgets[i].ID == id {
			return &p.Widgets[i]
		}
	}
	return nil
}

// Set moves a slider without emitting events, for values that arrive from
// another source. A slider being dragged is left alone.
func (p *Panel) Set(id string, value float64) bool {
	w := p.Find(id)
	if w == nil || w.Kind != Slider || w == p.Active() {
		return false
	}
	w.Value = w.clampValue(value)
	return true
}

func (p *Panel) SetChecked(id string, checked bool) bool {
	w := p.Find(id)
	if w == nil || w.Kind != Checkbox {
		return false
	}
	w.Checked = checked
	return true
}

// SetText replaces the text of any widget.
func (p *Panel) SetText(id, text string) bool {
	w := p.Find(id)
	if w == nil {
		return false
	}
	w.Text = text
	return true
}
