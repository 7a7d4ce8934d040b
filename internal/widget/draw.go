package widget

import (
	"image"
	"image/color"
	"strconv"

	"github.com/gogpu/gg"
)

const (
	cornerRadius = 4
	checkboxPad  = 4
	captionPad   = 8
)

// Caption is a piece of widget text for the text renderer. Shapes are drawn
// by Draw; text goes through the HUD font.
type Caption struct {
	Text     string
	Rect     image.Rectangle
	Centered bool
}

// Draw paints the panel shapes onto dc. hot is the pointer position, used
// for hover highlighting.
func (p *Panel) Draw(dc *gg.Context, theme Theme, hot image.Point) {
	if !p.Bounds.Empty() {
		bg := theme.With(theme.Outline)
		bg.A /= 2
		roundRect(dc, p.Bounds, cornerRadius*2)
		fill(dc, bg)
	}

	active := p.Active()
	for i := range p.Widgets {
		w := &p.Widgets[i]
		base := theme.Fill
		switch {
		case w == active:
			base = theme.Selected
		case w.Interactive() && hot.In(w.Rect):
			base = theme.Hover
		}

		switch w.Kind {
		case Button:
			roundRect(dc, w.Rect, cornerRadius)
			fill(dc, theme.With(base))
			roundRect(dc, w.Rect, cornerRadius)
			stroke(dc, theme.With(theme.Outline))

		case Slider:
			roundRect(dc, w.Rect, cornerRadius)
			fill(dc, theme.With(base))
			done := w.Rect
			done.Max.X = done.Min.X + int(w.Fraction()*float64(w.Rect.Dx()))
			if !done.Empty() {
				roundRect(dc, done, cornerRadius)
				fill(dc, theme.With(theme.Selected))
			}
			knobX := float64(done.Max.X)
			knobY := float64(w.Rect.Min.Y+w.Rect.Max.Y) / 2
			dc.DrawCircle(knobX, knobY, float64(w.Rect.Dy())/3)
			fill(dc, theme.With(theme.Text))
			roundRect(dc, w.Rect, cornerRadius)
			stroke(dc, theme.With(theme.Outline))

		case Checkbox:
			box := checkboxRect(w.Rect)
			roundRect(dc, box, cornerRadius/2)
			fill(dc, theme.With(base))
			roundRect(dc, box, cornerRadius/2)
			stroke(dc, theme.With(theme.Outline))
			if w.Checked {
				mark := box.Inset(checkboxPad)
				roundRect(dc, mark, 1)
				fill(dc, theme.With(theme.Text))
			}
		}
	}
}

// Captions returns the text of every widget and where to put it.
func (p *Panel) Captions() []Caption {
	out := make([]Caption, 0, len(p.Widgets))
	for _, w := range p.Widgets {
		switch w.Kind {
		case Button:
			out = append(out, Caption{Text: w.Text, Rect: w.Rect, Centered: true})
		case Slider:
			r := w.Rect
			r.Min.X += captionPad
			out = append(out, Caption{Text: w.Text + " " + formatValue(w.Value, w.Step), Rect: r})
		case Checkbox:
			r := w.Rect
			r.Min.X = checkboxRect(w.Rect).Max.X + captionPad
			out = append(out, Caption{Text: w.Text, Rect: r})
		case Label:
			if w.Text != "" {
				out = append(out, Caption{Text: w.Text, Rect: w.Rect})
			}
		}
	}
	return out
}

func checkboxRect(r image.Rectangle) image.Rectangle {
	side := r.Dy()
	return image.Rect(r.Min.X, r.Min.Y, r.Min.X+side, r.Min.Y+side)
}

func formatValue(v, step float64) string {
	prec := 2
	if step >= 1 {
		prec = 0
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}

func roundRect(dc *gg.Context, r image.Rectangle, radius float64) {
	dc.DrawRoundedRectangle(float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()), radius)
}

func fill(dc *gg.Context, c color.Color) {
	dc.SetColor(c)
	_ = dc.Fill()
}

func stroke(dc *gg.Context, c color.Color) {
	dc.SetColor(c)
	dc.SetLineWidth(1)
	_ = dc.Stroke()
}
