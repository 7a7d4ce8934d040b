package screens

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/gogpu/gg"
	"github.com/rook-computer/mandelview/internal/render"
	"github.com/rook-computer/mandelview/internal/render/layout"
	"github.com/rook-computer/mandelview/internal/state"
	"github.com/rook-computer/mandelview/internal/widget"
)

type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

// Source is what the fractal screen reads from the control thread.
type Source interface {
	Image() image.Image
	Panel() *widget.Panel
	Pointer() image.Point
}

const (
	hudPadPx      = 12
	hudTextSize   = 14
	captionSize   = 14
	qrSizePx      = 140
	hudLineHeight = 20
	hudBackdropPx = 4
)

var hudBackdrop = color.NRGBA{A: 150}

// FractalScreen draws the pixel image scaled to the canvas, with the
// control panel and a status HUD on top.
type FractalScreen struct {
	Source     Source
	Logger     Logger
	Theme      widget.Theme
	ControlURL string
	NoHUD      bool

	dc     *gg.Context
	dcSize image.Point
	qr     render.QRCode

	lastFrame time.Time
	fps       float64
}

func NewFractalScreen(source Source, logger Logger) *FractalScreen {
	return &FractalScreen{Source: source, Logger: logger, Theme: widget.DefaultTheme}
}

func (screen *FractalScreen) Start(ctx context.Context) error { return nil }

func (screen *FractalScreen) Stop() error {
	if screen.dc != nil {
		_ = screen.dc.Close()
		screen.dc = nil
	}
	return nil
}

func (screen *FractalScreen) Draw(r render.Drawer, st state.State) {
	w, h := r.Size()
	full := image.Rect(0, 0, w, h)
	if img := screen.Source.Image(); img != nil {
		r.DrawImageInRect(img, full, render.ScaleModeFit)
	}
	screen.tickFPS()
	if screen.NoHUD {
		return
	}

	screen.drawPanel(r)
	screen.drawStatus(r, full, st)
	screen.drawQR(r, full)
}

func (screen *FractalScreen) drawPanel(r render.Drawer) {
	panel := screen.Source.Panel()
	if panel == nil || panel.Bounds.Empty() {
		return
	}
	b := panel.Bounds
	if screen.dc == nil || screen.dcSize != b.Size() {
		if screen.dc != nil {
			_ = screen.dc.Close()
		}
		screen.dc = gg.NewContext(b.Dx(), b.Dy())
		screen.dcSize = b.Size()
	}
	dc := screen.dc
	dc.Clear()
	dc.Identity()
	dc.Translate(float64(-b.Min.X), float64(-b.Min.Y))
	panel.Draw(dc, screen.Theme, screen.Source.Pointer())
	r.DrawImage(dc.Image(), b.Min.X, b.Min.Y, render.ImageOpts{Over: true})

	for _, c := range panel.Captions() {
		align := render.TextAlignLeft
		if c.Centered {
			align = render.TextAlignCenter
		}
		r.DrawTextClipped(c.Text, c.Rect, render.TextStyle{Color: screen.Theme.TextColor(), Size: captionSize, Align: align})
	}
}

func (screen *FractalScreen) drawStatus(r render.Drawer, full image.Rectangle, st state.State) {
	lines := []string{
		fmt.Sprintf("%s  %dx%d  %d workers", st.Phase, st.Stats.Width, st.Stats.Height, st.Stats.Workers),
		fmt.Sprintf("compute %s  recolor %s  %.0f fps", roundMs(st.Stats.LastCompute), roundMs(st.Stats.LastRecolor), screen.fps),
	}
	if st.Stats.MissingPartitions > 0 {
		lines = append(lines, fmt.Sprintf("%d partitions missing", st.Stats.MissingPartitions))
	}
	if st.Phase == state.ERROR && st.Stats.LastError != "" {
		lines = append(lines, st.Stats.LastError)
	}

	_, bottom := layout.SplitHorizontal(layout.Inset(full, hudPadPx), full.Dy()-2*hudPadPx-len(lines)*hudLineHeight)
	style := render.TextStyle{Color: render.Foreground, Size: hudTextSize}
	width := 0
	for _, line := range lines {
		width = max(width, r.MeasureText(line, style).Width)
	}
	backdrop := image.Rect(bottom.Min.X, bottom.Min.Y, bottom.Min.X+width, bottom.Max.Y)
	r.FillRect(backdrop.Inset(-hudBackdropPx), hudBackdrop)
	for i, line := range lines {
		r.DrawText(line, bottom.Min.X, bottom.Min.Y+i*hudLineHeight, style)
	}
}

func (screen *FractalScreen) drawQR(r render.Drawer, full image.Rectangle) {
	img, err := screen.qr.Image(screen.ControlURL, qrSizePx)
	if err != nil {
		if screen.Logger != nil {
			screen.Logger.Errorf("screen", "qr code: %v", err)
		}
		return
	}
	if img == nil {
		return
	}
	area := layout.Inset(full, hudPadPx)
	_, column := layout.SplitVertical(area, area.Dx()-qrSizePx)
	box := layout.FitSquare(column)
	if box.Empty() {
		return
	}
	r.DrawImageInRect(img, box, render.ScaleModeFit)
	r.DrawText(screen.ControlURL, box.Max.X, box.Max.Y+4, render.TextStyle{Color: render.Foreground, Size: hudTextSize, Align: render.TextAlignRight})
}

func (screen *FractalScreen) tickFPS() {
	now := time.Now()
	if !screen.lastFrame.IsZero() {
		if dt := now.Sub(screen.lastFrame).Seconds(); dt > 0 {
			screen.fps = 0.9*screen.fps + 0.1/dt
		}
	}
	screen.lastFrame = now
}

func roundMs(d time.Duration) time.Duration { return d.Round(time.Millisecond) }
