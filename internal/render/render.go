package render

import (
	"context"
	"image"
	"image/color"

	"github.com/rook-computer/mandelview/internal/state"
)

type Renderer interface {
	Start(ctx context.Context) error
	Stop() error
	Size() (width int, height int)
	SetScreen(screen Screen)
	// RunLoop calls tick and redraws at hz until ctx is done or tick
	// returns an error.
	RunLoop(ctx context.Context, hz int, tick TickFunc) error
	RedrawWithState(snap state.State)
}

// TickFunc advances the application by one frame and returns the state
// to draw.
type TickFunc func() (state.State, error)

type Screen interface {
	Start(ctx context.Context) error
	Stop() error
	Draw(r Drawer, s state.State)
}

// NoopRenderer ticks without drawing. It backs the headless mode.
type NoopRenderer struct {
	Width, Height int
}

func (n *NoopRenderer) Start(ctx context.Context) error  { return nil }
func (n *NoopRenderer) Stop() error                      { return nil }
func (n *NoopRenderer) Size() (int, int)                 { return n.Width, n.Height }
func (n *NoopRenderer) SetScreen(screen Screen)          {}
func (n *NoopRenderer) RedrawWithState(snap state.State) {}
func (n *NoopRenderer) RunLoop(ctx context.Context, hz int, tick TickFunc) error {
	return RunTicker(ctx, hz, func() error {
		_, err := tick()
		return err
	})
}

// Drawer is an abstraction the renderer provides to screens to draw primitives
// without exposing low-level framebuffer details.
type Drawer interface {
	// Size returns the logical canvas size (in pixels) that screens draw into.
	Size() (width int, height int)

	FillBackground()
	FillRect(rect image.Rectangle, col color.Color)

	// Generic text primitives.
	MeasureText(text string, style TextStyle) TextMetrics
	DrawText(text string, x, y int, style TextStyle) TextMetrics
	// DrawTextClipped centers text vertically in rect, aligns it per style
	// and clips glyphs to rect.
	DrawTextClipped(text string, rect image.Rectangle, style TextStyle)

	// Generic image primitives.
	DrawImage(img image.Image, x, y int, opts ImageOpts)
	DrawImageInRect(img image.Image, rect image.Rectangle, mode ScaleMode)
}

type TextAlign int

const (
	TextAlignLeft TextAlign = iota
	TextAlignCenter
	TextAlignRight
)

// TextStyle describes how to render text.
// Coordinates for DrawText use a top-left anchor for Y.
// For X, Align controls how x is interpreted.
type TextStyle struct {
	Color color.Color
	Size  int // font size in points; 0 means renderer default
	Align TextAlign
}

type TextMetrics struct {
	Width      int
	Height     int
	Ascent     int
	Descent    int
	LineHeight int
}

type ScaleMode int

const (
	ScaleModeFit ScaleMode = iota
	ScaleModeFill
	ScaleModeStretch
)

type ImageOpts struct {
	// Over composites with alpha; the default copies source pixels.
	Over bool
}
