package render

import (
	"context"
	"fmt"
	"image"
	"sync/atomic"
	"time"

	fb "github.com/gonutz/framebuffer"
	"github.com/rook-computer/mandelview/internal/state"
	xdraw "golang.org/x/image/draw"
)

// FBRenderer renders to the Linux framebuffer using an offscreen logical canvas.
type FBRenderer struct {
	*Canvas

	Device  string
	fbDev   *fb.Device
	running atomic.Bool
	current Screen
	Logger  Logger
	Debug   bool

	// NativeSize sizes the canvas to the framebuffer instead of
	// CanvasWidth x CanvasHeight.
	NativeSize bool
}

func NewFBRenderer() *FBRenderer { return &FBRenderer{Device: "/dev/fb0", NativeSize: true} }

func (r *FBRenderer) Start(ctx context.Context) error {
	dev, err := fb.Open(r.Device)
	if err != nil {
		return fmt.Errorf("open framebuffer %s: %w", r.Device, err)
	}
	r.fbDev = dev
	bounds := dev.Bounds()
	if r.Logger != nil {
		r.Logger.Infof("fb", "framebuffer open, bounds=%dx%d", bounds.Dx(), bounds.Dy())
	}

	width, height := CanvasWidth, CanvasHeight
	if r.NativeSize {
		width, height = bounds.Dx(), bounds.Dy()
	}
	r.Canvas = NewCanvas(width, height, r.Logger)

	r.running.Store(true)
	return nil
}

func (r *FBRenderer) Stop() error {
	r.running.Store(false)
	if r.fbDev != nil {
		r.fbDev.Close()
	}
	return nil
}

func (r *FBRenderer) Size() (int, int) {
	if r.Canvas == nil {
		if r.NativeSize {
			return 0, 0
		}
		return CanvasWidth, CanvasHeight
	}
	return r.Canvas.Size()
}

// SetScreen sets the current logical screen to be drawn.
func (r *FBRenderer) SetScreen(screen Screen) { r.current = screen }

// RedrawWithState draws the current screen and blits it.
func (r *FBRenderer) RedrawWithState(snap state.State) {
	if !r.running.Load() || r.current == nil || r.fbDev == nil {
		return
	}
	r.FillBackground()
	r.current.Draw(r, snap)
	blitToFB(r.fbDev, r.Image())
}

// RunLoop ticks and redraws at hz until the context is done.
func (r *FBRenderer) RunLoop(ctx context.Context, hz int, tick TickFunc) error {
	lastLog := time.Now()
	return RunTicker(ctx, hz, func() error {
		snap, err := tick()
		if err != nil {
			return err
		}
		r.RedrawWithState(snap)
		if r.Debug && r.Logger != nil && time.Since(lastLog) > time.Second {
			r.Logger.Infof("fb", "heartbeat frame, phase=%s", snap.Phase)
			lastLog = time.Now()
		}
		return nil
	})
}

// blitToFB scales the canvas onto the framebuffer.
func blitToFB(dev *fb.Device, canvas *image.RGBA) {
	if dev == nil {
		return
	}
	xdraw.NearestNeighbor.Scale(dev, dev.Bounds(), canvas, canvas.Bounds(), xdraw.Src, nil)
}
