package app

import (
	"errors"
	"fmt"
	"image"
	"runtime/debug"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rook-computer/mandelview/internal/fractal"
	"github.com/rook-computer/mandelview/internal/input"
	"github.com/rook-computer/mandelview/internal/palette"
	"github.com/rook-computer/mandelview/internal/recolor"
	"github.com/rook-computer/mandelview/internal/state"
	"github.com/rook-computer/mandelview/internal/widget"
)

// Controller is the control thread. It owns the field, the pixel image,
// the widget panel and both background jobs; all methods except Published
// must be called from the goroutine that drives Tick.
type Controller struct {
	Store    *state.Store
	Computer *fractal.Computer
	Logger   Logger

	// HUDHidden ignores pointer input while the panel is not drawn.
	HUDHidden bool

	width, height int

	field   *fractal.Field
	pixels  *image.RGBA
	panel   *widget.Panel
	recolor *recolor.Orchestrator

	compute     *computeJob
	nextCompute *int

	// applied is the last params snapshot acted on.
	applied state.Params
	pointer image.Point
	failed  bool

	published atomic.Pointer[image.RGBA]
}

type computeJob struct {
	maxIterations int
	started       time.Time
	done          chan computeOutcome
}

type computeOutcome struct {
	field *fractal.Field
	err   error
}

func NewController(store *state.Store, computer *fractal.Computer, width, height int, logger Logger) *Controller {
	if logger == nil {
		logger = NoopLogger{}
	}
	if computer == nil {
		computer = fractal.NewComputer(fractal.DefaultWorkers)
	}
	if computer.Logger == nil {
		computer.Logger = logger
	}
	return &Controller{
		Store:    store,
		Computer: computer,
		Logger:   logger,
		width:    width,
		height:   height,
		panel:    widget.NewControlPanel(image.Rect(0, 0, widget.PanelWidth, widget.PanelHeight)),
		recolor:  recolor.New(logger),
	}
}

// Init runs the one blocking compute and paint before the first frame.
// Argument errors are fatal; failed partitions are logged and shown as
// background.
func (c *Controller) Init() error {
	params := c.Store.Snapshot().Params
	c.Store.SetPhase(state.COMPUTING)
	c.Store.UpdateStats(func(s *state.Stats) {
		s.Width, s.Height, s.Workers = c.width, c.height, c.workers()
	})

	start := time.Now()
	field, err := c.Computer.Compute(c.width, c.height, params.MaxIterations)
	if field == nil {
		c.fail(err)
		return fmt.Errorf("initial compute: %w", err)
	}
	c.noteCompute(field, err, time.Since(start))

	c.field = field
	c.pixels = palette.NewImage(field)
	paintStart := time.Now()
	palette.Paint(c.pixels, field, params.Color)
	c.recolor.SetField(field)
	c.recolor.Seed(params.Color)
	c.noteRecolor(time.Since(paintStart))

	c.applied = params
	c.syncPanel(params)
	c.publish()
	c.Store.SetPhase(state.READY)
	return nil
}

// Tick advances one frame and never blocks. It reports whether the pixel
// image changed.
func (c *Controller) Tick(prev, cur input.Frame) bool {
	c.pointer = image.Pt(cur.Pointer.X, cur.Pointer.Y)

	recompute := input.RecomputeEdge(prev, cur)
	var events []widget.Event
	if !c.HUDHidden {
		events = c.panel.Update(prev.Pointer, cur.Pointer)
	}
	for _, ev := range events {
		if ev.ID == widget.IDRecompute {
			recompute = true
			continue
		}
		c.Store.UpdateParams(func(p *state.Params) { applyEvent(p, ev) })
	}
	if c.Store.TakeRecompute() {
		recompute = true
	}

	snap := c.Store.Snapshot()
	params := snap.Params
	c.syncPanel(params)

	if params.MaxIterations != c.applied.MaxIterations {
		recompute = true
	}
	if recompute {
		c.requestCompute(params.MaxIterations)
	}
	c.pollCompute()

	if params.Color != c.applied.Color {
		c.recolor.Request(params.Color)
	}
	c.applied = params

	redraw := c.pollRecolor()
	c.updatePhase(snap.Phase)
	c.Store.UpdateStats(func(s *state.Stats) {
		s.Frames++
		s.Coalesced = c.recolor.Coalesced()
	})
	return redraw
}

// Size is the fractal grid size.
func (c *Controller) Size() (int, int) { return c.width, c.height }

// SetSize changes the grid size used by Init and later computes.
func (c *Controller) SetSize(width, height int) {
	c.width, c.height = width, height
}

// Image is the pixel image drawn by the screen.
func (c *Controller) Image() image.Image {
	if c.pixels == nil {
		return nil
	}
	return c.pixels
}

func (c *Controller) Panel() *widget.Panel { return c.panel }

// Pointer is the pointer position of the last tick.
func (c *Controller) Pointer() image.Point { return c.pointer }

// Field is the installed escape field.
func (c *Controller) Field() *fractal.Field { return c.field }

// Published returns an immutable copy of the last finished image, or nil
// before the first frame. Safe from any goroutine.
func (c *Controller) Published() image.Image {
	img := c.published.Load()
	if img == nil {
		return nil
	}
	return img
}

// Busy reports whether a compute or recolor job is in flight.
func (c *Controller) Busy() bool {
	return c.compute != nil || c.recolor.State() == recolor.Running
}

func applyEvent(p *state.Params, ev widget.Event) {
	switch ev.ID {
	case widget.IDHue:
		p.Color.HueModifier = ev.Value
	case widget.IDSaturation:
		p.Color.Saturation = ev.Value
	case widget.IDValue:
		p.Color.Value = ev.Value
	case widget.IDMaxIterations:
		p.MaxIterations = int(ev.Value)
	case widget.IDGrayscale:
		p.Color.Grayscale = ev.Checked
	}
}

func (c *Controller) syncPanel(p state.Params) {
	c.panel.Set(widget.IDHue, p.Color.HueModifier)
	c.panel.Set(widget.IDSaturation, p.Color.Saturation)
	c.panel.Set(widget.IDValue, p.Color.Value)
	c.panel.Set(widget.IDMaxIterations, float64(p.MaxIterations))
	c.panel.SetChecked(widget.IDGrayscale, p.Color.Grayscale)
}

// requestCompute starts a compute job or, while one runs, remembers the
// newest iteration limit for the next one.
func (c *Controller) requestCompute(maxIterations int) {
	if c.compute != nil {
		if c.nextCompute != nil {
			c.Logger.Infof("controller", "recompute coalesced, max=%d", maxIterations)
		}
		c.nextCompute = &maxIterations
		return
	}
	c.startCompute(maxIterations)
}

func (c *Controller) startCompute(maxIterations int) {
	j := &computeJob{maxIterations: maxIterations, started: time.Now(), done: make(chan computeOutcome, 1)}
	c.compute = j
	c.Logger.Infof("controller", "recompute started, max=%d", maxIterations)

	computer, width, height := c.Computer, c.width, c.height
	go func() {
		var out computeOutcome
		defer func() {
			if r := recover(); r != nil {
				out = computeOutcome{err: fmt.Errorf("compute panic: %v\n%s", r, debug.Stack())}
			}
			j.done <- out
		}()
		out.field, out.err = computer.Compute(width, height, maxIterations)
	}()
}

func (c *Controller) pollCompute() {
	j := c.compute
	if j == nil {
		return
	}
	var out computeOutcome
	select {
	case out = <-j.done:
	default:
		return
	}
	c.compute = nil

	if next := c.nextCompute; next != nil {
		c.nextCompute = nil
		c.startCompute(*next)
	}

	if out.field == nil {
		c.fail(out.err)
		return
	}
	c.noteCompute(out.field, out.err, time.Since(j.started))
	c.field = out.field
	c.recolor.SetField(out.field)
	c.recolor.Refresh()
}

func (c *Controller) pollRecolor() bool {
	res, ok := c.recolor.Poll()
	if !ok {
		return false
	}
	if c.pixels != nil && c.pixels.Bounds() == res.Image.Bounds() {
		copy(c.pixels.Pix, res.Image.Pix)
	} else {
		c.pixels = res.Image
	}
	c.noteRecolor(res.Duration)
	c.publish()
	return true
}

func (c *Controller) publish() {
	if c.pixels == nil {
		return
	}
	cp := image.NewRGBA(c.pixels.Bounds())
	copy(cp.Pix, c.pixels.Pix)
	c.published.Store(cp)
}

func (c *Controller) updatePhase(current state.Phase) {
	next := state.READY
	switch {
	case c.compute != nil:
		next = state.COMPUTING
	case c.recolor.State() == recolor.Running:
		next = state.RECOLORING
	case c.failed:
		next = state.ERROR
	}
	if next != current {
		c.Store.SetPhase(next)
	}
	c.panel.SetText(widget.IDStatus, next.String())
}

func (c *Controller) noteCompute(field *fractal.Field, err error, took time.Duration) {
	var perr *fractal.PartitionError
	if errors.As(err, &perr) {
		c.Logger.Errorf("controller", "compute finished with %d missing partitions: %v", len(field.Missing()), err)
	}
	c.failed = false
	c.Store.UpdateStats(func(s *state.Stats) {
		s.Computes++
		s.LastCompute = took
		s.MissingPartitions = len(field.Missing())
		if err != nil {
			s.LastError = firstLine(err)
		}
	})
}

func (c *Controller) noteRecolor(took time.Duration) {
	c.Store.UpdateStats(func(s *state.Stats) {
		s.Recolors++
		s.LastRecolor = took
	})
}

func (c *Controller) fail(err error) {
	c.Logger.Errorf("controller", "compute failed: %v", err)
	c.failed = true
	c.Store.SetPhase(state.ERROR)
	c.Store.UpdateStats(func(s *state.Stats) {
		if err != nil {
			s.LastError = firstLine(err)
		}
	})
}

// firstLine drops the stack traces attached to recovered panics.
func firstLine(err error) string {
	msg := err.Error()
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		return msg[:i]
	}
	return msg
}

func (c *Controller) workers() int {
	if c.Computer.Workers > 0 {
		return c.Computer.Workers
	}
	return fractal.DefaultWorkers
}
