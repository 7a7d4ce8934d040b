// Package recolor repaints a cached fractal field off the control thread.
//
// All Orchestrator methods must be called from one goroutine (the control
// thread). The orchestrator runs at most one worker at a time; requests
// that arrive while it is busy are coalesced and the newest one runs once
// the current job finishes.
package recolor

import (
	"fmt"
	"image"
	"runtime/debug"
	"time"

	"github.com/rook-computer/mandelview/internal/fractal"
	"github.com/rook-computer/mandelview/internal/palette"
)

// State of the orchestrator.
type State int

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// Logger matches app.Logger.
type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Infof(string, string, ...interface{})  {}
func (nopLogger) Errorf(string, string, ...interface{}) {}

// Result is a finished recolor pass.
type Result struct {
	Params     palette.Params
	Generation uint64
	Image      *image.RGBA
	Duration   time.Duration
}

// job is the in-flight handle. It only exists while Running.
type job struct {
	params     palette.Params
	generation uint64
	started    time.Time
	done       chan jobOutcome
}

type jobOutcome struct {
	img *image.RGBA
	err error
}

// Orchestrator implements the Idle/Running recolor state machine.
type Orchestrator struct {
	logger Logger
	paint  func(dst *image.RGBA, f *fractal.Field, p palette.Params)

	field      *fractal.Field
	generation uint64

	inFlight  *job
	pending   *palette.Params
	requested palette.Params
	hasReq    bool

	coalesced  uint64
	superseded uint64
}

// New returns an idle orchestrator with no field.
func New(logger Logger) *Orchestrator {
	if logger == nil {
		logger = nopLogger{}
	}
	return &Orchestrator{logger: logger, paint: palette.Paint}
}

// SetField installs a freshly computed field. A job running against the
// previous field is superseded: its result will be dropped and the newest
// params are repainted on f.
func (o *Orchestrator) SetField(f *fractal.Field) {
	o.field = f
	o.generation++
	if o.inFlight != nil && o.hasReq {
		p := o.requested
		o.pending = &p
	}
}

// Field returns the installed field.
func (o *Orchestrator) Field() *fractal.Field { return o.field }

// Generation increments on every SetField.
func (o *Orchestrator) Generation() uint64 { return o.generation }

// State reports Idle or Running.
func (o *Orchestrator) State() State {
	if o.inFlight != nil {
		return Running
	}
	return Idle
}

// Pending returns the params waiting for the current job to finish.
func (o *Orchestrator) Pending() (palette.Params, bool) {
	if o.pending == nil {
		return palette.Params{}, false
	}
	return *o.pending, true
}

// Coalesced counts requests that replaced an earlier pending request.
func (o *Orchestrator) Coalesced() uint64 { return o.coalesced }

// Superseded counts results dropped because a newer field was installed.
func (o *Orchestrator) Superseded() uint64 { return o.superseded }

// Request asks for the field to be painted with p. A request equal to the
// latest one is ignored.
func (o *Orchestrator) Request(p palette.Params) {
	if o.hasReq && p == o.requested {
		return
	}
	o.requested = p
	o.hasReq = true

	if o.field == nil {
		return
	}
	if o.inFlight == nil {
		o.start(p)
		return
	}
	if o.pending != nil {
		o.coalesced++
	}
	o.pending = &p
}

// Seed records p as the params the current field is already painted with,
// so an equal Request is a no-op.
func (o *Orchestrator) Seed(p palette.Params) {
	o.requested = p
	o.hasReq = true
}

// Refresh repaints the latest requested params even if unchanged, for
// example after SetField.
func (o *Orchestrator) Refresh() {
	if !o.hasReq || o.field == nil {
		return
	}
	p := o.requested
	if o.inFlight == nil {
		o.start(p)
		return
	}
	o.pending = &p
}

// Poll checks the in-flight job without blocking. It returns a result the
// first time a current job is seen finished.
func (o *Orchestrator) Poll() (Result, bool) {
	j := o.inFlight
	if j == nil {
		return Result{}, false
	}
	var out jobOutcome
	select {
	case out = <-j.done:
	default:
		return Result{}, false
	}
	o.inFlight = nil

	next := o.pending
	o.pending = nil
	if next != nil && (*next != j.params || j.generation != o.generation) {
		o.start(*next)
	}

	if out.err != nil {
		o.logger.Errorf("recolor", "job %+v failed: %v", j.params, out.err)
		return Result{}, false
	}
	if j.generation != o.generation {
		o.superseded++
		o.logger.Infof("recolor", "dropped result of stale generation %d (current %d)", j.generation, o.generation)
		return Result{}, false
	}

	res := Result{Params: j.params, Generation: j.generation, Image: out.img, Duration: time.Since(j.started)}
	o.logger.Infof("recolor", "done %+v in %s", res.Params, res.Duration)
	return res, true
}

func (o *Orchestrator) start(p palette.Params) {
	j := &job{
		params:     p,
		generation: o.generation,
		started:    time.Now(),
		done:       make(chan jobOutcome, 1),
	}
	o.inFlight = j

	field := o.field
	paint := o.paint
	go func() {
		var out jobOutcome
		defer func() {
			if r := recover(); r != nil {
				out = jobOutcome{err: fmt.Errorf("panic: %v\n%s", r, debug.Stack())}
			}
			j.done <- out
		}()
		img := palette.NewImage(field)
		paint(img, field, p)
		out.img = img
	}()
}
