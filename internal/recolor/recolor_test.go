package recolor

import (
	"bytes"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/rook-computer/mandelview/internal/fractal"
	"github.com/rook-computer/mandelview/internal/palette"
)

func testField(t *testing.T, maxIter int) *fractal.Field {
	t.Helper()
	f, err := fractal.NewComputer(4).Compute(40, 24, maxIter)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

// waitResult polls like the tick loop until a result shows up.
func waitResult(t *testing.T, o *Orchestrator) Result {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if res, ok := o.Poll(); ok {
			return res
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("timed out waiting for recolor result")
	return Result{}
}

// waitIdle polls until no job is in flight, discarding results.
func waitIdle(t *testing.T, o *Orchestrator) []Result {
	t.Helper()
	var got []Result
	deadline := time.Now().Add(5 * time.Second)
	for o.State() == Running {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for idle")
		}
		if res, ok := o.Poll(); ok {
			got = append(got, res)
		}
		time.Sleep(time.Millisecond)
	}
	return got
}

// gatedPaint blocks every paint until release is called once per job.
type gatedPaint struct {
	mu      sync.Mutex
	calls   []palette.Params
	release chan struct{}
}

func newGatedPaint() *gatedPaint { return &gatedPaint{release: make(chan struct{}, 16)} }

func (g *gatedPaint) paint(dst *image.RGBA, f *fractal.Field, p palette.Params) {
	g.mu.Lock()
	g.calls = append(g.calls, p)
	g.mu.Unlock()
	<-g.release
	palette.Paint(dst, f, p)
}

func (g *gatedPaint) Calls() []palette.Params {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]palette.Params(nil), g.calls...)
}

func TestRecolorPurity(t *testing.T) {
	f := testField(t, 60)
	o := New(nil)
	o.SetField(f)

	p1 := palette.Params{HueModifier: 1.5, Saturation: 80, Value: 90}
	p2 := palette.Params{HueModifier: 4, Saturation: 20, Value: 50, Grayscale: true}

	o.Request(p1)
	first := waitResult(t, o)
	o.Request(p2)
	second := waitResult(t, o)
	o.Request(p1)
	third := waitResult(t, o)

	if first.Params != p1 || second.Params != p2 || third.Params != p1 {
		t.Fatalf("unexpected params order: %+v %+v %+v", first.Params, second.Params, third.Params)
	}
	if !bytes.Equal(first.Image.Pix, third.Image.Pix) {
		t.Fatal("repainting P1 did not reproduce the first buffer")
	}
	if bytes.Equal(first.Image.Pix, second.Image.Pix) {
		t.Fatal("P2 produced the same buffer as P1")
	}
	if o.State() != Idle {
		t.Fatalf("state = %v, want idle", o.State())
	}
}

func TestPollWithoutJob(t *testing.T) {
	o := New(nil)
	if _, ok := o.Poll(); ok {
		t.Fatal("Poll on a fresh orchestrator returned a result")
	}
	o.Request(palette.DefaultParams)
	if o.State() != Idle {
		t.Fatal("request without a field must not start a job")
	}
}

func TestCoalesceAndSupersede(t *testing.T) {
	gate := newGatedPaint()
	o := New(nil)
	o.paint = gate.paint
	o.SetField(testField(t, 40))

	p1 := palette.Params{HueModifier: 1, Saturation: 100, Value: 100}
	p2 := palette.Params{HueModifier: 2, Saturation: 100, Value: 100}
	p3 := palette.Params{HueModifier: 3, Saturation: 100, Value: 100}

	o.Request(p1)
	o.Request(p2)
	o.Request(p3)
	if o.State() != Running {
		t.Fatal("expected running")
	}
	if pending, ok := o.Pending(); !ok || pending != p3 {
		t.Fatalf("pending = %+v, %v; want p3", pending, ok)
	}
	if o.Coalesced() != 1 {
		t.Fatalf("coalesced = %d, want 1", o.Coalesced())
	}

	gate.release <- struct{}{}
	first := waitResult(t, o)
	if first.Params != p1 {
		t.Fatalf("first result = %+v, want p1", first.Params)
	}
	if o.State() != Running {
		t.Fatal("pending params should start a new job immediately")
	}

	gate.release <- struct{}{}
	second := waitResult(t, o)
	if second.Params != p3 {
		t.Fatalf("second result = %+v, want p3", second.Params)
	}

	calls := gate.Calls()
	if len(calls) != 2 || calls[0] != p1 || calls[1] != p3 {
		t.Fatalf("paint calls = %+v, want [p1 p3]", calls)
	}
	if o.State() != Idle {
		t.Fatal("expected idle after draining")
	}
}

func TestRevertWhileRunningSkipsRepaint(t *testing.T) {
	gate := newGatedPaint()
	o := New(nil)
	o.paint = gate.paint
	o.SetField(testField(t, 40))

	p1 := palette.Params{HueModifier: 1, Saturation: 100, Value: 100}
	p2 := palette.Params{HueModifier: 2, Saturation: 100, Value: 100}
	o.Request(p1)
	o.Request(p2)
	o.Request(p1)

	gate.release <- struct{}{}
	res := waitResult(t, o)
	if res.Params != p1 {
		t.Fatalf("result = %+v", res.Params)
	}
	if o.State() != Idle {
		t.Fatal("pending equal to finished params must not start another job")
	}
	if n := len(gate.Calls()); n != 1 {
		t.Fatalf("paint ran %d times, want 1", n)
	}
}

func TestStaleGenerationDropped(t *testing.T) {
	gate := newGatedPaint()
	o := New(nil)
	o.paint = gate.paint
	o.SetField(testField(t, 30))

	p := palette.DefaultParams
	o.Request(p)

	newField := testField(t, 90)
	o.SetField(newField)
	if pending, ok := o.Pending(); !ok || pending != p {
		t.Fatal("SetField while running should queue a repaint")
	}

	gate.release <- struct{}{}
	gate.release <- struct{}{}
	results := waitIdle(t, o)
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Generation != o.Generation() {
		t.Fatalf("result generation %d, want %d", results[0].Generation, o.Generation())
	}
	if o.Superseded() != 1 {
		t.Fatalf("superseded = %d, want 1", o.Superseded())
	}

	want := palette.NewImage(newField)
	palette.Paint(want, newField, p)
	if !bytes.Equal(results[0].Image.Pix, want.Pix) {
		t.Fatal("surviving result was not painted from the new field")
	}
}

func TestWorkerPanicIsRecovered(t *testing.T) {
	o := New(nil)
	o.paint = func(*image.RGBA, *fractal.Field, palette.Params) { panic("paint failed") }
	o.SetField(testField(t, 20))
	o.Request(palette.DefaultParams)

	if got := waitIdle(t, o); len(got) != 0 {
		t.Fatalf("failed job produced %d results", len(got))
	}

	o.paint = palette.Paint
	o.Request(palette.Params{HueModifier: 2, Saturation: 50, Value: 50})
	if res := waitResult(t, o); res.Image == nil {
		t.Fatal("orchestrator did not recover after a failed job")
	}
}

func TestRefreshRepaintsSameParams(t *testing.T) {
	o := New(nil)
	o.SetField(testField(t, 20))
	o.Request(palette.DefaultParams)
	waitResult(t, o)

	o.Request(palette.DefaultParams)
	if o.State() != Idle {
		t.Fatal("duplicate request started a job")
	}
	o.SetField(testField(t, 25))
	o.Refresh()
	if res := waitResult(t, o); res.Generation != 2 {
		t.Fatalf("refresh generation = %d, want 2", res.Generation)
	}
}

func TestSeedSuppressesEqualRequest(t *testing.T) {
	o := New(nil)
	o.SetField(testField(t, 20))
	o.Seed(palette.DefaultParams)
	o.Request(palette.DefaultParams)
	if o.State() != Idle {
		t.Fatal("request equal to the seeded params started a job")
	}
	o.Request(palette.Params{HueModifier: 3, Saturation: 100, Value: 100})
	if o.State() != Running {
		t.Fatal("changed params did not start a job")
	}
	waitResult(t, o)
}
