package input

import "testing"

func TestEdges(t *testing.T) {
	tests := []struct {
		prev, cur         bool
		pressed, released bool
	}{
		{false, false, false, false},
		{false, true, true, false},
		{true, true, false, false},
		{true, false, false, true},
	}
	for _, tt := range tests {
		if got := Pressed(tt.prev, tt.cur); got != tt.pressed {
			t.Fatalf("Pressed(%v,%v) = %v", tt.prev, tt.cur, got)
		}
		if got := Released(tt.prev, tt.cur); got != tt.released {
			t.Fatalf("Released(%v,%v) = %v", tt.prev, tt.cur, got)
		}
	}
}

func TestRecomputeEdge(t *testing.T) {
	held := Frame{Keys: Keys{Recompute: true}}
	if !RecomputeEdge(Frame{}, held) {
		t.Fatal("key down should trigger")
	}
	if RecomputeEdge(held, held) {
		t.Fatal("held key must not retrigger")
	}
	if !RecomputeEdge(held, Frame{Keys: Keys{Recompute: true}, RecomputeRequested: true}) {
		t.Fatal("API request should trigger while key is held")
	}
	if !QuitEdge(Frame{}, Frame{Keys: Keys{Quit: true}}) {
		t.Fatal("quit edge")
	}
}

func TestLatchSample(t *testing.T) {
	var l Latch
	if f := l.Sample(); f != (Frame{}) {
		t.Fatalf("zero latch = %+v", f)
	}
	l.SetRecompute(true)
	f := l.Sample()
	if !f.Keys.Recompute || f.Keys.Quit || f.Pointer != (Pointer{}) {
		t.Fatalf("sample = %+v", f)
	}
	l.SetRecompute(false)
	if !RecomputeEdge(Frame{}, f) || RecomputeEdge(f, l.Sample()) {
		t.Fatal("edges from latch samples")
	}
}
