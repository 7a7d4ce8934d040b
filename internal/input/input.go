// Package input describes one tick worth of user input.
//
// The tick function receives the previous and the current Frame and derives
// edges from the pair; edge detection keeps no state between ticks.
package input

import "sync/atomic"

// Pointer is the mouse (or touch) state sampled at a tick.
type Pointer struct {
	X, Y   int
	Left   bool
	Right  bool
	Middle bool
}

// Keys holds level state of the keys the viewer reacts to.
type Keys struct {
	Recompute bool
	Quit      bool
}

// Frame is everything sampled for one tick.
type Frame struct {
	Pointer Pointer
	Keys    Keys
	// RecomputeRequested is a one-shot request from a non-keyboard source
	// such as the HTTP API. It is already an edge.
	RecomputeRequested bool
}

// Pressed reports a false -> true transition.
func Pressed(prev, cur bool) bool { return !prev && cur }

// Released reports a true -> false transition.
func Released(prev, cur bool) bool { return prev && !cur }

// RecomputeEdge reports whether the pair of frames asks for a recompute.
func RecomputeEdge(prev, cur Frame) bool {
	return Pressed(prev.Keys.Recompute, cur.Keys.Recompute) || cur.RecomputeRequested
}

// QuitEdge reports whether the quit key went down.
func QuitEdge(prev, cur Frame) bool {
	return Pressed(prev.Keys.Quit, cur.Keys.Quit)
}

// Source samples one Frame per tick.
type Source interface {
	Sample() Frame
}

// Latch is a Source fed by the key watcher goroutine. Keys are levels and
// the pointer stays at rest; the zero value is ready to use.
type Latch struct {
	recompute atomic.Bool
	quit      atomic.Bool
}

func (l *Latch) SetRecompute(down bool) { l.recompute.Store(down) }
func (l *Latch) SetQuit(down bool)      { l.quit.Store(down) }

func (l *Latch) Sample() Frame {
	return Frame{Keys: Keys{Recompute: l.recompute.Load(), Quit: l.quit.Load()}}
}
