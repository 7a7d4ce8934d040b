package state

import (
	"math"
	"sync"
	"time"

	"github.com/rook-computer/mandelview/internal/palette"
)

type Phase int

const (
	BOOTING Phase = iota
	COMPUTING
	READY
	RECOLORING
	ERROR
)

func (p Phase) String() string {
	switch p {
	case BOOTING:
		return "booting"
	case COMPUTING:
		return "computing"
	case READY:
		return "ready"
	case RECOLORING:
		return "recoloring"
	case ERROR:
		return "error"
	default:
		return "unknown"
	}
}

const (
	DefaultMaxIterations = 1000
	MaxIterationsLimit   = 100000
)

// Params is everything the UI can change. A change of Color recolors, a
// change of MaxIterations recomputes.
type Params struct {
	Color         palette.Params `json:"color"`
	MaxIterations int            `json:"maxIterations"`
}

func DefaultParams() Params {
	return Params{Color: palette.DefaultParams, MaxIterations: DefaultMaxIterations}
}

// Clamp forces params into their valid ranges.
func (p Params) Clamp() Params {
	p.Color.Saturation = clamp(p.Color.Saturation, 0, 100)
	p.Color.Value = clamp(p.Color.Value, 0, 100)
	if math.IsNaN(p.Color.HueModifier) || math.IsInf(p.Color.HueModifier, 0) {
		p.Color.HueModifier = palette.DefaultParams.HueModifier
	}
	if p.MaxIterations < 1 {
		p.MaxIterations = 1
	}
	if p.MaxIterations > MaxIterationsLimit {
		p.MaxIterations = MaxIterationsLimit
	}
	return p
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

type Stats struct {
	Width             int           `json:"width"`
	Height            int           `json:"height"`
	Workers           int           `json:"workers"`
	Computes          uint64        `json:"computes"`
	Recolors          uint64        `json:"recolors"`
	Coalesced         uint64        `json:"coalesced"`
	LastCompute       time.Duration `json:"lastComputeNs"`
	LastRecolor       time.Duration `json:"lastRecolorNs"`
	MissingPartitions int           `json:"missingPartitions"`
	Frames            uint64        `json:"frames"`
	LastError         string        `json:"lastError,omitempty"`
}

type State struct {
	Phase  Phase
	Params Params
	Stats  Stats
}

type Store struct {
	mu        sync.RWMutex
	state     State
	recompute bool
	version   uint64
}

func NewStore() *Store {
	return &Store{state: State{Phase: BOOTING, Params: DefaultParams()}}
}

func (store *Store) Snapshot() State {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.state
}

// Version increments whenever params change.
func (store *Store) Version() uint64 {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.version
}

func (store *Store) SetPhase(phase Phase) {
	store.mu.Lock()
	store.state.Phase = phase
	store.mu.Unlock()
}

func (store *Store) SetParams(params Params) {
	store.UpdateParams(func(p *Params) { *p = params })
}

// UpdateParams applies fn to a copy of the params and stores the clamped
// result. It returns the stored value.
func (store *Store) UpdateParams(fn func(*Params)) Params {
	store.mu.Lock()
	defer store.mu.Unlock()
	next := store.state.Params
	fn(&next)
	next = next.Clamp()
	if next != store.state.Params {
		store.state.Params = next
		store.version++
	}
	return next
}

// RequestRecompute raises the recompute flag until TakeRecompute clears it.
func (store *Store) RequestRecompute() {
	store.mu.Lock()
	store.recompute = true
	store.mu.Unlock()
}

// TakeRecompute returns and clears the recompute flag.
func (store *Store) TakeRecompute() bool {
	store.mu.Lock()
	defer store.mu.Unlock()
	r := store.recompute
	store.recompute = false
	return r
}

func (store *Store) UpdateStats(fn func(*Stats)) {
	store.mu.Lock()
	fn(&store.state.Stats)
	store.mu.Unlock()
}
