package web

import (
	"image"
	"time"

	"github.com/rook-computer/mandelview/internal/state"
)

// ImageSource hands out the last finished frame. Published must be safe to
// call from HTTP goroutines and must return an image nobody mutates.
type ImageSource interface {
	Published() image.Image
}

// ParamStore is the part of state.Store the API touches.
type ParamStore interface {
	Snapshot() state.State
	Version() uint64
	UpdateParams(fn func(*state.Params)) state.Params
	RequestRecompute()
}

// Logger matches app.Logger.
type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type APIV1Deps struct {
	Store  ParamStore
	Image  ImageSource
	Logger Logger

	// StatusInterval is the websocket push period.
	StatusInterval time.Duration

	// CrossOrigin accepts websocket handshakes from any page origin.
	// Otherwise browsers must be on the same host as the API.
	CrossOrigin bool
}

const defaultStatusInterval = 500 * time.Millisecond

func (d APIV1Deps) withDefaults() APIV1Deps {
	out := d
	if out.Store == nil {
		out.Store = state.NewStore()
	}
	if out.Image == nil {
		out.Image = NoImage{}
	}
	if out.Logger == nil {
		out.Logger = nopLogger{}
	}
	if out.StatusInterval <= 0 {
		out.StatusInterval = defaultStatusInterval
	}
	return out
}

// NoImage never has a frame.
type NoImage struct{}

func (NoImage) Published() image.Image { return nil }

type nopLogger struct{}

func (nopLogger) Infof(string, string, ...interface{})  {}
func (nopLogger) Errorf(string, string, ...interface{}) {}
