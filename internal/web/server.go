package web

import "context"

// Server is the control surface App starts after the first frame and stops
// on exit. A nil Server disables it.
type Server interface {
	Start(ctx context.Context) error
	Stop() error
}

var _ Server = (*HTTPServer)(nil)
