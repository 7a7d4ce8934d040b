package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"
)

const shutdownTimeout = 5 * time.Second

// HTTPServer serves the control API and page. Websocket streams run on a
// base context that Stop cancels, since Shutdown does not wait for
// hijacked connections.
type HTTPServer struct {
	Addr string

	// DevMode wraps the mux in permissive CORS for a UI served elsewhere.
	DevMode bool

	Deps APIV1Deps

	mu      sync.Mutex
	srv     *http.Server
	ln      net.Listener
	stopWS  context.CancelFunc
	stopped bool
}

func NewHTTPServer(cfg ServerConfig, deps APIV1Deps) *HTTPServer {
	return &HTTPServer{Addr: cfg.ListenAddr, DevMode: cfg.DevMode, Deps: deps.withDefaults()}
}

// Handler returns the full handler the server serves.
func (s *HTTPServer) Handler() http.Handler {
	deps := s.Deps
	deps.CrossOrigin = s.DevMode
	var h http.Handler = NewDefaultMux(APIV1Config{Deps: deps})
	if s.DevMode {
		h = WithDevCORS(h)
	}
	return h
}

// Start binds the listener and serves in the background until Stop or
// until ctx is done. A stopped server cannot be restarted.
func (s *HTTPServer) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.stopped:
		return errors.New("web server already stopped")
	case s.srv != nil:
		return nil
	}

	s.Deps = s.Deps.withDefaults()
	addr := s.Addr
	if addr == "" {
		addr = DefaultListenAddr
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	base, cancel := context.WithCancel(context.Background())
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return base },
	}
	s.srv, s.ln, s.stopWS = srv, ln, cancel

	logger := s.Deps.Logger
	logger.Infof("web", "listening on %s (dev=%v)", ln.Addr(), s.DevMode)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("web", "serve failed: %v", err)
		}
	}()
	go func() {
		select {
		case <-ctx.Done():
			_ = s.Stop()
		case <-base.Done():
		}
	}()
	return nil
}

// ListenAddr is the bound address once started, useful with port 0.
func (s *HTTPServer) ListenAddr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

func (s *HTTPServer) Stop() error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	srv, cancel := s.srv, s.stopWS
	s.srv, s.ln, s.stopWS = nil, nil, nil
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	cancel()
	ctx, done := context.WithTimeout(context.Background(), shutdownTimeout)
	defer done()
	return srv.Shutdown(ctx)
}
