package web

import (
	"io/fs"
	"net/http"
	"path"

	"github.com/rook-computer/mandelview/internal/assets"
)

type APIV1Config struct {
	Deps APIV1Deps
}

// RegisterAPIV1 registers the public API routes under /api/v1/.
func RegisterAPIV1(mux *http.ServeMux, cfg APIV1Config) {
	mux.Handle("/api/v1/", http.StripPrefix("/api/v1", apiV1RouterWithDeps(cfg.Deps)))
}

// RegisterUI serves the embedded control page.
func RegisterUI(mux *http.ServeMux, ui fs.FS) {
	if ui == nil {
		ui = assets.WebUI
	}
	fileServer := http.FileServer(http.FS(ui))
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.URL.Path = path.Clean("/" + r.URL.Path)
		fileServer.ServeHTTP(w, r)
	}))
}

// NewDefaultMux builds the standard mux used by both the device and simulator:
// - /api/v1/* for the API
// - / for the web UI
func NewDefaultMux(cfg APIV1Config) *http.ServeMux {
	mux := http.NewServeMux()
	RegisterAPIV1(mux, cfg)
	RegisterUI(mux, nil)
	return mux
}
