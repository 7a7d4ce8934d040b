package web

import (
	"net/http"
	"strings"
)

// apiMethods lists what each API route answers, for preflight replies.
var apiMethods = map[string]string{
	"/api/v1/params":    "GET,POST,PATCH",
	"/api/v1/recompute": "POST",
	"/api/v1/status":    "GET",
	"/api/v1/image.png": "GET",
}

// WithDevCORS lets a control page served from another origin (a dev server)
// drive the API. Only HTTPServer.DevMode installs it.
func WithDevCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods, isAPI := apiMethods[r.URL.Path]
		origin := r.Header.Get("Origin")
		if !isAPI || origin == "" {
			next.ServeHTTP(w, r)
			return
		}

		h := w.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Add("Vary", "Origin")
		if r.Method != http.MethodOptions {
			h.Set("Access-Control-Expose-Headers", "Content-Length")
			next.ServeHTTP(w, r)
			return
		}

		h.Set("Access-Control-Allow-Methods", methods+",OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		if want := r.Header.Get("Access-Control-Request-Method"); want != "" && !strings.Contains(methods, want) {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}
