package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"io"
	"net/http"
	"strconv"

	"github.com/rook-computer/mandelview/internal/state"
)

const maxPatchBytes = 1 << 16

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

// statusResponse carries the params version so clients can tell another
// client's edit from their own.
type statusResponse struct {
	Phase   string       `json:"phase"`
	Version uint64       `json:"version"`
	Params  state.Params `json:"params"`
	Stats   state.Stats  `json:"stats"`
}

// colorPatch and paramsPatch use pointers so absent fields keep their
// current value.
type colorPatch struct {
	HueModifier *float64 `json:"hueModifier"`
	Saturation  *float64 `json:"saturation"`
	Value       *float64 `json:"value"`
	Grayscale   *bool    `json:"grayscale"`
}

type paramsPatch struct {
	Color         *colorPatch `json:"color"`
	MaxIterations *int        `json:"maxIterations"`
}

// patchError carries the HTTP status a rejected patch maps to.
type patchError struct {
	status  int
	code    string
	message string
}

func (e *patchError) Error() string { return e.message }

func (p paramsPatch) validate() error {
	if p.MaxIterations != nil && (*p.MaxIterations < 1 || *p.MaxIterations > state.MaxIterationsLimit) {
		return &patchError{
			status:  http.StatusUnprocessableEntity,
			code:    "invalid_params",
			message: fmt.Sprintf("maxIterations must be in [1, %d]", state.MaxIterationsLimit),
		}
	}
	return nil
}

func (p paramsPatch) apply(dst *state.Params) {
	if c := p.Color; c != nil {
		if c.HueModifier != nil {
			dst.Color.HueModifier = *c.HueModifier
		}
		if c.Saturation != nil {
			dst.Color.Saturation = *c.Saturation
		}
		if c.Value != nil {
			dst.Color.Value = *c.Value
		}
		if c.Grayscale != nil {
			dst.Color.Grayscale = *c.Grayscale
		}
	}
	if p.MaxIterations != nil {
		dst.MaxIterations = *p.MaxIterations
	}
}

// decodePatch parses a strict JSON patch.
func decodePatch(r io.Reader) (paramsPatch, error) {
	var patch paramsPatch
	dec := json.NewDecoder(io.LimitReader(r, maxPatchBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&patch); err != nil {
		return paramsPatch{}, &patchError{status: http.StatusBadRequest, code: "bad_json", message: err.Error()}
	}
	if err := patch.validate(); err != nil {
		return paramsPatch{}, err
	}
	return patch, nil
}

// applyPatch validates and stores patch, returning the clamped params.
func applyPatch(store ParamStore, patch paramsPatch) (state.Params, error) {
	if err := patch.validate(); err != nil {
		return state.Params{}, err
	}
	return store.UpdateParams(patch.apply), nil
}

func newStatus(store ParamStore) statusResponse {
	version := store.Version()
	st := store.Snapshot()
	return statusResponse{Phase: st.Phase.String(), Version: version, Params: st.Params, Stats: st.Stats}
}

func apiV1RouterWithDeps(deps APIV1Deps) http.Handler {
	deps = deps.withDefaults()
	mux := http.NewServeMux()
	mux.HandleFunc("/params", func(w http.ResponseWriter, r *http.Request) { handleParams(w, r, deps) })
	mux.HandleFunc("/recompute", func(w http.ResponseWriter, r *http.Request) { handleRecompute(w, r, deps) })
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) { handleStatus(w, r, deps) })
	mux.HandleFunc("/image.png", func(w http.ResponseWriter, r *http.Request) { handleImage(w, r, deps) })
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) { handleWebsocket(w, r, deps) })
	return mux
}

func handleParams(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, deps.Store.Snapshot().Params)
	case http.MethodPost, http.MethodPatch:
		patch, err := decodePatch(r.Body)
		if err != nil {
			writePatchError(w, err)
			return
		}
		params, err := applyPatch(deps.Store, patch)
		if err != nil {
			writePatchError(w, err)
			return
		}
		deps.Logger.Infof("api", "params updated: %+v", params)
		writeJSON(w, http.StatusOK, params)
	default:
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	}
}

func handleRecompute(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodPost {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	deps.Store.RequestRecompute()
	writeJSON(w, http.StatusAccepted, okResponse{OK: true})
}

func handleStatus(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, newStatus(deps.Store))
}

func handleImage(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	img := deps.Image.Published()
	if img == nil {
		writeAPIError(w, http.StatusServiceUnavailable, "no_image", "no frame rendered yet")
		return
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		writeAPIError(w, http.StatusInternalServerError, "encode_failed", err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func writePatchError(w http.ResponseWriter, err error) {
	var perr *patchError
	if errors.As(err, &perr) {
		writeAPIError(w, perr.status, perr.code, perr.message)
		return
	}
	writeAPIError(w, http.StatusInternalServerError, "internal", err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiError{Error: code, Message: message})
}
