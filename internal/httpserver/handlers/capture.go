package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/edseguy/code-scanner/internal/httpserver/deps"
)

type torchRequest struct {
	On bool `json:"on"`
}

type zoomRequest struct {
	Level float64 `json:"level"`
}

// Torch forwards a torch toggle to the capture source.
func Torch(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req torchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid torch body")
			return
		}
		d.Controller.SetTorch(r.Context(), req.On)
		w.WriteHeader(http.StatusNoContent)
	}
}

// Zoom forwards a zoom level to the capture source.
func Zoom(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req zoomRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid zoom body")
			return
		}
		d.Controller.SetZoom(r.Context(), req.Level)
		w.WriteHeader(http.StatusNoContent)
	}
}
