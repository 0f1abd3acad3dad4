package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edseguy/code-scanner/internal/httpserver/deps"
	"github.com/edseguy/code-scanner/internal/session"
)

type confirmationsResponse struct {
	Pending []session.Confirmation `json:"pending"`
}

type resolveRequest struct {
	Accepted bool `json:"accepted"`
}

// Confirmations lists unresolved two-phase decisions.
func Confirmations(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pending := d.Controller.PendingConfirmations()
		if pending == nil {
			pending = []session.Confirmation{}
		}
		writeJSON(w, http.StatusOK, confirmationsResponse{Pending: pending})
	}
}

// Resolve consumes a pending confirmation with the user's decision.
func Resolve(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req resolveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid resolve body")
			return
		}

		id := chi.URLParam(r, "id")
		err := d.Controller.ResolveConfirmation(r.Context(), id, req.Accepted)
		switch {
		case errors.Is(err, session.ErrConfirmationNotFound):
			writeError(w, http.StatusNotFound, "confirmation not found")
			return
		case err != nil:
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
