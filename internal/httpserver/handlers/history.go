package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edseguy/code-scanner/internal/domain"
	"github.com/edseguy/code-scanner/internal/httpserver/deps"
	"github.com/edseguy/code-scanner/internal/session"
)

type historyResponse struct {
	Entries []domain.HistoryEntry `json:"entries"`
}

// History returns the ordered scan history, newest first.
func History(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries := d.Controller.History()
		if entries == nil {
			entries = []domain.HistoryEntry{}
		}
		writeJSON(w, http.StatusOK, historyResponse{Entries: entries})
	}
}

// RequestClear raises the clear-history confirmation. The actual wipe
// happens when the confirmation is accepted.
func RequestClear(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conf, err := d.Controller.RequestClearHistory()
		if errors.Is(err, session.ErrHistoryEmpty) {
			writeError(w, http.StatusConflict, "history is empty")
			return
		}
		writeJSON(w, http.StatusAccepted, conf)
	}
}

// CopyEntry copies a history entry's payload to the device clipboard.
func CopyEntry(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := d.Controller.CopyEntry(r.Context(), id); err != nil {
			writeError(w, http.StatusNotFound, "history entry not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
