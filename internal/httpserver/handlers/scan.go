package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/edseguy/code-scanner/internal/domain"
	"github.com/edseguy/code-scanner/internal/httpserver/deps"
	"github.com/edseguy/code-scanner/internal/logger"
	"github.com/edseguy/code-scanner/internal/session"
)

type scanRequest struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

// Scan receives one raw decoded-code event from the capture source.
func Scan(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req scanRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid scan event body")
			return
		}

		sym, err := domain.ParseSymbology(req.Type)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		entry, err := d.Controller.HandleScan(r.Context(), domain.ScanEvent{
			Symbology: sym,
			Payload:   req.Data,
		})
		switch {
		case errors.Is(err, session.ErrNotArmed):
			// Repeat trigger inside the cooldown window, or capture is
			// paused. Discarded by design.
			d.Logger.Debug("scan event discarded",
				logger.String("symbology", req.Type),
				logger.String("state", string(d.Controller.State())))
			writeError(w, http.StatusConflict, "session is not armed")
			return
		case errors.Is(err, session.ErrSymbologyDisabled):
			writeError(w, http.StatusUnprocessableEntity, "symbology not enabled by profile")
			return
		case err != nil:
			writeError(w, http.StatusInternalServerError, "failed to process scan")
			return
		}

		writeJSON(w, http.StatusCreated, entry)
	}
}
