package handlers

import (
	"errors"
	"net/http"

	"github.com/edseguy/code-scanner/internal/httpserver/deps"
	"github.com/edseguy/code-scanner/internal/session"
)

type sessionResponse struct {
	State   session.State `json:"state"`
	History int           `json:"history_len"`
	Pending int           `json:"pending_confirmations"`
}

// SessionState reports the controller state to the shell.
func SessionState(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, sessionResponse{
			State:   d.Controller.State(),
			History: len(d.Controller.History()),
			Pending: len(d.Controller.PendingConfirmations()),
		})
	}
}

// Rearm handles the explicit "scan again" trigger.
func Rearm(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Controller.Rearm(); err != nil {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// Pause handles the explicit "stop" trigger.
func Pause(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Controller.Pause(r.Context()); err != nil {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// Resume handles the explicit "start" trigger.
func Resume(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Controller.Resume(r.Context()); err != nil {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// RetryPermission re-requests camera access for a session stuck in idle.
func RetryPermission(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := d.Controller.Start(r.Context())
		switch {
		case errors.Is(err, session.ErrPermissionDenied):
			writeError(w, http.StatusForbidden, "camera permission denied")
			return
		case err != nil:
			writeError(w, http.StatusBadGateway, "permission request failed")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
