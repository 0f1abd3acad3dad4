package handlers

import (
	"net/http"

	"github.com/edseguy/code-scanner/internal/httpserver/deps"
	"github.com/edseguy/code-scanner/internal/logger"
)

// ReloadProfile triggers a manual reload of the scanner profile file
func ReloadProfile(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.ProfileReloadTrigger == nil {
			writeError(w, http.StatusNotFound, "no profile file configured")
			return
		}

		select {
		case d.ProfileReloadTrigger <- struct{}{}:
			d.Logger.Info("manual profile reload triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			w.WriteHeader(http.StatusAccepted)
		default:
			d.Logger.Warn("profile reload already in progress",
				logger.String("remote_ip", r.RemoteAddr))
			w.WriteHeader(http.StatusTooManyRequests)
		}
	}
}
