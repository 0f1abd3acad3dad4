package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/edseguy/code-scanner/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready   bool   `json:"ready"`
	Storage string `json:"storage"`
}

// Readyz reports readiness. With redis enabled it pings the backend; with
// the in-process KV there is nothing external to wait for.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.RedisClient == nil {
			writeJSON(w, http.StatusOK, readyzResponse{Ready: true, Storage: "memory"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := d.RedisClient.Ping(ctx).Err(); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, readyzResponse{Ready: false, Storage: "redis"})
			return
		}
		writeJSON(w, http.StatusOK, readyzResponse{Ready: true, Storage: "redis"})
	}
}
