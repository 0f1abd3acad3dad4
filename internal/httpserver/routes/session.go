package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/edseguy/code-scanner/internal/httpserver/deps"
	"github.com/edseguy/code-scanner/internal/httpserver/handlers"
)

func init() { Register(registerSession) }

func registerSession(r chi.Router, d deps.Deps) {
	r.Get("/session", handlers.SessionState(d))
	r.Post("/session/rearm", handlers.Rearm(d))
	r.Post("/session/pause", handlers.Pause(d))
	r.Post("/session/resume", handlers.Resume(d))
	r.Post("/session/permission/retry", handlers.RetryPermission(d))
}
