package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/edseguy/code-scanner/internal/httpserver/deps"
	"github.com/edseguy/code-scanner/internal/httpserver/handlers"
)

func init() { Register(registerHistory) }

func registerHistory(r chi.Router, d deps.Deps) {
	r.Get("/history", handlers.History(d))
	r.Delete("/history", handlers.RequestClear(d))
	r.Post("/history/{id}/copy", handlers.CopyEntry(d))
}
