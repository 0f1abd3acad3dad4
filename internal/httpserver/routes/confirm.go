package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/edseguy/code-scanner/internal/httpserver/deps"
	"github.com/edseguy/code-scanner/internal/httpserver/handlers"
)

func init() { Register(registerConfirmations) }

func registerConfirmations(r chi.Router, d deps.Deps) {
	r.Get("/confirmations", handlers.Confirmations(d))
	r.Post("/confirmations/{id}", handlers.Resolve(d))
}
