package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/edseguy/code-scanner/internal/httpserver/deps"
	"github.com/edseguy/code-scanner/internal/httpserver/handlers"
)

func init() { Register(registerCapture) }

func registerCapture(r chi.Router, d deps.Deps) {
	r.Post("/capture/torch", handlers.Torch(d))
	r.Post("/capture/zoom", handlers.Zoom(d))
}
