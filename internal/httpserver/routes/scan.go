package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/edseguy/code-scanner/internal/httpserver/deps"
	"github.com/edseguy/code-scanner/internal/httpserver/handlers"
)

func init() { Register(registerScan) }

func registerScan(r chi.Router, d deps.Deps) {
	r.Post("/scan", handlers.Scan(d))
}
