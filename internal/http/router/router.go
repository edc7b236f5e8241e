// Package router wires handlers and middleware into a chi router.
package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aanand-mishra/createread/internal/config"
	"github.com/aanand-mishra/createread/internal/http/handlers/health"
	"github.com/aanand-mishra/createread/internal/http/handlers/page"
	"github.com/aanand-mishra/createread/internal/http/middleware"
	"github.com/aanand-mishra/createread/internal/record"
	"github.com/aanand-mishra/createread/internal/render"
	"github.com/aanand-mishra/createread/internal/storage"
)

// New builds the application router.
//
// Route table:
//
//	GET  /         render all records
//	POST /         submit a record, then render all records
//	GET  /healthz  liveness check
//	GET  /readyz   readiness check (pings storage)
func New(cfg *config.Config, store storage.Storage, log *slog.Logger) (http.Handler, error) {
	renderer, err := render.New()
	if err != nil {
		return nil, err
	}
	writer := record.NewWriter(log)

	// No RealIP: X-Forwarded-For and X-Real-IP are client-controlled, so
	// the access log records the TCP peer address.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recoverer(log))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment()}))
	r.Use(middleware.MaxBodySize(cfg.HTTPServer.MaxBodyBytes))

	pageHandler := page.New(store, writer, renderer, log)
	r.Get("/", pageHandler)
	r.Post("/", pageHandler)

	r.Get("/healthz", health.Healthz())
	r.Get("/readyz", health.Readyz(store, log))

	return r, nil
}
