package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
//
// Alpaca method segments are matched as a single route parameter and
// dispatched by name, because Alpaca clients are inconsistent about
// casing and the method set is flat.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// Health check for the process supervisor (not part of Alpaca)
	r.Get("/health", s.handleHealth)

	// Alpaca management API
	r.Route("/management", func(r chi.Router) {
		r.Get("/apiversions", s.handleAPIVersions)
		r.Get("/v1/description", s.handleServerDescription)
		r.Get("/v1/configureddevices", s.handleConfiguredDevices)
	})

	// Alpaca device API: one Switch device at device number 0
	r.Route("/api/v1/switch/{device}", func(r chi.Router) {
		r.Get("/{method}", s.handleSwitchGet)
		r.Put("/{method}", s.handleSwitchPut)
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"version":   s.version,
		"connected": s.controller.IsConnected(),
	})
}
