package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Control plane
	mux.HandleFunc("/trigger", s.app.TriggerHandler.TriggerRefreshHandler) // POST - arm a refresh now
	mux.HandleFunc("/health", s.app.APIHandler.HealthHandler)              // GET - liveness probe

	// API routes - observability
	mux.HandleFunc("/api/status", s.app.StatusHandler.GetStatusHandler)
	mux.HandleFunc("/api/captures", s.app.StatusHandler.ListCapturesHandler)
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)

	// Everything else is a 404; the surface is deliberately minimal
	mux.HandleFunc("/", s.app.APIHandler.NotFoundHandler)

	return mux
}
