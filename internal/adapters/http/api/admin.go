package api

import (
	"net/http"

	"github.com/okian/optiwork/internal/domain/model"
)

// timestampLayout is RFC 3339 with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

type rootResponse struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

type healthResponse struct {
	Status     string         `json:"status"`
	Timestamp  string         `json:"timestamp"`
	DataCounts map[string]int `json:"data_counts"`
}

// handleRoot handles GET / with a short index of the API.
func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, rootResponse{
		Message: "Optiwork API",
		Version: s.version,
		Endpoints: map[string]string{
			"docs":      "/api-docs",
			"users":     "/users",
			"login":     "/login",
			"tasks":     "/tasks",
			"skills":    "/skills",
			"reports":   "/reports",
			"analytics": "/analytics",
			"health":    "/health",
			"metrics":   "/metrics",
			"live":      "/ws",
		},
	})
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	counts := s.store.Counts(r.Context())
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "healthy",
		Timestamp: s.now().UTC().Format(timestampLayout),
		DataCounts: map[string]int{
			"users":   counts[model.Users],
			"tasks":   counts[model.Tasks],
			"skills":  counts[model.Skills],
			"reports": counts[model.Reports],
		},
	})
}

// handleReset handles POST /reset.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.store.Reset(r.Context())
	s.logger.Info(r.Context(), "data reset to fixtures")
	writeJSON(w, http.StatusOK, okResponse{OK: true, Message: "All data reset to initial values"})
}
