package api

import (
	"net/http"
	"time"
)

// HealthStatus represents the overall health status.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthCheckResponse is the /health payload.
type HealthCheckResponse struct {
	Status    HealthStatus `json:"status"`
	Timestamp string       `json:"timestamp"`
	Uptime    string       `json:"uptime"`
	Sessions  int          `json:"active_sessions"`
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthCheckResponse{
		Status:    HealthStatusHealthy,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(s.startTime).String(),
		Sessions:  s.hub.Len(),
	})
}

// handleReadiness verifies the save store is reachable before reporting ready.
func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(r.Context()); err != nil {
		s.writeJSON(w, http.StatusServiceUnavailable, HealthCheckResponse{
			Status:    HealthStatusUnhealthy,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Uptime:    time.Since(s.startTime).String(),
			Sessions:  s.hub.Len(),
		})
		return
	}
	s.handleHealthCheck(w, r)
}

func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}
