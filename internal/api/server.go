package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/gridrun/grid-runner-go/internal/live"
	"github.com/gridrun/grid-runner-go/internal/store"
)

// Server handles HTTP requests for saves and live sessions.
type Server struct {
	db        store.DB
	hub       *live.Hub
	log       *logrus.Logger
	startTime time.Time
}

// NewServer creates a new API server.
func NewServer(db store.DB, hub *live.Hub, log *logrus.Logger) *Server {
	return &Server{
		db:        db,
		hub:       hub,
		log:       log,
		startTime: time.Now(),
	}
}

// Routes sets up the HTTP routes with proper middleware.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(s.recoverer)
	r.Use(s.corsMiddleware)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		r.Get("/health", s.handleHealthCheck)
		r.Get("/health/ready", s.handleReadiness)
		r.Get("/health/live", s.handleLiveness)

		r.Route("/api/v1", func(r chi.Router) {
			r.Get("/saves", s.handleListSaves)
			r.Post("/saves", s.handleSaveGame)
			r.Get("/saves/{playerName}", s.handleLoadGame)
			r.Delete("/saves/{playerName}", s.handleDeleteSave)

			r.Post("/sessions", s.handleCreateSession)
			r.Delete("/sessions/{sessionID}", s.handleDeleteSession)
		})
	})

	// the session socket stays open for the whole game, so no timeout here
	r.Get("/api/v1/sessions/{sessionID}/ws", s.handleSessionSocket)

	return r
}

// writeJSON writes a JSON response with proper headers.
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// writeError writes a structured error response.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, errType, message string) {
	s.log.WithFields(logrus.Fields{
		"type":       errType,
		"status":     status,
		"path":       r.URL.Path,
		"method":     r.Method,
		"request_id": middleware.GetReqID(r.Context()),
	}).Warn(message)

	s.writeJSON(w, status, GameError{
		Type:      errType,
		Message:   message,
		RequestID: middleware.GetReqID(r.Context()),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
