package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/gridrun/grid-runner-go/internal/grid"
	"github.com/gridrun/grid-runner-go/internal/snapshot"
	"github.com/gridrun/grid-runner-go/internal/store"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// the browser client is served from a separate origin during development
	CheckOrigin: func(r *http.Request) bool { return true },
}

// POST /api/v1/saves
func (s *Server) handleSaveGame(w http.ResponseWriter, r *http.Request) {
	var doc snapshot.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, "invalid JSON body")
		return
	}

	if err := snapshot.Validate(&doc); err != nil {
		s.writeError(w, r, http.StatusUnprocessableEntity, ErrTypeValidation, err.Error())
		return
	}

	lastSaved, err := s.db.SaveGame(r.Context(), &doc)
	if err != nil {
		s.writeError(w, r, http.StatusBadGateway, ErrTypePersistence, "failed to save game: "+err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, SaveResponse{PlayerName: doc.PlayerName, LastSaved: lastSaved})
}

// GET /api/v1/saves/{playerName}
func (s *Server) handleLoadGame(w http.ResponseWriter, r *http.Request) {
	playerName := chi.URLParam(r, "playerName")
	if playerName == "" {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, "playerName is required")
		return
	}

	doc, err := s.db.LoadGame(r.Context(), playerName)
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, r, http.StatusNotFound, ErrTypeNotFound, "no saved game for "+playerName)
		return
	}
	if err != nil {
		s.writeError(w, r, http.StatusBadGateway, ErrTypePersistence, "failed to load game: "+err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, doc)
}

// GET /api/v1/saves
func (s *Server) handleListSaves(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.db.ListSaves(r.Context())
	if err != nil {
		s.writeError(w, r, http.StatusBadGateway, ErrTypePersistence, "failed to list saves: "+err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, summaries)
}

// DELETE /api/v1/saves/{playerName}
func (s *Server) handleDeleteSave(w http.ResponseWriter, r *http.Request) {
	playerName := chi.URLParam(r, "playerName")
	err := s.db.DeleteGame(r.Context(), playerName)
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, r, http.StatusNotFound, ErrTypeNotFound, "no saved game for "+playerName)
		return
	}
	if err != nil {
		s.writeError(w, r, http.StatusBadGateway, ErrTypePersistence, "failed to delete save: "+err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/v1/sessions
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req SessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, "invalid JSON body")
		return
	}
	if req.PlayerName == "" {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, "playerName is required")
		return
	}

	if req.Resume {
		doc, err := s.db.LoadGame(r.Context(), req.PlayerName)
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, r, http.StatusNotFound, ErrTypeNotFound, "no saved game for "+req.PlayerName)
			return
		}
		if err != nil {
			s.writeError(w, r, http.StatusBadGateway, ErrTypePersistence, "failed to load game: "+err.Error())
			return
		}
		state, err := snapshot.Decode(doc)
		if err != nil {
			s.writeError(w, r, http.StatusUnprocessableEntity, ErrTypeValidation, err.Error())
			return
		}
		sess := s.hub.Restore(state)
		s.writeJSON(w, http.StatusOK, SessionResponse{
			SessionID: sess.ID.String(),
			Outcome:   string(sess.Outcome()),
			State:     sess.Document(),
		})
		return
	}

	d := grid.Difficulty(req.Difficulty)
	if !d.Valid() {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, "difficulty must be easy, medium, or hell")
		return
	}
	sess := s.hub.Create(req.PlayerName, d, nil)
	s.writeJSON(w, http.StatusOK, SessionResponse{
		SessionID: sess.ID.String(),
		Outcome:   string(sess.Outcome()),
		State:     sess.Document(),
	})
}

// GET /api/v1/sessions/{sessionID}/ws
func (s *Server) handleSessionSocket(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, "invalid session id")
		return
	}
	sess, ok := s.hub.Get(id)
	if !ok {
		s.writeError(w, r, http.StatusNotFound, ErrTypeSession, "session not found")
		return
	}
	if !sess.Attach() {
		s.writeError(w, r, http.StatusConflict, ErrTypeSession, "session already has an active connection")
		return
	}
	defer sess.Detach()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	sess.Serve(r.Context(), conn)
}

// DELETE /api/v1/sessions/{sessionID}
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, "invalid session id")
		return
	}
	if !s.hub.Remove(id) {
		s.writeError(w, r, http.StatusNotFound, ErrTypeSession, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
