// Package live hosts active game sessions: one progression engine per
// connected player, driven by a clock ticker and the player's websocket
// messages through a single serialized loop.
package live

import (
	"math/rand"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/gridrun/grid-runner-go/internal/engine"
	"github.com/gridrun/grid-runner-go/internal/grid"
)

// Hub tracks active sessions by ID.
type Hub struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	log      *logrus.Logger
}

// NewHub creates an empty session hub.
func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		sessions: make(map[uuid.UUID]*Session),
		log:      log,
	}
}

// Create starts a fresh game session for playerName at the given difficulty.
func (h *Hub) Create(playerName string, d grid.Difficulty, rng *rand.Rand) *Session {
	s := newSession(engine.New(playerName, d, rng), h.log)
	h.mu.Lock()
	h.sessions[s.ID] = s
	h.mu.Unlock()
	h.log.WithFields(logrus.Fields{
		"session":    s.ID.String(),
		"player":     playerName,
		"difficulty": d,
	}).Info("session created")
	return s
}

// Restore starts a session resumed from a saved game state.
func (h *Hub) Restore(state engine.GameState) *Session {
	s := newSession(engine.FromState(state), h.log)
	h.mu.Lock()
	h.sessions[s.ID] = s
	h.mu.Unlock()
	h.log.WithFields(logrus.Fields{
		"session": s.ID.String(),
		"player":  state.PlayerName,
	}).Info("session restored from save")
	return s
}

// Get returns the session with the given ID.
func (h *Hub) Get(id uuid.UUID) (*Session, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.sessions[id]
	return s, ok
}

// Remove drops a session from the hub.
func (h *Hub) Remove(id uuid.UUID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.sessions[id]; !ok {
		return false
	}
	delete(h.sessions, id)
	return true
}

// Len returns the number of active sessions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}
