package api

import (
	"time"

	"github.com/gridrun/grid-runner-go/internal/snapshot"
)

// GameError represents a structured error response with context.
type GameError struct {
	Type      string         `json:"type"`
	Message   string         `json:"message"`
	Context   map[string]any `json:"context,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
	Timestamp string         `json:"timestamp,omitempty"`
}

// Error implements the error interface.
func (e GameError) Error() string {
	return e.Message
}

// Error types surfaced to callers. Every failure carries one of these so the
// host can render an appropriate message.
const (
	ErrTypeValidation  = "validation_error"
	ErrTypeNotFound    = "not_found"
	ErrTypeSession     = "session_not_found"
	ErrTypePersistence = "persistence_error"
	ErrTypeInternal    = "internal_error"
)

// SaveResponse acknowledges an upserted save.
type SaveResponse struct {
	PlayerName string    `json:"playerName"`
	LastSaved  time.Time `json:"lastSaved"`
}

// SessionRequest creates a live game session. With Resume set, the player's
// saved game is loaded and play continues from it; otherwise a fresh grid is
// generated at the requested difficulty.
type SessionRequest struct {
	PlayerName string `json:"playerName"`
	Difficulty string `json:"difficulty"`
	Resume     bool   `json:"resume,omitempty"`
}

// SessionResponse returns the new session and its opening state.
type SessionResponse struct {
	SessionID string             `json:"sessionId"`
	Outcome   string             `json:"outcome"`
	State     *snapshot.Document `json:"state"`
}
