package engine

import (
	"fmt"

	"github.com/gridrun/grid-runner-go/internal/grid"
)

// Intent is a discrete command produced by the input layer. The core never
// sees raw device events; input adapters translate them into these values.
type Intent string

const (
	MoveNorth  Intent = "move_north"
	MoveSouth  Intent = "move_south"
	MoveEast   Intent = "move_east"
	MoveWest   Intent = "move_west"
	ToggleView Intent = "toggle_view"
)

// ParseIntent converts the wire form of an intent.
func ParseIntent(s string) (Intent, error) {
	switch in := Intent(s); in {
	case MoveNorth, MoveSouth, MoveEast, MoveWest, ToggleView:
		return in, nil
	default:
		return "", fmt.Errorf("unknown intent %q", s)
	}
}

// delta returns the grid step for a movement intent. North decreases Z.
func (in Intent) delta() (dx, dz int, ok bool) {
	switch in {
	case MoveNorth:
		return 0, -1, true
	case MoveSouth:
		return 0, 1, true
	case MoveEast:
		return 1, 0, true
	case MoveWest:
		return -1, 0, true
	}
	return 0, 0, false
}

// Apply executes one intent: a movement intent targets the adjacent cell's
// world-space center and is routed through the position sample path, so it
// carries exactly the same consequences as renderer-reported movement.
// Returns true if the state changed.
func (e *Engine) Apply(in Intent) bool {
	if in == ToggleView {
		return e.ToggleView()
	}
	dx, dz, ok := in.delta()
	if !ok {
		return false
	}

	// target and application stay under one lock acquisition, so a
	// concurrent sample cannot slip in between and stale the step
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Outcome.Terminal() {
		return false
	}
	side := e.side
	tx := clampIndex(e.state.Player.GridX+dx, side)
	tz := clampIndex(e.state.Player.GridZ+dz, side)
	return e.samplePositionLocked(grid.WorldCoord(tx, side), grid.WorldCoord(tz, side))
}

func clampIndex(i, side int) int {
	if i < 0 {
		return 0
	}
	if i > side-1 {
		return side - 1
	}
	return i
}

// IntentQueue is the bounded buffer between an input adapter and the session
// loop. Offers never block; when the queue is full the intent is dropped.
type IntentQueue struct {
	ch chan Intent
}

// NewIntentQueue creates a queue holding at most capacity pending intents.
func NewIntentQueue(capacity int) *IntentQueue {
	if capacity <= 0 {
		capacity = 16
	}
	return &IntentQueue{ch: make(chan Intent, capacity)}
}

// Offer enqueues an intent without blocking. Returns false when dropped.
func (q *IntentQueue) Offer(in Intent) bool {
	select {
	case q.ch <- in:
		return true
	default:
		return false
	}
}

// Poll dequeues one pending intent without blocking.
func (q *IntentQueue) Poll() (Intent, bool) {
	select {
	case in := <-q.ch:
		return in, true
	default:
		return "", false
	}
}
