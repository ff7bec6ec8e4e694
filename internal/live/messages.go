package live

import "github.com/gridrun/grid-runner-go/internal/snapshot"

// clientMessage is one frame sent by the browser over the session socket.
// Type selects which fields are meaningful.
type clientMessage struct {
	Type   string  `json:"type"`   // "position" or "intent"
	WorldX float64 `json:"worldX"` // position only
	WorldZ float64 `json:"worldZ"` // position only
	Intent string  `json:"intent"` // intent only
}

// stateFrame is pushed to the client after every applied change and on
// terminal transitions.
type stateFrame struct {
	Type    string             `json:"type"` // always "state"
	Outcome string             `json:"outcome"`
	State   *snapshot.Document `json:"state"`
}

// errorFrame reports a rejected client message without closing the socket.
type errorFrame struct {
	Type    string `json:"type"` // always "error"
	Message string `json:"message"`
}
