// Package snapshot serializes engine game states to and from the persisted
// document shape. Decoding is strict: a document missing any required field
// is a data-integrity error, never silently defaulted, since a patched-up
// snapshot would corrupt win/loss accounting.
package snapshot

import (
	"time"

	"github.com/gridrun/grid-runner-go/internal/grid"
)

// Document is the persisted save shape, one per player name. Field names
// match the wire schema consumed by the browser client.
type Document struct {
	PlayerName       string          `json:"playerName"`
	Difficulty       grid.Difficulty `json:"difficulty"`
	Player           *PlayerDoc      `json:"player"`
	Game             *GameDoc        `json:"game"`
	GridData         [][]grid.Cell   `json:"gridData"`
	VisitedCellTrail []string        `json:"visitedCellTrail"`
	LastSaved        time.Time       `json:"lastSaved,omitzero"`
}

// PlayerDoc is the player sub-document. Every scalar is a pointer so a key
// absent from the JSON is distinguishable from its zero value; Validate
// rejects any nil.
type PlayerDoc struct {
	GridX  *int     `json:"gridX"`
	GridZ  *int     `json:"gridZ"`
	WorldX *float64 `json:"worldX"`
	WorldZ *float64 `json:"worldZ"`
	Health *int     `json:"health"`
	Moves  *int     `json:"moves"`
}

// GameDoc is the session-status sub-document. As with PlayerDoc, required
// scalars are pointers so missing keys are detectable; CurrentCellType alone
// is legitimately nullable, until the player first changes cell.
type GameDoc struct {
	TimeLeft        *int           `json:"timeLeft"`
	IsFPSView       *bool          `json:"isFpsView"`
	CurrentCellType *grid.CellType `json:"currentCellType"`
	StartCell       *grid.Coord    `json:"startCell"`
	EndCell         *grid.Coord    `json:"endCell"`
	IsOver          *bool          `json:"isOver"`
	HasWon          *bool          `json:"hasWon"`
	TimerGameOver   *bool          `json:"timerGameOver"`
}
