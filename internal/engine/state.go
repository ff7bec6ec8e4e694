package engine

import (
	"github.com/gridrun/grid-runner-go/internal/grid"
)

// Outcome is the progression state machine's position. Ongoing is the initial
// state; every other outcome is terminal until an explicit reset.
type Outcome string

const (
	Ongoing     Outcome = "ongoing"
	Won         Outcome = "won"
	LostHealth  Outcome = "lost_health"
	LostMoves   Outcome = "lost_moves"
	LostTimeout Outcome = "lost_timeout"
)

// Terminal reports whether no further progression is accepted.
func (o Outcome) Terminal() bool {
	return o != Ongoing && o != ""
}

// Initial budgets of a fresh session.
const (
	InitialHealth  = 100
	InitialMoves   = 200
	SessionSeconds = 60
)

// PlayerState tracks the player's position and remaining budgets. Health and
// moves are kept unclamped; they can be observed negative after a hazard hit
// drives them past zero, and only the terminal check interprets that.
type PlayerState struct {
	GridX  int     `json:"gridX"`
	GridZ  int     `json:"gridZ"`
	WorldX float64 `json:"worldX"`
	WorldZ float64 `json:"worldZ"`
	Health int     `json:"health"`
	Moves  int     `json:"moves"`
}

// Status groups the session-level fields surfaced to the renderer and HUD.
type Status struct {
	TimeLeft        int
	IsFPSView       bool
	CurrentCellType grid.CellType // empty until the first cell change
	StartCell       grid.Coord
	EndCell         grid.Coord
	IsOver          bool
	HasWon          bool
	TimerGameOver   bool
}

// GameState is the top-level aggregate owned by the engine. Collaborators
// receive deep copies, never the live value.
type GameState struct {
	PlayerName       string
	Difficulty       grid.Difficulty
	Player           PlayerState
	Game             Status
	GridData         [][]grid.Cell
	VisitedCellTrail map[string]struct{}
	Outcome          Outcome
}

// Side returns the board edge length of the state's grid.
func (s GameState) Side() int {
	return len(s.GridData)
}

// Clone returns a deep copy of the state.
func (s GameState) Clone() GameState {
	out := s
	out.GridData = make([][]grid.Cell, len(s.GridData))
	for i, row := range s.GridData {
		out.GridData[i] = make([]grid.Cell, len(row))
		copy(out.GridData[i], row)
	}
	out.VisitedCellTrail = make(map[string]struct{}, len(s.VisitedCellTrail))
	for k := range s.VisitedCellTrail {
		out.VisitedCellTrail[k] = struct{}{}
	}
	return out
}
