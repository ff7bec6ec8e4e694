package engine

import (
	"math/rand"
	"sync"

	"github.com/gridrun/grid-runner-go/internal/grid"
)

// Engine owns a single GameState and applies the session's two periodic
// triggers: continuous position samples and one-second clock ticks. Both
// triggers are serialized behind one mutex, so at most one terminal
// transition is ever committed; later triggers see a terminal outcome and
// return without touching the state.
type Engine struct {
	mu    sync.Mutex
	side  int
	state GameState
}

// New creates an engine with a freshly generated grid for the difficulty.
// rng may be nil for a time-seeded board.
func New(playerName string, d grid.Difficulty, rng *rand.Rand) *Engine {
	e := &Engine{}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resetLocked(playerName, d, rng)
	return e
}

// FromState creates an engine resumed from a validated saved state.
func FromState(state GameState) *Engine {
	e := &Engine{}
	e.Restore(state)
	return e
}

// Reset discards the current session and starts a new grid at the given
// difficulty, restoring the initial health/moves/time budgets.
func (e *Engine) Reset(d grid.Difficulty, rng *rand.Rand) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resetLocked(e.state.PlayerName, d, rng)
}

func (e *Engine) resetLocked(playerName string, d grid.Difficulty, rng *rand.Rand) {
	layout := grid.Generate(d, grid.DefaultSide, rng)
	startCell := layout.At(layout.Start)
	e.side = layout.Side()
	e.state = GameState{
		PlayerName: playerName,
		Difficulty: d,
		Player: PlayerState{
			GridX:  layout.Start.X,
			GridZ:  layout.Start.Z,
			WorldX: startCell.WorldX,
			WorldZ: startCell.WorldZ,
			Health: InitialHealth,
			Moves:  InitialMoves,
		},
		Game: Status{
			TimeLeft:  SessionSeconds,
			StartCell: layout.Start,
			EndCell:   layout.End,
		},
		GridData:         layout.Cells,
		VisitedCellTrail: make(map[string]struct{}),
		Outcome:          Ongoing,
	}
}

// Restore replaces the session with a previously saved state and resumes
// play: the outcome is forced back to Ongoing and the over/won flags are
// cleared regardless of what the snapshot recorded. The caller is expected
// to have validated the state through the snapshot codec.
func (e *Engine) Restore(state GameState) {
	e.mu.Lock()
	defer e.mu.Unlock()
	restored := state.Clone()
	if restored.VisitedCellTrail == nil {
		restored.VisitedCellTrail = make(map[string]struct{})
	}
	restored.Outcome = Ongoing
	restored.Game.IsOver = false
	restored.Game.HasWon = false
	restored.Game.TimerGameOver = false
	e.side = restored.Side()
	e.state = restored
}

// Snapshot returns a deep copy of the current state for the renderer,
// the codec, or tests.
func (e *Engine) Snapshot() GameState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// Outcome returns the state machine's current position.
func (e *Engine) Outcome() Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Outcome
}

// OnPositionSample ingests a continuous position reported by the external
// position source. It converts the sample to grid indices, and if the player
// crossed into a new cell, applies that cell's consequences: win on the end
// cell (before any effect), otherwise hazard deltas followed by the
// health/moves terminal checks. Returns true if the state changed.
func (e *Engine) OnPositionSample(worldX, worldZ float64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.samplePositionLocked(worldX, worldZ)
}

func (e *Engine) samplePositionLocked(worldX, worldZ float64) bool {
	if e.state.Outcome.Terminal() {
		return false
	}

	x := grid.GridIndex(worldX, e.side)
	z := grid.GridIndex(worldZ, e.side)
	p := &e.state.Player
	if x == p.GridX && z == p.GridZ {
		return false
	}

	prev := grid.Coord{X: p.GridX, Z: p.GridZ}
	if prev != e.state.Game.StartCell && prev != e.state.Game.EndCell {
		e.state.VisitedCellTrail[prev.Key()] = struct{}{}
	}

	cell := e.state.GridData[x][z]
	p.GridX, p.GridZ = x, z
	p.WorldX, p.WorldZ = worldX, worldZ
	e.state.Game.CurrentCellType = cell.Type

	if (grid.Coord{X: x, Z: z}) == e.state.Game.EndCell {
		e.state.Outcome = Won
		e.state.Game.IsOver = true
		e.state.Game.HasWon = true
		return true
	}

	eff := grid.EffectFor(cell.Type)
	p.Health += eff.Health
	p.Moves += eff.Moves

	switch {
	case p.Health <= 0:
		e.state.Outcome = LostHealth
		e.state.Game.IsOver = true
	case p.Moves <= 0:
		e.state.Outcome = LostMoves
		e.state.Game.IsOver = true
	}
	return true
}

// OnClockTick burns one second of the session budget. At zero the session
// times out. A tick arriving after any terminal transition is a no-op.
func (e *Engine) OnClockTick() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.Outcome.Terminal() {
		return false
	}

	e.state.Game.TimeLeft--
	if e.state.Game.TimeLeft <= 0 {
		e.state.Outcome = LostTimeout
		e.state.Game.IsOver = true
		e.state.Game.TimerGameOver = true
	}
	return true
}

// ToggleView flips the first-person/overview flag. Cosmetic only; ignored
// once the session is over.
func (e *Engine) ToggleView() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.Outcome.Terminal() {
		return false
	}
	e.state.Game.IsFPSView = !e.state.Game.IsFPSView
	return true
}
