package snapshot

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/multierr"

	"github.com/gridrun/grid-runner-go/internal/engine"
	"github.com/gridrun/grid-runner-go/internal/grid"
)

// ValidationError aggregates every schema violation found in a document.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid snapshot: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func ptr[T any](v T) *T {
	return &v
}

// Encode converts a game state into its persisted document shape. The trail
// is emitted sorted so repeated saves of the same state produce identical
// documents.
func Encode(state engine.GameState) *Document {
	player := &PlayerDoc{
		GridX:  ptr(state.Player.GridX),
		GridZ:  ptr(state.Player.GridZ),
		WorldX: ptr(state.Player.WorldX),
		WorldZ: ptr(state.Player.WorldZ),
		Health: ptr(state.Player.Health),
		Moves:  ptr(state.Player.Moves),
	}
	game := &GameDoc{
		TimeLeft:      ptr(state.Game.TimeLeft),
		IsFPSView:     ptr(state.Game.IsFPSView),
		StartCell:     ptr(state.Game.StartCell),
		EndCell:       ptr(state.Game.EndCell),
		IsOver:        ptr(state.Game.IsOver),
		HasWon:        ptr(state.Game.HasWon),
		TimerGameOver: ptr(state.Game.TimerGameOver),
	}
	if state.Game.CurrentCellType != "" {
		game.CurrentCellType = ptr(state.Game.CurrentCellType)
	}

	trail := make([]string, 0, len(state.VisitedCellTrail))
	for key := range state.VisitedCellTrail {
		trail = append(trail, key)
	}
	sort.Strings(trail)

	gridData := make([][]grid.Cell, len(state.GridData))
	for i, row := range state.GridData {
		gridData[i] = make([]grid.Cell, len(row))
		copy(gridData[i], row)
	}

	return &Document{
		PlayerName:       state.PlayerName,
		Difficulty:       state.Difficulty,
		Player:           player,
		Game:             game,
		GridData:         gridData,
		VisitedCellTrail: trail,
	}
}

// Decode converts a persisted document back into a game state. The document
// is validated first; any missing or malformed required field rejects the
// whole snapshot with a *ValidationError. The outcome is rederived from the
// stored flags and budgets.
func Decode(doc *Document) (engine.GameState, error) {
	if err := Validate(doc); err != nil {
		return engine.GameState{}, err
	}

	gridData := make([][]grid.Cell, len(doc.GridData))
	for i, row := range doc.GridData {
		gridData[i] = make([]grid.Cell, len(row))
		copy(gridData[i], row)
	}

	trail := make(map[string]struct{}, len(doc.VisitedCellTrail))
	for _, key := range doc.VisitedCellTrail {
		trail[key] = struct{}{}
	}

	state := engine.GameState{
		PlayerName: doc.PlayerName,
		Difficulty: doc.Difficulty,
		Player: engine.PlayerState{
			GridX:  *doc.Player.GridX,
			GridZ:  *doc.Player.GridZ,
			WorldX: *doc.Player.WorldX,
			WorldZ: *doc.Player.WorldZ,
			Health: *doc.Player.Health,
			Moves:  *doc.Player.Moves,
		},
		Game: engine.Status{
			TimeLeft:      *doc.Game.TimeLeft,
			IsFPSView:     *doc.Game.IsFPSView,
			StartCell:     *doc.Game.StartCell,
			EndCell:       *doc.Game.EndCell,
			IsOver:        *doc.Game.IsOver,
			HasWon:        *doc.Game.HasWon,
			TimerGameOver: *doc.Game.TimerGameOver,
		},
		GridData:         gridData,
		VisitedCellTrail: trail,
	}
	if doc.Game.CurrentCellType != nil {
		state.Game.CurrentCellType = *doc.Game.CurrentCellType
	}
	state.Outcome = deriveOutcome(state)
	return state, nil
}

func deriveOutcome(state engine.GameState) engine.Outcome {
	switch {
	case !state.Game.IsOver:
		return engine.Ongoing
	case state.Game.HasWon:
		return engine.Won
	case state.Game.TimerGameOver:
		return engine.LostTimeout
	case state.Player.Health <= 0:
		return engine.LostHealth
	default:
		return engine.LostMoves
	}
}

// Validate checks every required field of the document, scalars included,
// and reports all violations at once.
func Validate(doc *Document) error {
	if doc == nil {
		return &ValidationError{Err: errors.New("document is nil")}
	}

	var err error
	if doc.PlayerName == "" {
		err = multierr.Append(err, errors.New("playerName is required"))
	}
	if !doc.Difficulty.Valid() {
		err = multierr.Append(err, fmt.Errorf("difficulty %q is not one of easy/medium/hell", doc.Difficulty))
	}
	err = multierr.Append(err, validatePlayer(doc.Player))
	err = multierr.Append(err, validateGame(doc.Game))
	err = multierr.Append(err, validateGrid(doc.GridData))
	if doc.VisitedCellTrail == nil {
		err = multierr.Append(err, errors.New("visitedCellTrail is required"))
	} else {
		for _, key := range doc.VisitedCellTrail {
			if _, perr := grid.ParseKey(key); perr != nil {
				err = multierr.Append(err, fmt.Errorf("visitedCellTrail: %w", perr))
			}
		}
	}

	if err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}

func validatePlayer(player *PlayerDoc) error {
	if player == nil {
		return errors.New("player is required")
	}
	var err error
	if player.GridX == nil {
		err = multierr.Append(err, errors.New("player.gridX is required"))
	}
	if player.GridZ == nil {
		err = multierr.Append(err, errors.New("player.gridZ is required"))
	}
	if player.WorldX == nil {
		err = multierr.Append(err, errors.New("player.worldX is required"))
	}
	if player.WorldZ == nil {
		err = multierr.Append(err, errors.New("player.worldZ is required"))
	}
	if player.Health == nil {
		err = multierr.Append(err, errors.New("player.health is required"))
	}
	if player.Moves == nil {
		err = multierr.Append(err, errors.New("player.moves is required"))
	}
	return err
}

func validateGame(game *GameDoc) error {
	if game == nil {
		return errors.New("game is required")
	}
	var err error
	if game.TimeLeft == nil {
		err = multierr.Append(err, errors.New("game.timeLeft is required"))
	}
	if game.IsFPSView == nil {
		err = multierr.Append(err, errors.New("game.isFpsView is required"))
	}
	if game.StartCell == nil {
		err = multierr.Append(err, errors.New("game.startCell is required"))
	}
	if game.EndCell == nil {
		err = multierr.Append(err, errors.New("game.endCell is required"))
	}
	if game.IsOver == nil {
		err = multierr.Append(err, errors.New("game.isOver is required"))
	}
	if game.HasWon == nil {
		err = multierr.Append(err, errors.New("game.hasWon is required"))
	}
	if game.TimerGameOver == nil {
		err = multierr.Append(err, errors.New("game.timerGameOver is required"))
	}
	if game.CurrentCellType != nil && !game.CurrentCellType.Valid() {
		err = multierr.Append(err, fmt.Errorf("game.currentCellType %q is not a defined cell type", *game.CurrentCellType))
	}
	return err
}

func validateGrid(cells [][]grid.Cell) error {
	if len(cells) == 0 {
		return errors.New("gridData is required")
	}
	var err error
	side := len(cells)
	for x, row := range cells {
		if len(row) != side {
			err = multierr.Append(err, fmt.Errorf("gridData row %d has %d cells, want %d", x, len(row), side))
			continue
		}
		for z, cell := range row {
			if !cell.Type.Valid() {
				err = multierr.Append(err, fmt.Errorf("gridData[%d][%d] has undefined type %q", x, z, cell.Type))
			}
		}
	}
	return err
}
