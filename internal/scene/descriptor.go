// Package scene flattens a game state into the explicit typed descriptors
// the external 3D renderer consumes. The renderer never touches engine
// state directly and no render-only fields leak into the core data model.
package scene

import (
	"github.com/gridrun/grid-runner-go/internal/engine"
	"github.com/gridrun/grid-runner-go/internal/grid"
)

// CellDescriptor describes one board tile for the renderer.
type CellDescriptor struct {
	ID      int           `json:"id"`
	Kind    grid.CellType `json:"kind"`
	WorldX  float64       `json:"worldX"`
	WorldZ  float64       `json:"worldZ"`
	Visited bool          `json:"visited"`
}

// MarkerRole distinguishes the non-tile objects in the scene.
type MarkerRole string

const (
	MarkerStart  MarkerRole = "start"
	MarkerEnd    MarkerRole = "end"
	MarkerPlayer MarkerRole = "player"
)

// MarkerDescriptor places a start/end/player marker in world space.
type MarkerDescriptor struct {
	Role   MarkerRole `json:"role"`
	WorldX float64    `json:"worldX"`
	WorldZ float64    `json:"worldZ"`
}

// Frame is everything the renderer needs to draw one frame.
type Frame struct {
	Cells     []CellDescriptor   `json:"cells"`
	Markers   []MarkerDescriptor `json:"markers"`
	IsFPSView bool               `json:"isFpsView"`
}

// Build produces the frame descriptors for the given state snapshot.
func Build(state engine.GameState) Frame {
	cells := make([]CellDescriptor, 0, state.Side()*state.Side())
	for _, row := range state.GridData {
		for _, cell := range row {
			key := grid.Coord{X: cell.GridX, Z: cell.GridZ}.Key()
			_, visited := state.VisitedCellTrail[key]
			cells = append(cells, CellDescriptor{
				ID:      cell.ID,
				Kind:    cell.Type,
				WorldX:  cell.WorldX,
				WorldZ:  cell.WorldZ,
				Visited: visited,
			})
		}
	}

	start := state.GridData[state.Game.StartCell.X][state.Game.StartCell.Z]
	end := state.GridData[state.Game.EndCell.X][state.Game.EndCell.Z]
	markers := []MarkerDescriptor{
		{Role: MarkerStart, WorldX: start.WorldX, WorldZ: start.WorldZ},
		{Role: MarkerEnd, WorldX: end.WorldX, WorldZ: end.WorldZ},
		{Role: MarkerPlayer, WorldX: state.Player.WorldX, WorldZ: state.Player.WorldZ},
	}

	return Frame{Cells: cells, Markers: markers, IsFPSView: state.Game.IsFPSView}
}
