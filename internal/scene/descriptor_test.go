package scene

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridrun/grid-runner-go/internal/engine"
	"github.com/gridrun/grid-runner-go/internal/grid"
)

func sceneState(t *testing.T) engine.GameState {
	t.Helper()
	e := engine.New("alice", grid.Medium, rand.New(rand.NewSource(11)))
	return e.Snapshot()
}

func TestBuildCoversEveryCell(t *testing.T) {
	state := sceneState(t)
	frame := Build(state)

	side := state.Side()
	require.Len(t, frame.Cells, side*side)

	seen := make(map[int]struct{}, len(frame.Cells))
	for _, c := range frame.Cells {
		assert.True(t, c.Kind.Valid(), "cell %d has kind %q", c.ID, c.Kind)
		seen[c.ID] = struct{}{}
	}
	assert.Len(t, seen, side*side, "descriptor ids must be unique")
}

func TestBuildMarkers(t *testing.T) {
	state := sceneState(t)
	frame := Build(state)

	require.Len(t, frame.Markers, 3)
	roles := make(map[MarkerRole]MarkerDescriptor, 3)
	for _, m := range frame.Markers {
		roles[m.Role] = m
	}

	start := state.GridData[state.Game.StartCell.X][state.Game.StartCell.Z]
	end := state.GridData[state.Game.EndCell.X][state.Game.EndCell.Z]

	assert.Equal(t, start.WorldX, roles[MarkerStart].WorldX)
	assert.Equal(t, start.WorldZ, roles[MarkerStart].WorldZ)
	assert.Equal(t, end.WorldX, roles[MarkerEnd].WorldX)
	assert.Equal(t, end.WorldZ, roles[MarkerEnd].WorldZ)

	// a fresh session spawns the player on the start cell
	assert.Equal(t, start.WorldX, roles[MarkerPlayer].WorldX)
	assert.Equal(t, start.WorldZ, roles[MarkerPlayer].WorldZ)
}

func TestBuildVisitedFlags(t *testing.T) {
	state := sceneState(t)
	state.VisitedCellTrail = map[string]struct{}{
		"1,2": {},
		"4,4": {},
	}
	frame := Build(state)

	visited := 0
	for _, c := range frame.Cells {
		if c.Visited {
			visited++
		}
	}
	assert.Equal(t, 2, visited)
}

func TestBuildCarriesViewMode(t *testing.T) {
	state := sceneState(t)
	assert.False(t, Build(state).IsFPSView)

	state.Game.IsFPSView = true
	assert.True(t, Build(state).IsFPSView)
}
