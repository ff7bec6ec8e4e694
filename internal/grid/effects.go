package grid

// Effect is the health/moves adjustment applied when the player enters a cell.
type Effect struct {
	Health int
	Moves  int
}

var effects = map[CellType]Effect{
	Blank:   {Health: 0, Moves: -1},
	Speeder: {Health: -5, Moves: 0},
	Lava:    {Health: -50, Moves: -10},
	Mud:     {Health: -10, Moves: -5},
}

// EffectFor returns the deltas for t. The lookup is total over the CellType
// domain; an unknown type behaves like Blank.
func EffectFor(t CellType) Effect {
	if e, ok := effects[t]; ok {
		return e
	}
	return effects[Blank]
}
