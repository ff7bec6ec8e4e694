package grid

import "fmt"

// CellType identifies the hazard/bonus class of a single grid cell.
type CellType string

const (
	Blank   CellType = "blank"
	Speeder CellType = "speeder"
	Lava    CellType = "lava"
	Mud     CellType = "mud"
)

// hazardTypes are the non-blank types a generated cell can draw.
var hazardTypes = []CellType{Speeder, Lava, Mud}

// CellTypes lists every defined cell type.
func CellTypes() []CellType {
	return []CellType{Blank, Speeder, Lava, Mud}
}

// Valid reports whether t is one of the defined cell types.
func (t CellType) Valid() bool {
	switch t {
	case Blank, Speeder, Lava, Mud:
		return true
	}
	return false
}

// Cell is one addressable tile of the board. Immutable once generated.
type Cell struct {
	ID     int      `json:"id"`
	Type   CellType `json:"type"`
	GridX  int      `json:"gridX"`
	GridZ  int      `json:"gridZ"`
	WorldX float64  `json:"worldX"`
	WorldZ float64  `json:"worldZ"`
}

// Coord addresses a cell by its grid indices.
type Coord struct {
	X int `json:"x"`
	Z int `json:"z"`
}

// Key renders the coordinate as the "x,z" form used by the visited trail.
func (c Coord) Key() string {
	return fmt.Sprintf("%d,%d", c.X, c.Z)
}

// ParseKey parses a "x,z" trail key back into a coordinate.
func ParseKey(key string) (Coord, error) {
	var c Coord
	if _, err := fmt.Sscanf(key, "%d,%d", &c.X, &c.Z); err != nil {
		return Coord{}, fmt.Errorf("malformed trail key %q: %w", key, err)
	}
	return c, nil
}

// Difficulty selects the hazard density of a generated grid.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hell   Difficulty = "hell"
)

// Valid reports whether d is one of the defined difficulty levels.
func (d Difficulty) Valid() bool {
	switch d {
	case Easy, Medium, Hell:
		return true
	}
	return false
}

// BlankRatio is the probability that a non-start/end cell is Blank rather
// than a randomly chosen hazard type.
func BlankRatio(d Difficulty) float64 {
	switch d {
	case Medium:
		return 0.55
	case Hell:
		return 0.35
	default:
		return 0.75
	}
}
