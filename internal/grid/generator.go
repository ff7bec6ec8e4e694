package grid

import (
	"math"
	"math/rand"
	"time"
)

const (
	// DefaultSide is the board edge length used by a standard session.
	DefaultSide = 25

	// CellUnitSize is the world-space width of one cell. World coordinates
	// center the grid on the origin.
	CellUnitSize = 1.0
)

// Layout is a generated board: a square matrix of cells plus the two
// distinguished perimeter cells the player travels between.
type Layout struct {
	Cells [][]Cell `json:"cells"`
	Start Coord    `json:"start"`
	End   Coord    `json:"end"`
}

// Side returns the board edge length.
func (l Layout) Side() int {
	return len(l.Cells)
}

// At returns the cell at the given coordinate.
func (l Layout) At(c Coord) Cell {
	return l.Cells[c.X][c.Z]
}

// WorldCoord maps a grid index to the world-space center of that cell.
func WorldCoord(index, side int) float64 {
	return (float64(index) - float64(side)/2 + 0.5) * CellUnitSize
}

// GridIndex maps a continuous world coordinate back to a grid index,
// clamped to [0, side-1] to guard against floating drift at the border.
func GridIndex(world float64, side int) int {
	i := int(math.Round(world/CellUnitSize + float64(side)/2 - 0.5))
	if i < 0 {
		return 0
	}
	if i > side-1 {
		return side - 1
	}
	return i
}

// Generate derives a traversable grid for the given difficulty. Start and end
// are picked uniformly on the perimeter (distinct from each other) and forced
// Blank; every other cell is Blank with probability BlankRatio(d), otherwise a
// uniformly chosen hazard. Every cell type is traversable, so the board is
// always fully connected and no reachability check is needed.
//
// rng may be nil, in which case a time-seeded source is used.
func Generate(d Difficulty, side int, rng *rand.Rand) Layout {
	if side < 2 {
		side = DefaultSide
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	start := perimeterCell(rng, side)
	end := perimeterCell(rng, side)
	for end == start {
		end = perimeterCell(rng, side)
	}

	ratio := BlankRatio(d)
	cells := make([][]Cell, side)
	id := 0
	for x := 0; x < side; x++ {
		cells[x] = make([]Cell, side)
		for z := 0; z < side; z++ {
			c := Coord{X: x, Z: z}
			t := Blank
			if c != start && c != end && rng.Float64() >= ratio {
				t = hazardTypes[rng.Intn(len(hazardTypes))]
			}
			cells[x][z] = Cell{
				ID:     id,
				Type:   t,
				GridX:  x,
				GridZ:  z,
				WorldX: WorldCoord(x, side),
				WorldZ: WorldCoord(z, side),
			}
			id++
		}
	}

	return Layout{Cells: cells, Start: start, End: end}
}

// perimeterCell picks a uniform edge, then a uniform offset along it.
func perimeterCell(rng *rand.Rand, side int) Coord {
	off := rng.Intn(side)
	switch rng.Intn(4) {
	case 0:
		return Coord{X: off, Z: 0}
	case 1:
		return Coord{X: off, Z: side - 1}
	case 2:
		return Coord{X: 0, Z: off}
	default:
		return Coord{X: side - 1, Z: off}
	}
}

// OnPerimeter reports whether c lies on the outer ring of a side-length board.
func OnPerimeter(c Coord, side int) bool {
	return c.X == 0 || c.Z == 0 || c.X == side-1 || c.Z == side-1
}
