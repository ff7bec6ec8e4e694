package grid

import (
	"math/rand"
	"reflect"
	"testing"
)

func TestGenerateValidity(t *testing.T) {
	difficulties := []Difficulty{Easy, Medium, Hell}

	// 400 seeds per difficulty gives 1200 generated boards
	for _, d := range difficulties {
		for seed := int64(0); seed < 400; seed++ {
			rng := rand.New(rand.NewSource(seed))
			layout := Generate(d, DefaultSide, rng)

			if layout.Side() != DefaultSide {
				t.Fatalf("difficulty=%s seed=%d: side %d, want %d", d, seed, layout.Side(), DefaultSide)
			}
			if layout.Start == layout.End {
				t.Fatalf("difficulty=%s seed=%d: start and end collide at %v", d, seed, layout.Start)
			}
			if !OnPerimeter(layout.Start, DefaultSide) {
				t.Fatalf("difficulty=%s seed=%d: start %v not on perimeter", d, seed, layout.Start)
			}
			if !OnPerimeter(layout.End, DefaultSide) {
				t.Fatalf("difficulty=%s seed=%d: end %v not on perimeter", d, seed, layout.End)
			}
			if got := layout.At(layout.Start).Type; got != Blank {
				t.Fatalf("difficulty=%s seed=%d: start cell type %q, want blank", d, seed, got)
			}
			if got := layout.At(layout.End).Type; got != Blank {
				t.Fatalf("difficulty=%s seed=%d: end cell type %q, want blank", d, seed, got)
			}

			for x, row := range layout.Cells {
				if len(row) != DefaultSide {
					t.Fatalf("difficulty=%s seed=%d: row %d has %d cells", d, seed, x, len(row))
				}
				for z, cell := range row {
					if !cell.Type.Valid() {
						t.Fatalf("difficulty=%s seed=%d: cell (%d,%d) has undefined type %q", d, seed, x, z, cell.Type)
					}
					if cell.GridX != x || cell.GridZ != z {
						t.Fatalf("difficulty=%s seed=%d: cell (%d,%d) carries indices (%d,%d)", d, seed, x, z, cell.GridX, cell.GridZ)
					}
				}
			}
		}
	}
}

func TestGenerateWorldCoordinates(t *testing.T) {
	layout := Generate(Easy, DefaultSide, rand.New(rand.NewSource(7)))

	for _, row := range layout.Cells {
		for _, cell := range row {
			wantX := (float64(cell.GridX) - float64(DefaultSide)/2 + 0.5) * CellUnitSize
			wantZ := (float64(cell.GridZ) - float64(DefaultSide)/2 + 0.5) * CellUnitSize
			if cell.WorldX != wantX || cell.WorldZ != wantZ {
				t.Fatalf("cell (%d,%d): world (%v,%v), want (%v,%v)",
					cell.GridX, cell.GridZ, cell.WorldX, cell.WorldZ, wantX, wantZ)
			}
		}
	}

	// the grid is centered on the origin
	first := layout.Cells[0][0]
	last := layout.Cells[DefaultSide-1][DefaultSide-1]
	if first.WorldX != -last.WorldX || first.WorldZ != -last.WorldZ {
		t.Fatalf("grid not centered: first (%v,%v), last (%v,%v)",
			first.WorldX, first.WorldZ, last.WorldX, last.WorldZ)
	}
}

func TestGenerateCellIDsUnique(t *testing.T) {
	layout := Generate(Medium, DefaultSide, rand.New(rand.NewSource(11)))

	seen := make(map[int]bool)
	for _, row := range layout.Cells {
		for _, cell := range row {
			if seen[cell.ID] {
				t.Fatalf("duplicate cell id %d", cell.ID)
			}
			seen[cell.ID] = true
		}
	}
	if len(seen) != DefaultSide*DefaultSide {
		t.Fatalf("got %d distinct ids, want %d", len(seen), DefaultSide*DefaultSide)
	}
}

func TestGenerateSeededReproducibility(t *testing.T) {
	a := Generate(Hell, DefaultSide, rand.New(rand.NewSource(42)))
	b := Generate(Hell, DefaultSide, rand.New(rand.NewSource(42)))
	if !reflect.DeepEqual(a, b) {
		t.Fatal("same seed produced different layouts")
	}

	c := Generate(Hell, DefaultSide, rand.New(rand.NewSource(43)))
	if reflect.DeepEqual(a, c) {
		t.Fatal("different seeds produced identical layouts")
	}
}

func TestGridIndexRoundTrip(t *testing.T) {
	for _, side := range []int{5, 24, 25} {
		for i := 0; i < side; i++ {
			if got := GridIndex(WorldCoord(i, side), side); got != i {
				t.Fatalf("side=%d: GridIndex(WorldCoord(%d)) = %d", side, i, got)
			}
		}
	}
}

func TestGridIndexClampsBorderDrift(t *testing.T) {
	tests := []struct {
		world float64
		want  int
	}{
		{-1000, 0},
		{WorldCoord(0, DefaultSide) - 0.4, 0},
		{WorldCoord(DefaultSide-1, DefaultSide) + 0.4, DefaultSide - 1},
		{1000, DefaultSide - 1},
	}
	for _, tt := range tests {
		if got := GridIndex(tt.world, DefaultSide); got != tt.want {
			t.Errorf("GridIndex(%v) = %d, want %d", tt.world, got, tt.want)
		}
	}
}

func TestBlankRatioByDifficulty(t *testing.T) {
	if !(BlankRatio(Easy) > BlankRatio(Medium) && BlankRatio(Medium) > BlankRatio(Hell)) {
		t.Fatal("blank ratio must strictly decrease with difficulty")
	}
	for _, d := range []Difficulty{Easy, Medium, Hell} {
		r := BlankRatio(d)
		if r <= 0 || r >= 1 {
			t.Errorf("BlankRatio(%s) = %v, want in (0,1)", d, r)
		}
	}
}

func TestHazardDensityTracksDifficulty(t *testing.T) {
	count := func(d Difficulty) int {
		layout := Generate(d, DefaultSide, rand.New(rand.NewSource(3)))
		n := 0
		for _, row := range layout.Cells {
			for _, cell := range row {
				if cell.Type != Blank {
					n++
				}
			}
		}
		return n
	}

	easy, hell := count(Easy), count(Hell)
	if easy >= hell {
		t.Fatalf("easy board has %d hazards, hell has %d; hell should be denser", easy, hell)
	}
}

func TestParseKeyRoundTrip(t *testing.T) {
	c := Coord{X: 7, Z: 19}
	got, err := ParseKey(c.Key())
	if err != nil {
		t.Fatalf("ParseKey(%q): %v", c.Key(), err)
	}
	if got != c {
		t.Fatalf("round trip %v -> %q -> %v", c, c.Key(), got)
	}

	if _, err := ParseKey("junk"); err == nil {
		t.Fatal("expected error for malformed key")
	}
}
