// Command simulate runs a headless game to a terminal outcome: it generates
// a grid, walks a synthetic player toward the end marker with some wobble,
// and reports how the session ended. Useful for eyeballing difficulty tuning
// without a browser attached.
package main

import (
	"context"
	"flag"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gridrun/grid-runner-go/internal/engine"
	"github.com/gridrun/grid-runner-go/internal/grid"
)

func main() {
	difficulty := flag.String("difficulty", "easy", "easy, medium, or hell")
	seed := flag.Int64("seed", time.Now().UnixNano(), "rng seed for the grid and the walker")
	wobble := flag.Float64("wobble", 0.3, "probability of a random sidestep instead of heading to the end")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	d := grid.Difficulty(*difficulty)
	if !d.Valid() {
		log.WithField("difficulty", *difficulty).Fatal("difficulty must be easy, medium, or hell")
	}

	rng := rand.New(rand.NewSource(*seed))
	eng := engine.New("simulator", d, rng)

	walker := &walker{eng: eng, rng: rng, wobble: *wobble}
	runner := engine.NewRunner(eng, walker, nil)
	// compressed timescale: a full 60-second session plays out in ~600ms
	runner.ClockInterval = 10 * time.Millisecond
	runner.SampleInterval = time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	start := time.Now()
	outcome := runner.Run(ctx)
	state := eng.Snapshot()

	log.WithFields(logrus.Fields{
		"outcome":    outcome,
		"difficulty": d,
		"seed":       *seed,
		"health":     state.Player.Health,
		"moves":      state.Player.Moves,
		"time_left":  state.Game.TimeLeft,
		"visited":    len(state.VisitedCellTrail),
		"elapsed":    time.Since(start).String(),
	}).Info("simulation finished")
}

// walker steps one cell per sample, usually toward the end marker.
type walker struct {
	eng    *engine.Engine
	rng    *rand.Rand
	wobble float64
}

func (w *walker) Sample() (float64, float64) {
	state := w.eng.Snapshot()
	side := state.Side()
	x, z := state.Player.GridX, state.Player.GridZ

	if w.rng.Float64() < w.wobble {
		switch w.rng.Intn(4) {
		case 0:
			x++
		case 1:
			x--
		case 2:
			z++
		default:
			z--
		}
	} else {
		end := state.Game.EndCell
		switch {
		case x < end.X:
			x++
		case x > end.X:
			x--
		case z < end.Z:
			z++
		case z > end.Z:
			z--
		}
	}

	if x < 0 {
		x = 0
	}
	if x > side-1 {
		x = side - 1
	}
	if z < 0 {
		z = 0
	}
	if z > side-1 {
		z = side - 1
	}
	return grid.WorldCoord(x, side), grid.WorldCoord(z, side)
}
