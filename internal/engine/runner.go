package engine

import (
	"context"
	"time"
)

// PositionSource reports the player's continuous position each sampling tick.
// The renderer/physics host implements this; headless hosts can supply a
// synthetic walker.
type PositionSource interface {
	Sample() (worldX, worldZ float64)
}

// Runner drives an engine's two periodic triggers from a single goroutine:
// a one-second clock and a higher-frequency position sampler that also
// drains at most one queued intent per tick. Running everything through one
// select loop keeps the triggers serialized without relying on the engine's
// own locking for ordering.
type Runner struct {
	ClockInterval  time.Duration
	SampleInterval time.Duration

	engine  *Engine
	source  PositionSource
	intents *IntentQueue
}

// NewRunner creates a runner for e. source and intents may be nil when the
// host only needs the respective trigger disabled.
func NewRunner(e *Engine, source PositionSource, intents *IntentQueue) *Runner {
	return &Runner{
		ClockInterval:  time.Second,
		SampleInterval: 100 * time.Millisecond,
		engine:         e,
		source:         source,
		intents:        intents,
	}
}

// Run loops until the engine reaches a terminal outcome or ctx is cancelled,
// and returns the outcome at that point. Both tickers stop on return, and any
// tick already queued when a terminal state lands is discarded by the
// engine's own state check.
func (r *Runner) Run(ctx context.Context) Outcome {
	clock := time.NewTicker(r.ClockInterval)
	defer clock.Stop()
	sample := time.NewTicker(r.SampleInterval)
	defer sample.Stop()

	for {
		select {
		case <-ctx.Done():
			return r.engine.Outcome()
		case <-clock.C:
			r.engine.OnClockTick()
		case <-sample.C:
			if r.intents != nil {
				if in, ok := r.intents.Poll(); ok {
					r.engine.Apply(in)
				}
			}
			if r.source != nil {
				wx, wz := r.source.Sample()
				r.engine.OnPositionSample(wx, wz)
			}
		}
		if out := r.engine.Outcome(); out.Terminal() {
			return out
		}
	}
}
