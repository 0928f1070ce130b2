package engine

import (
	"context"
	"log"
	"time"
)

// Sweeper periodically reconciles lapsed holds back into availability.
// Correctness does not depend on the sweeper being exclusive: every
// per-hold reconciliation is its own atomic unit, so overlapping sweeps
// and concurrent reserve/confirm/release calls are safe.
type Sweeper struct {
	engine   *Engine
	interval time.Duration
}

// NewSweeper builds a sweeper over the engine. A non-positive interval
// falls back to the 5 minute default policy.
func NewSweeper(e *Engine, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Sweeper{engine: e, interval: interval}
}

// Run loops until the context is cancelled, sweeping once per interval.
// Sweep errors are logged; the loop keeps running.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.engine.SweepExpired(ctx, time.Now().UTC())
			if err != nil {
				log.Printf("sweeper: sweep failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("sweeper: reconciled %d expired holds", n)
			}
		}
	}
}
