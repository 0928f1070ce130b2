package engine

import (
	"context"
	"testing"
	"time"

	"github.com/skyfare/flight-inventory/internal/model"
)

func TestSweeperRunReconcilesOnTick(t *testing.T) {
	e, st, _ := newTestEngine(t, nil)
	seedInventory(t, e, 800, 10)
	ctx := context.Background()

	// A one-second TTL hold lapses against the real clock the sweeper
	// reads, without the test waiting out the full default policy.
	hold, _, err := e.Reserve(ctx, 800, testDate, model.ClassEconomy, 2, time.Second, "agent")
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go NewSweeper(e, 100*time.Millisecond).Run(runCtx)

	deadline := time.After(5 * time.Second)
	for {
		h, err := st.GetHold(ctx, hold.HoldID)
		if err != nil {
			t.Fatalf("get hold: %v", err)
		}
		if h.Status == model.HoldExpired {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("hold still %s after deadline", h.Status)
		case <-time.After(50 * time.Millisecond):
		}
	}

	inv, err := st.GetInventory(ctx, 800, testDate)
	if err != nil {
		t.Fatalf("get inventory: %v", err)
	}
	if inv.AvailableByClass[model.ClassEconomy] != 10 {
		t.Fatalf("economy available = %d, want 10", inv.AvailableByClass[model.ClassEconomy])
	}
}

func TestSweeperStopsOnCancel(t *testing.T) {
	e, _, _ := newTestEngine(t, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		NewSweeper(e, 10*time.Millisecond).Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop on context cancellation")
	}
}
