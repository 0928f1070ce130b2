package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/skyfare/flight-inventory/internal/store"
)

func TestKeyedLockSerializesSameKey(t *testing.T) {
	l := newKeyedLock()
	ctx := context.Background()

	if err := l.acquire(ctx, "1|2026-09-15", time.Second); err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	err := l.acquire(ctx, "1|2026-09-15", 50*time.Millisecond)
	if !errors.Is(err, store.ErrConcurrentModification) {
		t.Fatalf("second acquire err = %v, want ErrConcurrentModification", err)
	}

	l.release("1|2026-09-15")
	if err := l.acquire(ctx, "1|2026-09-15", time.Second); err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	l.release("1|2026-09-15")
}

func TestKeyedLockDistinctKeysDoNotContend(t *testing.T) {
	l := newKeyedLock()
	ctx := context.Background()

	if err := l.acquire(ctx, "1|2026-09-15", time.Second); err != nil {
		t.Fatalf("acquire first key: %v", err)
	}
	defer l.release("1|2026-09-15")

	if err := l.acquire(ctx, "1|2026-09-16", 50*time.Millisecond); err != nil {
		t.Fatalf("distinct key must not contend: %v", err)
	}
	l.release("1|2026-09-16")
}

func TestKeyedLockPrunesIdleSlots(t *testing.T) {
	l := newKeyedLock()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		key := "1|2026-09-15"
		if err := l.acquire(ctx, key, time.Second); err != nil {
			t.Fatalf("acquire %d: %v", i, err)
		}
		l.release(key)
	}
	if err := l.acquire(ctx, "2|2026-09-15", time.Second); err != nil {
		t.Fatalf("acquire second key: %v", err)
	}
	l.release("2|2026-09-15")

	l.mu.Lock()
	n := len(l.slots)
	l.mu.Unlock()
	if n != 0 {
		t.Fatalf("idle slots not reclaimed, %d entries remain", n)
	}
}

func TestKeyedLockPrunesAfterTimeout(t *testing.T) {
	l := newKeyedLock()
	ctx := context.Background()

	if err := l.acquire(ctx, "k", time.Second); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if err := l.acquire(ctx, "k", 20*time.Millisecond); !errors.Is(err, store.ErrConcurrentModification) {
		t.Fatalf("contended acquire err = %v, want ErrConcurrentModification", err)
	}
	l.release("k")

	l.mu.Lock()
	n := len(l.slots)
	l.mu.Unlock()
	if n != 0 {
		t.Fatalf("timed-out waiter leaked a slot, %d entries remain", n)
	}
}

func TestKeyedLockHonorsContextCancellation(t *testing.T) {
	l := newKeyedLock()
	if err := l.acquire(context.Background(), "k", time.Second); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer l.release("k")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- l.acquire(ctx, "k", time.Minute)
	}()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("err = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("acquire did not observe cancellation")
	}
}
