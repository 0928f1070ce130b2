package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/skyfare/flight-inventory/internal/store"
)

// slotState is one per-key lock slot plus the number of goroutines
// currently holding or waiting on it. The refcount lets idle slots be
// deleted so the map stays proportional to in-flight operations, not to
// every flight-date ever touched.
type slotState struct {
	ch   chan struct{}
	refs int
}

// keyedLock serializes mutating operations per inventory key so that two
// reservations against the same flight-date never interleave, while
// operations on different flight-dates proceed independently. Acquisition
// is bounded: a caller that cannot take the lock within the timeout gets
// the retryable conflict error instead of blocking indefinitely.
type keyedLock struct {
	mu    sync.Mutex
	slots map[string]*slotState
}

func newKeyedLock() *keyedLock {
	return &keyedLock{slots: make(map[string]*slotState)}
}

// ref returns the slot for key, creating it when absent, and counts the
// caller against it. Every ref must be paired with an unref.
func (l *keyedLock) ref(key string) *slotState {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[key]
	if !ok {
		s = &slotState{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	return s
}

// unref drops one reference and deletes the slot once nobody holds or
// waits on it.
func (l *keyedLock) unref(key string, s *slotState) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
}

// acquire takes the lock for key or fails after timeout with
// store.ErrConcurrentModification. The context cancels the wait early.
func (l *keyedLock) acquire(ctx context.Context, key string, timeout time.Duration) error {
	s := l.ref(key)
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case s.ch <- struct{}{}:
		return nil
	case <-timer.C:
		l.unref(key, s)
		return fmt.Errorf("%w: lock on %s not acquired within %s", store.ErrConcurrentModification, key, timeout)
	case <-ctx.Done():
		l.unref(key, s)
		return ctx.Err()
	}
}

// release frees the lock for key. The holder's reference keeps the slot
// alive, so the lookup cannot miss. Must pair with a successful acquire.
func (l *keyedLock) release(key string) {
	l.mu.Lock()
	s := l.slots[key]
	l.mu.Unlock()
	<-s.ch
	l.unref(key, s)
}
