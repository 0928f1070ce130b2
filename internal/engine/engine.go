// Package engine implements the reservation engine: the single operation
// surface that reads and mutates flight inventory, seat holds and the
// audit log together as atomic units. All mutating operations against one
// flight-date serialize on a per-row lock; operations against different
// flight-dates never contend.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/skyfare/flight-inventory/internal/model"
	"github.com/skyfare/flight-inventory/internal/queue"
	"github.com/skyfare/flight-inventory/internal/store"
)

// maxSeatsPerHold caps a single hold; larger parties book in batches.
const maxSeatsPerHold = 9

// ErrSeatCountRange is returned when a reservation asks for fewer than 1
// or more than 9 seats.
var ErrSeatCountRange = errors.New("seat count must be between 1 and 9")

// ErrUnknownSeatClass is returned when a request names a class outside
// the fixed set.
var ErrUnknownSeatClass = errors.New("unknown seat class")

// Cache is the optional read-through accelerator for inventory lookups.
// It is never the system of record: the engine only consults it on the
// read path and invalidates it after every successful mutation.
type Cache interface {
	Get(ctx context.Context, flightID uint64, flightDate time.Time) (*model.FlightInventory, bool)
	Set(ctx context.Context, inv *model.FlightInventory)
	Invalidate(ctx context.Context, flightID uint64, flightDate time.Time)
}

// EventSink receives best-effort domain events after successful
// mutations. Publish failures must not fail the operation.
type EventSink interface {
	Publish(ctx context.Context, ev queue.InventoryEvent) error
}

// Config carries the engine's policy knobs. Zero values fall back to the
// defaults applied by New.
type Config struct {
	HoldTTL      time.Duration    // default 15m
	LockTimeout  time.Duration    // default 5s
	MaxRetries   int              // revision-conflict retries, default 3
	RetryBackoff time.Duration    // base backoff between retries, default 25ms
	Now          func() time.Time // injectable clock, default time.Now
}

// Engine mediates every inventory mutation. Construct with New.
type Engine struct {
	store  store.Store
	locks  *keyedLock
	cache  Cache
	events EventSink
	cfg    Config

	// rnd jitters retry backoff. Private source so the hot retry path
	// never contends on the global rand lock; rndMu guards it because
	// rand.Rand is not safe for concurrent use.
	rnd   *rand.Rand
	rndMu sync.Mutex
}

// New builds an Engine over the given store. cache and events may be nil,
// in which case the read cache and event publishing are disabled.
func New(st store.Store, cache Cache, events EventSink, cfg Config) *Engine {
	if cfg.HoldTTL <= 0 {
		cfg.HoldTTL = 15 * time.Minute
	}
	if cfg.LockTimeout <= 0 {
		cfg.LockTimeout = 5 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 25 * time.Millisecond
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Engine{
		store:  st,
		locks:  newKeyedLock(),
		cache:  cache,
		events: events,
		cfg:    cfg,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (e *Engine) now() time.Time { return e.cfg.Now().UTC() }

func invKey(flightID uint64, flightDate time.Time) string {
	return fmt.Sprintf("%d|%s", flightID, flightDate.Format("2006-01-02"))
}

// GetInventory returns the inventory row for a flight-date, consulting
// the read cache first when one is configured.
func (e *Engine) GetInventory(ctx context.Context, flightID uint64, flightDate time.Time) (*model.FlightInventory, error) {
	flightDate = model.DateOnly(flightDate)
	if e.cache != nil {
		if inv, ok := e.cache.Get(ctx, flightID, flightDate); ok {
			return inv, nil
		}
	}
	inv, err := e.store.GetInventory(ctx, flightID, flightDate)
	if err != nil {
		return nil, err
	}
	if e.cache != nil {
		e.cache.Set(ctx, inv)
	}
	return inv, nil
}

// GetHold returns a hold by its ID.
func (e *Engine) GetHold(ctx context.Context, holdID string) (*model.SeatHold, error) {
	return e.store.GetHold(ctx, holdID)
}

// UpsertInventory creates the inventory row for a flight-date with
// available = capacity, or overwrites capacity and pricing on an existing
// row and re-derives availability as capacity minus the seats committed
// to HELD and CONFIRMED holds. Shrinking capacity below those outstanding
// seats fails with store.ErrInvalidCapacity and leaves the row unchanged.
func (e *Engine) UpsertInventory(ctx context.Context, flightID uint64, flightDate time.Time, capacity model.ClassCounts, pricing model.ClassPrices, actor, reason string) (*model.FlightInventory, error) {
	if err := validateCapacity(capacity, pricing); err != nil {
		return nil, err
	}
	flightDate = model.DateOnly(flightDate)
	key := invKey(flightID, flightDate)
	if err := e.locks.acquire(ctx, key, e.cfg.LockTimeout); err != nil {
		return nil, err
	}
	defer e.locks.release(key)

	var result *model.FlightInventory
	err := e.withRetry(ctx, func() error {
		inv, err := e.store.GetInventory(ctx, flightID, flightDate)
		if errors.Is(err, store.ErrNotFound) {
			result, err = e.createInventory(ctx, flightID, flightDate, capacity, pricing, actor, reason)
			return err
		}
		if err != nil {
			return err
		}
		result, err = e.overwriteInventory(ctx, inv, capacity, pricing, actor, reason)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// BatchUpsertItem is one row of a bulk capacity load.
type BatchUpsertItem struct {
	FlightID   uint64
	FlightDate time.Time
	Capacity   model.ClassCounts
	Pricing    model.ClassPrices
	Reason     string
}

// BatchUpsertResult reports the outcome for one item of a batch. Exactly
// one of Inventory and Err is set.
type BatchUpsertResult struct {
	FlightID   uint64
	FlightDate time.Time
	Inventory  *model.FlightInventory
	Err        error
}

// UpsertInventoryBatch applies a bulk capacity load, one flight-date at a
// time. Each item is its own atomic unit: a failed row does not roll back
// or stop the others, and the per-item outcome is reported in order so
// the caller can retry just the failures.
func (e *Engine) UpsertInventoryBatch(ctx context.Context, items []BatchUpsertItem, actor string) []BatchUpsertResult {
	results := make([]BatchUpsertResult, 0, len(items))
	for _, item := range items {
		res := BatchUpsertResult{
			FlightID:   item.FlightID,
			FlightDate: model.DateOnly(item.FlightDate),
		}
		inv, err := e.UpsertInventory(ctx, item.FlightID, item.FlightDate, item.Capacity, item.Pricing, actor, item.Reason)
		if err != nil {
			res.Err = err
		} else {
			res.Inventory = inv
		}
		results = append(results, res)
	}
	return results
}

func (e *Engine) createInventory(ctx context.Context, flightID uint64, flightDate time.Time, capacity model.ClassCounts, pricing model.ClassPrices, actor, reason string) (*model.FlightInventory, error) {
	now := e.now()
	inv := &model.FlightInventory{
		FlightID:         flightID,
		FlightDate:       flightDate,
		CapacityByClass:  capacity.Clone(),
		AvailableByClass: capacity.Clone(),
		PricingByClass:   pricing.Clone(),
		Status:           model.FlightActive,
		Revision:         1,
		CreatedAt:        now,
		LastUpdated:      now,
	}
	mut := &model.InventoryMutation{
		Kind:       model.MutationManual,
		Before:     model.ClassCounts{},
		After:      inv.AvailableByClass.Clone(),
		Actor:      actor,
		Reason:     reason,
		OccurredAt: now,
	}
	stored, err := e.store.CreateInventory(ctx, inv, mut)
	if err != nil {
		return nil, err
	}
	e.afterMutation(ctx, stored, nil, queue.EventCapacityUpdated, actor)
	return stored, nil
}

func (e *Engine) overwriteInventory(ctx context.Context, inv *model.FlightInventory, capacity model.ClassCounts, pricing model.ClassPrices, actor, reason string) (*model.FlightInventory, error) {
	active, err := e.store.ListActiveHolds(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	committed := make(model.ClassCounts)
	for _, h := range active {
		committed[h.SeatClass] += h.SeatCount
	}
	newAvailable := make(model.ClassCounts, len(capacity))
	for class, total := range capacity {
		avail := total - committed[class]
		if avail < 0 {
			return nil, fmt.Errorf("%w: class %s has %d seats held or confirmed, capacity %d",
				store.ErrInvalidCapacity, class, committed[class], total)
		}
		newAvailable[class] = avail
	}
	for class, held := range committed {
		if held > 0 && capacity[class] < held {
			return nil, fmt.Errorf("%w: class %s has %d seats held or confirmed, capacity %d",
				store.ErrInvalidCapacity, class, held, capacity[class])
		}
	}

	now := e.now()
	before := inv.AvailableByClass.Clone()
	expected := inv.Revision
	inv.CapacityByClass = capacity.Clone()
	inv.PricingByClass = pricing.Clone()
	inv.AvailableByClass = newAvailable
	inv.Revision++
	inv.LastUpdated = now
	mut := &model.InventoryMutation{
		InventoryID: inv.ID,
		Kind:        model.MutationManual,
		Before:      before,
		After:       newAvailable.Clone(),
		Actor:       actor,
		Reason:      reason,
		OccurredAt:  now,
	}
	if err := e.store.UpdateInventory(ctx, expected, inv, nil, mut); err != nil {
		return nil, err
	}
	e.afterMutation(ctx, inv, nil, queue.EventCapacityUpdated, actor)
	return inv, nil
}

// UpdateStatus transitions a flight-date between ACTIVE, CANCELLED and
// DELAYED. Inventory rows are never deleted, only status-transitioned.
func (e *Engine) UpdateStatus(ctx context.Context, flightID uint64, flightDate time.Time, status model.FlightStatus, actor, reason string) (*model.FlightInventory, error) {
	switch status {
	case model.FlightActive, model.FlightCancelled, model.FlightDelayed:
	default:
		return nil, fmt.Errorf("%w: unknown flight status %q", store.ErrInvalidState, status)
	}
	flightDate = model.DateOnly(flightDate)
	key := invKey(flightID, flightDate)
	if err := e.locks.acquire(ctx, key, e.cfg.LockTimeout); err != nil {
		return nil, err
	}
	defer e.locks.release(key)

	var result *model.FlightInventory
	err := e.withRetry(ctx, func() error {
		inv, err := e.store.GetInventory(ctx, flightID, flightDate)
		if err != nil {
			return err
		}
		now := e.now()
		snap := inv.AvailableByClass.Clone()
		expected := inv.Revision
		inv.Status = status
		inv.Revision++
		inv.LastUpdated = now
		mut := &model.InventoryMutation{
			InventoryID: inv.ID,
			Kind:        model.MutationManual,
			Before:      snap,
			After:       snap.Clone(),
			Actor:       actor,
			Reason:      reason,
			OccurredAt:  now,
		}
		if err := e.store.UpdateInventory(ctx, expected, inv, nil, mut); err != nil {
			return err
		}
		result = inv
		e.afterMutation(ctx, inv, nil, queue.EventCapacityUpdated, actor)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Reserve places a time-bounded hold on count seats of one class.
// Availability decrement, hold insert and audit append happen as one
// atomic unit; no reader observes a partially updated row. A ttl of zero
// applies the default hold policy.
func (e *Engine) Reserve(ctx context.Context, flightID uint64, flightDate time.Time, class model.SeatClass, count int, ttl time.Duration, actor string) (*model.SeatHold, *model.FlightInventory, error) {
	if count < 1 || count > maxSeatsPerHold {
		return nil, nil, fmt.Errorf("%w: got %d", ErrSeatCountRange, count)
	}
	if _, ok := model.ParseSeatClass(string(class)); !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownSeatClass, class)
	}
	if ttl <= 0 {
		ttl = e.cfg.HoldTTL
	}
	flightDate = model.DateOnly(flightDate)
	key := invKey(flightID, flightDate)
	if err := e.locks.acquire(ctx, key, e.cfg.LockTimeout); err != nil {
		return nil, nil, err
	}
	defer e.locks.release(key)

	var hold *model.SeatHold
	var snapshot *model.FlightInventory
	err := e.withRetry(ctx, func() error {
		inv, err := e.store.GetInventory(ctx, flightID, flightDate)
		if err != nil {
			return err
		}
		if inv.Status != model.FlightActive {
			return fmt.Errorf("%w: flight %d on %s is %s",
				store.ErrInventoryUnavailable, flightID, inv.DateKey(), inv.Status)
		}
		if inv.AvailableByClass[class] < count {
			return fmt.Errorf("%w: %d %s seats requested, %d available",
				store.ErrInsufficientAvailability, count, class, inv.AvailableByClass[class])
		}
		now := e.now()
		before := model.ClassCounts{class: inv.AvailableByClass[class]}
		expected := inv.Revision
		inv.AvailableByClass[class] -= count
		inv.Revision++
		inv.LastUpdated = now
		hold = &model.SeatHold{
			HoldID:      model.NewHoldID(),
			InventoryID: inv.ID,
			SeatClass:   class,
			SeatCount:   count,
			ExpiresAt:   now.Add(ttl),
			Status:      model.HoldHeld,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		mut := &model.InventoryMutation{
			InventoryID: inv.ID,
			Kind:        model.MutationReserve,
			Before:      before,
			After:       model.ClassCounts{class: inv.AvailableByClass[class]},
			Actor:       actor,
			Reason:      "hold " + hold.HoldID,
			OccurredAt:  now,
		}
		if err := e.store.UpdateInventory(ctx, expected, inv, hold, mut); err != nil {
			return err
		}
		snapshot = inv
		e.afterMutation(ctx, inv, hold, queue.EventSeatsReserved, actor)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return hold, snapshot, nil
}

// Confirm commits a HELD hold. Availability is not restored; the seats
// stay committed. Lapsed holds cannot be confirmed even if the sweeper
// has not reconciled them yet.
func (e *Engine) Confirm(ctx context.Context, holdID, actor string) (*model.SeatHold, error) {
	key, err := e.lockKeyForHold(ctx, holdID)
	if err != nil {
		return nil, err
	}
	if err := e.locks.acquire(ctx, key, e.cfg.LockTimeout); err != nil {
		return nil, err
	}
	defer e.locks.release(key)

	var confirmed *model.SeatHold
	err = e.withRetry(ctx, func() error {
		h, err := e.store.GetHold(ctx, holdID)
		if err != nil {
			return err
		}
		if h.Status != model.HoldHeld {
			return fmt.Errorf("%w: hold %s is %s", store.ErrInvalidState, holdID, h.Status)
		}
		now := e.now()
		if h.Lapsed(now) {
			return fmt.Errorf("%w: hold %s expired at %s",
				store.ErrInvalidState, holdID, h.ExpiresAt.Format(time.RFC3339))
		}
		inv, err := e.store.GetInventoryByID(ctx, h.InventoryID)
		if err != nil {
			return err
		}
		snap := model.ClassCounts{h.SeatClass: inv.AvailableByClass[h.SeatClass]}
		expected := inv.Revision
		inv.Revision++
		inv.LastUpdated = now
		h.Status = model.HoldConfirmed
		h.UpdatedAt = now
		mut := &model.InventoryMutation{
			InventoryID: inv.ID,
			Kind:        model.MutationConfirm,
			Before:      snap,
			After:       snap.Clone(),
			Actor:       actor,
			Reason:      "hold " + holdID + " confirmed",
			OccurredAt:  now,
		}
		if err := e.store.UpdateInventory(ctx, expected, inv, h, mut); err != nil {
			return err
		}
		confirmed = h
		e.afterMutation(ctx, inv, h, queue.EventHoldConfirmed, actor)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return confirmed, nil
}

// Release returns a HELD hold's seats to availability. Confirmed holds
// cannot be released here; only an explicit cancellation flow outside
// this engine may undo a confirmed booking. Releasing an already
// RELEASED or EXPIRED hold is a no-op.
func (e *Engine) Release(ctx context.Context, holdID, reason, actor string) (*model.SeatHold, error) {
	if reason == "" {
		reason = "released by caller"
	}
	key, err := e.lockKeyForHold(ctx, holdID)
	if err != nil {
		return nil, err
	}
	if err := e.locks.acquire(ctx, key, e.cfg.LockTimeout); err != nil {
		return nil, err
	}
	defer e.locks.release(key)

	var released *model.SeatHold
	err = e.withRetry(ctx, func() error {
		h, err := e.store.GetHold(ctx, holdID)
		if err != nil {
			return err
		}
		switch h.Status {
		case model.HoldReleased, model.HoldExpired:
			released = h
			return nil // already reconciled
		case model.HoldConfirmed:
			return fmt.Errorf("%w: hold %s is CONFIRMED", store.ErrInvalidState, holdID)
		}
		if _, err := e.restoreHold(ctx, h, model.HoldReleased, model.MutationRelease, queue.EventHoldReleased, reason, actor); err != nil {
			return err
		}
		released = h
		return nil
	})
	if err != nil {
		return nil, err
	}
	return released, nil
}

// ListExpired returns the holds still HELD whose expiry precedes asOf.
func (e *Engine) ListExpired(ctx context.Context, asOf time.Time) ([]*model.SeatHold, error) {
	return e.store.ListExpiredHolds(ctx, asOf.UTC())
}

// SweepExpired reconciles every lapsed hold: availability is restored and
// the hold becomes EXPIRED. Each hold is its own atomic unit, so a crash
// mid-batch leaves a safely resumable prefix. Per-hold failures are
// logged and do not abort the remaining batch; the count of successfully
// reconciled holds is returned.
func (e *Engine) SweepExpired(ctx context.Context, asOf time.Time) (int, error) {
	expired, err := e.store.ListExpiredHolds(ctx, asOf.UTC())
	if err != nil {
		return 0, err
	}
	reconciled := 0
	for _, h := range expired {
		changed, err := e.expireHold(ctx, h.HoldID)
		if err != nil {
			log.Printf("engine: expire hold %s failed: %v", h.HoldID, err)
			continue
		}
		if changed {
			reconciled++
		}
	}
	return reconciled, nil
}

// expireHold moves one lapsed hold to EXPIRED under the row lock. It
// reports false when another operation already reconciled the hold.
func (e *Engine) expireHold(ctx context.Context, holdID string) (bool, error) {
	key, err := e.lockKeyForHold(ctx, holdID)
	if err != nil {
		return false, err
	}
	if err := e.locks.acquire(ctx, key, e.cfg.LockTimeout); err != nil {
		return false, err
	}
	defer e.locks.release(key)

	changed := false
	err = e.withRetry(ctx, func() error {
		h, err := e.store.GetHold(ctx, holdID)
		if err != nil {
			return err
		}
		if h.Status != model.HoldHeld {
			return nil // raced with confirm/release/another sweep
		}
		changed, err = e.restoreHold(ctx, h, model.HoldExpired, model.MutationExpire, queue.EventHoldExpired, "hold expired", "sweeper")
		return err
	})
	return changed, err
}

// restoreHold returns a hold's seats to availability and moves it to the
// given terminal status, all in one atomic unit with the audit append.
func (e *Engine) restoreHold(ctx context.Context, h *model.SeatHold, status model.HoldStatus, kind model.MutationKind, event, reason, actor string) (bool, error) {
	inv, err := e.store.GetInventoryByID(ctx, h.InventoryID)
	if err != nil {
		return false, err
	}
	now := e.now()
	before := model.ClassCounts{h.SeatClass: inv.AvailableByClass[h.SeatClass]}
	expected := inv.Revision
	inv.AvailableByClass[h.SeatClass] += h.SeatCount
	inv.Revision++
	inv.LastUpdated = now
	h.Status = status
	h.UpdatedAt = now
	mut := &model.InventoryMutation{
		InventoryID: inv.ID,
		Kind:        kind,
		Before:      before,
		After:       model.ClassCounts{h.SeatClass: inv.AvailableByClass[h.SeatClass]},
		Actor:       actor,
		Reason:      reason,
		OccurredAt:  now,
	}
	if err := e.store.UpdateInventory(ctx, expected, inv, h, mut); err != nil {
		return false, err
	}
	e.afterMutation(ctx, inv, h, event, actor)
	return true, nil
}

// lockKeyForHold resolves the owning inventory row of a hold so its
// transition serializes with every other mutation of that row.
func (e *Engine) lockKeyForHold(ctx context.Context, holdID string) (string, error) {
	h, err := e.store.GetHold(ctx, holdID)
	if err != nil {
		return "", err
	}
	inv, err := e.store.GetInventoryByID(ctx, h.InventoryID)
	if err != nil {
		return "", err
	}
	return invKey(inv.FlightID, inv.FlightDate), nil
}

// Audit read path, never consulted by the engine itself.

func (e *Engine) ListMutationsByInventory(ctx context.Context, inventoryID uint64) ([]*model.InventoryMutation, error) {
	return e.store.ListMutationsByInventory(ctx, inventoryID)
}

func (e *Engine) ListMutationsByDateRange(ctx context.Context, from, to time.Time) ([]*model.InventoryMutation, error) {
	return e.store.ListMutationsByDateRange(ctx, from, to)
}

func (e *Engine) ListMutationsByKind(ctx context.Context, kind model.MutationKind) ([]*model.InventoryMutation, error) {
	return e.store.ListMutationsByKind(ctx, kind)
}

// withRetry re-runs op on optimistic-concurrency conflicts with jittered
// backoff, surfacing the conflict after the bounded attempts run out.
func (e *Engine) withRetry(ctx context.Context, op func() error) error {
	var err error
	for attempt := 0; attempt <= e.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(e.retryDelay(attempt)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err = op(); !errors.Is(err, store.ErrConcurrentModification) {
			return err
		}
	}
	return err
}

// retryDelay computes the wait before retry number attempt: a linearly
// growing base plus up to one base interval of jitter so colliding
// writers spread out.
func (e *Engine) retryDelay(attempt int) time.Duration {
	e.rndMu.Lock()
	jitter := time.Duration(e.rnd.Int63n(int64(e.cfg.RetryBackoff)))
	e.rndMu.Unlock()
	return e.cfg.RetryBackoff*time.Duration(attempt) + jitter
}

// afterMutation invalidates the read cache and publishes the domain
// event. Both are best-effort; the mutation has already committed.
func (e *Engine) afterMutation(ctx context.Context, inv *model.FlightInventory, h *model.SeatHold, kind, actor string) {
	if e.cache != nil {
		e.cache.Invalidate(ctx, inv.FlightID, inv.FlightDate)
	}
	if e.events == nil {
		return
	}
	ev := queue.InventoryEvent{
		Kind:       kind,
		FlightID:   inv.FlightID,
		FlightDate: inv.DateKey(),
		Available:  make(map[string]int, len(inv.AvailableByClass)),
		Actor:      actor,
		OccurredAt: e.now().Format(time.RFC3339),
	}
	for class, n := range inv.AvailableByClass {
		ev.Available[string(class)] = n
	}
	if h != nil {
		ev.HoldID = h.HoldID
		ev.SeatClass = string(h.SeatClass)
		ev.SeatCount = h.SeatCount
	}
	if err := e.events.Publish(ctx, ev); err != nil {
		log.Printf("engine: publish %s event failed: %v", kind, err)
	}
}

func validateCapacity(capacity model.ClassCounts, pricing model.ClassPrices) error {
	if len(capacity) == 0 {
		return fmt.Errorf("%w: capacity must name at least one seat class", store.ErrInvalidCapacity)
	}
	for class, n := range capacity {
		if _, ok := model.ParseSeatClass(string(class)); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownSeatClass, class)
		}
		if n < 0 {
			return fmt.Errorf("%w: class %s capacity %d is negative", store.ErrInvalidCapacity, class, n)
		}
	}
	for class, p := range pricing {
		if _, ok := model.ParseSeatClass(string(class)); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownSeatClass, class)
		}
		if p < 0 {
			return fmt.Errorf("%w: class %s price %d is negative", store.ErrInvalidCapacity, class, p)
		}
	}
	return nil
}
