// Package cache provides a Redis read-through accelerator for inventory
// lookups. It is never the system of record for availability: entries are
// invalidated on every successful mutation and the atomic
// reserve/confirm/release path never consults it.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/skyfare/flight-inventory/internal/model"
)

// Availability caches inventory rows keyed by flight and date. All
// methods degrade to no-ops on Redis errors so a flaky cache never turns
// into a request failure.
type Availability struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

// New builds an Availability cache. It returns nil when rdb is nil so
// callers can wire the engine without a cache when Redis is unreachable.
func New(rdb *redis.Client, ttl time.Duration, prefix string) *Availability {
	if rdb == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if prefix == "" {
		prefix = "inv"
	}
	return &Availability{rdb: rdb, ttl: ttl, prefix: prefix}
}

func (a *Availability) key(flightID uint64, flightDate time.Time) string {
	return fmt.Sprintf("%s:inventory:%d:%s", a.prefix, flightID, model.DateOnly(flightDate).Format("2006-01-02"))
}

// Get returns the cached row for a flight-date, or false on miss or on
// any Redis or decode error.
func (a *Availability) Get(ctx context.Context, flightID uint64, flightDate time.Time) (*model.FlightInventory, bool) {
	raw, err := a.rdb.Get(ctx, a.key(flightID, flightDate)).Bytes()
	if err != nil {
		return nil, false
	}
	var inv model.FlightInventory
	if err := json.Unmarshal(raw, &inv); err != nil {
		return nil, false
	}
	return &inv, true
}

// Set stores the row with the configured TTL. Errors are ignored.
func (a *Availability) Set(ctx context.Context, inv *model.FlightInventory) {
	raw, err := json.Marshal(inv)
	if err != nil {
		return
	}
	_ = a.rdb.Set(ctx, a.key(inv.FlightID, inv.FlightDate), raw, a.ttl).Err()
}

// Invalidate drops the cached row for a flight-date. Errors are ignored;
// a stale entry only lives until its TTL.
func (a *Availability) Invalidate(ctx context.Context, flightID uint64, flightDate time.Time) {
	_ = a.rdb.Del(ctx, a.key(flightID, flightDate)).Err()
}
