// Package memory implements the store contract with mutex-guarded maps.
// It backs the engine's tests and broker-less local runs. Every read
// hands out deep copies so callers never alias live rows.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/skyfare/flight-inventory/internal/model"
	"github.com/skyfare/flight-inventory/internal/store"
)

// Store keeps the three logical tables in process memory.
type Store struct {
	mu          sync.Mutex
	invSeq      uint64
	mutSeq      uint64
	inventories map[uint64]*model.FlightInventory
	byFlight    map[string]uint64 // "flightID|date" -> inventory ID
	holds       map[string]*model.SeatHold
	mutations   []*model.InventoryMutation
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{
		inventories: make(map[uint64]*model.FlightInventory),
		byFlight:    make(map[string]uint64),
		holds:       make(map[string]*model.SeatHold),
	}
}

func flightKey(flightID uint64, flightDate time.Time) string {
	return fmt.Sprintf("%d|%s", flightID, model.DateOnly(flightDate).Format("2006-01-02"))
}

// GetInventory returns a copy of the row for a flight-date.
func (s *Store) GetInventory(ctx context.Context, flightID uint64, flightDate time.Time) (*model.FlightInventory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byFlight[flightKey(flightID, flightDate)]
	if !ok {
		return nil, store.ErrNotFound
	}
	return s.inventories[id].Clone(), nil
}

// GetInventoryByID returns a copy of the row by primary key.
func (s *Store) GetInventoryByID(ctx context.Context, id uint64) (*model.FlightInventory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.inventories[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return inv.Clone(), nil
}

// CreateInventory inserts a new row plus its audit entry.
func (s *Store) CreateInventory(ctx context.Context, inv *model.FlightInventory, mut *model.InventoryMutation) (*model.FlightInventory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := flightKey(inv.FlightID, inv.FlightDate)
	if _, exists := s.byFlight[key]; exists {
		return nil, store.ErrConcurrentModification
	}
	s.invSeq++
	stored := inv.Clone()
	stored.ID = s.invSeq
	stored.FlightDate = model.DateOnly(inv.FlightDate)
	s.inventories[stored.ID] = stored
	s.byFlight[key] = stored.ID
	s.appendMutationLocked(stored.ID, mut)
	return stored.Clone(), nil
}

// UpdateInventory applies a guarded write of the inventory row, the
// optional hold upsert and the audit entry as one unit.
func (s *Store) UpdateInventory(ctx context.Context, expectedRevision int64, inv *model.FlightInventory, hold *model.SeatHold, mut *model.InventoryMutation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.inventories[inv.ID]
	if !ok {
		return store.ErrNotFound
	}
	if current.Revision != expectedRevision {
		return store.ErrConcurrentModification
	}
	stored := inv.Clone()
	stored.FlightDate = model.DateOnly(inv.FlightDate)
	s.inventories[inv.ID] = stored
	if hold != nil {
		s.holds[hold.HoldID] = hold.Clone()
	}
	s.appendMutationLocked(inv.ID, mut)
	return nil
}

// GetHold returns a copy of the hold by its ID.
func (s *Store) GetHold(ctx context.Context, holdID string) (*model.SeatHold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.holds[holdID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return h.Clone(), nil
}

// ListActiveHolds returns the HELD and CONFIRMED holds for an inventory row.
func (s *Store) ListActiveHolds(ctx context.Context, inventoryID uint64) ([]*model.SeatHold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.SeatHold
	for _, h := range s.holds {
		if h.InventoryID == inventoryID && (h.Status == model.HoldHeld || h.Status == model.HoldConfirmed) {
			out = append(out, h.Clone())
		}
	}
	return out, nil
}

// ListExpiredHolds returns HELD holds whose expiry is before asOf.
func (s *Store) ListExpiredHolds(ctx context.Context, asOf time.Time) ([]*model.SeatHold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.SeatHold
	for _, h := range s.holds {
		if h.Status == model.HoldHeld && h.ExpiresAt.Before(asOf) {
			out = append(out, h.Clone())
		}
	}
	return out, nil
}

// ListMutationsByInventory returns the audit rows for one inventory row
// in append order.
func (s *Store) ListMutationsByInventory(ctx context.Context, inventoryID uint64) ([]*model.InventoryMutation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.InventoryMutation
	for _, m := range s.mutations {
		if m.InventoryID == inventoryID {
			out = append(out, m.Clone())
		}
	}
	return out, nil
}

// ListMutationsByDateRange returns audit rows with from <= occurredAt < to.
func (s *Store) ListMutationsByDateRange(ctx context.Context, from, to time.Time) ([]*model.InventoryMutation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.InventoryMutation
	for _, m := range s.mutations {
		if !m.OccurredAt.Before(from) && m.OccurredAt.Before(to) {
			out = append(out, m.Clone())
		}
	}
	return out, nil
}

// ListMutationsByKind returns audit rows of one kind in append order.
func (s *Store) ListMutationsByKind(ctx context.Context, kind model.MutationKind) ([]*model.InventoryMutation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.InventoryMutation
	for _, m := range s.mutations {
		if m.Kind == kind {
			out = append(out, m.Clone())
		}
	}
	return out, nil
}

func (s *Store) appendMutationLocked(inventoryID uint64, mut *model.InventoryMutation) {
	if mut == nil {
		return
	}
	s.mutSeq++
	stored := mut.Clone()
	stored.ID = s.mutSeq
	stored.InventoryID = inventoryID
	s.mutations = append(s.mutations, stored)
}
