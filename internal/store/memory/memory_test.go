package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/skyfare/flight-inventory/internal/model"
	"github.com/skyfare/flight-inventory/internal/store"
)

func seedRow(t *testing.T, s *Store, flightID uint64) *model.FlightInventory {
	t.Helper()
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	inv := &model.FlightInventory{
		FlightID:         flightID,
		FlightDate:       time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		CapacityByClass:  model.ClassCounts{model.ClassEconomy: 10},
		AvailableByClass: model.ClassCounts{model.ClassEconomy: 10},
		PricingByClass:   model.ClassPrices{model.ClassEconomy: 19900},
		Status:           model.FlightActive,
		Revision:         1,
		CreatedAt:        now,
		LastUpdated:      now,
	}
	stored, err := s.CreateInventory(context.Background(), inv, &model.InventoryMutation{
		Kind:       model.MutationManual,
		Before:     model.ClassCounts{},
		After:      model.ClassCounts{model.ClassEconomy: 10},
		Actor:      "test",
		OccurredAt: now,
	})
	if err != nil {
		t.Fatalf("create inventory: %v", err)
	}
	return stored
}

func TestCreateAndGetInventory(t *testing.T) {
	s := New()
	ctx := context.Background()
	stored := seedRow(t, s, 100)

	if stored.ID == 0 {
		t.Fatal("create must assign an ID")
	}
	byKey, err := s.GetInventory(ctx, 100, stored.FlightDate)
	if err != nil {
		t.Fatalf("get by flight-date: %v", err)
	}
	byID, err := s.GetInventoryByID(ctx, stored.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if byKey.ID != byID.ID {
		t.Fatalf("lookups disagree: %d vs %d", byKey.ID, byID.ID)
	}

	if _, err := s.GetInventory(ctx, 100, stored.FlightDate.AddDate(0, 0, 1)); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("other date err = %v, want ErrNotFound", err)
	}
}

func TestGetInventoryReturnsCopies(t *testing.T) {
	s := New()
	ctx := context.Background()
	stored := seedRow(t, s, 101)

	first, _ := s.GetInventory(ctx, 101, stored.FlightDate)
	first.AvailableByClass[model.ClassEconomy] = 0

	second, _ := s.GetInventory(ctx, 101, stored.FlightDate)
	if second.AvailableByClass[model.ClassEconomy] != 10 {
		t.Fatal("mutating a returned row leaked into the store")
	}
}

func TestUpdateInventoryRevisionGuard(t *testing.T) {
	s := New()
	ctx := context.Background()
	stored := seedRow(t, s, 102)

	stale := stored.Clone()
	stale.Revision = 2
	if err := s.UpdateInventory(ctx, 99, stale, nil, nil); !errors.Is(err, store.ErrConcurrentModification) {
		t.Fatalf("stale revision err = %v, want ErrConcurrentModification", err)
	}

	fresh := stored.Clone()
	fresh.AvailableByClass[model.ClassEconomy] = 8
	fresh.Revision = 2
	if err := s.UpdateInventory(ctx, 1, fresh, nil, nil); err != nil {
		t.Fatalf("guarded update: %v", err)
	}
	got, _ := s.GetInventoryByID(ctx, stored.ID)
	if got.Revision != 2 || got.AvailableByClass[model.ClassEconomy] != 8 {
		t.Fatalf("update not applied: revision %d available %d", got.Revision, got.AvailableByClass[model.ClassEconomy])
	}
}

func TestUpdateInventoryWritesHoldAndAuditTogether(t *testing.T) {
	s := New()
	ctx := context.Background()
	stored := seedRow(t, s, 103)
	now := time.Date(2026, 9, 1, 11, 0, 0, 0, time.UTC)

	next := stored.Clone()
	next.AvailableByClass[model.ClassEconomy] = 7
	next.Revision = 2
	hold := &model.SeatHold{
		HoldID:      "RES0A1B2C3D",
		InventoryID: stored.ID,
		SeatClass:   model.ClassEconomy,
		SeatCount:   3,
		ExpiresAt:   now.Add(15 * time.Minute),
		Status:      model.HoldHeld,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	mut := &model.InventoryMutation{
		Kind:       model.MutationReserve,
		Before:     model.ClassCounts{model.ClassEconomy: 10},
		After:      model.ClassCounts{model.ClassEconomy: 7},
		Actor:      "agent",
		OccurredAt: now,
	}
	if err := s.UpdateInventory(ctx, 1, next, hold, mut); err != nil {
		t.Fatalf("update: %v", err)
	}

	h, err := s.GetHold(ctx, "RES0A1B2C3D")
	if err != nil {
		t.Fatalf("get hold: %v", err)
	}
	if h.SeatCount != 3 || h.Status != model.HoldHeld {
		t.Fatalf("hold not stored: %+v", h)
	}

	muts, _ := s.ListMutationsByInventory(ctx, stored.ID)
	if len(muts) != 2 || muts[1].Kind != model.MutationReserve {
		t.Fatalf("audit rows: %+v", muts)
	}
	if muts[0].ID >= muts[1].ID {
		t.Fatal("audit IDs must be strictly increasing")
	}
}

func TestListActiveAndExpiredHolds(t *testing.T) {
	s := New()
	ctx := context.Background()
	stored := seedRow(t, s, 104)
	base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	mk := func(id string, status model.HoldStatus, expires time.Time) *model.SeatHold {
		return &model.SeatHold{
			HoldID: id, InventoryID: stored.ID, SeatClass: model.ClassEconomy,
			SeatCount: 1, ExpiresAt: expires, Status: status,
			CreatedAt: base, UpdatedAt: base,
		}
	}
	rev := stored.Revision
	for _, h := range []*model.SeatHold{
		mk("RESHELD0001", model.HoldHeld, base.Add(time.Hour)),
		mk("RESHELD0002", model.HoldHeld, base.Add(-time.Minute)),
		mk("RESCONF0001", model.HoldConfirmed, base.Add(-time.Hour)),
		mk("RESRELE0001", model.HoldReleased, base.Add(-time.Hour)),
	} {
		next := stored.Clone()
		next.Revision = rev + 1
		if err := s.UpdateInventory(ctx, rev, next, h, nil); err != nil {
			t.Fatalf("store hold %s: %v", h.HoldID, err)
		}
		rev++
	}

	active, err := s.ListActiveHolds(ctx, stored.ID)
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if len(active) != 3 {
		t.Fatalf("active count = %d, want HELD x2 + CONFIRMED", len(active))
	}

	expired, err := s.ListExpiredHolds(ctx, base)
	if err != nil {
		t.Fatalf("expired: %v", err)
	}
	if len(expired) != 1 || expired[0].HoldID != "RESHELD0002" {
		t.Fatalf("expired = %+v, want only the lapsed HELD hold", expired)
	}
}

func TestListMutationsByDateRangeAndKind(t *testing.T) {
	s := New()
	ctx := context.Background()
	stored := seedRow(t, s, 105)
	base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	rev := stored.Revision
	for i, kind := range []model.MutationKind{model.MutationReserve, model.MutationRelease} {
		next := stored.Clone()
		next.Revision = rev + 1
		mut := &model.InventoryMutation{
			Kind:       kind,
			Before:     model.ClassCounts{},
			After:      model.ClassCounts{},
			Actor:      "agent",
			OccurredAt: base.Add(time.Duration(i) * time.Hour),
		}
		if err := s.UpdateInventory(ctx, rev, next, nil, mut); err != nil {
			t.Fatalf("update %d: %v", i, err)
		}
		rev++
	}

	// Range is inclusive of from, exclusive of to.
	got, err := s.ListMutationsByDateRange(ctx, base, base.Add(time.Hour))
	if err != nil {
		t.Fatalf("by range: %v", err)
	}
	if len(got) != 1 || got[0].Kind != model.MutationReserve {
		t.Fatalf("range result: %+v", got)
	}

	releases, err := s.ListMutationsByKind(ctx, model.MutationRelease)
	if err != nil || len(releases) != 1 {
		t.Fatalf("by kind: %+v, %v", releases, err)
	}
}

func TestCreateInventoryDuplicateKey(t *testing.T) {
	s := New()
	stored := seedRow(t, s, 106)

	dup := stored.Clone()
	dup.ID = 0
	if _, err := s.CreateInventory(context.Background(), dup, nil); !errors.Is(err, store.ErrConcurrentModification) {
		t.Fatalf("duplicate create err = %v, want ErrConcurrentModification", err)
	}
}
