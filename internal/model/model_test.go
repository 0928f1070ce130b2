package model

import (
	"strings"
	"testing"
	"time"
)

func TestParseSeatClass(t *testing.T) {
	for _, class := range SeatClasses {
		got, ok := ParseSeatClass(string(class))
		if !ok || got != class {
			t.Fatalf("ParseSeatClass(%q) = %q, %v", class, got, ok)
		}
	}
	for _, bad := range []string{"", "economy", "PREMIUM", "Economy"} {
		if _, ok := ParseSeatClass(bad); ok {
			t.Fatalf("ParseSeatClass(%q) accepted an unknown class", bad)
		}
	}
}

func TestDateOnly(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	in := time.Date(2026, 9, 15, 2, 30, 0, 0, loc) // 2026-09-14 21:30 UTC
	got := DateOnly(in)
	want := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("DateOnly = %s, want %s", got, want)
	}
}

func TestNewHoldIDFormat(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewHoldID()
		if len(id) != 11 || !strings.HasPrefix(id, "RES") {
			t.Fatalf("hold id %q, want RES plus 8 characters", id)
		}
		if id != strings.ToUpper(id) {
			t.Fatalf("hold id %q is not uppercase", id)
		}
		if seen[id] {
			t.Fatalf("hold id %q repeated within 100 draws", id)
		}
		seen[id] = true
	}
}

func TestHoldLapsedAndTerminal(t *testing.T) {
	expiry := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	h := &SeatHold{Status: HoldHeld, ExpiresAt: expiry}

	if h.Lapsed(expiry.Add(-time.Second)) {
		t.Fatal("hold lapsed before its expiry")
	}
	// Expiry is exclusive: at the boundary the hold is already lapsed.
	if !h.Lapsed(expiry) {
		t.Fatal("hold not lapsed at its exact expiry instant")
	}
	if h.Terminal() {
		t.Fatal("HELD must not be terminal")
	}
	for _, status := range []HoldStatus{HoldConfirmed, HoldReleased, HoldExpired} {
		h.Status = status
		if !h.Terminal() {
			t.Fatalf("%s must be terminal", status)
		}
	}
}

func TestInventoryCloneIsDeep(t *testing.T) {
	inv := &FlightInventory{
		FlightID:         1,
		FlightDate:       time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		CapacityByClass:  ClassCounts{ClassEconomy: 10},
		AvailableByClass: ClassCounts{ClassEconomy: 10},
		PricingByClass:   ClassPrices{ClassEconomy: 19900},
	}
	cp := inv.Clone()
	cp.AvailableByClass[ClassEconomy] = 0
	cp.PricingByClass[ClassEconomy] = 1

	if inv.AvailableByClass[ClassEconomy] != 10 || inv.PricingByClass[ClassEconomy] != 19900 {
		t.Fatal("Clone shares map storage with the original")
	}
}

func TestDateKey(t *testing.T) {
	inv := &FlightInventory{FlightDate: time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)}
	if got := inv.DateKey(); got != "2026-09-05" {
		t.Fatalf("DateKey = %q", got)
	}
}
