package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// HoldStatus is the lifecycle state of a seat hold.  A hold starts HELD
// and transitions exactly once into one of the terminal states; terminal
// holds are immutable and never physically deleted.
type HoldStatus string

const (
	HoldHeld      HoldStatus = "HELD"
	HoldConfirmed HoldStatus = "CONFIRMED"
	HoldReleased  HoldStatus = "RELEASED"
	HoldExpired   HoldStatus = "EXPIRED"
)

// SeatHold is a temporary, time-bounded claim on seats of one class,
// created while the booking workflow collects payment.  Its status
// transitions are protected transitively through the owning inventory
// row's atomic unit.
type SeatHold struct {
	HoldID      string     `json:"hold_id"`      // unique, returned to the caller
	InventoryID uint64     `json:"inventory_id"` // owning flight_inventory row
	SeatClass   SeatClass  `json:"seat_class"`
	SeatCount   int        `json:"seat_count"` // 1..9
	ExpiresAt   time.Time  `json:"expires_at"`
	Status      HoldStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Lapsed reports whether the hold's expiry has passed.  A lapsed hold may
// still carry status HELD until the sweeper reconciles it, but it can no
// longer be confirmed.
func (h *SeatHold) Lapsed(now time.Time) bool {
	return !now.Before(h.ExpiresAt)
}

// Terminal reports whether the hold has left the HELD state.
func (h *SeatHold) Terminal() bool {
	return h.Status != HoldHeld
}

// Clone returns an independent copy of the hold.
func (h *SeatHold) Clone() *SeatHold {
	if h == nil {
		return nil
	}
	out := *h
	return &out
}

// NewHoldID produces a hold identifier in the customer-facing format
// "RES" followed by eight uppercase characters drawn from a UUID.
func NewHoldID() string {
	return "RES" + strings.ToUpper(uuid.NewString()[:8])
}
