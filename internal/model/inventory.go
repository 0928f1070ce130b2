package model

import "time"

// SeatClass identifies a fare cabin.  Capacity, availability and pricing
// are tracked independently per class.  The set of classes is fixed; the
// maps keyed by SeatClass are validated against it so that availability
// arithmetic never has to deal with unknown keys.
type SeatClass string

const (
	ClassEconomy  SeatClass = "ECONOMY"
	ClassBusiness SeatClass = "BUSINESS"
	ClassFirst    SeatClass = "FIRST"
)

// SeatClasses lists every known seat class in a stable order.
var SeatClasses = []SeatClass{ClassEconomy, ClassBusiness, ClassFirst}

// ParseSeatClass converts a string into a SeatClass.  The second return
// value reports whether the input named a known class.
func ParseSeatClass(s string) (SeatClass, bool) {
	switch SeatClass(s) {
	case ClassEconomy, ClassBusiness, ClassFirst:
		return SeatClass(s), true
	}
	return "", false
}

// ClassCounts maps a seat class to a number of seats.
type ClassCounts map[SeatClass]int

// Clone returns an independent copy of the counts.
func (c ClassCounts) Clone() ClassCounts {
	if c == nil {
		return nil
	}
	out := make(ClassCounts, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// ClassPrices maps a seat class to a per-seat price in cents.
type ClassPrices map[SeatClass]int64

// Clone returns an independent copy of the prices.
func (p ClassPrices) Clone() ClassPrices {
	if p == nil {
		return nil
	}
	out := make(ClassPrices, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// FlightStatus reflects whether a flight-date still sells seats.
type FlightStatus string

const (
	FlightActive    FlightStatus = "ACTIVE"
	FlightCancelled FlightStatus = "CANCELLED"
	FlightDelayed   FlightStatus = "DELAYED"
)

// FlightInventory is the capacity record for one (flight, date) pair.  It
// is the unit of concurrency control: every mutation against the pair,
// including hold transitions, goes through an atomic unit that also
// updates this row and bumps Revision.
//
// Invariant: for every class, 0 <= available <= capacity, and
// available = capacity - sum(seat counts of HELD and CONFIRMED holds).
type FlightInventory struct {
	ID               uint64       `json:"id"`                 // flight_inventory.id
	FlightID         uint64       `json:"flight_id"`          // external flight identifier
	FlightDate       time.Time    `json:"flight_date"`        // date of departure, UTC midnight
	CapacityByClass  ClassCounts  `json:"capacity_by_class"`  // immutable per schedule version
	AvailableByClass ClassCounts  `json:"available_by_class"` // mutable, reconciled with holds
	PricingByClass   ClassPrices  `json:"pricing_by_class"`   // per-seat price in cents
	Status           FlightStatus `json:"status"`             // ACTIVE, CANCELLED or DELAYED
	Revision         int64        `json:"revision"`           // monotonic, optimistic concurrency
	CreatedAt        time.Time    `json:"created_at"`
	LastUpdated      time.Time    `json:"last_updated"`
}

// DateOnly truncates t to a UTC calendar date.  Flight dates are compared
// and stored at day granularity.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateKey formats the flight date the way it appears in URLs, cache keys
// and the database.
func (f *FlightInventory) DateKey() string {
	return f.FlightDate.Format("2006-01-02")
}

// Clone returns a deep copy so callers can mutate freely without aliasing
// rows owned by a store.
func (f *FlightInventory) Clone() *FlightInventory {
	if f == nil {
		return nil
	}
	out := *f
	out.CapacityByClass = f.CapacityByClass.Clone()
	out.AvailableByClass = f.AvailableByClass.Clone()
	out.PricingByClass = f.PricingByClass.Clone()
	return &out
}
