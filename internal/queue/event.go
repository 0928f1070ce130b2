// Package queue defines message payloads exchanged over the message broker.
package queue

// EventQueueName is the durable queue carrying inventory events.
const EventQueueName = "inventory.events"

// Event kinds published by the reservation engine.
const (
	EventSeatsReserved   = "seats.reserved"
	EventHoldConfirmed   = "hold.confirmed"
	EventHoldReleased    = "hold.released"
	EventHoldExpired     = "hold.expired"
	EventCapacityUpdated = "capacity.updated"
)

// InventoryEvent is published after every successful inventory mutation.
// It carries enough information for downstream consumers to log, notify,
// or refresh search indexes without querying the primary database.
type InventoryEvent struct {
	Kind       string         `json:"kind"`
	FlightID   uint64         `json:"flight_id"`
	FlightDate string         `json:"flight_date"`
	HoldID     string         `json:"hold_id,omitempty"`
	SeatClass  string         `json:"seat_class,omitempty"`
	SeatCount  int            `json:"seat_count,omitempty"`
	Available  map[string]int `json:"available"`
	Actor      string         `json:"actor"`
	OccurredAt string         `json:"occurred_at"`
}
