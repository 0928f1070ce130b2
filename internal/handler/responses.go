package handler

import (
	"time"

	"github.com/skyfare/flight-inventory/internal/model"
)

// inventoryResponse is the wire shape of a FlightInventory. Class maps
// are rendered with plain string keys and the date at day granularity.
type inventoryResponse struct {
	FlightID    uint64           `json:"flight_id"`
	FlightDate  string           `json:"flight_date"`
	Capacity    map[string]int   `json:"capacity"`
	Available   map[string]int   `json:"available"`
	Pricing     map[string]int64 `json:"pricing"`
	Status      string           `json:"status"`
	Revision    int64            `json:"revision"`
	LastUpdated string           `json:"last_updated"`
}

func toInventoryResponse(inv *model.FlightInventory) inventoryResponse {
	resp := inventoryResponse{
		FlightID:    inv.FlightID,
		FlightDate:  inv.DateKey(),
		Capacity:    make(map[string]int, len(inv.CapacityByClass)),
		Available:   make(map[string]int, len(inv.AvailableByClass)),
		Pricing:     make(map[string]int64, len(inv.PricingByClass)),
		Status:      string(inv.Status),
		Revision:    inv.Revision,
		LastUpdated: inv.LastUpdated.UTC().Format(time.RFC3339),
	}
	for class, n := range inv.CapacityByClass {
		resp.Capacity[string(class)] = n
	}
	for class, n := range inv.AvailableByClass {
		resp.Available[string(class)] = n
	}
	for class, p := range inv.PricingByClass {
		resp.Pricing[string(class)] = p
	}
	return resp
}

// holdResponse is the wire shape of a SeatHold.
type holdResponse struct {
	HoldID      string `json:"hold_id"`
	InventoryID uint64 `json:"inventory_id"`
	SeatClass   string `json:"seat_class"`
	SeatCount   int    `json:"seat_count"`
	ExpiresAt   string `json:"expires_at"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

func toHoldResponse(h *model.SeatHold) holdResponse {
	return holdResponse{
		HoldID:      h.HoldID,
		InventoryID: h.InventoryID,
		SeatClass:   string(h.SeatClass),
		SeatCount:   h.SeatCount,
		ExpiresAt:   h.ExpiresAt.UTC().Format(time.RFC3339),
		Status:      string(h.Status),
		CreatedAt:   h.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// mutationResponse is the wire shape of an audit row.
type mutationResponse struct {
	ID          uint64         `json:"id"`
	InventoryID uint64         `json:"inventory_id"`
	Kind        string         `json:"kind"`
	Before      map[string]int `json:"before"`
	After       map[string]int `json:"after"`
	Actor       string         `json:"actor"`
	Reason      string         `json:"reason"`
	OccurredAt  string         `json:"occurred_at"`
}

func toMutationResponse(m *model.InventoryMutation) mutationResponse {
	resp := mutationResponse{
		ID:          m.ID,
		InventoryID: m.InventoryID,
		Kind:        string(m.Kind),
		Before:      make(map[string]int, len(m.Before)),
		After:       make(map[string]int, len(m.After)),
		Actor:       m.Actor,
		Reason:      m.Reason,
		OccurredAt:  m.OccurredAt.UTC().Format(time.RFC3339),
	}
	for class, n := range m.Before {
		resp.Before[string(class)] = n
	}
	for class, n := range m.After {
		resp.After[string(class)] = n
	}
	return resp
}
