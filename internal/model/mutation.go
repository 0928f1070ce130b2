package model

import "time"

// MutationKind labels what caused an inventory mutation.
type MutationKind string

const (
	MutationManual  MutationKind = "MANUAL"  // capacity/pricing upsert by an operator
	MutationReserve MutationKind = "RESERVE" // seats decremented for a new hold
	MutationRelease MutationKind = "RELEASE" // seats restored from a released hold
	MutationConfirm MutationKind = "CONFIRM" // hold committed, availability unchanged
	MutationExpire  MutationKind = "EXPIRE"  // seats restored by the sweeper
)

// InventoryMutation is one append-only audit row per mutating operation.
// Before and After are snapshots of the availability counts for the
// classes the operation touched.  The audit trail is write-only from the
// engine; it is never consulted for correctness.
type InventoryMutation struct {
	ID          uint64       `json:"id"`
	InventoryID uint64       `json:"inventory_id"`
	Kind        MutationKind `json:"kind"`
	Before      ClassCounts  `json:"before"`
	After       ClassCounts  `json:"after"`
	Actor       string       `json:"actor"`
	Reason      string       `json:"reason"`
	OccurredAt  time.Time    `json:"occurred_at"`
}

// Clone returns an independent copy of the mutation.
func (m *InventoryMutation) Clone() *InventoryMutation {
	if m == nil {
		return nil
	}
	out := *m
	out.Before = m.Before.Clone()
	out.After = m.After.Clone()
	return &out
}
