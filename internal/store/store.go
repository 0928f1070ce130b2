// Package store defines the persistence contract for the reservation
// engine and the sentinel errors shared by its backends. These sentinel
// values allow higher layers such as handlers to distinguish between
// different failure scenarios with errors.Is.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/skyfare/flight-inventory/internal/model"
)

// ErrNotFound is returned when a flight-date or hold does not exist.
// Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrInvalidState is returned when an operation is not valid for the
// current status of a hold or inventory row, for example confirming a
// lapsed hold or releasing a confirmed one.
var ErrInvalidState = errors.New("invalid state")

// ErrInventoryUnavailable is the ErrInvalidState variant for reservations
// against a flight-date whose status is not ACTIVE.
var ErrInventoryUnavailable = fmt.Errorf("%w: inventory unavailable", ErrInvalidState)

// ErrInsufficientAvailability is returned when a class does not have
// enough free seats. The booking workflow treats it as "sold out", not
// as a system fault.
var ErrInsufficientAvailability = errors.New("insufficient availability")

// ErrInvalidCapacity is returned when a capacity update would shrink a
// class below its outstanding held and confirmed seats.
var ErrInvalidCapacity = errors.New("invalid capacity")

// ErrConcurrentModification is returned when a write loses an optimistic
// concurrency race on the inventory revision, or when the per-row lock
// cannot be acquired in time. It is retryable by the caller.
var ErrConcurrentModification = errors.New("concurrent modification")

// Store is the persistence contract shared by the MySQL and in-memory
// backends. The composite writes are atomic: either every row named in
// the call is persisted or none are, and no reader observes a partially
// applied state.
type Store interface {
	// GetInventory returns the row for a flight-date, or ErrNotFound.
	GetInventory(ctx context.Context, flightID uint64, flightDate time.Time) (*model.FlightInventory, error)

	// GetInventoryByID returns the row by primary key, or ErrNotFound.
	GetInventoryByID(ctx context.Context, id uint64) (*model.FlightInventory, error)

	// CreateInventory inserts a new inventory row together with its MANUAL
	// audit entry and returns the stored row with its assigned ID.
	CreateInventory(ctx context.Context, inv *model.FlightInventory, mut *model.InventoryMutation) (*model.FlightInventory, error)

	// UpdateInventory persists inv guarded by expectedRevision, upserts the
	// optional hold in the same atomic unit, and appends the audit entry.
	// It returns ErrConcurrentModification when the stored revision does
	// not match expectedRevision.
	UpdateInventory(ctx context.Context, expectedRevision int64, inv *model.FlightInventory, hold *model.SeatHold, mut *model.InventoryMutation) error

	// GetHold returns a hold by its ID, or ErrNotFound.
	GetHold(ctx context.Context, holdID string) (*model.SeatHold, error)

	// ListActiveHolds returns the HELD and CONFIRMED holds owned by an
	// inventory row. Used to re-derive availability on capacity updates.
	ListActiveHolds(ctx context.Context, inventoryID uint64) ([]*model.SeatHold, error)

	// ListExpiredHolds returns holds still HELD whose expiry is before asOf.
	ListExpiredHolds(ctx context.Context, asOf time.Time) ([]*model.SeatHold, error)

	// Audit read path, provided for observability tooling only.
	ListMutationsByInventory(ctx context.Context, inventoryID uint64) ([]*model.InventoryMutation, error)
	ListMutationsByDateRange(ctx context.Context, from, to time.Time) ([]*model.InventoryMutation, error)
	ListMutationsByKind(ctx context.Context, kind model.MutationKind) ([]*model.InventoryMutation, error)
}
