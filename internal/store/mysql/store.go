// Package mysql implements the store contract on MySQL. Each composite
// write runs in a single sql.Tx and guards the inventory row with a
// revision compare-and-set, so concurrent engines sharing the database
// stay linearizable per flight-date.
package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/skyfare/flight-inventory/internal/model"
	"github.com/skyfare/flight-inventory/internal/store"
)

const dateFmt = "2006-01-02"

// Store provides data access to the flight_inventory, seat_holds and
// inventory_mutations tables. All timestamps are stored in UTC.
type Store struct {
	db *sql.DB
}

// New returns a Store bound to the provided database.
func New(db *sql.DB) *Store { return &Store{db: db} }

// DB exposes the underlying handle for health checks.
func (s *Store) DB() *sql.DB { return s.db }

const inventoryColumns = `id, flight_id, flight_date, total_capacity, available_seats, pricing, status, revision, created_at, last_updated`

// GetInventory returns the row for a flight-date, or store.ErrNotFound.
func (s *Store) GetInventory(ctx context.Context, flightID uint64, flightDate time.Time) (*model.FlightInventory, error) {
	q := `SELECT ` + inventoryColumns + ` FROM flight_inventory WHERE flight_id = ? AND flight_date = ?`
	row := s.db.QueryRowContext(ctx, q, flightID, model.DateOnly(flightDate).Format(dateFmt))
	return scanInventory(row)
}

// GetInventoryByID returns the row by primary key, or store.ErrNotFound.
func (s *Store) GetInventoryByID(ctx context.Context, id uint64) (*model.FlightInventory, error) {
	q := `SELECT ` + inventoryColumns + ` FROM flight_inventory WHERE id = ?`
	return scanInventory(s.db.QueryRowContext(ctx, q, id))
}

// CreateInventory inserts a new inventory row and its MANUAL audit entry
// within one transaction. It populates the generated ID on the returned
// row.
func (s *Store) CreateInventory(ctx context.Context, inv *model.FlightInventory, mut *model.InventoryMutation) (*model.FlightInventory, error) {
	capJSON, availJSON, priceJSON, err := marshalInventoryBlobs(inv)
	if err != nil {
		return nil, err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const q = `INSERT INTO flight_inventory
			   (flight_id, flight_date, total_capacity, available_seats, pricing, status, revision, created_at, last_updated)
			   VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		inv.FlightID, model.DateOnly(inv.FlightDate).Format(dateFmt),
		capJSON, availJSON, priceJSON,
		string(inv.Status), inv.Revision,
		inv.CreatedAt.UTC(), inv.LastUpdated.UTC(),
	)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	stored := inv.Clone()
	stored.ID = uint64(id)
	stored.FlightDate = model.DateOnly(inv.FlightDate)

	if err := insertMutationTx(ctx, tx, stored.ID, mut); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return stored, nil
}

// UpdateInventory applies the guarded inventory write, the optional hold
// upsert and the audit entry in one transaction. The UPDATE carries the
// expected revision in its WHERE clause; zero affected rows means the
// caller lost the race and gets store.ErrConcurrentModification.
func (s *Store) UpdateInventory(ctx context.Context, expectedRevision int64, inv *model.FlightInventory, hold *model.SeatHold, mut *model.InventoryMutation) error {
	capJSON, availJSON, priceJSON, err := marshalInventoryBlobs(inv)
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const q = `UPDATE flight_inventory
			   SET total_capacity = ?, available_seats = ?, pricing = ?, status = ?, revision = ?, last_updated = ?
			   WHERE id = ? AND revision = ?`
	res, err := tx.ExecContext(ctx, q,
		capJSON, availJSON, priceJSON,
		string(inv.Status), inv.Revision, inv.LastUpdated.UTC(),
		inv.ID, expectedRevision,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Either the row vanished or another writer bumped the revision.
		var one int
		lookup := tx.QueryRowContext(ctx, `SELECT 1 FROM flight_inventory WHERE id = ?`, inv.ID).Scan(&one)
		if errors.Is(lookup, sql.ErrNoRows) {
			return store.ErrNotFound
		}
		return store.ErrConcurrentModification
	}

	if hold != nil {
		if err := upsertHoldTx(ctx, tx, hold); err != nil {
			return err
		}
	}
	if err := insertMutationTx(ctx, tx, inv.ID, mut); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanInventory(row scanner) (*model.FlightInventory, error) {
	var (
		inv       model.FlightInventory
		dateStr   string
		capRaw    []byte
		availRaw  []byte
		priceRaw  []byte
		statusStr string
	)
	err := row.Scan(&inv.ID, &inv.FlightID, &dateStr, &capRaw, &availRaw, &priceRaw,
		&statusStr, &inv.Revision, &inv.CreatedAt, &inv.LastUpdated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	// parseTime=true converts DATETIME but DATE still scans as a string in
	// the YYYY-MM-DD[THH:MM:SSZ] form depending on driver settings.
	inv.FlightDate, err = parseFlightDate(dateStr)
	if err != nil {
		return nil, err
	}
	if inv.CapacityByClass, err = unmarshalCounts(capRaw); err != nil {
		return nil, fmt.Errorf("total_capacity: %w", err)
	}
	if inv.AvailableByClass, err = unmarshalCounts(availRaw); err != nil {
		return nil, fmt.Errorf("available_seats: %w", err)
	}
	if inv.PricingByClass, err = unmarshalPrices(priceRaw); err != nil {
		return nil, fmt.Errorf("pricing: %w", err)
	}
	inv.Status = model.FlightStatus(statusStr)
	inv.CreatedAt = inv.CreatedAt.UTC()
	inv.LastUpdated = inv.LastUpdated.UTC()
	return &inv, nil
}

func parseFlightDate(s string) (time.Time, error) {
	for _, layout := range []string{dateFmt, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return model.DateOnly(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable flight_date %q", s)
}

func marshalInventoryBlobs(inv *model.FlightInventory) (capJSON, availJSON, priceJSON []byte, err error) {
	if capJSON, err = json.Marshal(inv.CapacityByClass); err != nil {
		return nil, nil, nil, err
	}
	if availJSON, err = json.Marshal(inv.AvailableByClass); err != nil {
		return nil, nil, nil, err
	}
	if priceJSON, err = json.Marshal(inv.PricingByClass); err != nil {
		return nil, nil, nil, err
	}
	return capJSON, availJSON, priceJSON, nil
}

// unmarshalCounts decodes a JSON column into the enum-keyed mapping and
// rejects unknown class keys so a hand-edited row cannot smuggle in a
// class the arithmetic does not track.
func unmarshalCounts(raw []byte) (model.ClassCounts, error) {
	if len(raw) == 0 {
		return model.ClassCounts{}, nil
	}
	var m map[string]int
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	out := make(model.ClassCounts, len(m))
	for k, v := range m {
		class, ok := model.ParseSeatClass(k)
		if !ok {
			return nil, fmt.Errorf("unknown seat class %q", k)
		}
		out[class] = v
	}
	return out, nil
}

func unmarshalPrices(raw []byte) (model.ClassPrices, error) {
	if len(raw) == 0 {
		return model.ClassPrices{}, nil
	}
	var m map[string]int64
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	out := make(model.ClassPrices, len(m))
	for k, v := range m {
		class, ok := model.ParseSeatClass(k)
		if !ok {
			return nil, fmt.Errorf("unknown seat class %q", k)
		}
		out[class] = v
	}
	return out, nil
}
