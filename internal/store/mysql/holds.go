package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/skyfare/flight-inventory/internal/model"
	"github.com/skyfare/flight-inventory/internal/store"
)

const holdColumns = `hold_id, flight_inventory_id, seat_class, seat_count, expires_at, status, created_at, updated_at`

// GetHold returns a hold by its ID, or store.ErrNotFound.
func (s *Store) GetHold(ctx context.Context, holdID string) (*model.SeatHold, error) {
	q := `SELECT ` + holdColumns + ` FROM seat_holds WHERE hold_id = ?`
	return scanHold(s.db.QueryRowContext(ctx, q, holdID))
}

// ListActiveHolds returns the HELD and CONFIRMED holds owned by an
// inventory row.
func (s *Store) ListActiveHolds(ctx context.Context, inventoryID uint64) ([]*model.SeatHold, error) {
	q := `SELECT ` + holdColumns + ` FROM seat_holds
		  WHERE flight_inventory_id = ? AND status IN ('HELD', 'CONFIRMED')`
	rows, err := s.db.QueryContext(ctx, q, inventoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectHolds(rows)
}

// ListExpiredHolds returns holds still HELD whose expiry is before asOf.
func (s *Store) ListExpiredHolds(ctx context.Context, asOf time.Time) ([]*model.SeatHold, error) {
	q := `SELECT ` + holdColumns + ` FROM seat_holds
		  WHERE status = 'HELD' AND expires_at < ?`
	rows, err := s.db.QueryContext(ctx, q, asOf.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectHolds(rows)
}

// upsertHoldTx inserts or updates a hold within the provided transaction.
// The caller is responsible for committing or rolling back.
func upsertHoldTx(ctx context.Context, tx *sql.Tx, h *model.SeatHold) error {
	const q = `INSERT INTO seat_holds
			   (hold_id, flight_inventory_id, seat_class, seat_count, expires_at, status, created_at, updated_at)
			   VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			   ON DUPLICATE KEY UPDATE status = VALUES(status), expires_at = VALUES(expires_at), updated_at = VALUES(updated_at)`
	_, err := tx.ExecContext(ctx, q,
		h.HoldID, h.InventoryID, string(h.SeatClass), h.SeatCount,
		h.ExpiresAt.UTC(), string(h.Status), h.CreatedAt.UTC(), h.UpdatedAt.UTC(),
	)
	return err
}

func scanHold(row scanner) (*model.SeatHold, error) {
	var (
		h         model.SeatHold
		classStr  string
		statusStr string
	)
	err := row.Scan(&h.HoldID, &h.InventoryID, &classStr, &h.SeatCount,
		&h.ExpiresAt, &statusStr, &h.CreatedAt, &h.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	h.SeatClass = model.SeatClass(classStr)
	h.Status = model.HoldStatus(statusStr)
	h.ExpiresAt = h.ExpiresAt.UTC()
	h.CreatedAt = h.CreatedAt.UTC()
	h.UpdatedAt = h.UpdatedAt.UTC()
	return &h, nil
}

func collectHolds(rows *sql.Rows) ([]*model.SeatHold, error) {
	var out []*model.SeatHold
	for rows.Next() {
		h, err := scanHold(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
