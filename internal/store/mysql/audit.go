package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/skyfare/flight-inventory/internal/model"
)

const mutationColumns = `id, flight_inventory_id, kind, old_values, new_values, actor, reason, occurred_at`

// insertMutationTx appends one audit row within the provided transaction.
func insertMutationTx(ctx context.Context, tx *sql.Tx, inventoryID uint64, m *model.InventoryMutation) error {
	if m == nil {
		return nil
	}
	beforeJSON, err := json.Marshal(m.Before)
	if err != nil {
		return err
	}
	afterJSON, err := json.Marshal(m.After)
	if err != nil {
		return err
	}
	const q = `INSERT INTO inventory_mutations
			   (flight_inventory_id, kind, old_values, new_values, actor, reason, occurred_at)
			   VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err = tx.ExecContext(ctx, q,
		inventoryID, string(m.Kind), beforeJSON, afterJSON,
		m.Actor, m.Reason, m.OccurredAt.UTC(),
	)
	return err
}

// ListMutationsByInventory returns the audit rows for one inventory row
// in append order.
func (s *Store) ListMutationsByInventory(ctx context.Context, inventoryID uint64) ([]*model.InventoryMutation, error) {
	q := `SELECT ` + mutationColumns + ` FROM inventory_mutations WHERE flight_inventory_id = ? ORDER BY id`
	rows, err := s.db.QueryContext(ctx, q, inventoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMutations(rows)
}

// ListMutationsByDateRange returns audit rows with from <= occurredAt < to.
func (s *Store) ListMutationsByDateRange(ctx context.Context, from, to time.Time) ([]*model.InventoryMutation, error) {
	q := `SELECT ` + mutationColumns + ` FROM inventory_mutations
		  WHERE occurred_at >= ? AND occurred_at < ? ORDER BY id`
	rows, err := s.db.QueryContext(ctx, q, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMutations(rows)
}

// ListMutationsByKind returns audit rows of one kind in append order.
func (s *Store) ListMutationsByKind(ctx context.Context, kind model.MutationKind) ([]*model.InventoryMutation, error) {
	q := `SELECT ` + mutationColumns + ` FROM inventory_mutations WHERE kind = ? ORDER BY id`
	rows, err := s.db.QueryContext(ctx, q, string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMutations(rows)
}

func collectMutations(rows *sql.Rows) ([]*model.InventoryMutation, error) {
	var out []*model.InventoryMutation
	for rows.Next() {
		var (
			m         model.InventoryMutation
			kindStr   string
			beforeRaw []byte
			afterRaw  []byte
		)
		if err := rows.Scan(&m.ID, &m.InventoryID, &kindStr, &beforeRaw, &afterRaw,
			&m.Actor, &m.Reason, &m.OccurredAt); err != nil {
			return nil, err
		}
		m.Kind = model.MutationKind(kindStr)
		var err error
		if m.Before, err = unmarshalCounts(beforeRaw); err != nil {
			return nil, fmt.Errorf("old_values: %w", err)
		}
		if m.After, err = unmarshalCounts(afterRaw); err != nil {
			return nil, fmt.Errorf("new_values: %w", err)
		}
		m.OccurredAt = m.OccurredAt.UTC()
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
