package database

import (
	"context"
	"database/sql"
)

// schema holds the DDL for the three engine tables. Statements are
// idempotent so startup can run them unconditionally.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS flight_inventory (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		flight_id BIGINT UNSIGNED NOT NULL,
		flight_date DATE NOT NULL,
		total_capacity JSON NOT NULL,
		available_seats JSON NOT NULL,
		pricing JSON NOT NULL,
		status VARCHAR(16) NOT NULL DEFAULT 'ACTIVE',
		revision BIGINT NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL,
		last_updated DATETIME NOT NULL,
		UNIQUE KEY uq_flight_date (flight_id, flight_date)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS seat_holds (
		hold_id VARCHAR(16) PRIMARY KEY,
		flight_inventory_id BIGINT UNSIGNED NOT NULL,
		seat_class VARCHAR(16) NOT NULL,
		seat_count INT NOT NULL,
		expires_at DATETIME NOT NULL,
		status VARCHAR(16) NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		KEY idx_holds_expiry (status, expires_at),
		KEY idx_holds_inventory (flight_inventory_id)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS inventory_mutations (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		flight_inventory_id BIGINT UNSIGNED NOT NULL,
		kind VARCHAR(16) NOT NULL,
		old_values JSON NOT NULL,
		new_values JSON NOT NULL,
		actor VARCHAR(128) NOT NULL,
		reason VARCHAR(255) NOT NULL DEFAULT '',
		occurred_at DATETIME NOT NULL,
		KEY idx_mut_inventory (flight_inventory_id),
		KEY idx_mut_kind (kind),
		KEY idx_mut_occurred (occurred_at)
	) ENGINE=InnoDB`,
}

// EnsureSchema creates the engine tables when they do not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
