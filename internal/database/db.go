package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Options describes the MySQL connection the inventory store runs on.
// Pool sizing matters here: every reserve/confirm/release commits a
// multi-statement transaction, and a retry burst after a revision
// conflict multiplies the demand for connections.
type Options struct {
	User string
	Pass string // empty means no password
	Host string
	Port string
	Name string

	MaxOpenConns    int           // 0 -> 25
	MaxIdleConns    int           // 0 -> MaxOpenConns
	ConnMaxLifetime time.Duration // 0 -> 30m
	PingTimeout     time.Duration // 0 -> 5s
}

func (o *Options) applyDefaults() {
	if o.MaxOpenConns <= 0 {
		o.MaxOpenConns = 25
	}
	if o.MaxIdleConns <= 0 {
		o.MaxIdleConns = o.MaxOpenConns
	}
	if o.ConnMaxLifetime <= 0 {
		o.ConnMaxLifetime = 30 * time.Minute
	}
	if o.PingTimeout <= 0 {
		o.PingTimeout = 5 * time.Second
	}
}

// dsn renders the driver connection string. parseTime converts DATETIME
// columns to time.Time and loc=UTC keeps hold expiries and audit
// timestamps in the zone the engine compares against.
func (o Options) dsn() string {
	auth := o.User
	if o.Pass != "" {
		auth = fmt.Sprintf("%s:%s", o.User, o.Pass)
	}
	return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, o.Host, o.Port, o.Name)
}

// Open connects to MySQL with the configured pool limits and verifies
// the connection before the server starts taking reservations.
func Open(opts Options) (*sql.DB, error) {
	opts.applyDefaults()

	db, err := sql.Open("mysql", opts.dsn())
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), opts.PingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}
