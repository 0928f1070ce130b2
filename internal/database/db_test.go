package database

import (
	"testing"
	"time"
)

func TestDSNFormatting(t *testing.T) {
	opts := Options{User: "inv", Pass: "secret", Host: "db", Port: "3306", Name: "flights"}
	want := "inv:secret@tcp(db:3306)/flights?charset=utf8mb4&parseTime=true&loc=UTC"
	if got := opts.dsn(); got != want {
		t.Fatalf("dsn = %q, want %q", got, want)
	}

	opts.Pass = ""
	want = "inv@tcp(db:3306)/flights?charset=utf8mb4&parseTime=true&loc=UTC"
	if got := opts.dsn(); got != want {
		t.Fatalf("passwordless dsn = %q, want %q", got, want)
	}
}

func TestApplyDefaults(t *testing.T) {
	var opts Options
	opts.applyDefaults()
	if opts.MaxOpenConns != 25 || opts.MaxIdleConns != 25 {
		t.Fatalf("pool defaults = %d open, %d idle", opts.MaxOpenConns, opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime != 30*time.Minute {
		t.Fatalf("lifetime default = %s", opts.ConnMaxLifetime)
	}
	if opts.PingTimeout != 5*time.Second {
		t.Fatalf("ping timeout default = %s", opts.PingTimeout)
	}

	opts = Options{MaxOpenConns: 10}
	opts.applyDefaults()
	if opts.MaxIdleConns != 10 {
		t.Fatalf("idle should follow open when unset, got %d", opts.MaxIdleConns)
	}
}
