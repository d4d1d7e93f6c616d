package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestOpenMigratesIdempotently(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "timely.db")

	db, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}

	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&n); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if n != 3 {
		t.Errorf("applied migrations = %d, want 3", n)
	}
	for _, table := range []string{"tasks", "placements", "invites"} {
		if _, err := db.ExecContext(ctx, "SELECT 1 FROM "+table+" LIMIT 1"); err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
	db.Close()

	// Reopening an existing database must not reapply anything.
	db, err = Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer db.Close()
}

func TestUnixRoundTrip(t *testing.T) {
	at := time.Date(2024, 5, 6, 14, 30, 0, 0, time.FixedZone("X", 3600))
	if got := FromUnix(Unix(at)); !got.Equal(at) {
		t.Errorf("FromUnix(Unix()) = %v, want %v", got, at)
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(context.Background(), ""); err == nil {
		t.Errorf("Open(\"\") should fail")
	}
}
