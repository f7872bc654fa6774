package store_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/onnwee/pointsbot/db"
	"github.com/onnwee/pointsbot/store"
)

func newStores(t *testing.T) (*store.Stores, *sql.DB) {
	t.Helper()
	d, err := db.Open(filepath.Join(t.TempDir(), "store.sqlite"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	if err := db.Migrate(context.Background(), d); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store.New(d), d
}
