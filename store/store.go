// Package store holds the typed entity layer over the generic db driver:
// one store per collection, each owning the conversion between the flat
// storage representation (JSON option blobs, ISO timestamps, integer
// booleans) and the in-memory typed records in models.
package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Stores bundles the four entity stores for injection.
type Stores struct {
	Users    *Users
	Commands *Commands
	Crons    *Crons
	Logs     *Logs
}

// New constructs all four stores over one database handle.
func New(d *sql.DB) *Stores {
	return &Stores{
		Users:    &Users{db: d},
		Commands: &Commands{db: d},
		Crons:    &Crons{db: d},
		Logs:     &Logs{db: d},
	}
}

// timeNow is swappable in tests.
var timeNow = time.Now

func encodeTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

func encodeBool(b bool) int {
	if b {
		return 1
	}
	return 0
}
