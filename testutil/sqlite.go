// Package testutil provides shared test fixtures: a throwaway SQLite
// database, fake chat/status collaborators and a deterministic bot
// environment.
package testutil

import (
	"context"
	"database/sql"
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	"github.com/onnwee/pointsbot/bot"
	"github.com/onnwee/pointsbot/db"
	"github.com/onnwee/pointsbot/ledger"
	"github.com/onnwee/pointsbot/store"
	"github.com/onnwee/pointsbot/telemetry"
)

// SetupTestDB opens a fresh SQLite database in the test's temp dir and
// runs migrations. The connection is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bot.sqlite")
	database, err := db.Open(path)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := db.Migrate(context.Background(), database); err != nil {
		database.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}

// FakeSender records outbound chat lines.
type FakeSender struct {
	Sent []string
}

func (f *FakeSender) Send(text string) { f.Sent = append(f.Sent, text) }

// Last returns the most recent line, or empty.
func (f *FakeSender) Last() string {
	if len(f.Sent) == 0 {
		return ""
	}
	return f.Sent[len(f.Sent)-1]
}

// FakeStatus is a canned status collaborator.
type FakeStatus struct {
	Online  bool
	Viewers []string
	Err     error
}

func (f *FakeStatus) IsStreamOnline(ctx context.Context) (bool, error) {
	return f.Online, f.Err
}

func (f *FakeStatus) GetViewerUserIDs(ctx context.Context) ([]string, error) {
	return f.Viewers, f.Err
}

// NewEnv builds a deterministic bot environment over the given database:
// seeded randomness, a recording sender and an offline status stub.
func NewEnv(t *testing.T, database *sql.DB) (*bot.Env, *FakeSender, *FakeStatus) {
	t.Helper()
	telemetry.Init()
	stores := store.New(database)
	sender := &FakeSender{}
	status := &FakeStatus{}
	env := &bot.Env{
		Stores:        stores,
		Ledger:        ledger.New(stores.Users, stores.Logs),
		Chat:          sender,
		Status:        status,
		Currency:      "points",
		DefaultPoints: 100,
		Rand:          rand.New(rand.NewSource(1)),
		Now:           time.Now,
	}
	return env, sender, status
}
