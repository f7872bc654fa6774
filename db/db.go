// Package db owns the embedded SQLite store: connection setup, the
// idempotent schema, and a generic filtered CRUD driver shared by all four
// collections. Timestamps are stored as ISO-8601 text, booleans as
// integers, nested options as JSON text.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // sqlite driver registered as 'sqlite'
)

// Open opens (creating if needed) the SQLite database at path and enables
// WAL mode. Parent directories are created if missing.
func Open(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}
	d, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := d.Exec("PRAGMA journal_mode=WAL"); err != nil {
		d.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}
	return d, nil
}

// Migrate applies idempotent schema changes for the four collections.
func Migrate(ctx context.Context, d *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT NOT NULL,
			userId TEXT UNIQUE NOT NULL,
			username TEXT NOT NULL,
			points INTEGER NOT NULL,
			color TEXT NOT NULL,
			isSub INTEGER NOT NULL,
			isVip INTEGER NOT NULL,
			isMod INTEGER NOT NULL,
			isAdmin INTEGER NOT NULL,
			isStreamer INTEGER NOT NULL,
			commands TEXT NOT NULL,
			createdAt TEXT NOT NULL,
			updatedAt TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS commands (
			id INTEGER PRIMARY KEY AUTOINCREMENT NOT NULL,
			name TEXT NOT NULL,
			kind TEXT NOT NULL,
			isEnabled INTEGER NOT NULL,
			isLogEnabled INTEGER NOT NULL,
			lastCalledAt TEXT NOT NULL,
			opts TEXT NOT NULL,
			cost INTEGER NOT NULL,
			customCost INTEGER NOT NULL,
			userCd INTEGER NOT NULL,
			globalCd INTEGER NOT NULL,
			cdMessage TEXT NOT NULL,
			showCdMessage INTEGER NOT NULL,
			onlyOnline INTEGER NOT NULL,
			permissions TEXT NOT NULL,
			createdAt TEXT NOT NULL,
			updatedAt TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS crons (
			id INTEGER PRIMARY KEY AUTOINCREMENT NOT NULL,
			kind TEXT NOT NULL,
			interval INTEGER NOT NULL,
			isEnabled INTEGER NOT NULL,
			isExecuting INTEGER NOT NULL,
			isLogEnabled INTEGER NOT NULL,
			lastCalledAt TEXT NOT NULL,
			callAt TEXT NOT NULL,
			opts TEXT NOT NULL,
			createdAt TEXT NOT NULL,
			updatedAt TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT NOT NULL,
			type TEXT NOT NULL,
			userId TEXT NOT NULL,
			cost INTEGER NOT NULL,
			points INTEGER NOT NULL,
			allPoints INTEGER NOT NULL,
			createdAt TEXT NOT NULL,
			updatedAt TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_users_points ON users(points)`,
		`CREATE INDEX IF NOT EXISTS idx_commands_name ON commands(name)`,
		`CREATE INDEX IF NOT EXISTS idx_logs_user ON logs(userId)`,
	}
	for i, s := range stmts {
		if _, err := d.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("sqlite migrate step %d failed: %w", i, err)
		}
	}
	slog.Info("database schema ready", slog.String("component", "db"))
	return nil
}
