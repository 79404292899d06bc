// Package store persists finished games in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// registers the "sqlite3" driver
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteConfig holds connection settings.
type SQLiteConfig struct {
	// Path is the database file; ":memory:" opens an in-memory database.
	Path string
	// MaxOpenConns caps open connections. SQLite has a single writer.
	MaxOpenConns int
	// MaxIdleConns caps idle connections.
	MaxIdleConns int
	// ConnMaxLifetime bounds how long a connection is reused.
	ConnMaxLifetime time.Duration
}

// OpenSQLite opens the database described by cfg.
func OpenSQLite(cfg SQLiteConfig) (*sql.DB, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("open sqlite: path must not be empty")
	}

	db, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns >= 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return db, nil
}

// EnsureSchema creates the tables if they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	const createTable = `
CREATE TABLE IF NOT EXISTS game_records (
    id TEXT PRIMARY KEY,
    game_id TEXT NOT NULL,
    first_controller TEXT NOT NULL,
    second_controller TEXT NOT NULL,
    winner TEXT NOT NULL,
    first_score INTEGER NOT NULL,
    second_score INTEGER NOT NULL,
    moves TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	if _, err := db.ExecContext(ctx, createTable); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	return nil
}
