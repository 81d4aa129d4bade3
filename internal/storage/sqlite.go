package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// DatabaseFile is the SQLite file created inside the data directory.
const DatabaseFile = "todo.db"

const slotSchema = `
CREATE TABLE IF NOT EXISTS slots (
	name       TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at TEXT NOT NULL
);`

// SQLiteSlot keeps the slot value in one row of a SQLite table.
// Several lists can share a database under different names.
type SQLiteSlot struct {
	db   *sql.DB
	name string
}

// OpenSQLiteSlot opens (creating if needed) the database at path and binds the slot name.
func OpenSQLiteSlot(ctx context.Context, path, name string) (*SQLiteSlot, error) {
	if path != ":memory:" {
		//nolint:gosec // G301: 0755 is appropriate for user-accessible data directory
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite works best with a single writer.
	db.SetMaxOpenConns(1)

	if _, err = db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err = db.ExecContext(ctx, slotSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &SQLiteSlot{db: db, name: SanitizeName(name)}, nil
}

// Read returns the slot row's value.
func (s *SQLiteSlot) Read(ctx context.Context) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM slots WHERE name = ?`, s.name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read slot %s: %w", s.name, err)
	}
	return value, nil
}

// Write upserts the slot row in a single statement.
func (s *SQLiteSlot) Write(ctx context.Context, data []byte) error {
	query := `
		INSERT INTO slots (name, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	updatedAt := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := s.db.ExecContext(ctx, query, s.name, data, updatedAt); err != nil {
		return fmt.Errorf("failed to write slot %s: %w", s.name, err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteSlot) Close() error {
	return s.db.Close()
}
