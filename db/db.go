// ABOUTME: Database connection management and initialization
// ABOUTME: Handles opening SQLite database with WAL mode and shared row helpers
package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned (wrapped) when a lookup by id matches no row.
var ErrNotFound = errors.New("not found")

func OpenDatabase(path string) (*sql.DB, error) {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	// SQLite allows one writer; a single connection avoids "database is locked".
	db.SetMaxOpenConns(1)

	if err := InitSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Execer is satisfied by *sql.DB and *sql.Tx, so inserts can join a
// caller's transaction.
type Execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// timestamp is the stored form of created_at/updated_at.
func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// keepTimestamp normalizes a supplied RFC3339 time to the stored form and
// falls back to now when s is empty or not RFC3339.
func keepTimestamp(s, now string) string {
	if s == "" {
		return now
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return now
	}
	return t.UTC().Format(time.RFC3339)
}

func encodeMetadata(m map[string]any) (sql.NullString, error) {
	if len(m) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode metadata: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func decodeMetadata(s sql.NullString) (map[string]any, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(s.String), &m); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	return m, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}
