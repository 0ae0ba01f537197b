// ABOUTME: Tests for database open and schema initialization
// ABOUTME: Uses a temp-dir SQLite file per test
package db

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := OpenDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func TestOpenDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")

	db, err := OpenDatabase(dbPath)
	if err != nil {
		t.Fatalf("OpenDatabase failed: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}

	var mode string
	if err := db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("Failed to query journal mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("Expected WAL mode, got %s", mode)
	}
}

func TestOpenDatabaseTwice(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := OpenDatabase(dbPath)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// CREATE TABLE IF NOT EXISTS must tolerate an existing schema.
	db, err = OpenDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()
}

func TestInitSchemaTables(t *testing.T) {
	db := setupTestDB(t)

	for _, table := range []string{"companies", "contacts", "deals", "activities"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s not found: %v", table, err)
		}
	}
}

func TestMetadataEncoding(t *testing.T) {
	empty, err := encodeMetadata(nil)
	require.NoError(t, err)
	require.False(t, empty.Valid)

	s, err := encodeMetadata(map[string]any{"source": "referral"})
	require.NoError(t, err)

	m, err := decodeMetadata(s)
	require.NoError(t, err)
	require.Equal(t, "referral", m["source"])

	_, err = decodeMetadata(sql.NullString{String: "{", Valid: true})
	require.Error(t, err)
}
