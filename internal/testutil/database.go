package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite" // Test Package
)

// SetupTestDB creates an in-memory SQLite database for testing.
// The database is automatically cleaned up when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// In-memory database (destroyed when connection closes)
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	// Configure SQLite for testing
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA timezone = 'UTC'",
		"PRAGMA journal_mode = MEMORY", // Faster for tests
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			t.Fatalf("Failed to set pragma: %v", err)
		}
	}

	// Create schema
	if err := createTestSchema(db); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	// Cleanup when test ends
	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// createTestSchema creates all database tables for testing.
// Schema is synchronized with the goose migrations in internal/database.
func createTestSchema(db *sql.DB) error {
	schema := `
		-- Editor session table
		CREATE TABLE editor_session (
			id TEXT PRIMARY KEY,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		);

		-- Editor working rows, ordered by position within a session
		CREATE TABLE editor_row (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL REFERENCES editor_session(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			as_of_date TEXT NOT NULL,
			owner TEXT NOT NULL,
			broker TEXT NOT NULL,
			category TEXT NOT NULL,
			instrument_name TEXT NOT NULL,
			theme TEXT NOT NULL,
			principal REAL NOT NULL,
			market_value REAL NOT NULL,
			unrealized_gain REAL NOT NULL
		);

		CREATE INDEX idx_editor_row_session ON editor_row(session_id, position);
	`

	_, err := db.Exec(schema)
	return err
}
