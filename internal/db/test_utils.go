package db

import (
	"database/sql"
	"testing"

	"github.com/juliusmarkwei/swift-send/internal/models"

	_ "github.com/mattn/go-sqlite3"
)

// SetupTestDB creates an in-memory SQLite database with the full schema for
// testing
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	// A pooled second connection to ":memory:" would open a different empty
	// database, so pin the pool to one connection.
	database.SetMaxOpenConns(1)

	// Recipient log ON DELETE behavior needs foreign keys enabled
	if _, err := database.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	if _, err := database.Exec(Schema); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	return database
}

// SeedTestUser inserts an account row for tests that need an owner
func SeedTestUser(t *testing.T, database *sql.DB, username string) *models.User {
	t.Helper()

	user := models.NewUser(username, username+"@example.com", "test-hash")
	if err := NewUserRepository(database).Create(user); err != nil {
		t.Fatalf("failed to seed test user: %v", err)
	}
	return user
}
