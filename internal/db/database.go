package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// ErrDuplicate indicates an insert hit a unique constraint. Callers decide
// whether that is a conflict (explicit create) or a normal outcome (upsert).
var ErrDuplicate = errors.New("record already exists")

// Database wraps the sql connection and owns the schema
type Database struct {
	db *sql.DB
}

// NewDatabase opens the sqlite database at dsn and ensures the schema exists
func NewDatabase(dsn string) (*Database, error) {
	if dsn == "" {
		return nil, errors.New("database DSN is required")
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("ping failed: %w, close failed: %v", err, closeErr)
		}
		return nil, err
	}

	// Recipient logs depend on ON DELETE behavior, so foreign keys must be on
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("enable foreign keys failed: %w, close failed: %v", err, closeErr)
		}
		return nil, err
	}

	if err := createTables(db); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("create tables failed: %w, close failed: %v", err, closeErr)
		}
		return nil, err
	}

	return &Database{db: db}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(Schema)
	return err
}

// Schema is the full relational schema. Uniqueness of (phone, created_by),
// (name, created_by) and (contact_id, template_id) is enforced here rather
// than with application-level locking.
const Schema = `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		email TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		totp_secret TEXT,
		totp_enabled BOOLEAN DEFAULT 0,
		active BOOLEAN DEFAULT 1,
		last_login INTEGER,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS contacts (
		id TEXT PRIMARY KEY,
		full_name TEXT NOT NULL DEFAULT '',
		email TEXT UNIQUE,
		phone TEXT NOT NULL,
		info TEXT NOT NULL DEFAULT '',
		created_by TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL,
		UNIQUE (phone, created_by),
		FOREIGN KEY (created_by) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS templates (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		content TEXT NOT NULL,
		created_by TEXT NOT NULL,
		last_sent INTEGER,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL,
		UNIQUE (name, created_by),
		FOREIGN KEY (created_by) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS contact_templates (
		contact_id TEXT NOT NULL,
		template_id TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		PRIMARY KEY (contact_id, template_id),
		FOREIGN KEY (contact_id) REFERENCES contacts(id) ON DELETE CASCADE,
		FOREIGN KEY (template_id) REFERENCES templates(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS message_logs (
		id TEXT PRIMARY KEY,
		content TEXT NOT NULL,
		author_id TEXT NOT NULL,
		sent_at INTEGER NOT NULL,
		FOREIGN KEY (author_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS recipient_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		contact_id TEXT,
		message_id TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'PENDING',
		FOREIGN KEY (contact_id) REFERENCES contacts(id) ON DELETE SET NULL,
		FOREIGN KEY (message_id) REFERENCES message_logs(id) ON DELETE CASCADE
	);
`

// GetDB exposes the underlying connection for repository construction
func (d *Database) GetDB() *sql.DB {
	return d.db
}

// Close closes the underlying database connection
func (d *Database) Close() error {
	if d == nil || d.db == nil {
		return errors.New("database already closed")
	}

	err := d.db.Close()
	d.db = nil
	return err
}

// isUniqueViolation reports whether err is a sqlite unique constraint failure
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// nullableString maps empty strings to NULL so that optional unique columns
// (contact email) never collide on the empty value.
func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
