// ABOUTME: SQLite implementation of the Store interface using modernc.org/sqlite
// ABOUTME: Provides persistence for users, content, comments, and likes with automatic schema creation

package store

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"database/sql"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	// _txlock=immediate makes every transaction take the write lock up
	// front. Toggle transactions read the counter before writing it; a
	// deferred transaction would have to upgrade from read to write
	// mid-flight, which SQLite refuses with SQLITE_BUSY when another
	// writer got in between (busy_timeout does not cover that upgrade).
	// The _pragma options apply to every pooled connection, unlike a
	// one-off Exec which only reaches the connection that ran it.
	dsn := path + "?_txlock=immediate" +
		"&_pragma=journal_mode(WAL)" +
		"&_pragma=foreign_keys(ON)" +
		"&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS users (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			username      TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role          TEXT NOT NULL,
			created_at    TEXT NOT NULL,

			CHECK (role IN ('USER', 'ADMIN'))
		);

		CREATE TABLE IF NOT EXISTS projects (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			title          TEXT NOT NULL,
			description    TEXT,
			category       TEXT,
			cover_url      TEXT,
			media_url      TEXT,
			media_type     TEXT,
			attachment_url TEXT,
			view_count     INTEGER NOT NULL DEFAULT 0,
			like_count     INTEGER NOT NULL DEFAULT 0,
			created_at     TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS articles (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			title      TEXT NOT NULL,
			summary    TEXT,
			content    TEXT,
			category   TEXT,
			cover_url  TEXT,
			view_count INTEGER NOT NULL DEFAULT 0,
			like_count INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS careers (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			start_date  TEXT,
			end_date    TEXT,
			is_current  INTEGER NOT NULL DEFAULT 0,
			period      TEXT,
			company     TEXT,
			position    TEXT,
			description TEXT,
			tags        TEXT
		);

		CREATE TABLE IF NOT EXISTS comments (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			content    TEXT NOT NULL,
			article_id INTEGER NOT NULL,
			user_id    INTEGER NOT NULL,
			parent_id  INTEGER,
			created_at TEXT NOT NULL,

			FOREIGN KEY (user_id) REFERENCES users(id)
		);

		CREATE INDEX IF NOT EXISTS idx_comments_article ON comments(article_id, created_at);

		CREATE TABLE IF NOT EXISTS likes (
			resource_type TEXT NOT NULL,
			resource_id   INTEGER NOT NULL,
			username      TEXT NOT NULL,
			created_at    TEXT NOT NULL,

			PRIMARY KEY (resource_type, resource_id, username),
			CHECK (resource_type IN ('article', 'project'))
		);

		CREATE INDEX IF NOT EXISTS idx_likes_resource ON likes(resource_type, resource_id, created_at DESC);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("executing schema: %w", err)
	}
	return nil
}

// Close closes the underlying database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// isUniqueViolation reports whether err is a SQLite unique constraint failure
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// formatTime stores timestamps as RFC3339 UTC text
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// parseTime reads timestamps written by formatTime, tolerating empty values
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
