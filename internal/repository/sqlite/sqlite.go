// Package sqlite implements the repository interfaces on SQLite.
//
// modernc.org/sqlite is a pure-Go translation of SQLite — no CGo, no C
// compiler, cross-compiles anywhere Go does. The blank import below
// registers it with database/sql as the "sqlite" driver.
//
// Likes and collection memberships live in join tables with composite
// primary keys, so a like is a single atomic row insert and likedBy is a
// true set. A user's created and liked snippet lists are derived from
// snippets.added_by and snippet_likes — there is no second write to keep in
// sync with a snippet create, and no cross-document transaction to get
// wrong.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB pool and implements the repository interfaces.
type DB struct {
	conn *sql.DB
}

// New opens the database at dbPath (":memory:" for tests) and runs the
// migrations. sql.Open only creates the pool, so Ping forces a real
// connection and surfaces a bad path immediately instead of on the first
// query.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets reads proceed while a write is in flight — needed for a web
	// server where requests overlap.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// SQLite ships with foreign keys off; the likes and collection tables
	// rely on ON DELETE CASCADE.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool, flushing the WAL.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it idempotent.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL DEFAULT '',
			github_id     INTEGER UNIQUE,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	// added_by references the creator; one title per author.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS snippets (
			id          TEXT PRIMARY KEY,
			title       TEXT NOT NULL,
			filename    TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			language    TEXT NOT NULL,
			value       TEXT NOT NULL,
			added_by    TEXT NOT NULL REFERENCES users(id),
			private     INTEGER NOT NULL DEFAULT 0,
			source      TEXT NOT NULL DEFAULT '',
			added_on    DATETIME NOT NULL,
			updated_on  DATETIME NOT NULL,
			UNIQUE (added_by, title)
		);
		CREATE INDEX IF NOT EXISTS idx_snippets_added_by ON snippets(added_by);
		CREATE INDEX IF NOT EXISTS idx_snippets_added_on ON snippets(added_on);
	`)
	if err != nil {
		return fmt.Errorf("creating snippets table: %w", err)
	}

	// The composite primary key makes likes a set; liked_at preserves the
	// "ordered by first like" contract for likedBy.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS snippet_likes (
			snippet_id TEXT NOT NULL REFERENCES snippets(id) ON DELETE CASCADE,
			user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			liked_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (snippet_id, user_id)
		);
		CREATE INDEX IF NOT EXISTS idx_snippet_likes_user ON snippet_likes(user_id);
	`)
	if err != nil {
		return fmt.Errorf("creating snippet_likes table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS collections (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			owner_id   TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			UNIQUE (owner_id, name)
		);
		CREATE TABLE IF NOT EXISTS collection_snippets (
			collection_id TEXT NOT NULL REFERENCES collections(id) ON DELETE CASCADE,
			snippet_id    TEXT NOT NULL REFERENCES snippets(id) ON DELETE CASCADE,
			added_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (collection_id, snippet_id)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating collections tables: %w", err)
	}

	return nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
// modernc.org/sqlite exposes constraint failures only through the error
// text, so string matching is the check available to us.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
