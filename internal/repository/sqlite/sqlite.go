// Package sqlite implements the repository interfaces on an embedded SQLite
// database. It is the default local backend: no server to run, a single file
// on disk, and ":memory:" for tests.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo (calls C code from Go), which means you need a C
// compiler installed and cross-compilation becomes painful. modernc.org/sqlite
// is a pure Go translation of the SQLite C code — works everywhere Go works.
//
// DATABASE/SQL OVERVIEW:
// Go's standard library provides "database/sql" — a generic interface for SQL
// databases driven by registered drivers. Key types:
//   - sql.DB   — a connection pool (NOT a single connection!)
//   - sql.Row  — a single result row
//   - sql.Rows — multiple result rows (must be closed!)
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sakif/saas-starter/internal/repository"

	// BLANK IMPORT:
	// Side-effect only — the driver's init() registers itself with database/sql
	// under the name "sqlite". After this import, sql.Open("sqlite", ...) works.
	_ "modernc.org/sqlite"
)

// compile-time check that *DB satisfies the Store interface
var _ repository.Store = (*DB)(nil)

// DB wraps a sql.DB connection pool and hands out per-entity repositories.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the SQLite database at path and runs migrations.
//
// path examples:
//   - "data/saas.db" → file-based database (persistent)
//   - ":memory:"     → in-memory database (great for tests, lost on close)
func New(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Ping forces a real connection so a bad path or permissions problem
	// surfaces here, not on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode allows concurrent reads while a write is in progress — without
	// it SQLite locks the whole file during writes, which stalls a web server.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite; user_tokens references users.
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

func (db *DB) Users() repository.UserRepository       { return &UserDB{conn: db.conn} }
func (db *DB) Blogs() repository.BlogRepository       { return &BlogDB{conn: db.conn} }
func (db *DB) Contacts() repository.ContactRepository { return &ContactDB{conn: db.conn} }

// Ping verifies the database file is still reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Collections lists the user tables, for the status endpoint.
func (db *DB) Collections(ctx context.Context) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("sqlite: scanning table name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Close closes the connection pool. Always defer this next to New().
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS is idempotent, so
// this is safe to run on every startup.
//
// NOTE THE UNIQUE EMAIL CONSTRAINT:
// The registration flow pre-checks for duplicates, but the pre-check and the
// insert are two statements — two concurrent signups for the same address can
// both pass the check. The UNIQUE column is the actual enforcement; the
// violating insert fails and is reported as a duplicate.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			salt          TEXT NOT NULL,
			is_active     INTEGER NOT NULL DEFAULT 1,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	// Token append order is the rowid (seq) — an AUTOINCREMENT integer that
	// only ever grows, which gives us the append-only ordered list the user
	// record promises without storing an array in a relational table.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS user_tokens (
			seq        INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id    TEXT NOT NULL REFERENCES users(id),
			token      TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_user_tokens_user_id ON user_tokens(user_id);
	`)
	if err != nil {
		return fmt.Errorf("creating user_tokens table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS blog_posts (
			id           TEXT PRIMARY KEY,
			slug         TEXT NOT NULL UNIQUE,
			title        TEXT NOT NULL,
			excerpt      TEXT NOT NULL DEFAULT '',
			content      TEXT NOT NULL DEFAULT '',
			author       TEXT NOT NULL DEFAULT '',
			tags         TEXT NOT NULL DEFAULT '[]',
			published_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_blog_posts_published_at ON blog_posts(published_at);
	`)
	if err != nil {
		return fmt.Errorf("creating blog_posts table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS contact_messages (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			email      TEXT NOT NULL,
			subject    TEXT NOT NULL DEFAULT '',
			message    TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating contact_messages table: %w", err)
	}

	return nil
}
