// Package sqlite provides SQLite-based storage implementations for offercrawl services.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DB represents a SQLite database connection.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB creates a new DB instance with the given path.
// Use ":memory:" for an in-memory database.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// Open opens the database connection and creates the schema if needed.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit to one connection.
	// Crawl workers share it; transactions serialize on it.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	// WAL mode is not supported for in-memory databases.
	if db.path != ":memory:" {
		if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
			conn.Close()
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	db.db = conn

	if err := db.createSchema(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext executes a statement that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// BeginTx starts a transaction.
func (db *DB) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return db.db.BeginTx(ctx, nil)
}

// Stats returns database statistics.
func (db *DB) Stats() sql.DBStats {
	return db.db.Stats()
}

// createSchema creates the database tables if they don't exist and seeds
// the section types.
func (db *DB) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS companies (
			id TEXT PRIMARY KEY,
			domain TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL DEFAULT '',
			crawl_status TEXT NOT NULL DEFAULT 'pending',
			is_active INTEGER NOT NULL DEFAULT 1,
			last_crawled TEXT,
			next_crawl_date TEXT,
			error_message TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_companies_status ON companies(crawl_status, is_active);

		CREATE TABLE IF NOT EXISTS crawl_jobs (
			id TEXT PRIMARY KEY,
			company_id TEXT NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
			status TEXT NOT NULL,
			started_at TEXT NOT NULL,
			completed_at TEXT,
			pages_crawled INTEGER NOT NULL DEFAULT 0,
			pages_failed INTEGER NOT NULL DEFAULT 0,
			new_keywords_found INTEGER NOT NULL DEFAULT 0,
			error_message TEXT NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_crawl_jobs_company_id ON crawl_jobs(company_id);

		CREATE TABLE IF NOT EXISTS section_types (
			id INTEGER PRIMARY KEY,
			code TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL
		);

		INSERT OR IGNORE INTO section_types (id, code, name) VALUES
			(1, 'menu', 'Navigation menu'),
			(2, 'service_listing', 'Service listing page'),
			(3, 'service_detail', 'Service detail page');

		CREATE TABLE IF NOT EXISTS keywords_master (
			id TEXT PRIMARY KEY,
			keyword TEXT NOT NULL,
			normalized_keyword TEXT NOT NULL UNIQUE,
			unique_domains_count INTEGER NOT NULL DEFAULT 0,
			total_occurrences INTEGER NOT NULL DEFAULT 0,
			first_seen TEXT NOT NULL,
			last_seen TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS domain_keywords (
			id TEXT PRIMARY KEY,
			company_id TEXT NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
			keyword_id TEXT NOT NULL REFERENCES keywords_master(id) ON DELETE CASCADE,
			section_type_id INTEGER NOT NULL REFERENCES section_types(id),
			confidence REAL NOT NULL DEFAULT 0,
			method TEXT NOT NULL DEFAULT '',
			source_url TEXT NOT NULL DEFAULT '',
			page_count INTEGER NOT NULL DEFAULT 1,
			total_frequency INTEGER NOT NULL DEFAULT 1,
			first_seen TEXT NOT NULL,
			last_seen TEXT NOT NULL,
			UNIQUE (company_id, keyword_id, section_type_id)
		);

		CREATE INDEX IF NOT EXISTS idx_domain_keywords_keyword_id ON domain_keywords(keyword_id);
	`

	_, err := db.db.Exec(schema)
	return err
}
