// Package storage provides database connectivity and data access for sessions,
// contacts and settings. SQLite is the default store; Postgres is selected by a
// postgres:// connection URL.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Dialect identifies the SQL flavor of a connection.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// DB wraps the SQL database connection with application-specific methods.
// Queries are written with ? placeholders and rebound for the driver by sqlx.
type DB struct {
	*sqlx.DB
	path    string
	dialect Dialect
}

// Open connects to dsn. URLs starting with postgres:// or postgresql:// use
// Postgres; anything else is treated as a SQLite file path.
func Open(dsn string) (*DB, error) {
	if isPostgresURL(dsn) {
		return NewPostgresDB(dsn)
	}
	return NewDB(dsn)
}

func isPostgresURL(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// NewDB creates a new database connection to the SQLite file at the given path.
// It creates the directory structure if it doesn't exist.
func NewDB(path string) (*DB, error) {
	// Ensure the directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	// - _foreign_keys=on: contacts cascade with their session
	// - _journal_mode=WAL: concurrent readers during writes
	// - _busy_timeout=5000: wait up to 5 seconds if database is locked
	// - _synchronous=NORMAL
	dsn := fmt.Sprintf("%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", path)
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)

	return &DB{DB: db, path: path, dialect: DialectSQLite}, nil
}

// NewPostgresDB connects to a Postgres database using lib/pq.
func NewPostgresDB(url string) (*DB, error) {
	db, err := sqlx.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	return &DB{DB: db, dialect: DialectPostgres}, nil
}

// Path returns the filesystem path to the database file. Empty for Postgres.
func (db *DB) Path() string {
	return db.path
}

// Dialect returns the SQL flavor of the connection.
func (db *DB) Dialect() Dialect {
	return db.dialect
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.DB.Close()
}

// ExecContext rebinds query for the dialect and executes it.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.DB.ExecContext(ctx, db.Rebind(query), args...)
}

// QueryContext rebinds query for the dialect and runs it.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.DB.QueryContext(ctx, db.Rebind(query), args...)
}

// QueryRowContext rebinds query for the dialect and runs it.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.DB.QueryRowContext(ctx, db.Rebind(query), args...)
}

// Transaction executes fn within a database transaction started with ctx.
// If fn returns an error, the transaction is rolled back. Statements inside
// fn rebind their placeholders with tx.Rebind.
func (db *DB) Transaction(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rolling back transaction: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}
