package store

import (
	"database/sql"
	_ "embed"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/pointsx/internal/ledger"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Empty database
// 1 - users, tokens, transaction_history, user_balance view
const currentSchemaVersion = 1

// Options tunes Open.
type Options struct {
	// MaxOpenConns caps the connection pool. Values below 1 mean 1, a
	// single writer connection, which avoids SQLITE_BUSY entirely.
	MaxOpenConns int

	// UniqueNames adds unique indexes on user and token names. A create
	// that loses a race (or repeats a name) then fails with a storage
	// failure instead of producing a duplicate.
	UniqueNames bool
}

// Store is the SQLite ledger.Persistence.
type Store struct {
	db *sql.DB
}

var _ ledger.Persistence = (*Store)(nil)

// Open creates or opens a SQLite database at the given path with default
// options.
func Open(path string) (*Store, error) {
	return OpenWithOptions(path, Options{})
}

// OpenWithOptions creates or opens a SQLite database at the given path.
// Applies required pragmas and migrations automatically.
//
// This function is idempotent - safe to call multiple times.
func OpenWithOptions(path string, opts Options) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	conns := opts.MaxOpenConns
	if conns < 1 {
		conns = 1
	}
	db.SetMaxOpenConns(conns)
	db.SetMaxIdleConns(conns)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	if opts.UniqueNames {
		if err := applyUniqueNames(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply unique names: %w", err)
		}
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// dsn adds the per-connection settings as go-sqlite3 DSN parameters so
// every pooled connection gets them, not only the first.
func dsn(path string) string {
	params := "_foreign_keys=on&_busy_timeout=5000&_synchronous=NORMAL"
	if strings.Contains(path, "?") {
		return path + "&" + params
	}
	return path + "?" + params
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates tables if they don't exist and runs migrations.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// runMigrations stamps user_version and refuses databases written by a
// newer schema.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version > currentSchemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d", version, currentSchemaVersion)
	}

	// Version 1 is fully described by schema.sql; later versions add
	// migrateToVN steps here.

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// applyUniqueNames adds unique name indexes. Fails if duplicates exist.
func applyUniqueNames(db *sql.DB) error {
	stmts := []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_users_name_unique ON users(name)",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_tokens_name_unique ON tokens(name)",
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute %q: %w", stmt, err)
		}
	}
	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
