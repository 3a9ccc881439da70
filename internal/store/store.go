package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

// Store is the ledger: raw tick samples, compacted backlog intervals, per-day
// balances and the paused flag, all in one SQLite database.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, wrap("create db directory", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, wrap("open database", err)
	}

	db.SetMaxOpenConns(1)

	// Configure pragmas.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, wrap(fmt.Sprintf("exec pragma %q", p), err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, wrap("migrate", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

// migrateV1 creates the four ledger tables. Every statement is idempotent, so
// re-running it against an existing database is harmless.
func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS samples (
		date     TEXT NOT NULL,
		time     TEXT NOT NULL,
		duration INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS samples_date_idx ON samples(date);

	CREATE TABLE IF NOT EXISTS paused (
		state BOOLEAN NOT NULL
	);

	CREATE TABLE IF NOT EXISTS backlog (
		date     TEXT NOT NULL,
		start    TEXT NOT NULL,
		"end"    TEXT NOT NULL,
		duration INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS backlog_date_idx ON backlog(date);

	CREATE TABLE IF NOT EXISTS balance (
		date           TEXT NOT NULL UNIQUE,
		seconds_worked INTEGER NOT NULL
	);

	INSERT INTO paused (state) SELECT 1 WHERE NOT EXISTS (SELECT 1 FROM paused);
	`
	_, err := s.db.Exec(ddl)
	return err
}

// withTx runs fn inside a transaction, committing on success and rolling
// back on any error.
func (s *Store) withTx(fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Backup writes a consistent snapshot of the database to path, replacing any
// file already there.
func (s *Store) Backup(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return wrap("create backup directory", err)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return wrap("remove old backup", err)
	}
	if _, err := s.db.Exec(`VACUUM INTO ?`, path); err != nil {
		return wrap("backup", err)
	}
	return nil
}

// DefaultDBPath returns ~/.config/checkclock/checkclock.sqlite
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "checkclock", "checkclock.sqlite"), nil
}
