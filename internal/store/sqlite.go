// Package store provides sqlite-backed persistence for captured leads and the
// gate's keyed state entries.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLite holds the single database backing the lead table and the gate KV.
type SQLite struct {
	db *sql.DB
}

// Open creates the database file (and parent directory) if needed and applies
// the schema.
func Open(dbPath string) (*SQLite, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return s, nil
}

func (s *SQLite) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS leads (
		email TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS gate_state (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// UpsertLead stores a lead keyed by email. Re-submitting the same email
// overwrites the stored name and refreshes updated_at.
func (s *SQLite) UpsertLead(ctx context.Context, name, email string) error {
	now := time.Now().Unix()
	query := `
		INSERT INTO leads (email, name, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(email) DO UPDATE SET
			name = excluded.name,
			updated_at = excluded.updated_at`

	if _, err := s.db.ExecContext(ctx, query, email, name, now, now); err != nil {
		return fmt.Errorf("upsert lead: %w", err)
	}
	return nil
}

// Lead returns the stored name for an email, with found=false when absent.
func (s *SQLite) Lead(ctx context.Context, email string) (name string, found bool, err error) {
	row := s.db.QueryRowContext(ctx, `SELECT name FROM leads WHERE email = ?`, email)
	if err := row.Scan(&name); err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, fmt.Errorf("scan lead row: %w", err)
	}
	return name, true, nil
}

// Get implements gate.KV. Lookup failures read as absent.
func (s *SQLite) Get(key string) (string, bool) {
	var value string
	row := s.db.QueryRow(`SELECT value FROM gate_state WHERE key = ?`, key)
	if err := row.Scan(&value); err != nil {
		return "", false
	}
	return value, true
}

// Set implements gate.KV.
func (s *SQLite) Set(key, value string) error {
	query := `
		INSERT INTO gate_state (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	if _, err := s.db.Exec(query, key, value); err != nil {
		return fmt.Errorf("set gate state %q: %w", key, err)
	}
	return nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
