// Package sqlite persists trophies in a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

// ErrEmptyProfile is returned when a store is opened without a profile.
var ErrEmptyProfile = errors.New("sqlite: trophy profile must not be empty")

// Store is a trophy.Store scoped to one profile.
type Store struct {
	db      *sql.DB
	profile string
	now     func() time.Time
}

// Open opens the database at path, creating the schema when missing.
//
// Precondition: path is non-empty; ":memory:" opens a private database.
// Postcondition: the returned Store must be closed with Close.
func Open(path, profile string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite: storage path is required")
	}
	if profile == "" {
		return nil, ErrEmptyProfile
	}
	dsn := path
	if path != ":memory:" {
		dsn = filepath.Clean(path)
	}
	dsn += "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening %s: %w", path, err)
	}
	// One connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: pinging %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: applying schema: %w", err)
	}
	return &Store{db: db, profile: profile, now: time.Now}, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load returns the profile's trophies in the order they were first earned.
func (s *Store) Load(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM trophies WHERE profile = ? ORDER BY id`, s.profile)
	if err != nil {
		return nil, fmt.Errorf("sqlite: querying trophies: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("sqlite: scanning trophy: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating trophies: %w", err)
	}
	return names, nil
}

// Earn records name, reporting whether it was new for the profile.
func (s *Store) Earn(ctx context.Context, name string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO trophies (profile, name, earned_at) VALUES (?, ?, ?)
		 ON CONFLICT (profile, name) DO NOTHING`,
		s.profile, name, s.now().UTC().UnixMilli(),
	)
	if err != nil {
		return false, fmt.Errorf("sqlite: inserting trophy: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlite: counting inserted rows: %w", err)
	}
	return n == 1, nil
}

// Reset deletes every trophy of the profile.
func (s *Store) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM trophies WHERE profile = ?`, s.profile); err != nil {
		return fmt.Errorf("sqlite: deleting trophies: %w", err)
	}
	return nil
}
