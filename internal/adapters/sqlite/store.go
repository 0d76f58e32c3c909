// Package sqlite provides a MachineStore backed by a single SQLite table.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/turing/pkg/codec"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/machine"
	_ "github.com/mattn/go-sqlite3"
)

// Store keeps encoded machines in the machines table, keyed by name.
type Store struct {
	db *sql.DB
}

// Open opens or creates a SQLite database at path and ensures the schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS machines (
			name TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			updated_at TEXT NOT NULL
		);`

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save upserts the encoded machine.
func (s *Store) Save(ctx context.Context, name string, m *machine.Machine) error {
	if err := domain.ValidateMachineName(name); err != nil {
		return err
	}
	data, err := codec.Encode(m)
	if err != nil {
		return fmt.Errorf("encode machine: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO machines (name, data, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at`,
		name,
		data,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upsert machine: %w", err)
	}
	return nil
}

// Load decodes the stored machine.
func (s *Store) Load(ctx context.Context, name string) (*machine.Machine, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, "SELECT data FROM machines WHERE name = ?", name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrMachineNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query machine: %w", err)
	}

	m, err := codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode machine %q: %w", name, err)
	}
	return m, nil
}

// Delete removes the named machine. Missing names are not an error.
func (s *Store) Delete(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM machines WHERE name = ?", name); err != nil {
		return fmt.Errorf("delete machine: %w", err)
	}
	return nil
}

// List returns all stored names in ascending order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM machines ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list machines: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan machine name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
