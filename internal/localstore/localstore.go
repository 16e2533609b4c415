// Package localstore keeps the snapshot document on local disk in SQLite.
//
// The whole snapshot is one JSON document stored under a fixed key in a small
// key/value table. The store enforces a size quota so the server behaves like
// the browser storage the client was built against: an oversized document is
// refused with store.ErrQuotaExceeded and the caller decides what to drop.
package localstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/trentd187/proof/internal/store"
)

// DocumentKey is the key the snapshot document lives under.
const DocumentKey = "proof-app-data"

const schema = `
CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY,
    value BLOB NOT NULL,
    updated_at INTEGER NOT NULL
);
`

// Ensure Store can back the domain store.
var _ store.Persister = (*Store)(nil)

// Store is a SQLite-backed document store.
type Store struct {
	db       *sql.DB
	maxBytes int
}

// New opens (creating if needed) the database at dbPath. maxBytes caps the size
// of a saved document; 0 means no cap.
func New(dbPath string, maxBytes int) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer at a time; SQLite serializes anyway and this avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Store{db: db, maxBytes: maxBytes}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load returns the saved document. found is false on a fresh database.
func (s *Store) Load(ctx context.Context) (doc []byte, found bool, err error) {
	err = s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", DocumentKey).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return doc, true, nil
}

// Save replaces the saved document.
func (s *Store) Save(ctx context.Context, doc []byte) error {
	if s.maxBytes > 0 && len(doc) > s.maxBytes {
		return fmt.Errorf("document is %d bytes, limit %d: %w", len(doc), s.maxBytes, store.ErrQuotaExceeded)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		DocumentKey, doc, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}
