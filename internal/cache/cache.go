// Package cache is the CLI's translation memoization store: a sqlite table
// keyed by a digest of (source, options), so repeated invocations of the
// CLI over an unchanged file skip re-translation. Opens a database/sql
// handle over modernc.org/sqlite against a fixed two-table schema.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/funvibe/esdown/internal/config"
)

// Store wraps a sqlite-backed cache of translate() results.
type Store struct {
	db *sql.DB
}

// Open creates or attaches to the sqlite database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cache: open %s: %w", path, err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS translations (
			digest TEXT PRIMARY KEY,
			output TEXT NOT NULL,
			run_id TEXT NOT NULL,
			created_at TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("cache: migrate: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Digest computes the cache key for a (source, options) pair: a SHA-256
// hash over the source text and the JSON-encoded options bag, so any
// change to either invalidates the cached entry.
func Digest(source string, opts config.TranslateOptions) (string, error) {
	optsJSON, err := json.Marshal(opts)
	if err != nil {
		return "", fmt.Errorf("cache: encode options: %w", err)
	}
	h := sha256.New()
	h.Write([]byte(source))
	h.Write([]byte{0})
	h.Write(optsJSON)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Lookup returns the cached output for digest, and whether it was found.
func (s *Store) Lookup(digest string) (string, bool, error) {
	var output string
	err := s.db.QueryRow(`SELECT output FROM translations WHERE digest = ?`, digest).Scan(&output)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache: lookup %s: %w", digest, err)
	}
	return output, true, nil
}

// Store records output under digest, stamped with runID.
func (s *Store) Store(digest, output, runID string) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO translations (digest, output, run_id, created_at) VALUES (?, ?, ?, ?)`,
		digest, output, runID, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("cache: store %s: %w", digest, err)
	}
	return nil
}

// BeginRun records a fresh run id in the runs table, stamping every cache
// row this process writes during its lifetime (StartRun names the row, the
// caller passes the same runID into every Store call).
func (s *Store) BeginRun(runID string) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO runs (run_id, started_at) VALUES (?, ?)`,
		runID, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("cache: begin run %s: %w", runID, err)
	}
	return nil
}
