// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/evidence-engine/pkg/types"
)

// Store is a SQLite-backed Cache that survives process restarts. Failures
// after open are swallowed: a broken store reads as empty and drops writes,
// matching the contract that caching never becomes a correctness
// dependency (R3.1).
type Store struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// NewStore opens or creates the cache database at cfg.Path, creating
// parent directories and the schema as needed (R1.2).
func NewStore(cfg types.CacheConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("cache path is empty")
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	s := &Store{db: db, ttl: ttl, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS query_cache (
		key TEXT PRIMARY KEY,
		refs TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Get returns the cached references for query. Expired rows are deleted on
// the access that discovers them; read errors are plain misses.
func (s *Store) Get(query string) ([]types.Reference, bool) {
	key := Key(query)

	var refsJSON, createdAt string
	err := s.db.QueryRow(
		`SELECT refs, created_at FROM query_cache WHERE key = ?`, key,
	).Scan(&refsJSON, &createdAt)
	if err != nil {
		return nil, false
	}

	created, err := time.Parse(time.RFC3339, createdAt)
	if err != nil || s.now().Sub(created) > s.ttl {
		s.db.Exec(`DELETE FROM query_cache WHERE key = ?`, key)
		return nil, false
	}

	var refs []types.Reference
	if err := json.Unmarshal([]byte(refsJSON), &refs); err != nil {
		s.db.Exec(`DELETE FROM query_cache WHERE key = ?`, key)
		return nil, false
	}
	return refs, true
}

// Put upserts references for query. Serialization or write failures are
// silently dropped.
func (s *Store) Put(query string, refs []types.Reference) {
	refsJSON, err := json.Marshal(refs)
	if err != nil {
		return
	}
	s.db.Exec(
		`INSERT INTO query_cache (key, refs, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET refs = excluded.refs, created_at = excluded.created_at`,
		Key(query), string(refsJSON), s.now().UTC().Format(time.RFC3339),
	)
}

// PurgeExpired deletes every row older than the TTL and returns the count.
func (s *Store) PurgeExpired() int {
	cutoff := s.now().Add(-s.ttl).UTC().Format(time.RFC3339)
	res, err := s.db.Exec(`DELETE FROM query_cache WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0
	}
	n, _ := res.RowsAffected()
	return int(n)
}
