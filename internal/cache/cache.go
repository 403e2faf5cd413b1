// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache stores query results keyed by query text with a time-based
// expiry. Caching is a performance optimization only: every implementation
// degrades to always-miss and no-op-write rather than surfacing errors.
// Implements: prd004-cache (R1-R3);
//
//	docs/ARCHITECTURE § Result Cache.
package cache

import (
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/pdiddy/evidence-engine/pkg/types"
)

// DefaultTTL is how long an entry stays valid after it is written.
const DefaultTTL = 24 * time.Hour

// Cache is the query-result store the orchestrator talks to. Get treats
// expired entries as absent; Put is best-effort and never reports failure.
type Cache interface {
	Get(query string) ([]types.Reference, bool)
	Put(query string, refs []types.Reference)
	PurgeExpired() int
}

// Key derives a deterministic cache key from query text. FNV-1a is enough:
// a collision only costs a wrong cache hit rate, not correctness.
func Key(query string) string {
	h := fnv.New64a()
	h.Write([]byte(query))
	return fmt.Sprintf("q%016x", h.Sum64())
}

// Memory is an in-process Cache. The clock is injectable so tests can
// simulate TTL expiry without sleeping.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

type memoryEntry struct {
	refs    []types.Reference
	created time.Time
}

// NewMemory returns an empty in-memory cache. A non-positive ttl selects
// DefaultTTL.
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memory{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached references for query. An entry past its TTL is
// removed and reported as a miss.
func (m *Memory) Get(query string) ([]types.Reference, bool) {
	key := Key(query)

	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if m.now().Sub(e.created) > m.ttl {
		delete(m.entries, key)
		return nil, false
	}
	return e.refs, true
}

// Put stores references for query, stamping the write time.
func (m *Memory) Put(query string, refs []types.Reference) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[Key(query)] = memoryEntry{refs: refs, created: m.now()}
}

// PurgeExpired drops every entry past its TTL and returns how many went.
func (m *Memory) PurgeExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-m.ttl)
	purged := 0
	for key, e := range m.entries {
		if e.created.Before(cutoff) {
			delete(m.entries, key)
			purged++
		}
	}
	return purged
}
