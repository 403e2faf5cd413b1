// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/evidence-engine/pkg/types"
)

var sampleRefs = []types.Reference{
	{
		PMID:         "31535829",
		Title:        "Once-Weekly Semaglutide in Adults with Overweight or Obesity",
		Source:       "N Engl J Med",
		Year:         "2021",
		EvidenceType: "RCT",
		Relevance:    "Medium",
		URL:          "https://pubmed.ncbi.nlm.nih.gov/31535829/",
	},
	{PMID: "33186734", Title: "GLP-1 agonists: a meta-analysis", EvidenceType: "Meta-Analysis", Relevance: "High"},
}

func TestKeyDeterministic(t *testing.T) {
	q := `"ischemic stroke"[tiab] AND "occupational therapy"[tiab]`
	assert.Equal(t, Key(q), Key(q))
	assert.NotEqual(t, Key(q), Key(q+" "))
}

func TestMemoryPutGet(t *testing.T) {
	m := NewMemory(time.Hour)

	_, ok := m.Get("query")
	assert.False(t, ok, "miss expected on empty cache")

	m.Put("query", sampleRefs)
	got, ok := m.Get("query")
	require.True(t, ok)
	assert.Equal(t, sampleRefs, got)

	// Different query text is a different key.
	_, ok = m.Get("another query")
	assert.False(t, ok)
}

func TestMemoryTTLExpiry(t *testing.T) {
	m := NewMemory(time.Hour)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }

	m.Put("query", sampleRefs)

	m.now = func() time.Time { return base.Add(59 * time.Minute) }
	_, ok := m.Get("query")
	assert.True(t, ok, "entry inside TTL should hit")

	m.now = func() time.Time { return base.Add(61 * time.Minute) }
	_, ok = m.Get("query")
	assert.False(t, ok, "entry past TTL reads as absent")

	// The discovering access physically removed it.
	m.now = func() time.Time { return base }
	_, ok = m.Get("query")
	assert.False(t, ok, "expired entry should have been purged")
}

func TestMemoryPurgeExpired(t *testing.T) {
	m := NewMemory(time.Hour)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	m.now = func() time.Time { return base }
	m.Put("old", sampleRefs)
	m.now = func() time.Time { return base.Add(2 * time.Hour) }
	m.Put("fresh", sampleRefs)

	assert.Equal(t, 1, m.PurgeExpired())
	_, ok := m.Get("fresh")
	assert.True(t, ok)
}

func TestStorePutGet(t *testing.T) {
	s, err := NewStore(types.CacheConfig{
		Path: filepath.Join(t.TempDir(), "cache.db"),
		TTL:  time.Hour,
	})
	require.NoError(t, err)
	defer s.Close()

	_, ok := s.Get("query")
	assert.False(t, ok)

	s.Put("query", sampleRefs)
	got, ok := s.Get("query")
	require.True(t, ok)
	assert.Equal(t, sampleRefs, got)

	// Overwrite is an upsert, last write wins.
	s.Put("query", sampleRefs[:1])
	got, ok = s.Get("query")
	require.True(t, ok)
	assert.Len(t, got, 1)
}

func TestStoreTTLExpiry(t *testing.T) {
	s, err := NewStore(types.CacheConfig{
		Path: filepath.Join(t.TempDir(), "cache.db"),
		TTL:  time.Hour,
	})
	require.NoError(t, err)
	defer s.Close()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }
	s.Put("query", sampleRefs)

	s.now = func() time.Time { return base.Add(25 * time.Hour) }
	_, ok := s.Get("query")
	assert.False(t, ok, "expired row reads as absent")

	// Row was removed, so a rewound clock still misses.
	s.now = func() time.Time { return base }
	_, ok = s.Get("query")
	assert.False(t, ok)
}

func TestStorePurgeExpired(t *testing.T) {
	s, err := NewStore(types.CacheConfig{
		Path: filepath.Join(t.TempDir(), "cache.db"),
		TTL:  time.Hour,
	})
	require.NoError(t, err)
	defer s.Close()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }
	s.Put("old-1", sampleRefs)
	s.Put("old-2", sampleRefs)

	s.now = func() time.Time { return base.Add(3 * time.Hour) }
	s.Put("fresh", sampleRefs)

	assert.Equal(t, 2, s.PurgeExpired())
	_, ok := s.Get("fresh")
	assert.True(t, ok)
}

func TestStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")

	s, err := NewStore(types.CacheConfig{Path: path, TTL: time.Hour})
	require.NoError(t, err)
	s.Put("query", sampleRefs)
	require.NoError(t, s.Close())

	s2, err := NewStore(types.CacheConfig{Path: path, TTL: time.Hour})
	require.NoError(t, err)
	defer s2.Close()

	got, ok := s2.Get("query")
	require.True(t, ok)
	assert.Equal(t, sampleRefs, got)
}

func TestNewStoreEmptyPath(t *testing.T) {
	_, err := NewStore(types.CacheConfig{})
	assert.Error(t, err)
}
