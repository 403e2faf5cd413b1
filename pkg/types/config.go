// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "evidence-engine/0.1"). Per prd003-fetch R5.2.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// PubMedConfig holds settings for the E-utilities client.
// Per prd003-fetch R1.2, R2.1, R5.1-R5.4.
type PubMedConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults caps the PMIDs returned per search (default 10).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// MinRequestInterval is the minimum wall-clock gap between consecutive
	// E-utilities calls, shared across all callers in the process
	// (default 350ms, under NCBI's 3 req/s allowance).
	MinRequestInterval time.Duration `json:"min_request_interval" yaml:"min_request_interval"`

	// APIKey is an optional NCBI API key for a higher rate allowance.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// CacheConfig holds settings for the query-result cache.
// Per prd004-cache R1.1-R1.3.
type CacheConfig struct {
	// Path is the SQLite database file. Empty selects the in-memory cache.
	Path string `json:"path" yaml:"path"`

	// TTL is how long a cached result stays valid (default 24h).
	TTL time.Duration `json:"ttl" yaml:"ttl"`
}

// ExtractorConfig holds settings for the keyword/phrase extractor.
// Per prd001-terms R3.1-R3.2.
type ExtractorConfig struct {
	// DictionaryFile optionally replaces the built-in phrase and stop-word
	// tables with a YAML file of the same shape.
	DictionaryFile string `json:"dictionary_file,omitempty" yaml:"dictionary_file,omitempty"`
}

// EngineConfig groups all stage configurations for the engine.
type EngineConfig struct {
	PubMed    PubMedConfig    `json:"pubmed" yaml:"pubmed"`
	Cache     CacheConfig     `json:"cache" yaml:"cache"`
	Extractor ExtractorConfig `json:"extractor" yaml:"extractor"`
}
