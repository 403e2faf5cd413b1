// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/evidence-engine/internal/cache"
	"github.com/pdiddy/evidence-engine/internal/evidence"
	"github.com/pdiddy/evidence-engine/internal/pubmed"
	"github.com/pdiddy/evidence-engine/internal/query"
	"github.com/pdiddy/evidence-engine/internal/terms"
	"github.com/pdiddy/evidence-engine/pkg/types"
)

// engineConfig assembles the engine configuration from viper (config file
// and environment), filling defaults.
func engineConfig() types.EngineConfig {
	viper.SetDefault("pubmed.timeout", 15*time.Second)
	viper.SetDefault("pubmed.user_agent", "evidence-engine/"+version)
	viper.SetDefault("pubmed.max_results", 10)
	viper.SetDefault("pubmed.min_request_interval", pubmed.DefaultMinInterval)
	viper.SetDefault("cache.path", "cache/evidence.db")
	viper.SetDefault("cache.ttl", cache.DefaultTTL)

	return types.EngineConfig{
		PubMed: types.PubMedConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("pubmed.timeout"),
				UserAgent: viper.GetString("pubmed.user_agent"),
			},
			MaxResults:         viper.GetInt("pubmed.max_results"),
			MinRequestInterval: viper.GetDuration("pubmed.min_request_interval"),
			APIKey:             secretDefault("ncbi-api-key", viper.GetString("pubmed.api_key")),
		},
		Cache: types.CacheConfig{
			Path: viper.GetString("cache.path"),
			TTL:  viper.GetDuration("cache.ttl"),
		},
		Extractor: types.ExtractorConfig{
			DictionaryFile: viper.GetString("extractor.dictionary_file"),
		},
	}
}

// buildEngine wires a ready-to-run Engine from cfg. The cache falls back
// to the in-process map when the SQLite store cannot be opened, with a
// warning: caching is an optimization, never a reason to fail the run.
func buildEngine(cfg types.EngineConfig) (*evidence.Engine, func(), error) {
	dict := terms.DefaultDictionary()
	if cfg.Extractor.DictionaryFile != "" {
		var err error
		dict, err = terms.LoadDictionary(cfg.Extractor.DictionaryFile)
		if err != nil {
			return nil, nil, fmt.Errorf("loading dictionary: %w", err)
		}
	}

	var store cache.Cache
	closeStore := func() {}
	if cfg.Cache.Path == "" {
		store = cache.NewMemory(cfg.Cache.TTL)
	} else {
		s, err := cache.NewStore(cfg.Cache)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: cache unavailable, running without: %v\n", err)
			store = cache.NewMemory(cfg.Cache.TTL)
		} else {
			store = s
			closeStore = func() { s.Close() }
		}
	}

	client := pubmed.NewClient(&http.Client{Timeout: cfg.PubMed.Timeout}, cfg.PubMed)
	engine := evidence.NewEngine(query.NewBuilder(dict), client, store, os.Stderr)
	return engine, closeStore, nil
}
