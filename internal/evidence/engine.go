// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package evidence orchestrates the fallback ladder: build a query per
// strategy, consult the cache, run the two-step PubMed fetch, normalize,
// and return the first non-empty result set.
// Implements: prd005-orchestration (R1-R5);
//
//	docs/ARCHITECTURE § Orchestration.
package evidence

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/evidence-engine/internal/cache"
	"github.com/pdiddy/evidence-engine/internal/pubmed"
	"github.com/pdiddy/evidence-engine/internal/query"
	"github.com/pdiddy/evidence-engine/pkg/types"
)

// Fetcher is the two-step PubMed access the engine drives. *pubmed.Client
// implements it; tests substitute fakes.
type Fetcher interface {
	Search(ctx context.Context, query string) ([]string, error)
	FetchDetails(ctx context.Context, pmids []string) ([]pubmed.Article, error)
}

// Engine runs PICO searches. All dependencies are injected: the query
// builder (with its dictionary and clock), the fetcher, the cache, and a
// writer for strategy-failure warnings.
type Engine struct {
	Builder *query.Builder
	Fetcher Fetcher
	Cache   cache.Cache
	Log     io.Writer
}

// NewEngine wires an Engine. A nil log writer discards warnings.
func NewEngine(b *query.Builder, f Fetcher, c cache.Cache, log io.Writer) *Engine {
	if log == nil {
		log = io.Discard
	}
	return &Engine{Builder: b, Fetcher: f, Cache: c, Log: log}
}

// SearchByPico walks the five-strategy ladder in order and returns the
// first non-empty result with its provenance (R1.1-R1.4). Strategies whose
// preconditions fail are skipped; a per-strategy failure is logged and
// treated as zero results for that strategy. When every strategy comes up
// empty the zero SearchResult is returned — a valid terminal state, not an
// error (R2.1).
func (e *Engine) SearchByPico(ctx context.Context, pico types.PicoQuery) types.SearchResult {
	for _, s := range e.Builder.Ladder() {
		q, ok := s.Build(pico)
		if !ok {
			continue
		}

		refs, err := e.runQuery(ctx, q)
		if err != nil {
			fmt.Fprintf(e.Log, "warning: strategy %d failed: %v\n", s.ID, err)
			continue
		}
		if len(refs) > 0 {
			return types.SearchResult{References: refs, StrategyUsed: s.ID, QueryUsed: q}
		}
	}
	return types.SearchResult{}
}

// SearchWithTerms runs a single query built from caller-supplied
// replacement vocabulary — the "retry with different wording" path (R3.1).
// StrategyUsed is 1 on success: these entry points run a one-rung ladder.
func (e *Engine) SearchWithTerms(ctx context.Context, terms []string) types.SearchResult {
	q, ok := query.FromTerms(terms)
	if !ok {
		return types.SearchResult{}
	}
	return e.runSingle(ctx, q)
}

// SearchFreeText runs a single query extracted from free text, for callers
// with no structured PICO at all (R3.2). The text is treated as a combined
// patient/intervention description.
func (e *Engine) SearchFreeText(ctx context.Context, text string) types.SearchResult {
	extracted := e.Builder.Dict.Extract(text, 4)
	q, ok := query.FromTerms(extracted)
	if !ok {
		return types.SearchResult{}
	}
	return e.runSingle(ctx, q)
}

func (e *Engine) runSingle(ctx context.Context, q string) types.SearchResult {
	refs, err := e.runQuery(ctx, q)
	if err != nil {
		fmt.Fprintf(e.Log, "warning: query failed: %v\n", err)
		return types.SearchResult{}
	}
	if len(refs) == 0 {
		return types.SearchResult{}
	}
	return types.SearchResult{References: refs, StrategyUsed: 1, QueryUsed: q}
}

// runQuery is the per-strategy pipeline: cache lookup, then on a miss the
// search and detail fetch, normalization, dedup, and a best-effort cache
// store. A cached empty result is a valid hit: it keeps a known-empty
// query from being retried against the network inside the TTL.
func (e *Engine) runQuery(ctx context.Context, q string) ([]types.Reference, error) {
	if refs, ok := e.Cache.Get(q); ok {
		return refs, nil
	}

	pmids, err := e.Fetcher.Search(ctx, q)
	if err != nil {
		return nil, err
	}

	articles, err := e.Fetcher.FetchDetails(ctx, pmids)
	if err != nil {
		return nil, err
	}

	refs := pubmed.Normalize(articles)
	e.Cache.Put(q, refs)
	return refs, nil
}
