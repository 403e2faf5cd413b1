// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the evidence-engine
// pipeline.
// Implements: prd005-orchestration (PicoQuery, SearchResult);
//
//	prd003-fetch (Reference, R4.1-R4.3).
//
// See docs/ARCHITECTURE.md § Data Structures.
package types

// PicoQuery is a structured clinical question: Patient, Intervention,
// Comparison, Outcome. It is assembled upstream (chat layer) and is
// read-only inside the engine.
// Per prd005-orchestration R1.1.
type PicoQuery struct {
	Patient      string `json:"patient" yaml:"patient"`
	Intervention string `json:"intervention" yaml:"intervention"`
	Comparison   string `json:"comparison" yaml:"comparison"`
	Outcome      string `json:"outcome" yaml:"outcome"`
}

// Completeness returns how much of the PICO is filled in, as a percentage
// in steps of 25 (one step per non-empty field). Callers typically gate
// evidence search on Completeness() >= 50.
func (p PicoQuery) Completeness() int {
	pct := 0
	for _, f := range []string{p.Patient, p.Intervention, p.Comparison, p.Outcome} {
		if f != "" {
			pct += 25
		}
	}
	return pct
}

// IsEmpty reports whether no PICO field carries any text.
func (p PicoQuery) IsEmpty() bool {
	return p.Completeness() == 0
}

// Reference is a normalized evidence citation produced from one PubMed
// article. Per prd003-fetch R4.1-R4.3.
type Reference struct {
	// PMID is the PubMed identifier, the canonical dedup key.
	PMID string `json:"pmid" yaml:"pmid"`

	// Title is the article title with markup stripped.
	Title string `json:"title" yaml:"title"`

	// Source is the journal name (MedlineTA, falling back to the full
	// journal title).
	Source string `json:"source" yaml:"source"`

	// Year is the publication year as reported by PubMed; may carry a
	// month prefix form upstream ("Mar 2021" collapses to "2021").
	Year string `json:"year" yaml:"year"`

	// EvidenceType is the study design inferred from publication-type
	// tags: Meta-Analysis, Systematic Review, RCT, Clinical Trial,
	// Guideline, Review, or Article.
	EvidenceType string `json:"evidence_type" yaml:"evidence_type"`

	// Relevance is the evidence tier: High, Medium, or Low.
	Relevance string `json:"relevance" yaml:"relevance"`

	// URL points at the article's PubMed page.
	URL string `json:"url" yaml:"url"`
}

// SearchResult is the outcome of one fallback-ladder run.
// StrategyUsed is 1-5 for the strategy that produced the references, or 0
// when every strategy came up empty (a valid terminal state, not an error).
// Per prd005-orchestration R4.1.
type SearchResult struct {
	References   []Reference `json:"references" yaml:"references"`
	StrategyUsed int         `json:"strategy_used" yaml:"strategy_used"`
	QueryUsed    string      `json:"query_used" yaml:"query_used"`
}
