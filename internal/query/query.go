// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package query builds PubMed boolean queries from PICO fields across a
// ladder of progressively broader fallback strategies.
// Implements: prd002-query (R1-R5);
//
//	docs/ARCHITECTURE § Query Construction.
package query

import (
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/evidence-engine/internal/terms"
	"github.com/pdiddy/evidence-engine/pkg/types"
)

// studyTypeFilter restricts results to evidence-graded study designs.
const studyTypeFilter = "(randomized controlled trial[pt] OR meta-analysis[pt] OR systematic review[pt] OR clinical trial[pt] OR guideline[pt] OR review[pt])"

// Term-count limits per strategy. The ladder relaxes one axis at a time;
// the relative broadening order matters, the exact counts are tuning.
const (
	primaryFieldTerms   = 4
	primaryOutcomeTerms = 3
	broadFieldTerms     = 3
	flatFieldTerms      = 2
	unfieldedMinLen     = 4 // words > 3 chars
	freeTextMinLen      = 5 // words > 4 chars
	freeTextTerms       = 3
)

// Builder assembles search queries from PICO text. Now is injectable so
// tests can pin the recency filter's year.
type Builder struct {
	Dict *terms.Dictionary
	Now  func() time.Time
}

// NewBuilder returns a Builder over dict using the wall clock.
func NewBuilder(dict *terms.Dictionary) *Builder {
	return &Builder{Dict: dict, Now: time.Now}
}

// dateFilter returns the recency clause: publication date within the last
// ten years ("2016:3000[dp]" when the current year is 2026).
func (b *Builder) dateFilter() string {
	return fmt.Sprintf("%d:3000[dp]", b.Now().Year()-10)
}

// tiabGroup OR-joins terms as quoted title/abstract-restricted phrases:
// ("a"[tiab] OR "b"[tiab]).
func tiabGroup(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = fmt.Sprintf("%q[tiab]", w)
	}
	return "(" + strings.Join(quoted, " OR ") + ")"
}

// BuildPrimary constructs the strategy-1 query (R1.1-R1.5): patient and
// intervention term groups ANDed, outcome ORed in as a booster when both
// core groups exist, plus the study-type and recency filters. Returns
// ("", false) when neither patient nor intervention yields terms.
func (b *Builder) BuildPrimary(pico types.PicoQuery) (string, bool) {
	var coreParts []string
	if words := b.Dict.Extract(pico.Patient, primaryFieldTerms); len(words) > 0 {
		coreParts = append(coreParts, tiabGroup(words))
	}
	if words := b.Dict.Extract(pico.Intervention, primaryFieldTerms); len(words) > 0 {
		coreParts = append(coreParts, tiabGroup(words))
	}
	if len(coreParts) == 0 {
		return "", false
	}

	q := strings.Join(coreParts, " AND ")

	// Outcome boosts but never narrows a patient-only or intervention-only
	// query below its core.
	if outcome := b.Dict.Extract(pico.Outcome, primaryOutcomeTerms); len(outcome) > 0 && len(coreParts) >= 2 {
		q = fmt.Sprintf("(%s) AND (%s)", q, tiabGroup(outcome))
	}

	q += " AND " + studyTypeFilter
	q += " AND " + b.dateFilter()
	return q, true
}

// BuildBroad constructs the strategy-2 query (R2.1): patient AND
// intervention with three terms each and only the recency filter. Both
// fields must contribute terms.
func (b *Builder) BuildBroad(pico types.PicoQuery) (string, bool) {
	p := b.Dict.Extract(pico.Patient, broadFieldTerms)
	i := b.Dict.Extract(pico.Intervention, broadFieldTerms)
	if len(p) == 0 || len(i) == 0 {
		return "", false
	}
	return tiabGroup(p) + " AND " + tiabGroup(i) + " AND " + b.dateFilter(), true
}

// BuildFlat constructs the strategy-3 query (R2.2): up to two terms from
// each field, flat-ANDed as individual [tiab] phrases, no filters. At
// least one term from either field is required.
func (b *Builder) BuildFlat(pico types.PicoQuery) (string, bool) {
	pool := append(b.Dict.Extract(pico.Patient, flatFieldTerms),
		b.Dict.Extract(pico.Intervention, flatFieldTerms)...)
	if len(pool) == 0 {
		return "", false
	}
	quoted := make([]string, len(pool))
	for i, w := range pool {
		quoted[i] = fmt.Sprintf("%q[tiab]", w)
	}
	return strings.Join(quoted, " AND "), true
}

// BuildUnfielded constructs the strategy-4 query (R2.3): the strategy-3
// term pool searched across all fields, keeping only words longer than
// three characters (phrases stay whole).
func (b *Builder) BuildUnfielded(pico types.PicoQuery) (string, bool) {
	pool := append(b.Dict.Extract(pico.Patient, flatFieldTerms),
		b.Dict.Extract(pico.Intervention, flatFieldTerms)...)

	var kept []string
	for _, t := range pool {
		if len(t) >= unfieldedMinLen {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		return "", false
	}
	return strings.Join(kept, " AND "), true
}

// BuildFreeText constructs the strategy-5 query (R2.4): patient and
// intervention text concatenated, split into words longer than four
// characters that are not stop words, first three ANDed unfielded.
func (b *Builder) BuildFreeText(pico types.PicoQuery) (string, bool) {
	combined := strings.TrimSpace(pico.Patient + " " + pico.Intervention)
	if combined == "" {
		return "", false
	}

	var kept []string
	for _, w := range strings.Fields(strings.ToLower(combined)) {
		w = strings.Trim(w, ".,;:()[]\"'")
		if len(w) < freeTextMinLen || b.Dict.IsStopWord(w) {
			continue
		}
		kept = append(kept, w)
		if len(kept) == freeTextTerms {
			break
		}
	}
	if len(kept) == 0 {
		return "", false
	}
	return strings.Join(kept, " AND "), true
}

// FromTerms builds a flat AND query from caller-supplied replacement
// vocabulary, phrase-restricting multi-word terms (R4.1). Used by the
// "retry with different vocabulary" path.
func FromTerms(list []string) (string, bool) {
	var parts []string
	for _, t := range list {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if strings.ContainsRune(t, ' ') {
			parts = append(parts, fmt.Sprintf("%q[tiab]", strings.ToLower(t)))
		} else {
			parts = append(parts, strings.ToLower(t))
		}
	}
	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, " AND "), true
}

// Strategy pairs a ladder position with its query builder. Build returns
// ("", false) when the strategy's preconditions are not met and it should
// be skipped (R5.2).
type Strategy struct {
	ID    int
	Build func(types.PicoQuery) (string, bool)
}

// Ladder returns the fallback strategies in broadening order (R5.1). The
// orchestrator runs them until one yields results; each step relaxes a
// single axis (field restriction, study-type filter, date filter, term
// count) so the search space widens monotonically.
func (b *Builder) Ladder() []Strategy {
	return []Strategy{
		{ID: 1, Build: b.BuildPrimary},
		{ID: 2, Build: b.BuildBroad},
		{ID: 3, Build: b.BuildFlat},
		{ID: 4, Build: b.BuildUnfielded},
		{ID: 5, Build: b.BuildFreeText},
	}
}
