// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package terms extracts salient search terms from free-text PICO fields,
// preferring known multi-word clinical phrases over single words.
// Implements: prd001-terms (R1-R3);
//
//	docs/ARCHITECTURE § Term Extraction.
package terms

import (
	"strings"
)

// Extract returns up to max salient terms from text, in priority order:
// known clinical phrases first (dictionary order), then remaining
// significant single words in their original order (R1.1-R1.4).
//
// Single words are taken from the text with parenthetical asides and
// punctuation removed, lower-cased, hyphen-trimmed, and filtered: words of
// length <= 2, stop words, and words already contained in a selected phrase
// are dropped. Empty text yields an empty slice; so can text made entirely
// of stop words — both signal the field contributed nothing usable.
func (d *Dictionary) Extract(text string, max int) []string {
	if text == "" || max <= 0 {
		return nil
	}
	lower := strings.ToLower(text)

	var results []string
	for _, phrase := range d.Phrases {
		if len(results) >= max {
			break
		}
		if strings.Contains(lower, phrase) && !containsTerm(results, phrase) {
			results = append(results, phrase)
		}
	}

	for _, w := range splitWords(text) {
		if len(results) >= max {
			break
		}
		if len(w) <= 2 || d.IsStopWord(w) {
			continue
		}
		if inSelectedPhrase(results, w) {
			continue
		}
		results = append(results, w)
	}
	return results
}

// splitWords cleans text (parentheticals and punctuation removed, keeping
// intra-word hyphens) and returns lower-cased, hyphen-trimmed words.
func splitWords(text string) []string {
	cleaned := stripParentheticals(text)

	var b strings.Builder
	for _, r := range cleaned {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}

	var words []string
	for _, w := range strings.Fields(b.String()) {
		w = strings.Trim(strings.ToLower(w), "-_")
		if w != "" {
			words = append(words, w)
		}
	}
	return words
}

// stripParentheticals removes "(...)" asides, unbalanced parens included.
func stripParentheticals(text string) string {
	var b strings.Builder
	depth := 0
	for _, r := range text {
		switch {
		case r == '(':
			depth++
			b.WriteRune(' ')
		case r == ')':
			if depth > 0 {
				depth--
			}
			b.WriteRune(' ')
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// inSelectedPhrase reports whether w already appears inside one of the
// selected terms, so "stroke" is skipped once "ischemic stroke" is in.
func inSelectedPhrase(selected []string, w string) bool {
	for _, s := range selected {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func containsTerm(terms []string, t string) bool {
	for _, s := range terms {
		if s == t {
			return true
		}
	}
	return false
}
