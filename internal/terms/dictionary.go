// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package terms

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// Dictionary holds the static tables the extractor matches against: an
// ordered list of known multi-word clinical phrases (longer, more specific
// phrases first) and a stop-word set. Both are data, not logic; a deploy
// can replace them via LoadDictionary without code changes (R3.1).
type Dictionary struct {
	Phrases   []string
	stopWords map[string]struct{}
}

// dictionaryFile is the YAML shape of a replacement dictionary.
type dictionaryFile struct {
	Phrases   []string `yaml:"phrases"`
	StopWords []string `yaml:"stop_words"`
}

// NewDictionary builds a Dictionary from explicit tables.
func NewDictionary(phrases, stopWords []string) *Dictionary {
	d := &Dictionary{
		Phrases:   phrases,
		stopWords: make(map[string]struct{}, len(stopWords)),
	}
	for _, w := range stopWords {
		d.stopWords[w] = struct{}{}
	}
	return d
}

// DefaultDictionary returns the built-in clinical phrase and stop-word tables.
func DefaultDictionary() *Dictionary {
	return NewDictionary(defaultPhrases, defaultStopWords)
}

// LoadDictionary reads a replacement dictionary from a YAML file with
// top-level keys "phrases" and "stop_words" (R3.2).
func LoadDictionary(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dictionary file: %w", err)
	}

	var df dictionaryFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		return nil, fmt.Errorf("parsing dictionary file %s: %w", path, err)
	}
	if len(df.Phrases) == 0 && len(df.StopWords) == 0 {
		return nil, fmt.Errorf("dictionary file %s defines no phrases or stop words", path)
	}
	return NewDictionary(df.Phrases, df.StopWords), nil
}

// IsStopWord reports whether w is in the stop-word set.
func (d *Dictionary) IsStopWord(w string) bool {
	_, ok := d.stopWords[w]
	return ok
}

// defaultPhrases lists known multi-word clinical phrases, checked in order.
// Hyphenated and space-separated spellings are listed separately because
// matching is plain substring containment.
var defaultPhrases = []string{
	"constraint-induced movement therapy",
	"task-oriented training", "task oriented training",
	"activities of daily living", "occupational therapy",
	"glp-1 receptor agonist",
	"type 2 diabetes", "type 1 diabetes", "diabetes mellitus",
	"ischemic stroke", "hemorrhagic stroke", "subacute stroke",
	"upper extremity", "lower extremity",
	"functional independence", "caregiver coaching",
	"adl training", "adl independence",
	"left-sided weakness", "hemiparesis",
	"graded practice", "range of motion",
	"meal preparation", "shower transfer",
	"blood pressure", "heart failure", "atrial fibrillation",
	"myocardial infarction", "weight loss",
	"cognitive behavioral therapy", "physical therapy",
	"chronic kidney disease", "chronic obstructive pulmonary disease",
	"quality of life",
}

// defaultStopWords lists function words, vague qualifiers, and demographic
// filler that carry no search value on their own.
var defaultStopWords = []string{
	"a", "an", "the", "in", "on", "at", "to", "for", "of", "with",
	"and", "or", "is", "are", "was", "were", "be", "been", "being",
	"by", "from", "that", "this", "than", "not", "no", "but", "if",
	"its", "his", "her", "their", "our", "my", "your", "who", "whom",
	"specifically", "especially", "particularly", "mainly", "primarily",
	"focusing", "including", "such", "based", "using", "also", "both",
	"about", "more", "most", "less", "fewer", "greater", "lower",
	"would", "could", "should", "may", "might", "can", "need", "needs",
	"specific", "general", "overall", "standard", "combined",
	"phase", "stage", "level", "type", "form", "resulting", "leading",
	"without", "between", "through", "among", "across", "currently",
	"well", "due", "during", "after", "before", "over", "under",
	"male", "female", "old", "year", "years", "weeks", "week",
	"months", "month",
	"patient", "patients", "adults", "adult", "elderly", "aged",
	"year-old", "living", "lives", "independently",
	"improved", "reduced", "decreased", "increased", "safe", "safely",
	"structured", "focused", "short", "simple",
}
