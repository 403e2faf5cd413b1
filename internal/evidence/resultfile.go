// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package evidence

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/evidence-engine/pkg/types"
)

// ResultFile is the on-disk representation of one search and its outcome.
// The caller can save a run to a file and reload it later without
// re-querying PubMed. Per prd005-orchestration R5.3.
type ResultFile struct {
	Pico    types.PicoQuery    `yaml:"pico"`
	Result  types.SearchResult `yaml:"result"`
	Summary ResultSummary      `yaml:"summary"`
}

// ResultSummary stores result statistics and a timestamp.
type ResultSummary struct {
	Total        int       `yaml:"total"`
	Completeness int       `yaml:"completeness"`
	Timestamp    time.Time `yaml:"timestamp"`
}

// WriteResultFile saves a PICO, its search result, and summary stats to a
// YAML file.
func WriteResultFile(path string, pico types.PicoQuery, result types.SearchResult) error {
	rf := ResultFile{
		Pico:   pico,
		Result: result,
		Summary: ResultSummary{
			Total:        len(result.References),
			Completeness: pico.Completeness(),
			Timestamp:    time.Now().UTC(),
		},
	}

	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling result file: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing result file: %w", err)
	}
	return nil
}

// ReadResultFile loads a previously saved search from a YAML file.
func ReadResultFile(path string) (ResultFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ResultFile{}, fmt.Errorf("reading result file: %w", err)
	}

	var rf ResultFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return ResultFile{}, fmt.Errorf("parsing result file %s: %w", path, err)
	}
	return rf, nil
}
