// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package evidence

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/evidence-engine/pkg/types"
)

// FormatTable writes a result as a human-readable table to w, with the
// strategy provenance line the chat layer shows as "found via strategy N".
func FormatTable(result types.SearchResult, w io.Writer) {
	if len(result.References) == 0 {
		fmt.Fprintln(w, "No matching evidence found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-58s  %-22s  %-4s  %-17s  %s\n",
		"Rank", "Title", "Journal", "Year", "Evidence", "Tier")
	fmt.Fprintln(w, strings.Repeat("-", 118))

	for i, r := range result.References {
		title := r.Title
		if len(title) > 58 {
			title = title[:55] + "..."
		}
		journal := r.Source
		if len(journal) > 22 {
			journal = journal[:19] + "..."
		}
		fmt.Fprintf(w, "%-4d  %-58s  %-22s  %-4s  %-17s  %s\n",
			i+1, title, journal, r.Year, r.EvidenceType, r.Relevance)
	}

	fmt.Fprintf(w, "\n%d references (strategy %d)\n", len(result.References), result.StrategyUsed)
	fmt.Fprintf(w, "Query: %s\n", result.QueryUsed)
}

// FormatJSON writes the result as indented JSON to w.
func FormatJSON(result types.SearchResult, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
