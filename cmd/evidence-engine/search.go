// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/evidence-engine/internal/evidence"
	"github.com/pdiddy/evidence-engine/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search PubMed for evidence matching a PICO question",
	Long: `Search runs the fallback ladder for a structured PICO question: five
strategies from strict (phrase-restricted terms, study-type and recency
filters) to permissive (free-text words), stopping at the first that
returns references. Results are deduplicated and classified by evidence
type and relevance tier.

An incomplete PICO is rejected below the completeness threshold; pass
--min-completeness 0 to search anyway, or use the free-text fallback:

  evidence-engine search --text "stroke rehabilitation at home"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pico := types.PicoQuery{}
		pico.Patient, _ = cmd.Flags().GetString("patient")
		pico.Intervention, _ = cmd.Flags().GetString("intervention")
		pico.Comparison, _ = cmd.Flags().GetString("comparison")
		pico.Outcome, _ = cmd.Flags().GetString("outcome")
		freeText, _ := cmd.Flags().GetString("text")
		minCompleteness, _ := cmd.Flags().GetInt("min-completeness")
		asJSON, _ := cmd.Flags().GetBool("json")
		savePath, _ := cmd.Flags().GetString("save")

		if freeText == "" && pico.Completeness() < minCompleteness {
			return fmt.Errorf("PICO is %d%% complete, below the %d%% threshold: fill in more fields or use --text",
				pico.Completeness(), minCompleteness)
		}

		engine, closeStore, err := buildEngine(engineConfig())
		if err != nil {
			return err
		}
		defer closeStore()

		ctx := cmd.Context()
		var result types.SearchResult
		if freeText != "" {
			result = engine.SearchFreeText(ctx, freeText)
		} else {
			result = engine.SearchByPico(ctx, pico)
		}

		if asJSON {
			if err := evidence.FormatJSON(result, os.Stdout); err != nil {
				return err
			}
		} else {
			evidence.FormatTable(result, os.Stdout)
		}

		if savePath != "" {
			if err := evidence.WriteResultFile(savePath, pico, result); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Saved result to %s\n", savePath)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().String("patient", "", "PICO patient/population description")
	searchCmd.Flags().String("intervention", "", "PICO intervention description")
	searchCmd.Flags().String("comparison", "", "PICO comparison description")
	searchCmd.Flags().String("outcome", "", "PICO outcome description")
	searchCmd.Flags().String("text", "", "free-text fallback when no structured PICO exists")
	searchCmd.Flags().Int("min-completeness", 50, "minimum PICO completeness percentage required to search")
	searchCmd.Flags().Bool("json", false, "output the result as JSON")
	searchCmd.Flags().String("save", "", "save the result to a YAML file")

	rootCmd.AddCommand(searchCmd)
}
