// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/evidence-engine/internal/evidence"
)

var termsCmd = &cobra.Command{
	Use:   "terms [term]...",
	Short: "Search PubMed with explicit replacement vocabulary",
	Long: `Terms runs a single flat query built from the given search terms,
bypassing PICO extraction. Multi-word terms are phrase-restricted. This is
the "retry with different wording" path the upstream workflow uses when
the ladder came up empty:

  evidence-engine terms "motor relearning" stroke`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		engine, closeStore, err := buildEngine(engineConfig())
		if err != nil {
			return err
		}
		defer closeStore()

		result := engine.SearchWithTerms(cmd.Context(), args)

		if asJSON {
			return evidence.FormatJSON(result, os.Stdout)
		}
		evidence.FormatTable(result, os.Stdout)
		return nil
	},
}

func init() {
	termsCmd.Flags().Bool("json", false, "output the result as JSON")

	rootCmd.AddCommand(termsCmd)
}
