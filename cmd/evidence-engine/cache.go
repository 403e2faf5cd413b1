// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/evidence-engine/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Maintain the query-result cache",
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete cache entries past their TTL",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := engineConfig()
		if cfg.Cache.Path == "" {
			return fmt.Errorf("no cache path configured")
		}

		store, err := cache.NewStore(cfg.Cache)
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		defer store.Close()

		purged := store.PurgeExpired()
		fmt.Printf("Purged %d expired entries.\n", purged)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cachePurgeCmd)
	rootCmd.AddCommand(cacheCmd)
}
