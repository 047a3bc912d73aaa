package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Simplici0/wellwise/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Save the sample scenarios that are not stored yet",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		tables, _, err := loadTables(ctx)
		if err != nil {
			return err
		}
		store, closeStore, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer closeStore() //nolint:errcheck

		stats, err := seed.Run(ctx, store, tables)
		if err != nil {
			return err
		}
		zap.L().Info("seed complete", zap.Int("inserts", stats.Inserts))
		fmt.Printf("Seeded %d scenario(s).\n", stats.Inserts)
		return nil
	},
}
