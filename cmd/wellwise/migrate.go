package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Simplici0/wellwise/internal/config"
	"github.com/Simplici0/wellwise/internal/db"
	"github.com/Simplici0/wellwise/internal/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations to the SQLite store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if cfg.Store.Driver != config.StoreSQLite {
			fmt.Printf("Store driver %q has no schema; nothing to migrate.\n", cfg.Store.Driver)
			return nil
		}

		database, err := db.Open(cfg.Store.SQLitePath)
		if err != nil {
			return eris.Wrap(err, "open sqlite store")
		}
		defer database.Close() //nolint:errcheck

		if err := migrations.Up(database); err != nil {
			return eris.Wrap(err, "migrate")
		}
		version, err := migrations.Version(database)
		if err != nil {
			return eris.Wrap(err, "read schema version")
		}

		zap.L().Info("migrations applied", zap.String("path", cfg.Store.SQLitePath), zap.Int64("version", version))
		fmt.Printf("Schema at version %d (%s).\n", version, cfg.Store.SQLitePath)
		return nil
	},
}
