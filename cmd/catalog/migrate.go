package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/online_catalog/internal/config"
	"github.com/Skotchmaster/online_catalog/internal/db"
	"github.com/Skotchmaster/online_catalog/internal/logging"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the catalog schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		gdb, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeStore(gdb)

		if err := db.Migrate(gdb); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logger.Info("migrate_done", "driver", cfg.DBDriver)
		return nil
	},
}
