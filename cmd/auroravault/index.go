package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/wfallow/auroravault/internal/catalog"
	"github.com/wfallow/auroravault/internal/utils"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Scan the game directory into a SQLite catalog",
	Long: `Index walks the game directory, lists every container it finds, and
stores the location of every resource (loose files and container
entries) in a SQLite catalog for later queries.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		start := time.Now()

		slog.Info("Scanning game directory", "dir", cfg.GameDir)

		resources, err := catalog.Scan(cfg.GameDir)
		if err != nil {
			return fmt.Errorf("scanning game directory: %w", err)
		}

		cat, err := catalog.Open(catalog.DefaultOptions(cfg.Database))
		if err != nil {
			return fmt.Errorf("opening catalog: %w", err)
		}
		defer cat.Close()

		if err := cat.Insert(ctx, resources); err != nil {
			return fmt.Errorf("storing catalog entries: %w", err)
		}

		slog.Info("Catalog built",
			"resources", utils.Number(int64(len(resources))),
			"database", cfg.Database,
			"duration", utils.Duration(time.Since(start)))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
}
