package main

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/spf13/cobra"
	"github.com/wfallow/auroravault/internal/catalog"
	"github.com/wfallow/auroravault/internal/restype"
	"github.com/wfallow/auroravault/internal/utils"
)

var (
	queryName string
	queryType string
	queryStat bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query the resource catalog",
	Long: `Query looks up resource locations in a catalog previously built with
the index command, or prints per-type counts with --stats.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		cat, err := catalog.Open(catalog.DefaultOptions(cfg.Database))
		if err != nil {
			return fmt.Errorf("opening catalog: %w", err)
		}
		defer cat.Close()

		if queryStat {
			counts, err := cat.CountByType(ctx)
			if err != nil {
				return fmt.Errorf("counting resources: %w", err)
			}

			names := make([]string, 0, len(counts))
			for name := range counts {
				names = append(names, name)
			}
			sort.Strings(names)

			var total int64
			fmt.Printf("%-10s %12s\n", "Type", "Resources")
			for _, name := range names {
				fmt.Printf("%-10s %12s\n", name, utils.Number(counts[name]))
				total += counts[name]
			}
			fmt.Printf("%-10s %12s\n", "total", utils.Number(total))
			return nil
		}

		if queryName == "" {
			return fmt.Errorf("either --name or --stats is required")
		}

		typ := restype.Invalid
		if queryType != "" {
			typ = restype.FromExtension(queryType)
			if typ.IsInvalid() {
				return fmt.Errorf("unknown resource type %q", queryType)
			}
		}

		slog.Debug("Querying catalog", "name", queryName, "type", typ)

		results, err := cat.Find(ctx, queryName, typ)
		if err != nil {
			return fmt.Errorf("querying catalog: %w", err)
		}
		if len(results) == 0 {
			fmt.Printf("No resources named %q in catalog\n", queryName)
			return nil
		}

		fmt.Printf("%-20s %-10s %-40s %10s %10s\n", "Name", "Type", "Location", "Offset", "Size")
		for _, r := range results {
			fmt.Printf("%-20s %-10s %-40s %10d %10d\n",
				r.Name(), r.Type(), r.Filepath(), r.Offset(), r.Size())
		}

		return nil
	},
}

func init() {
	queryCmd.Flags().StringVar(&queryName, "name", "", "resource name to look up")
	queryCmd.Flags().StringVar(&queryType, "type", "", "restrict lookup to a resource type (by extension)")
	queryCmd.Flags().BoolVar(&queryStat, "stats", false, "print per-type resource counts")
	rootCmd.AddCommand(queryCmd)
}
