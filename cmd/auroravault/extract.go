package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/wfallow/auroravault/internal/cache"
	"github.com/wfallow/auroravault/internal/resource"
	"github.com/wfallow/auroravault/internal/utils"
)

var outputDir string

var extractCmd = &cobra.Command{
	Use:   "extract <path>...",
	Short: "Extract resources to disk",
	Long: `Extract resolves each given path, which may cross container
boundaries (e.g. modules/outer.mod/inner.sav/creature.utc), and writes
the resource bytes into the output directory.

A resource that cannot be found or a container that cannot be parsed is
logged and skipped; the remaining paths are still extracted.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()

		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}

		var dataCache *cache.DataCache
		if !cfg.NoCache {
			dataCache = cache.New()
		}

		progress := utils.NewProgress(len(args), !(noProgress || cfg.LogFormat == "json" || cfg.LogLevel == "debug"))

		extracted := 0
		skipped := 0
		var totalBytes int64

		for i, path := range args {
			progress.Update(i+1, filepath.Base(path))

			res, err := resource.Locate(path)
			if err != nil {
				slog.Error("Failed to locate resource", "path", path, "error", err)
				skipped++
				continue
			}
			res.AttachCache(dataCache)

			data, err := res.Data(true)
			if err != nil {
				var notFound *resource.NotFoundError
				if errors.As(err, &notFound) {
					slog.Error("Resource not found", "path", notFound.Path)
				} else {
					slog.Error("Failed to read resource", "path", path, "error", err)
				}
				skipped++
				continue
			}

			outPath := filepath.Join(outputDir, res.Identifier().String())
			if err := os.WriteFile(outPath, data, 0644); err != nil {
				slog.Error("Failed to write output file", "path", outPath, "error", err)
				skipped++
				continue
			}

			slog.Debug("Extracted resource", "path", path, "output", outPath, "bytes", len(data))
			extracted++
			totalBytes += int64(len(data))
		}

		progress.Finish()

		slog.Info("Extraction complete",
			"extracted", extracted,
			"skipped", skipped,
			"bytes", utils.Bytes(totalBytes),
			"duration", utils.Duration(time.Since(start)))

		return nil
	},
}

func init() {
	extractCmd.Flags().StringVarP(&outputDir, "output", "o", ".", "directory to write extracted resources into")
	rootCmd.AddCommand(extractCmd)
}
