// =============================================================================
// Catalog Feed Converter - Convert Command
// =============================================================================
//
// This file defines the 'convert' command, the main command of the tool.
//
// COMMAND USAGE:
//   catalogfeed convert <input> [output] [flags]
//
// FLAGS:
//   --output-dir   : Directory for generated feeds when [output] is omitted
//   --archive      : Move the input to input_archive_dir after writing
//   --dry-run      : Convert without writing any file
//   --metrics-file : Write run counters in prometheus text format
//   --date         : Extract date to embed (YYYY-MM-DD), default today
//
// =============================================================================

package cmd

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/catalog-feed/internal/converter"
	"github.com/ginjaninja78/catalog-feed/internal/observability"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	outputDir   string
	archive     bool
	dryRun      bool
	metricsFile string
	extractDate string
)

// =============================================================================
// CONVERT COMMAND DEFINITION
// =============================================================================

var convertCmd = &cobra.Command{
	Use:   "convert <input> [output]",
	Short: "Convert a CSV or XLSX catalog into an XML feed",
	Long: `The convert command reads a catalog file (.csv or .xlsx) and writes the
XML feed. When [output] is omitted the feed is written to the output
directory, named by output_name_format. ".xml" is appended to output paths
that lack it.

The conversion is all-or-nothing: a missing required column or a row with
fewer cells than the header aborts the run and no file is written.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		job := converter.Job{
			InputPath: args[0],
			Archive:   archive,
			DryRun:    dryRun,
		}
		if len(args) == 2 {
			job.OutputPath = args[1]
		}
		return runConvert(cmd, job)
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVar(&outputDir, "output-dir", "",
		"Directory for generated feeds (overrides output_dir)")
	convertCmd.Flags().BoolVar(&archive, "archive", false,
		"Move the input file to the archive directory after a successful write")
	convertCmd.Flags().BoolVar(&dryRun, "dry-run", false,
		"Convert without writing output files")
	convertCmd.Flags().StringVar(&metricsFile, "metrics-file", "",
		"Write run metrics to this file (overrides metrics_file)")
	convertCmd.Flags().StringVar(&extractDate, "date", "",
		"Extract date to embed in the feed, YYYY-MM-DD (default today)")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runConvert(cmd *cobra.Command, job converter.Job) error {
	cfg := *appConfig
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if metricsFile != "" {
		cfg.MetricsFile = metricsFile
	}

	conv := converter.New(&cfg)
	if extractDate != "" {
		date, err := time.Parse(converter.ExtractDateLayout, extractDate)
		if err != nil {
			return fmt.Errorf("invalid --date %q: %w", extractDate, err)
		}
		conv.SetClock(func() time.Time { return date })
	}

	result := converter.NewPipeline(&cfg, conv).Run(job)

	if cfg.MetricsFile != "" {
		metrics := observability.New()
		metrics.Observe(result)
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			slog.Warn("metrics not written", "path", cfg.MetricsFile, "error", err)
		}
	}

	if result.Error != nil {
		return result.Error
	}

	printSummary(cmd, result)
	return nil
}

func printSummary(cmd *cobra.Command, result converter.Result) {
	out := cmd.OutOrStdout()
	target := result.OutputFile
	if target == "" {
		target = "(dry run)"
	}

	fmt.Fprintf(out, "%s -> %s\n", filepath.Base(result.FilePath), target)
	fmt.Fprintf(out, "Rows:         %d\n", result.Stats.RowsProcessed)
	fmt.Fprintf(out, "Brands:       %d\n", result.Stats.Brands)
	fmt.Fprintf(out, "Categories:   %d\n", result.Stats.Categories)
	fmt.Fprintf(out, "Products:     %d\n", result.Stats.Products)
	if result.Stats.Warnings > 0 {
		fmt.Fprintf(out, "Warnings:     %d\n", result.Stats.Warnings)
	}
	if result.ArchivePath != "" {
		fmt.Fprintf(out, "Archived to:  %s\n", result.ArchivePath)
	}
	fmt.Fprintf(out, "Time elapsed: %s\n", result.ProcessingTime)
}
