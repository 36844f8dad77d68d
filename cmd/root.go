// =============================================================================
// Catalog Feed Converter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All other commands
// are attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (catalogfeed)
//   ├── convertCmd  (catalogfeed convert)
//   ├── validateCmd (catalogfeed validate)
//   ├── fetchCmd    (catalogfeed fetch)
//   └── versionCmd  (catalogfeed version)
//
// CONFIGURATION:
//   Before any subcommand runs, the root command:
//   1. Loads a .env file from the working directory, if present
//   2. Loads the main configuration (--config)
//   3. Sets up logging
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/catalog-feed/internal/config"
	"github.com/ginjaninja78/catalog-feed/internal/logging"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// verbose forces debug logging.
var verbose bool

// appConfig is loaded by the root command before any subcommand runs.
var appConfig *config.MainConfig

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "catalogfeed",
	Short: "Catalog Feed Converter - Turn catalog spreadsheets into product XML feeds",
	Long: `Catalog Feed Converter reads a product catalog exported as CSV or XLSX and
writes an XML feed of Brand, Category and Product elements.

Each row describes one product together with its brand and category. Brands,
categories and products are written once each, in the order their ids first
appear in the input.

Example Usage:
  catalogfeed convert catalog.csv feed.xml   # Convert to an explicit path
  catalogfeed convert catalog.xlsx --archive # Write to output_dir, archive input
  catalogfeed validate catalog.csv           # Check the input only`,

	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. This is called by main.main().
func Execute() {
	rootCmd.SilenceErrors = true
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		config.DefaultConfigFile,
		"Path to the main configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}

// initConfig loads .env, the configuration file and sets up logging.
func initConfig() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, err := config.LoadMainConfig(cfgFile)
	if err != nil {
		return err
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	logging.Setup(level, cfg.LogFormat)

	slog.Debug("configuration loaded", "config", cfgFile, "output_dir", cfg.OutputDir)

	appConfig = cfg
	return nil
}
