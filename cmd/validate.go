// =============================================================================
// Catalog Feed Converter - Validate Command
// =============================================================================
//
// COMMAND USAGE:
//   catalogfeed validate <input> [--error-log path]
//
// Reads the input and reports every problem the convert command would stop
// at, plus soft value warnings, without writing a feed. Exits non-zero when
// any fatal problem is found.
//
// =============================================================================

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/catalog-feed/internal/converter"
	"github.com/ginjaninja78/catalog-feed/internal/tabular"
	"github.com/ginjaninja78/catalog-feed/internal/validation"
)

var errorLog string

var validateCmd = &cobra.Command{
	Use:   "validate <input>",
	Short: "Check a catalog file without converting it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&errorLog, "error-log", "",
		"Also write the report to this file")
}

func runValidate(cmd *cobra.Command, inputPath string) error {
	grid, err := tabular.Read(inputPath, appConfig.CSV)
	if err != nil {
		return err
	}

	result := validation.ValidateGrid(grid, converter.RequiredColumns, converter.BooleanColumns)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Rows checked: %d\n", result.RowsValidated)
	fmt.Fprintln(out, strings.TrimRight(validation.FormatErrors(result.Errors), "\n"))

	if errorLog != "" && len(result.Errors) > 0 {
		if err := validation.WriteErrorLog(result.Errors, inputPath, errorLog); err != nil {
			return err
		}
	}

	if !result.IsValid() {
		return fmt.Errorf("%s: %d error(s), %d warning(s)", inputPath, result.ErrorCount, result.WarningCount)
	}
	return nil
}
