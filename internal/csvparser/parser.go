// =============================================================================
// Catalog Feed Converter - CSV Parser Module
// =============================================================================
//
// This module reads delimited-text catalog exports into a types.Grid.
//
// FEATURES:
//   - Legacy 8-bit encodings (Windows-1252 by default) decoded to UTF-8
//   - Configurable single-character delimiter
//   - Cells are returned verbatim; whitespace is significant downstream
//     (EAN/UPC tokens are split without trimming)
//   - Rows of any width are returned; row-shape checks belong to validation,
//     which can report the offending record number
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/transform"

	"github.com/ginjaninja78/catalog-feed/internal/config"
	"github.com/ginjaninja78/catalog-feed/internal/types"
)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a CSV file and returns its rows, header row first.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//   - settings: Delimiter and encoding settings.
//
// RETURNS:
//   - The grid of decoded cells.
//   - An error if the file cannot be opened, decoded or parsed, or is empty.
func Parse(filePath string, settings config.CSVSettings) (types.Grid, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return ParseReader(bufio.NewReader(file), settings)
}

// ParseReader is Parse for an already open source.
func ParseReader(r io.Reader, settings config.CSVSettings) (types.Grid, error) {
	enc, err := settings.ResolveEncoding()
	if err != nil {
		return nil, err
	}

	decoded := transform.NewReader(r, enc.NewDecoder())

	csvReader := csv.NewReader(decoded)
	configureReader(csvReader, settings)

	allRows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	if len(allRows) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}

	return types.Grid(allRows), nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings config.CSVSettings) {
	reader.Comma = settings.DelimiterRune()

	// Short rows are reported by validation with their record number
	// instead of a generic csv.ErrFieldCount.
	reader.FieldsPerRecord = -1

	// Legacy exports contain stray quotes inside unquoted fields.
	reader.LazyQuotes = true
}
