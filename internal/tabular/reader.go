// Package tabular selects the reader for an input file by its extension and
// returns the file as a types.Grid.
package tabular

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/catalog-feed/internal/config"
	"github.com/ginjaninja78/catalog-feed/internal/csvparser"
	"github.com/ginjaninja78/catalog-feed/internal/types"
	"github.com/ginjaninja78/catalog-feed/internal/xlsxparser"
)

// ErrUnsupportedFormat is returned for input files whose extension has no reader.
var ErrUnsupportedFormat = errors.New("unsupported input format")

// Format identifies an input file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// DetectFormat maps a file extension (case-insensitive) to a Format.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Read loads the whole file at path. The format check happens before the
// file is opened.
func Read(path string, settings config.CSVSettings) (types.Grid, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	var grid types.Grid
	switch format {
	case FormatCSV:
		grid, err = csvparser.Parse(path, settings)
	case FormatXLSX:
		grid, err = xlsxparser.Parse(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}

	return grid, nil
}
