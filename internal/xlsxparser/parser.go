// =============================================================================
// Catalog Feed Converter - XLSX Parser
// =============================================================================
//
// This module reads spreadsheet catalog exports into a types.Grid.
//
// SHEET SELECTION:
//   Only the active sheet is read (the sheet that was selected when the
//   workbook was last saved). Workbooks without an active sheet fall back
//   to the first sheet.
//
// CELL VALUES:
//   Cells are returned in their display form (number formats applied), the
//   way they appear to the person who maintains the catalog.
//
// ROW WIDTH:
//   Spreadsheets do not store trailing blank cells, so data rows are padded
//   with empty strings to the header width. Rows with no content at all are
//   skipped.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/catalog-feed/internal/types"
)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads the active sheet of an XLSX workbook.
//
// PARAMETERS:
//   - filePath: The path to the workbook.
//
// RETURNS:
//   - The grid with the header row first.
//   - An error if the file cannot be opened or the sheet is empty.
func Parse(filePath string) (types.Grid, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return parseWorkbook(f)
}

// ParseReader is Parse for an in-memory or streamed workbook.
func ParseReader(r io.Reader) (types.Grid, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return parseWorkbook(f)
}

func parseWorkbook(f *excelize.File) (types.Grid, error) {
	sheetName := activeSheetName(f)
	if sheetName == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %q: %w", sheetName, err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheetName)
	}

	width := len(rows[0])
	grid := make(types.Grid, 0, len(rows))
	grid = append(grid, rows[0])

	for _, row := range rows[1:] {
		if isRowEmpty(row) {
			continue
		}
		grid = append(grid, padRow(row, width))
	}

	return grid, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// activeSheetName returns the name of the active sheet, or of the first
// sheet when the active index does not resolve.
func activeSheetName(f *excelize.File) string {
	if name := f.GetSheetName(f.GetActiveSheetIndex()); name != "" {
		return name
	}
	return f.GetSheetName(0)
}

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// padRow extends row with empty cells up to width.
func padRow(row []string, width int) []string {
	if len(row) >= width {
		return row
	}
	padded := make([]string, width)
	copy(padded, row)
	return padded
}
