// =============================================================================
// Catalog Feed Converter - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - csvparser / xlsxparser / tabular (producers)
//   - validation
//   - converter (consumer)
//
// =============================================================================

package types

// =============================================================================
// GRID
// =============================================================================

// Grid is the in-memory form of a tabular input file.
// Row 0 is the header row; every following row is a data row.
// Cells are kept exactly as read (no trimming).
type Grid [][]string

// Header returns the header row, or nil for an empty grid.
func (g Grid) Header() []string {
	if len(g) == 0 {
		return nil
	}
	return g[0]
}

// DataRows returns every row after the header row.
func (g Grid) DataRows() [][]string {
	if len(g) < 2 {
		return nil
	}
	return g[1:]
}

// RecordNumber converts a 0-based data row index into the 1-based record
// number of that row in the source file (the header is record 1).
func RecordNumber(dataIndex int) int {
	return dataIndex + 2
}
