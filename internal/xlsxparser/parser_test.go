package xlsxparser

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writeWorkbook saves rows to the named sheet of a new workbook and makes it
// the active sheet when active is true.
func writeWorkbook(t *testing.T, sheets map[string][][]any, active string) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for name, rows := range sheets {
		if name != "Sheet1" {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}

	idx, err := f.GetSheetIndex(active)
	require.NoError(t, err)
	f.SetActiveSheet(idx)

	path := filepath.Join(t.TempDir(), "catalog.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestParse_ActiveSheet(t *testing.T) {
	path := writeWorkbook(t, map[string][][]any{
		"Sheet1": {
			{"Ignored"},
			{"value"},
		},
		"Catalog": {
			{"BrandID", "Brand"},
			{"B1", "Acme"},
		},
	}, "Catalog")

	grid, err := Parse(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"BrandID", "Brand"}, grid.Header())
	require.Len(t, grid.DataRows(), 1)
	assert.Equal(t, []string{"B1", "Acme"}, grid.DataRows()[0])
}

func TestParse_NumbersAsText(t *testing.T) {
	path := writeWorkbook(t, map[string][][]any{
		"Sheet1": {
			{"ProductID", "UPC"},
			{"P1", 111},
		},
	}, "Sheet1")

	grid, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, "111", grid[1][1])
}

func TestParse_PadsAndSkipsRows(t *testing.T) {
	path := writeWorkbook(t, map[string][][]any{
		"Sheet1": {
			{"a", "b", "c"},
			{"1"},
			{},
			{"2", "x", "y"},
		},
	}, "Sheet1")

	grid, err := Parse(path)
	require.NoError(t, err)

	require.Len(t, grid.DataRows(), 2)
	assert.Equal(t, []string{"1", "", ""}, grid.DataRows()[0])
	assert.Equal(t, []string{"2", "x", "y"}, grid.DataRows()[1])
}

func TestParse_EmptySheet(t *testing.T) {
	path := writeWorkbook(t, map[string][][]any{"Sheet1": {}}, "Sheet1")

	_, err := Parse(path)
	assert.Error(t, err)
}

func TestParse_NotAWorkbook(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Error(t, err)
}

func TestPadRow(t *testing.T) {
	assert.Equal(t, []string{"a", "", ""}, padRow([]string{"a"}, 3))
	assert.Equal(t, []string{"a", "b"}, padRow([]string{"a", "b"}, 1))
}
