package converter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/catalog-feed/internal/config"
	"github.com/ginjaninja78/catalog-feed/internal/tabular"
	"github.com/ginjaninja78/catalog-feed/internal/validation"
)

func writeCSV(t *testing.T, dir string, rows ...[]string) string {
	t.Helper()
	lines := []string{strings.Join(RequiredColumns, ",")}
	for _, row := range rows {
		lines = append(lines, strings.Join(row, ","))
	}
	path := filepath.Join(dir, "catalog.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\r\n")+"\r\n"), 0644))
	return path
}

func newTestPipeline(t *testing.T, dir string) *Pipeline {
	t.Helper()
	cfg := config.Default()
	cfg.OutputDir = filepath.Join(dir, "output")
	cfg.InputArchiveDir = filepath.Join(dir, "archive")
	return NewPipeline(cfg, newTestConverter(t, cfg))
}

func TestPipeline_Run_CSV(t *testing.T) {
	dir := t.TempDir()
	input := writeCSV(t, dir,
		productRow("B1", "Acme", "C1", "Widgets", "P1"),
		productRow("B1", "Acme", "C1", "Widgets", "P2"),
	)

	result := newTestPipeline(t, dir).Run(Job{
		InputPath:  input,
		OutputPath: filepath.Join(dir, "feed"),
	})

	require.NoError(t, result.Error)
	assert.True(t, result.Success)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, filepath.Join(dir, "feed.xml"), result.OutputFile)
	assert.Equal(t, Stats{RowsProcessed: 2, Brands: 1, Categories: 1, Products: 2}, result.Stats)

	data, err := os.ReadFile(result.OutputFile)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<ExtractDate>2024-01-15</ExtractDate>\n"))
	assert.FileExists(t, input, "input is not archived by default")
}

func TestPipeline_Run_XLSX(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "catalog.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	header := make([]any, len(RequiredColumns))
	for i, name := range RequiredColumns {
		header[i] = name
	}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))
	row := productRow("B1", "Acme", "C1", "Widgets", "P1")
	values := make([]any, len(row))
	for i, v := range row {
		values[i] = v
	}
	require.NoError(t, f.SetSheetRow(sheet, "A2", &values))
	require.NoError(t, f.SaveAs(input))
	require.NoError(t, f.Close())

	result := newTestPipeline(t, dir).Run(Job{InputPath: input, OutputPath: filepath.Join(dir, "feed.xml")})

	require.NoError(t, result.Error)
	assert.Equal(t, 1, result.Stats.Products)
}

func TestPipeline_Run_DefaultOutputNameAndArchive(t *testing.T) {
	dir := t.TempDir()
	input := writeCSV(t, dir, productRow("B1", "Acme", "C1", "Widgets", "P1"))

	result := newTestPipeline(t, dir).Run(Job{InputPath: input, Archive: true})

	require.NoError(t, result.Error)
	assert.Equal(t, filepath.Join(dir, "output", "catalog.xml"), result.OutputFile)
	assert.FileExists(t, result.OutputFile)
	assert.Equal(t, filepath.Join(dir, "archive", "catalog.csv"), result.ArchivePath)
	assert.NoFileExists(t, input)
}

func TestPipeline_Run_DryRun(t *testing.T) {
	dir := t.TempDir()
	input := writeCSV(t, dir, productRow("B1", "Acme", "C1", "Widgets", "P1"))

	result := newTestPipeline(t, dir).Run(Job{InputPath: input, DryRun: true, Archive: true})

	require.NoError(t, result.Error)
	assert.True(t, result.Success)
	assert.Empty(t, result.OutputFile)
	assert.NoDirExists(t, filepath.Join(dir, "output"))
	assert.FileExists(t, input)
}

func TestPipeline_Run_Failures(t *testing.T) {
	dir := t.TempDir()

	shortRow := filepath.Join(dir, "short.csv")
	require.NoError(t, os.WriteFile(shortRow, []byte(strings.Join(RequiredColumns, ",")+"\nB1,Acme\n"), 0644))

	missingColumn := filepath.Join(dir, "missing.csv")
	require.NoError(t, os.WriteFile(missingColumn, []byte("BrandID,Brand\nB1,Acme\n"), 0644))

	tests := []struct {
		name   string
		input  string
		target error
	}{
		{"unsupported extension", filepath.Join(dir, "catalog.json"), tabular.ErrUnsupportedFormat},
		{"short row", shortRow, validation.ErrRowShape},
		{"missing column", missingColumn, validation.ErrMissingColumn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := filepath.Join(dir, tt.name+".xml")

			result := newTestPipeline(t, dir).Run(Job{InputPath: tt.input, OutputPath: output})

			assert.False(t, result.Success)
			assert.ErrorIs(t, result.Error, tt.target)
			assert.NoFileExists(t, output)
			assert.NotZero(t, result.ProcessingTime)
		})
	}
}

func TestPipeline_Run_MissingInput(t *testing.T) {
	dir := t.TempDir()

	result := newTestPipeline(t, dir).Run(Job{InputPath: filepath.Join(dir, "absent.csv")})

	assert.False(t, result.Success)
	assert.ErrorIs(t, result.Error, os.ErrNotExist)
	assert.NotZero(t, result.ProcessingTime)
}

func TestPipeline_Run_WriteFailure(t *testing.T) {
	dir := t.TempDir()
	input := writeCSV(t, dir, productRow("B1", "Acme", "C1", "Widgets", "P1"))

	// A directory at the target path makes the final rename fail.
	outDir := filepath.Join(dir, "out")
	target := filepath.Join(outDir, "feed.xml")
	require.NoError(t, os.MkdirAll(target, 0755))

	result := newTestPipeline(t, dir).Run(Job{InputPath: input, OutputPath: target, Archive: true})

	assert.False(t, result.Success)
	assert.ErrorContains(t, result.Error, "failed to write output")
	assert.Empty(t, result.OutputFile)
	assert.Empty(t, result.ArchivePath)
	assert.FileExists(t, input)
	assert.NotZero(t, result.ProcessingTime)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].IsDir())
}
