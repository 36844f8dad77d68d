package cmd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/catalog-feed/internal/converter"
	"github.com/ginjaninja78/catalog-feed/internal/validation"
)

const sampleRow = "B1,Acme,C1,Widgets,P1,Gadget,http://x/p,http://x/i,desc,False,M1,MPN1,111,222,fam,exp"

// execute runs the root command in a fresh working directory.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return out.String(), err
}

func writeInput(t *testing.T, dir, name string, rows ...string) string {
	t.Helper()
	body := strings.Join(converter.RequiredColumns, ",") + "\n" + strings.Join(rows, "\n") + "\n"
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestConvertCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	input := writeInput(t, dir, "catalog.csv", sampleRow, sampleRow)
	metrics := filepath.Join(dir, "catalogfeed.prom")

	out, err := execute(t, "convert", input, filepath.Join(dir, "feed"),
		"--date", "2024-01-15",
		"--metrics-file", metrics,
		"--archive=false",
		"--dry-run=false",
		"--output-dir", "",
	)
	require.NoError(t, err)

	assert.Contains(t, out, "catalog.csv -> "+filepath.Join(dir, "feed.xml"))
	assert.Contains(t, out, "Products:     1")

	data, err := os.ReadFile(filepath.Join(dir, "feed.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "<ExtractDate>2024-01-15</ExtractDate>")
	assert.Equal(t, 1, strings.Count(string(data), "<Brand>"))

	prom, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "catalogfeed_rows_processed_total 2")
}

func TestConvertCommand_DefaultOutput(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	input := writeInput(t, dir, "catalog.csv", sampleRow)

	_, err := execute(t, "convert", input,
		"--output-dir", filepath.Join(dir, "feeds"),
		"--date", "2024-01-15",
		"--metrics-file", "",
		"--archive=true",
		"--dry-run=false",
	)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "feeds", "catalog.xml"))
	assert.FileExists(t, filepath.Join(dir, "input_archive", "catalog.csv"))
	assert.NoFileExists(t, input)
}

func TestConvertCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	input := writeInput(t, dir, "catalog.csv", "B1,Acme")

	_, err := execute(t, "convert", input, filepath.Join(dir, "feed.xml"),
		"--date", "2024-01-15", "--metrics-file", "", "--archive=false", "--dry-run=false", "--output-dir", "")
	assert.ErrorIs(t, err, validation.ErrRowShape)
	assert.NoFileExists(t, filepath.Join(dir, "feed.xml"))

	_, err = execute(t, "convert", input, "--date", "15/01/2024")
	assert.ErrorContains(t, err, "invalid --date")
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	good := writeInput(t, dir, "good.csv", sampleRow)
	out, err := execute(t, "validate", good, "--error-log", "")
	require.NoError(t, err)
	assert.Contains(t, out, "Rows checked: 1")
	assert.Contains(t, out, "No validation errors.")

	bad := writeInput(t, dir, "bad.csv", sampleRow, "B1,Acme")
	report := filepath.Join(dir, "errors.log")
	out, err = execute(t, "validate", bad, "--error-log", report)
	require.Error(t, err)
	assert.Contains(t, out, "[ERROR] row 3")
	assert.FileExists(t, report)
}

func TestFetchCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer abc" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"page":"` + r.URL.Query().Get("page") + `"}`))
	}))
	defer srv.Close()

	out, err := execute(t, "fetch", srv.URL, "-H", "Authorization=Bearer abc", "-p", "page=2")
	require.NoError(t, err)
	assert.Contains(t, out, `"page": "2"`)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Catalog Feed Converter")
	assert.Contains(t, out, "Version:    "+Version)
}

func TestParseKeyValues(t *testing.T) {
	got, err := parseKeyValues([]string{"a=1", "b=x=y", "c="})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1", "b": "x=y", "c": ""}, got)

	_, err = parseKeyValues([]string{"novalue"})
	assert.Error(t, err)

	_, err = parseKeyValues([]string{"=v"})
	assert.Error(t, err)

	got, err = parseKeyValues(nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}
