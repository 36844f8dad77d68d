// =============================================================================
// Catalog Feed Converter - File Manager Utility
// =============================================================================
//
// This module provides the file handling around a conversion:
//   - Output file naming from a placeholder format
//   - Input archival (moving converted files out of the way)
//   - Directory management
//
// ARCHIVAL STRATEGY:
//   - Input files are moved to the archive directory after a successful write
//   - Failed files remain in their original location
//   - An existing archive entry with the same name is never overwritten;
//     the new entry gets a timestamp suffix instead
//
// =============================================================================

package utils

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for the converter.
type FileManager struct {
	// OutputDir is the directory where generated feeds are placed.
	OutputDir string

	// InputArchiveDir is the directory for archived input files.
	InputArchiveDir string

	// now is replaced in tests.
	now func() time.Time
}

// NewFileManager creates a new FileManager with the specified directories.
func NewFileManager(outputDir, inputArchiveDir string) *FileManager {
	return &FileManager{
		OutputDir:       outputDir,
		InputArchiveDir: inputArchiveDir,
		now:             time.Now,
	}
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDir creates dir and its parents if they don't exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// OutputPath returns the path of the feed generated for inputPath, named
// with format, and makes sure the output directory exists.
func (fm *FileManager) OutputPath(format, inputPath string) (string, error) {
	if err := EnsureDir(fm.OutputDir); err != nil {
		return "", err
	}
	name := GenerateOutputFileName(format, inputPath, fm.now())
	return filepath.Join(fm.OutputDir, name), nil
}

// =============================================================================
// FILE ARCHIVAL
// =============================================================================

// ArchiveInputFile moves an input file to the archive directory.
//
// PARAMETERS:
//   - filePath: The path to the file to archive.
//
// RETURNS:
//   - The path to the archived file.
//   - An error if archival fails.
func (fm *FileManager) ArchiveInputFile(filePath string) (string, error) {
	if err := EnsureDir(fm.InputArchiveDir); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	archivePath := fm.getArchivePath(filePath)

	// Move the file.
	if err := os.Rename(filePath, archivePath); err != nil {
		// If rename fails (e.g., cross-device), try copy and delete.
		if err := copyFile(filePath, archivePath); err != nil {
			return "", fmt.Errorf("failed to copy file to archive: %w", err)
		}
		if err := os.Remove(filePath); err != nil {
			return "", fmt.Errorf("failed to remove original file: %w", err)
		}
	}

	return archivePath, nil
}

// getArchivePath constructs the archive path for a file. A name already
// taken in the archive gets a timestamp before its extension.
func (fm *FileManager) getArchivePath(filePath string) string {
	fileName := filepath.Base(filePath)
	archivePath := filepath.Join(fm.InputArchiveDir, fileName)

	if !FileExists(archivePath) {
		return archivePath
	}

	ext := filepath.Ext(fileName)
	stem := strings.TrimSuffix(fileName, ext)
	return filepath.Join(fm.InputArchiveDir,
		fmt.Sprintf("%s_%s%s", stem, fm.now().Format("20060102_150405"), ext))
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName generates an output file name.
//
// PARAMETERS:
//   - format: The format string for the file name.
//     Placeholders:
//     {uuid}      - A random UUID
//     {timestamp} - Timestamp (YYYYMMDD_HHMMSS)
//     {date}      - Date (YYYYMMDD)
//     {original}  - Input file name without extension
//   - inputPath: The input file the feed is generated from.
//   - now: The time used for {timestamp} and {date}.
//
// RETURNS:
//   - The generated file name, always ending in .xml.
//
// EXAMPLE:
//   format: "{original}_{date}.xml", inputPath: "in/catalog.csv"
//   output: "catalog_20240115.xml"
func GenerateOutputFileName(format, inputPath string, now time.Time) string {
	base := filepath.Base(inputPath)
	original := strings.TrimSuffix(base, filepath.Ext(base))

	replacer := strings.NewReplacer(
		"{uuid}", uuid.New().String(),
		"{timestamp}", now.Format("20060102_150405"),
		"{date}", now.Format("20060102"),
		"{original}", original,
	)
	result := replacer.Replace(format)

	// Ensure .xml extension.
	if !strings.HasSuffix(strings.ToLower(result), ".xml") {
		result += ".xml"
	}

	return result
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	return destFile.Sync()
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}
