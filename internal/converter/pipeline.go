// =============================================================================
// Catalog Feed Converter - File Pipeline
// =============================================================================
//
// Pipeline converts one input file end to end.
//
// PIPELINE:
//   1. Read the input into a Grid (CSV or spreadsheet, by extension)
//   2. Convert the Grid into the feed document
//   3. Write the document (skipped on dry runs)
//   4. Archive the input file (optional)
//
// A failure in steps 1-3 leaves no output file behind: the document is
// written to a temporary file that is renamed over the target only once
// complete. A failed archive is logged and does not fail the run, since the
// feed was already written.
//
// =============================================================================

package converter

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ginjaninja78/catalog-feed/internal/config"
	"github.com/ginjaninja78/catalog-feed/internal/tabular"
	"github.com/ginjaninja78/catalog-feed/internal/xmlwriter"
	"github.com/ginjaninja78/catalog-feed/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of processing a single file.
type Result struct {
	// RunID identifies the run in log lines.
	RunID string

	// FilePath is the path to the input file that was processed.
	FilePath string

	// OutputFile is the path to the generated XML file.
	// This is empty if processing failed or on a dry run.
	OutputFile string

	// ArchivePath is where the input was moved, if archived.
	ArchivePath string

	// Success indicates whether the processing was successful.
	Success bool

	// Error contains the error if processing failed.
	Error error

	// Stats contains conversion statistics.
	Stats Stats

	// ProcessingTime is the time taken to process the file.
	ProcessingTime time.Duration
}

// =============================================================================
// PIPELINE
// =============================================================================

// Job describes one file to convert.
type Job struct {
	// InputPath is the CSV or spreadsheet to read.
	InputPath string

	// OutputPath is where the feed is written. When empty, the path is
	// built from OutputDir and OutputNameFormat.
	OutputPath string

	// Archive moves the input to the archive directory after writing.
	Archive bool

	// DryRun converts without writing or archiving.
	DryRun bool
}

// Pipeline runs Jobs with one configuration.
type Pipeline struct {
	cfg       *config.MainConfig
	converter *Converter
	files     *utils.FileManager
}

// NewPipeline creates a Pipeline around conv.
func NewPipeline(cfg *config.MainConfig, conv *Converter) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		converter: conv,
		files:     utils.NewFileManager(cfg.OutputDir, cfg.InputArchiveDir),
	}
}

// Run executes the pipeline for job. ProcessingTime is set on every return,
// failed runs included.
func (p *Pipeline) Run(job Job) (result Result) {
	startTime := time.Now()
	defer func() {
		result.ProcessingTime = time.Since(startTime)
	}()

	result = Result{
		RunID:    uuid.New().String(),
		FilePath: job.InputPath,
	}
	logger := p.converter.logger

	logger.Info("processing file", "run_id", result.RunID, "input", job.InputPath)

	// =========================================================================
	// STEP 1: READ INPUT
	// =========================================================================

	grid, err := tabular.Read(job.InputPath, p.cfg.CSV)
	if err != nil {
		result.Error = fmt.Errorf("failed to read input: %w", err)
		return result
	}

	logger.Debug("read input", "run_id", result.RunID, "records", len(grid))

	// =========================================================================
	// STEP 2: CONVERT
	// =========================================================================

	doc, stats, err := p.converter.ConvertWithStats(grid)
	result.Stats = stats
	if err != nil {
		result.Error = fmt.Errorf("failed to convert %s: %w", job.InputPath, err)
		return result
	}

	// =========================================================================
	// STEP 3: WRITE OUTPUT
	// =========================================================================

	if job.DryRun {
		logger.Info("dry run, output not written", "run_id", result.RunID)
		result.Success = true
		return result
	}

	outputPath := job.OutputPath
	if outputPath == "" {
		outputPath, err = p.files.OutputPath(p.cfg.OutputNameFormat, job.InputPath)
		if err != nil {
			result.Error = fmt.Errorf("failed to prepare output: %w", err)
			return result
		}
	}

	written, err := xmlwriter.WriteFile(outputPath, doc)
	if err != nil {
		result.Error = fmt.Errorf("failed to write output: %w", err)
		return result
	}

	result.OutputFile = written
	logger.Info("wrote output", "run_id", result.RunID, "output", written)

	// =========================================================================
	// STEP 4: ARCHIVE INPUT
	// =========================================================================

	if job.Archive {
		archived, err := p.files.ArchiveInputFile(job.InputPath)
		if err != nil {
			// Log the error but don't fail the processing.
			logger.Warn("failed to archive input", "run_id", result.RunID, "error", err)
		} else {
			result.ArchivePath = archived
			logger.Debug("archived input", "run_id", result.RunID, "path", archived)
		}
	}

	result.Success = true

	return result
}
