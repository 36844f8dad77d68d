// =============================================================================
// Catalog Feed Converter - Validation Engine
// =============================================================================
//
// This module checks a grid before (and while) it is converted:
//   - Header-level: every required column name is present in row 0
//   - Row-level: every data row has at least as many cells as the header
//   - Value-level: soft checks that only produce warnings
//
// ERROR HANDLING:
//   The converter uses IndexColumns and CheckRowShape and stops at the first
//   failure. ValidateGrid collects every problem instead, for reporting.
//   Fatal problems unwrap to ErrMissingColumn or ErrRowShape.
//
// =============================================================================

package validation

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ginjaninja78/catalog-feed/internal/types"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

var (
	// ErrMissingColumn marks a required header absent from the header row.
	ErrMissingColumn = errors.New("missing required column")

	// ErrRowShape marks a data row with fewer cells than the header row.
	ErrRowShape = errors.New("row has fewer cells than header")
)

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// ValidationError represents a single validation problem.
type ValidationError struct {
	// Severity is SeverityError (fatal) or SeverityWarning.
	Severity string

	// Row is the 1-based record number in the source file; 1 is the
	// header row.
	Row int

	// Field is the column involved, if any.
	Field string

	// Value is the offending cell value, if any.
	Value string

	// Message is a human-readable description.
	Message string

	err error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] row %d", strings.ToUpper(e.Severity), e.Row)
	if e.Field != "" {
		fmt.Fprintf(&b, ", field '%s'", e.Field)
	}
	fmt.Fprintf(&b, ": %s", e.Message)
	if e.Value != "" {
		fmt.Fprintf(&b, " (value: '%s')", e.Value)
	}
	return b.String()
}

// Unwrap exposes the sentinel error for errors.Is.
func (e *ValidationError) Unwrap() error {
	return e.err
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// ValidationResult contains the results of ValidateGrid.
type ValidationResult struct {
	// Columns is the header lookup; nil when required columns are missing.
	Columns ColumnIndex

	// Errors contains all problems, warnings included, in row order.
	Errors []*ValidationError

	ErrorCount   int
	WarningCount int

	// RowsValidated is the number of data rows inspected.
	RowsValidated int
}

// IsValid is true if there are no fatal errors.
func (r *ValidationResult) IsValid() bool {
	return r.ErrorCount == 0
}

func (r *ValidationResult) add(e *ValidationError) {
	r.Errors = append(r.Errors, e)
	if e.Severity == SeverityError {
		r.ErrorCount++
	} else {
		r.WarningCount++
	}
}

// =============================================================================
// HEADER VALIDATION
// =============================================================================

// ColumnIndex maps header names to cell positions.
type ColumnIndex map[string]int

// IndexColumns builds the name to position lookup for header and checks that
// every required name is present. When a name appears more than once the
// first position wins.
//
// RETURNS:
//   - The lookup, covering every header cell.
//   - A *ValidationError wrapping ErrMissingColumn naming all absent columns.
func IndexColumns(header []string, required []string) (ColumnIndex, error) {
	index := make(ColumnIndex, len(header))
	for i, name := range header {
		if _, exists := index[name]; !exists {
			index[name] = i
		}
	}

	var missing []string
	for _, name := range required {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		return nil, &ValidationError{
			Severity: SeverityError,
			Row:      1,
			Field:    strings.Join(missing, ", "),
			Message:  ErrMissingColumn.Error(),
			err:      ErrMissingColumn,
		}
	}

	return index, nil
}

// =============================================================================
// ROW VALIDATION
// =============================================================================

// CheckRowShape returns a *ValidationError wrapping ErrRowShape if row has
// fewer than width cells. dataIndex is the 0-based position among data rows.
func CheckRowShape(row []string, width, dataIndex int) error {
	if len(row) >= width {
		return nil
	}
	return &ValidationError{
		Severity: SeverityError,
		Row:      types.RecordNumber(dataIndex),
		Message:  fmt.Sprintf("%s: got %d, want %d", ErrRowShape.Error(), len(row), width),
		err:      ErrRowShape,
	}
}

// CheckBoolean warns about values that are not "true" or "false" in any
// letter case. Returns nil for valid values.
func CheckBoolean(field, value string, dataIndex int) *ValidationError {
	switch strings.ToLower(value) {
	case "true", "false":
		return nil
	}
	return &ValidationError{
		Severity: SeverityWarning,
		Row:      types.RecordNumber(dataIndex),
		Field:    field,
		Value:    value,
		Message:  "expected true or false",
	}
}

// =============================================================================
// GRID VALIDATION
// =============================================================================

// ValidateGrid checks the whole grid without stopping at the first problem.
//
// PARAMETERS:
//   - grid: The grid to check.
//   - required: Column names that must be present.
//   - booleanFields: Columns whose values should be true/false.
//
// RETURNS:
//   - The collected result. Row checks are skipped when columns are missing.
func ValidateGrid(grid types.Grid, required, booleanFields []string) *ValidationResult {
	result := &ValidationResult{}

	columns, err := IndexColumns(grid.Header(), required)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			result.add(ve)
		}
		return result
	}
	result.Columns = columns

	width := len(grid.Header())
	for i, row := range grid.DataRows() {
		result.RowsValidated++

		if err := CheckRowShape(row, width, i); err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) {
				result.add(ve)
			}
			continue
		}

		for _, field := range booleanFields {
			pos, ok := columns[field]
			if !ok {
				continue
			}
			if warning := CheckBoolean(field, row[pos], i); warning != nil {
				result.add(warning)
			}
		}
	}

	return result
}

// =============================================================================
// ERROR FORMATTING
// =============================================================================

// FormatErrors formats validation errors for display or logging.
func FormatErrors(errors []*ValidationError) string {
	if len(errors) == 0 {
		return "No validation errors."
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Validation completed with %d problem(s):\n\n", len(errors)))

	for i, err := range errors {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, err.Error()))
	}

	return builder.String()
}

// WriteErrorLog writes a timestamped report of errors to filePath.
func WriteErrorLog(errors []*ValidationError, sourceFile, filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create error log: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	fmt.Fprintf(writer, "Source:    %s\n", sourceFile)
	fmt.Fprintf(writer, "Generated: %s\n\n", time.Now().Format(time.RFC3339))
	writer.WriteString(FormatErrors(errors))

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to write error log: %w", err)
	}
	return nil
}
