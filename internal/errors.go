package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

var (
	// ErrMetadataMissing means the camera make could not be read.
	ErrMetadataMissing = errors.New("camera make missing from metadata")
	// ErrTimestampUnavailable means the capture time is absent or unparsable.
	ErrTimestampUnavailable = errors.New("capture time unavailable")
	// ErrInvalidImage means the pixels could not be decoded or have no area.
	ErrInvalidImage = errors.New("invalid image")
)

// ErrorCategory represents the type of error encountered
type ErrorCategory string

const (
	ErrorCategoryIO        ErrorCategory = "io_error"              // File system, permissions, disk space
	ErrorCategoryMetadata  ErrorCategory = "metadata_missing"      // No camera make
	ErrorCategoryTimestamp ErrorCategory = "timestamp_unavailable" // No usable capture time
	ErrorCategoryImage     ErrorCategory = "invalid_image"         // Undecodable or zero-sized
	ErrorCategoryUnknown   ErrorCategory = "unknown_error"         // Unexpected errors
)

// ErrorSeverity indicates how critical the error is
type ErrorSeverity string

const (
	ErrorSeverityError   ErrorSeverity = "error"   // File could not be processed
	ErrorSeverityWarning ErrorSeverity = "warning" // File skipped for a metadata reason
)

// ProcessError is a failure scoped to one source file.
type ProcessError struct {
	FilePath    string
	Category    ErrorCategory
	Severity    ErrorSeverity
	OriginalErr error
	Suggestion  string
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("[%s/%s] %s: %v", e.Severity, e.Category, e.FilePath, e.OriginalErr)
}

func (e *ProcessError) Unwrap() error {
	return e.OriginalErr
}

// CategorizeError analyzes an error and returns a ProcessError with category and severity
func CategorizeError(filePath string, err error) *ProcessError {
	if err == nil {
		return nil
	}
	var procErr *ProcessError
	if errors.As(err, &procErr) {
		return procErr
	}

	procErr = &ProcessError{
		FilePath:    filePath,
		OriginalErr: err,
	}

	errStr := strings.ToLower(err.Error())
	var pathErr *fs.PathError

	switch {
	case errors.Is(err, ErrMetadataMissing):
		procErr.Category = ErrorCategoryMetadata
		procErr.Severity = ErrorSeverityWarning
		procErr.Suggestion = "File has no camera make tag - try --exiftool, or check the file came from a camera"

	case errors.Is(err, ErrTimestampUnavailable):
		procErr.Category = ErrorCategoryTimestamp
		procErr.Severity = ErrorSeverityWarning
		procErr.Suggestion = "File has no usable DateTime tag, so no output name can be derived"

	case errors.Is(err, ErrInvalidImage):
		procErr.Category = ErrorCategoryImage
		procErr.Severity = ErrorSeverityError
		procErr.Suggestion = "Pixel data could not be decoded - verify the file opens in an image viewer"

	case strings.Contains(errStr, "no space left"):
		procErr.Category = ErrorCategoryIO
		procErr.Severity = ErrorSeverityError
		procErr.Suggestion = "Free up disk space on the output drive and retry"

	case strings.Contains(errStr, "permission denied"):
		procErr.Category = ErrorCategoryIO
		procErr.Severity = ErrorSeverityError
		procErr.Suggestion = "Check file permissions on both source and output directories"

	case errors.Is(err, fs.ErrNotExist):
		procErr.Category = ErrorCategoryIO
		procErr.Severity = ErrorSeverityError
		procErr.Suggestion = "Source file does not exist - check the path"

	case errors.As(err, &pathErr):
		procErr.Category = ErrorCategoryIO
		procErr.Severity = ErrorSeverityError
		procErr.Suggestion = "I/O error - check disk health and mounts"

	default:
		procErr.Category = ErrorCategoryUnknown
		procErr.Severity = ErrorSeverityError
		procErr.Suggestion = "Unexpected error - check logs for details"
	}

	return procErr
}

// ErrorStats tracks error statistics during a run
type ErrorStats struct {
	Total      int
	Errors     int
	Warnings   int
	ByCategory map[ErrorCategory]int
	LastErrors []*ProcessError // Last 5 errors for quick diagnosis
}

func NewErrorStats() *ErrorStats {
	return &ErrorStats{
		ByCategory: make(map[ErrorCategory]int),
		LastErrors: make([]*ProcessError, 0, 5),
	}
}

func (s *ErrorStats) Add(err *ProcessError) {
	s.Total++
	s.ByCategory[err.Category]++

	switch err.Severity {
	case ErrorSeverityError:
		s.Errors++
	case ErrorSeverityWarning:
		s.Warnings++
	}

	if len(s.LastErrors) >= 5 {
		s.LastErrors = s.LastErrors[1:]
	}
	s.LastErrors = append(s.LastErrors, err)
}

// GenerateReport creates a human-readable error report
func (s *ErrorStats) GenerateReport() string {
	var report strings.Builder

	fmt.Fprintf(&report, "\n%d files could not be normalized:\n\n", s.Total)
	if s.Errors > 0 {
		fmt.Fprintf(&report, "  Errors:   %d\n", s.Errors)
	}
	if s.Warnings > 0 {
		fmt.Fprintf(&report, "  Warnings: %d\n", s.Warnings)
	}

	report.WriteString("\nError categories:\n")
	for _, cat := range []ErrorCategory{
		ErrorCategoryIO, ErrorCategoryMetadata, ErrorCategoryTimestamp, ErrorCategoryImage, ErrorCategoryUnknown,
	} {
		if n := s.ByCategory[cat]; n > 0 {
			fmt.Fprintf(&report, "  - %s: %d\n", cat, n)
		}
	}

	report.WriteString("\nRecent errors:\n")
	for i, err := range s.LastErrors {
		fmt.Fprintf(&report, "\n%d. %s\n", i+1, err.FilePath)
		fmt.Fprintf(&report, "   Category: %s | Severity: %s\n", err.Category, err.Severity)
		fmt.Fprintf(&report, "   Error: %v\n", err.OriginalErr)
		if err.Suggestion != "" {
			fmt.Fprintf(&report, "   Suggestion: %s\n", err.Suggestion)
		}
	}

	if s.ByCategory[ErrorCategoryMetadata] > s.Total/2 {
		report.WriteString("\nMany files lack a camera make - consider the --exiftool flag for better compatibility\n")
	}

	return report.String()
}
