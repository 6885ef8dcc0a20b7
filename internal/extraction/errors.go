package extraction

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors - use with errors.Is()
var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrExtractionFailed    = errors.New("extraction failed")
)

// UnsupportedFileTypeError indicates a file extension with no registered
// parser capability. Recoverable: reported to the caller, nothing written.
type UnsupportedFileTypeError struct {
	Extension string
}

func (e *UnsupportedFileTypeError) Error() string {
	return fmt.Sprintf("unsupported file type: %s", e.Extension)
}

// StatusCode implements the domain HTTPError interface
func (e *UnsupportedFileTypeError) StatusCode() int { return http.StatusBadRequest }

// Is allows errors.Is() to match against ErrUnsupportedFileType
func (e *UnsupportedFileTypeError) Is(target error) bool {
	return target == ErrUnsupportedFileType
}

// ExtractionFailedError wraps an opaque parser failure. The underlying
// cause is preserved for logs but the caller only needs to know
// extraction did not produce content.
type ExtractionFailedError struct {
	FileName string
	Cause    error
}

func (e *ExtractionFailedError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.FileName, e.Cause)
}

func (e *ExtractionFailedError) Unwrap() error { return e.Cause }

// StatusCode implements the domain HTTPError interface
func (e *ExtractionFailedError) StatusCode() int { return http.StatusUnprocessableEntity }

// Is allows errors.Is() to match against ErrExtractionFailed
func (e *ExtractionFailedError) Is(target error) bool {
	return target == ErrExtractionFailed
}
