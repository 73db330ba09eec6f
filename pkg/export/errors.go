package export

import "fmt"

// ExportError represents an error during export of a results artifact.
type ExportError struct {
	Format   string // Export format ("json", "microformat", "tsv")
	Artifact string // Artifact being written
	Cause    error  // Underlying error
}

// Error implements the error interface.
func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [format=%s, artifact=%s]: %v",
		e.Format, e.Artifact, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *ExportError) Unwrap() error {
	return e.Cause
}

// NewExportError creates a new ExportError.
func NewExportError(format, artifact string, cause error) *ExportError {
	return &ExportError{
		Format:   format,
		Artifact: artifact,
		Cause:    cause,
	}
}
