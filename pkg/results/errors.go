package results

import "fmt"

// StorageError represents an error from the results database.
type StorageError struct {
	Driver    string // SQLite driver in use ("sqlite3" or "sqlite")
	Operation string // Operation that failed ("open", "query", "scan", etc.)
	Cause     error  // Underlying error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("results database error [driver=%s, operation=%s]: %v",
		e.Driver, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError.
func NewStorageError(driver, operation string, cause error) *StorageError {
	return &StorageError{
		Driver:    driver,
		Operation: operation,
		Cause:     cause,
	}
}
