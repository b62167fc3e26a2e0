package loader

import (
	"errors"
	"fmt"
)

var (
	// ErrNoHeader is returned when the file has no header line at all.
	ErrNoHeader = errors.New("file has no header line")

	// ErrTooManyFields is returned when a data row has more fields than the header.
	ErrTooManyFields = errors.New("row has more fields than the header")
)

// LoadError reports that a catalog file could not be loaded.
type LoadError struct {
	// Path is the file that failed to load.
	Path string

	// Err is the underlying cause.
	Err error
}

// Error implements error.
func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error {
	return e.Err
}
