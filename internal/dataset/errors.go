package dataset

import "fmt"

// DataSourceError reports a fatal problem with the session source: the
// analytics core cannot produce any result without it, so callers are
// expected to fail fast rather than recover.
type DataSourceError struct {
	Path string
	Op   string
	Err  error
}

// Error implements the error interface
func (e *DataSourceError) Error() string {
	return fmt.Sprintf("session source %s: %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error
func (e *DataSourceError) Unwrap() error {
	return e.Err
}

func sourceError(op, path string, err error) *DataSourceError {
	return &DataSourceError{Path: path, Op: op, Err: err}
}
