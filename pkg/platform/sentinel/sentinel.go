// Package sentinel holds the infrastructure facts that stores report.
//
// Stores wrap these with fmt.Errorf("...: %w", ...); services translate them
// into domain errors. Validation failures never use them.
package sentinel

import "errors"

var (
	// ErrNotFound means no row, key or grid area matched.
	ErrNotFound = errors.New("not found")
	// ErrConflict covers a taken GSRN and a stale aggregate version.
	ErrConflict = errors.New("conflict")
	// ErrUnavailable means a backing store or broker could not be reached.
	ErrUnavailable = errors.New("unavailable")
)
