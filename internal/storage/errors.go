// ABOUTME: StorageError wrapper for underlying SQLite failures.
// ABOUTME: Storage errors are fatal for the current operation, never retried.
package storage

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a lookup matches no record.
var ErrNotFound = errors.New("not found")

// StorageError reports an underlying store failure (file locked, disk
// full, corruption). Surfaced verbatim to the user; data integrity takes
// priority over availability, so there is no automatic retry.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsStorage reports whether err is (or wraps) a StorageError.
func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
