package storage

import "errors"

// Common storage errors.
var (
	// ErrNotFound is returned when an object does not exist.
	ErrNotFound = errors.New("object not found")

	// ErrNoObjectStore is returned when a remote location is used without
	// an object store configured.
	ErrNoObjectStore = errors.New("no object store configured")
)
