package store

import "errors"

var (
	// ErrNotFound is returned when a row does not exist. Absence is a
	// normal outcome for lookups, callers decide whether it is an error.
	ErrNotFound = errors.New("not found")
)
