package db

import "errors"

var (
	// ErrNotFound is returned when an agent or key is not in the store.
	ErrNotFound = errors.New("not found")
)
