package domain

import "errors"

var (
	// ErrNotFound is returned when a single-row fetch matches zero rows.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidFilter is returned when pagination parameters cannot form
	// a bounded range (offset supplied without an explicit limit).
	ErrInvalidFilter = errors.New("invalid filter: offset requires an explicit limit")
)
