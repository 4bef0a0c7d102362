package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrConstraintViolation is returned when a write violates a schema
	// constraint such as the end-after-start check.
	ErrConstraintViolation = errors.New("persistence: constraint violation")
	// ErrDuplicate is returned when a write collides with an existing record id.
	ErrDuplicate = errors.New("persistence: duplicate record")
)
