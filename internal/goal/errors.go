package goal

import "errors"

var (
	ErrNotFound     = errors.New("goal not found")
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict means a concurrent writer got there first. The
	// operation is safe to retry on a fresh read.
	ErrConflict = errors.New("goal was modified concurrently")
)
