package transaction

import "errors"

var (
	// ErrNotFound is returned when a transaction does not exist or does
	// not belong to the requesting user.
	ErrNotFound = errors.New("transaction not found")

	// ErrInvalidInput is returned when caller-supplied data fails
	// validation. Wrapped errors carry the detail.
	ErrInvalidInput = errors.New("invalid input")
)
