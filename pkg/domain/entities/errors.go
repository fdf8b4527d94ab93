package entities

import "errors"

var (
	// ErrInvalidInput marks validation failures; the operation is aborted without mutation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDuplicateIdentifier is returned when an append would collide with an existing identifier.
	ErrDuplicateIdentifier = errors.New("duplicate identifier")
)
