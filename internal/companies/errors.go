package companies

import "errors"

var (
	// ErrNotFound indicates the company does not exist.
	ErrNotFound = errors.New("company not found")
	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConflict indicates a slug collision.
	ErrConflict = errors.New("company already exists")
)
