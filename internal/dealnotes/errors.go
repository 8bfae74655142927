package dealnotes

import "errors"

var (
	// ErrCompanyNotFound indicates the note references a company that does not exist.
	ErrCompanyNotFound = errors.New("company not found")
	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")
)
