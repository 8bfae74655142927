package documents

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnsupportedMediaType indicates a content type outside the allow-list.
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	// ErrMisconfigured indicates the pipeline lacks required configuration.
	ErrMisconfigured = errors.New("storage bucket not configured")
	// ErrUploadFailed indicates the object store write failed; nothing was persisted.
	ErrUploadFailed = errors.New("upload failed")
	// ErrSchedulingFailed indicates the document was stored but extraction could not be scheduled.
	ErrSchedulingFailed = errors.New("scheduling failed")
	// ErrCompanyNotFound indicates the upload referenced an unknown company.
	ErrCompanyNotFound = fmt.Errorf("company: %w", ErrNotFound)
)
