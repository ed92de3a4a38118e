package domain

import (
	"errors"
	"strings"
)

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, end date before start date).
// Handlers should map this to HTTP 400 Bad Request.
var ErrValidation = errors.New("validation error")

// ErrUpload is returned when the media host rejects or fails an image upload.
// Nothing referencing the image is persisted.
var ErrUpload = errors.New("upload failed")

// ErrConflict is returned when a unique value (e.g. a username) is taken.
var ErrConflict = errors.New("conflict")

// ErrUnauthorized is returned for missing, invalid, or revoked credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ValidationError carries every problem found in one input, so clients can
// fix all of them in a single round trip. It matches ErrValidation via errors.Is.
type ValidationError struct {
	Problems []string
}

// NewValidationError returns nil when problems is empty.
func NewValidationError(problems []string) error {
	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: problems}
}

func (e *ValidationError) Error() string {
	return ErrValidation.Error() + ": " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
