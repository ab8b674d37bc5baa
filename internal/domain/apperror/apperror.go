// Package apperror defines the stable error codes returned to clients.
// Internal error detail stays in the wrapped error and is only logged.
package apperror

import (
	"errors"
	"fmt"
)

type Code string

const (
	MissingPersonImage  Code = "missing_person_image"
	MissingGarmentImage Code = "missing_garment_image"
	EmptyFilename       Code = "empty_filename"
	InvalidUpload       Code = "invalid_upload"
	PayloadTooLarge     Code = "payload_too_large"
	GarmentFetchFailed  Code = "garment_fetch_failed"
	ContentFiltered     Code = "content_filtered"
	QuotaExceeded       Code = "quota_exceeded"
	UpstreamTimeout     Code = "upstream_timeout"
	TryOnFailed         Code = "tryon_failed"
	Internal            Code = "internal"
)

// Error carries a client-safe code and message plus the internal cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func New(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// From extracts an *Error from err's chain. Anything else is reported as Internal.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return New(Internal, "internal server error", err)
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Code == code
}
