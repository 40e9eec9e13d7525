package digest

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	EINTERNAL = "internal"
	EINVALID  = "invalid"
	ENOTFOUND = "not_found"

	// EIDENTIFIER means the source URL is malformed or unsupported.
	EIDENTIFIER = "identifier"
	// ERESOLUTION means a required sequential lookup failed.
	ERESOLUTION = "resolution"
	// EUNAVAILABLE means a fallback tier produced nothing usable.
	EUNAVAILABLE = "unavailable"
	ETIMEOUT     = "timeout"
	ENAVIGATION  = "navigation"
	EFETCH       = "fetch"
	EDOWNLOAD    = "download"
	// ETRANSCRIPTION means the transcription backend call failed.
	ETRANSCRIPTION = "transcription"
)

// Error represents an application-specific error.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("digest error: code=%s message=%s", e.Code, e.Message)
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	var fe *FetchError
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	} else if errors.As(err, &fe) {
		return EFETCH
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error.".
func ErrorMessage(err error) string {
	var e *Error
	var fe *FetchError
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	} else if errors.As(err, &fe) {
		return fe.Error()
	}
	return "Internal error."
}

// FetchError is returned when a remote resource responds with a non-2xx
// status or cannot be reached. Status is zero for transport failures.
type FetchError struct {
	Status int
	URL    string
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("HTTP %d for %s", e.Status, e.URL)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
