package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeBackendUnavailable = "BACKEND_UNAVAILABLE"
	CodeNotFound           = "NOT_FOUND"
	CodeInvalidRating      = "INVALID_RATING"
	CodeInvalidRequest     = "INVALID_REQUEST"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// Unavailable marks graph-store connectivity or timeout failures. Callers
// must be able to tell these apart from an empty result set.
func Unavailable(err error) *Error {
	return New(http.StatusServiceUnavailable, CodeBackendUnavailable, err)
}

func NotFound(format string, args ...interface{}) *Error {
	return New(http.StatusNotFound, CodeNotFound, fmt.Errorf(format, args...))
}

func InvalidRating(format string, args ...interface{}) *Error {
	return New(http.StatusBadRequest, CodeInvalidRating, fmt.Errorf(format, args...))
}

func Invalid(format string, args ...interface{}) *Error {
	return New(http.StatusBadRequest, CodeInvalidRequest, fmt.Errorf(format, args...))
}

// From extracts an *Error from err's chain, defaulting to a 500.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return New(http.StatusInternalServerError, "INTERNAL", err)
}
