package remote

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed call to the remote API so callers never have to
// inspect raw responses.
type Kind string

const (
	KindNetwork    Kind = "network"
	KindAuth       Kind = "auth"
	KindNotFound   Kind = "not_found"
	KindValidation Kind = "validation"
	KindStatus     Kind = "status"
	KindDecode     Kind = "decode"
)

// Error is the only error type returned by Client methods.
type Error struct {
	Kind   Kind
	Op     string
	Status int
	Detail string
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (%d)", e.Status)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Message is the text shown to the user for this failure.
func (e *Error) Message() string {
	if e.Detail != "" {
		return e.Detail
	}
	switch e.Kind {
	case KindNetwork:
		return "The events service could not be reached"
	case KindAuth:
		return "Your session has expired, please sign in again"
	case KindNotFound:
		return "The requested item was not found"
	default:
		return "The events service returned an unexpected response"
	}
}

// KindOf returns the kind of a remote failure, or "" for other errors.
func KindOf(err error) Kind {
	var rerr *Error
	if errors.As(err, &rerr) {
		return rerr.Kind
	}
	return ""
}

// IsAuth reports whether the remote API rejected the credential.
func IsAuth(err error) bool {
	return KindOf(err) == KindAuth
}

// Message returns the user-facing text for err.
func Message(err error) string {
	var rerr *Error
	if errors.As(err, &rerr) {
		return rerr.Message()
	}
	return "Something went wrong, please try again"
}

func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindAuth
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity || status == http.StatusConflict:
		return KindValidation
	default:
		return KindStatus
	}
}
