package apperr

import "errors"

// Kind classifies a failure so callers can branch without inspecting message text.
type Kind string

const (
	KindValidation       Kind = "validation"
	KindNotFound         Kind = "not_found"
	KindIOFailure        Kind = "io_failure"
	KindMethodNotAllowed Kind = "method_not_allowed"
)

// Error carries a Kind, the human readable message shown to the client and
// the underlying cause (logged, never returned to the client).
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }

func NotFound(msg string) *Error { return &Error{Kind: KindNotFound, Message: msg} }

// IO wraps a storage failure; msg is what the client sees.
func IO(msg string, err error) *Error { return &Error{Kind: KindIOFailure, Message: msg, Err: err} }

func MethodNotAllowed() *Error {
	return &Error{Kind: KindMethodNotAllowed, Message: "Method not allowed."}
}

// KindOf returns the Kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}

// Is reports whether err is an *Error of kind k.
func Is(err error, k Kind) bool { return KindOf(err) == k }
