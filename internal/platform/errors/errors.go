// Package errors provides a structured error type with wrapping and metadata
package errors

// Always import the project errors package as perr (platform/errors)

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode is the stable machine code sent on the wire as "code"
// Values are part of the public contract with browser clients; add sparingly
type ErrorCode string

const (
	// ErrorCodeUnknown is for unclassified errors
	ErrorCodeUnknown ErrorCode = "UNKNOWN"

	// ErrorCodePanic is for panics recovered by middleware
	ErrorCodePanic ErrorCode = "PANIC"

	// ErrorCodeUnavailable is for transient errors where retry may succeed
	ErrorCodeUnavailable ErrorCode = "UNAVAILABLE"

	// ErrorCodeTooManyRequests is for rate limiting
	ErrorCodeTooManyRequests ErrorCode = "TOO_MANY_REQUESTS"

	// ErrorCodeConflict is for generic editing conflicts beyond duplicate key
	ErrorCodeConflict ErrorCode = "CONFLICT"

	// ErrorCodeUnauthorized is for missing or invalid credentials
	ErrorCodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// ErrorCodeForbidden is for insufficient tier, role or subscription status
	ErrorCodeForbidden ErrorCode = "FORBIDDEN"

	// ErrorCodeCSRF is for a missing or mismatched CSRF token
	ErrorCodeCSRF ErrorCode = "CSRF_ERROR"

	// ErrorCodeOrigin is for an Origin or Referer outside the allow-list
	ErrorCodeOrigin ErrorCode = "ORIGIN_ERROR"

	// ErrorCodeInvalidArgument is for bad input parameters
	ErrorCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"

	// ErrorCodeValidation is for validation failures (input data)
	ErrorCodeValidation ErrorCode = "VALIDATION_ERROR"

	// ErrorCodeJSON is for JSON parsing/validation errors
	ErrorCodeJSON ErrorCode = "JSON_ERROR"

	// ErrorCodeNotFound is for missing resources
	ErrorCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrorCodeDuplicateKey is for unique constraint violations
	ErrorCodeDuplicateKey ErrorCode = "DUPLICATE_KEY"

	// ErrorCodeDB is for general database errors
	ErrorCodeDB ErrorCode = "DB_ERROR"
)

// HTTPStatusCode turns an ErrorCode into an http status code
func HTTPStatusCode(c ErrorCode) int {
	switch c {
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeInvalidArgument:
		return http.StatusUnprocessableEntity
	case ErrorCodeDuplicateKey, ErrorCodeConflict:
		return http.StatusConflict
	case ErrorCodeValidation, ErrorCodeJSON:
		return http.StatusBadRequest
	case ErrorCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrorCodeForbidden, ErrorCodeCSRF, ErrorCodeOrigin:
		return http.StatusForbidden
	case ErrorCodeTooManyRequests:
		return http.StatusTooManyRequests
	case ErrorCodeUnavailable:
		return http.StatusServiceUnavailable
	case ErrorCodeDB, ErrorCodePanic, ErrorCodeUnknown:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Title is the short human label rendered as "error" in the envelope
func Title(c ErrorCode) string {
	switch c {
	case ErrorCodeCSRF:
		return "CSRF validation failed"
	case ErrorCodeOrigin:
		return "Origin validation failed"
	case ErrorCodeUnauthorized:
		return "Unauthorized"
	case ErrorCodeForbidden:
		return "Forbidden"
	case ErrorCodeValidation, ErrorCodeJSON, ErrorCodeInvalidArgument:
		return "Invalid request"
	case ErrorCodeNotFound:
		return "Not found"
	case ErrorCodeDuplicateKey, ErrorCodeConflict:
		return "Conflict"
	case ErrorCodeTooManyRequests:
		return "Too many requests"
	case ErrorCodeUnavailable:
		return "Service unavailable"
	default:
		return "Internal error"
	}
}

// genericMessage is what callers see for errors that are not ours
const genericMessage = "internal error"

// ErrNotFound is a sentinel not found error for convenience
var ErrNotFound = New(ErrorCodeNotFound, "not found")

// Error is the structured error type with wrapping and metadata
// msg is user facing; code is machine facing
// field is optional (for validation); op is optional operation tag
// redirect is an optional navigation hint for denied page requests
// orig is the wrapped cause and is never rendered on the wire
type Error struct {
	orig     error
	msg      string
	code     ErrorCode
	field    string
	op       string
	redirect string
}

// Wire is the JSON-serializable form returned by the API
type Wire struct {
	Code     ErrorCode `json:"code"`
	Title    string    `json:"error"`
	Message  string    `json:"message"`
	Field    string    `json:"field,omitempty"`
	Redirect string    `json:"redirect,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.orig != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.orig)
	}
	return e.msg
}

// Unwrap returns the wrapped error, if any
func (e *Error) Unwrap() error { return e.orig }

// Code returns the error code
func (e *Error) Code() ErrorCode { return e.code }

// Message returns the user facing message without the wrapped cause
func (e *Error) Message() string { return e.msg }

// Field returns the offending field, if any
func (e *Error) Field() string { return e.field }

// Op returns the operation label, if set
func (e *Error) Op() string { return e.op }

// Redirect returns the redirect hint, if set
func (e *Error) Redirect() string { return e.redirect }

// ToWire converts an *Error to a Wire payload
func (e *Error) ToWire() Wire {
	return Wire{
		Code:     e.code,
		Title:    Title(e.code),
		Message:  e.msg,
		Field:    e.field,
		Redirect: e.redirect,
	}
}

// WireFrom converts any error into a Wire payload
// Foreign errors are rendered generically so collaborator detail never leaks
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	if e, ok := As(err); ok {
		return e.ToWire()
	}
	return Wire{Code: ErrorCodeUnknown, Title: Title(ErrorCodeUnknown), Message: genericMessage}
}

// Root returns the deepest wrapped cause
func Root(err error) error {
	for err != nil {
		u := stderrs.Unwrap(err)
		if u == nil {
			return err
		}
		err = u
	}
	return nil
}

// CodeOf extracts an ErrorCode from any error, defaulting to Unknown
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether err has the given code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// HTTPStatus returns the mapped HTTP status for any error
func HTTPStatus(err error) int { return HTTPStatusCode(CodeOf(err)) }

// As unwraps and returns (*Error, true) if err is one of ours
func As(err error) (*Error, bool) {
	var e *Error
	if stderrs.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Mutators (copy-on-write)

// WithField attaches a field to an *Error (copy-on-write). If err isn't *Error, returns err unchanged
func WithField(err error, field string) error {
	if e, ok := As(err); ok {
		c := *e
		c.field = field
		return &c
	}
	return err
}

// WithOp attaches an operation label to an *Error (copy-on-write). If err isn't *Error, returns err unchanged
func WithOp(err error, op string) error {
	if e, ok := As(err); ok {
		c := *e
		c.op = op
		return &c
	}
	return err
}

// WithRedirect attaches a redirect target to an *Error (copy-on-write). If err isn't *Error, returns err unchanged
func WithRedirect(err error, to string) error {
	if e, ok := As(err); ok {
		c := *e
		c.redirect = to
		return &c
	}
	return err
}

// Constructors

// New returns a new *Error with the given code and message
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

// Newf returns a new *Error with code and formatted message
func Newf(code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...)}
}

// Wrap returns a new *Error that wraps orig with code and message
func Wrap(orig error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, orig: orig}
}

// Wrapf returns a new *Error that wraps orig with code and formatted message
func Wrapf(orig error, code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...), orig: orig}
}

// WrapIf wraps only when err != nil (helper for 1-liners)
func WrapIf(err error, code ErrorCode, msg string) error {
	if err == nil {
		return nil
	}
	return Wrap(err, code, msg)
}

// Sugar

// NotFoundf returns a not found error
func NotFoundf(format string, a ...any) error { return Newf(ErrorCodeNotFound, format, a...) }

// InvalidArgf returns an invalid argument error
func InvalidArgf(format string, a ...any) error { return Newf(ErrorCodeInvalidArgument, format, a...) }

// Validationf returns a validation error
func Validationf(format string, a ...any) error { return Newf(ErrorCodeValidation, format, a...) }

// JSONErrf returns a JSON error
func JSONErrf(format string, a ...any) error { return Newf(ErrorCodeJSON, format, a...) }

// PanicErrf returns a panic error
func PanicErrf(format string, a ...any) error { return Newf(ErrorCodePanic, format, a...) }

// Unauthorizedf returns an unauthorized error
func Unauthorizedf(format string, a ...any) error { return Newf(ErrorCodeUnauthorized, format, a...) }

// Forbiddenf returns a forbidden error
func Forbiddenf(format string, a ...any) error { return Newf(ErrorCodeForbidden, format, a...) }

// CSRFf returns a CSRF validation error
func CSRFf(format string, a ...any) error { return Newf(ErrorCodeCSRF, format, a...) }

// Originf returns an origin validation error
func Originf(format string, a ...any) error { return Newf(ErrorCodeOrigin, format, a...) }

// Unavailablef returns an unavailable error
func Unavailablef(format string, a ...any) error { return Newf(ErrorCodeUnavailable, format, a...) }

// Internalf returns a generic internal error
func Internalf(format string, a ...any) error { return Newf(ErrorCodeUnknown, format, a...) }

// HTTP bundles status + wire in one shot (nice for handlers)
func HTTP(err error) (int, Wire) {
	if err == nil {
		return http.StatusOK, Wire{}
	}
	return HTTPStatus(err), WireFrom(err)
}

// Retryable reports whether the error is retryable. Backed by the Postgres helpers in pg.go
func Retryable(err error) bool { return IsRetryable(err) }
