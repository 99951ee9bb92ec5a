// Package derrors defines the domain error vocabulary shared by services and
// the HTTP layer. Services create or wrap errors with a Code; transport maps
// codes to status lines without inspecting messages.
package derrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error for transport mapping and retry semantics.
type Code string

const (
	// CodeInvalidInput marks malformed or missing caller input. Recoverable by
	// retrying with corrected input.
	CodeInvalidInput Code = "invalid_input"
	// CodeBadRequest marks a structurally valid request that cannot be served
	// as phrased (unsupported value, wrong content type).
	CodeBadRequest Code = "bad_request"
	// CodeUnauthorized marks authentication failures: biometric mismatch,
	// invalid or expired passcode, invalid or expired credential.
	CodeUnauthorized Code = "unauthorized"
	// CodeForbidden marks authorization failures: voter not on the roll,
	// role mismatch, election not accepting votes. Terminal for the request.
	CodeForbidden Code = "forbidden"
	// CodeNotFound marks a missing entity.
	CodeNotFound Code = "not_found"
	// CodeConflict marks state conflicts such as a duplicate enrollment or a
	// repeated vote.
	CodeConflict Code = "conflict"
	// CodeTooManyRequests marks lockout and rate-limit rejections.
	CodeTooManyRequests Code = "too_many_requests"
	// CodeIntegrity marks a ledger verification mismatch. Fatal to result
	// publication; surfaced to operators, never swallowed.
	CodeIntegrity Code = "integrity_fault"
	// CodeUnavailable marks a temporarily unavailable dependency.
	CodeUnavailable Code = "unavailable"
	// CodeInternal marks unexpected faults. Messages are not exposed to
	// callers.
	CodeInternal Code = "internal_error"
)

// Error carries a Code, a caller-safe message and an optional cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a domain error with the given code and caller-safe message.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf creates a domain error with a formatted caller-safe message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error. The cause stays
// reachable through errors.Is/As but is never rendered to callers.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	for errors.As(err, &de) {
		if de.Code == code {
			return true
		}
		err = de.cause
		if err == nil {
			break
		}
	}
	return false
}

// Is is a readability alias for HasCode.
func Is(err error, code Code) bool { return HasCode(err, code) }

// CodeOf returns the outermost code carried by err, or CodeInternal when err
// carries none.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf returns the outermost caller-safe message, or an empty string.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}
