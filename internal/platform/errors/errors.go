// Package errors provides a structured error type with wrapping and metadata
package errors

// Always import the project errors package as perr (platform/errors)

import (
	stderrs "errors"
	"fmt"
)

// ErrorCode classifies failures raised anywhere in a pipeline
// Values are stable because they show up in logs; add sparingly
type ErrorCode uint16

const (
	// ErrorCodeUnknown is for unclassified errors
	ErrorCodeUnknown ErrorCode = iota

	// ErrorCodeInvalidArgument is for bad configuration or input parameters
	ErrorCodeInvalidArgument

	// ErrorCodeSourceUnavailable is for a stream or capture region that cannot be established or vanished
	ErrorCodeSourceUnavailable

	// ErrorCodeFocusTimeout is for a target application that never came to the foreground in time
	ErrorCodeFocusTimeout

	// ErrorCodeGenerativeFailure is for a failed or unreachable generative responder
	ErrorCodeGenerativeFailure

	// ErrorCodeInjectionFailed is for keystrokes the OS input layer refused
	ErrorCodeInjectionFailed

	// ErrorCodeCaptureFailed is for a screen capture or transcription that produced nothing usable
	ErrorCodeCaptureFailed

	// ErrorCodeCanceled is for work abandoned because its context ended
	ErrorCodeCanceled
)

var codeNames = map[ErrorCode]string{
	ErrorCodeUnknown:           "unknown",
	ErrorCodeInvalidArgument:   "invalid_argument",
	ErrorCodeSourceUnavailable: "source_unavailable",
	ErrorCodeFocusTimeout:      "focus_timeout",
	ErrorCodeGenerativeFailure: "generative_failure",
	ErrorCodeInjectionFailed:   "injection_failed",
	ErrorCodeCaptureFailed:     "capture_failed",
	ErrorCodeCanceled:          "canceled",
}

// String returns the log-friendly name of the code
func (c ErrorCode) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("code(%d)", uint16(c))
}

// Error is the structured error type with wrapping and metadata
// msg is developer facing; code is what callers branch on
// field is optional (config key for validation); op is an optional operation tag
// orig is the wrapped cause
type Error struct {
	orig  error
	msg   string
	code  ErrorCode
	field string
	op    string
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

// Field returns the offending field, if any
func (e *Error) Field() string { return e.field }

// Op returns the operation label, if set
func (e *Error) Op() string { return e.op }

// CodeOf extracts an ErrorCode from any error, defaulting to Unknown
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether err has the given code
func IsCode(err error, code ErrorCode) bool { return err != nil && CodeOf(err) == code }

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

// InvalidArgf returns an invalid argument error
func InvalidArgf(format string, a ...any) error { return Newf(ErrorCodeInvalidArgument, format, a...) }

// SourceUnavailablef returns a source unavailable error
func SourceUnavailablef(format string, a ...any) error {
	return Newf(ErrorCodeSourceUnavailable, format, a...)
}

// FocusTimeoutf returns a focus timeout error
func FocusTimeoutf(format string, a ...any) error { return Newf(ErrorCodeFocusTimeout, format, a...) }

// GenerativeFailuref returns a generative failure error
func GenerativeFailuref(format string, a ...any) error {
	return Newf(ErrorCodeGenerativeFailure, format, a...)
}

// FromContext maps a finished context into a Canceled error; nil while ctx is live
func FromContext(ctxErr error) error { return WrapIf(ctxErr, ErrorCodeCanceled, "canceled") }
