// Package apperrors defines the failure kinds a pipeline run can end with.
// Every error leaving the pipeline carries exactly one Kind so the hosting
// layer can map it to a response without string matching.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is a machine-readable error code.
type Kind string

const (
	// KindInvalidInput marks a recording with missing bytes or name.
	KindInvalidInput Kind = "INVALID_INPUT"
	// KindMalformedExtraction marks a completion that did not parse into the three-field schema.
	KindMalformedExtraction Kind = "MALFORMED_EXTRACTION"
	// KindRemoteService marks a failure of the transcription, completion or persistence collaborator.
	KindRemoteService Kind = "REMOTE_SERVICE"
	// KindInternal labels an error that carried no kind when it reached the hosting layer.
	KindInternal Kind = "INTERNAL"
)

var httpStatus = map[Kind]int{
	KindInvalidInput:        http.StatusBadRequest,
	KindMalformedExtraction: http.StatusUnprocessableEntity,
	KindRemoteService:       http.StatusBadGateway,
	KindInternal:            http.StatusInternalServerError,
}

// Error is the single error type produced by the pipeline.
type Error struct {
	Kind    Kind   `json:"code"`
	Message string `json:"message"`
	// Service names the remote collaborator for KindRemoteService.
	Service string `json:"service,omitempty"`
	// Raw holds the unparsed completion text for KindMalformedExtraction.
	Raw   string `json:"raw,omitempty"`
	Cause error  `json:"-"`
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Service != "" {
		msg = e.Service + ": " + msg
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches any *Error of the same kind, so errors.Is(err, &Error{Kind: k}) works.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// HTTPStatus returns the recommended response status for the kind.
func (e *Error) HTTPStatus() int {
	if s, ok := httpStatus[e.Kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// InvalidInput reports a recording rejected at pipeline entry.
func InvalidInput(message string) *Error {
	return &Error{Kind: KindInvalidInput, Message: message}
}

// MalformedExtraction reports a completion response that is not the expected JSON shape.
func MalformedExtraction(raw string, cause error) *Error {
	return &Error{
		Kind:    KindMalformedExtraction,
		Message: "completion response does not match the extraction schema",
		Raw:     raw,
		Cause:   cause,
	}
}

// RemoteService wraps a failure returned by a remote collaborator.
func RemoteService(service string, cause error) *Error {
	return &Error{
		Kind:    KindRemoteService,
		Message: "remote call failed",
		Service: service,
		Cause:   cause,
	}
}

// Internal wraps an untyped error for reporting.
func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Message: "internal error", Cause: cause}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// StatusOf maps any error to an HTTP status; untyped errors are 500.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.HTTPStatus()
	}
	return http.StatusInternalServerError
}
