package request

import (
	"fmt"
	"net/http"
)

// ParseErrorKind distinguishes client mistakes from stream failures.
type ParseErrorKind int

const (
	// BadRequest means the body was read but is not valid JSON.
	BadRequest ParseErrorKind = iota
	// InternalParseFailure means reading the body stream failed.
	InternalParseFailure
)

// ParseError is returned when a request body cannot be decoded.
type ParseError struct {
	Kind ParseErrorKind
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Kind == InternalParseFailure {
		return fmt.Sprintf("failed to read request body for %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("invalid JSON body for %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code for this error.
func (e *ParseError) StatusCode() int {
	if e.Kind == InternalParseFailure {
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

// TypeKey names the simulated backend exception.
func (e *ParseError) TypeKey() string {
	if e.Kind == InternalParseFailure {
		return "RequestReadException"
	}
	return "InvalidRequestContentException"
}

// Hint returns a user-friendly suggestion for resolving this error.
func (e *ParseError) Hint() string {
	if e.Kind == InternalParseFailure {
		return "The connection was interrupted while the body was being sent. Retry the request."
	}
	return "Check that the request body is well-formed JSON and the Content-Type header is correct."
}

// PayloadTooLargeError is returned when the request body exceeds the limit.
type PayloadTooLargeError struct {
	MaxSize int64
}

func (e *PayloadTooLargeError) Error() string {
	return fmt.Sprintf("request body too large: max %d bytes allowed", e.MaxSize)
}

// StatusCode returns the HTTP status code for this error.
func (e *PayloadTooLargeError) StatusCode() int {
	return http.StatusRequestEntityTooLarge
}

// TypeKey names the simulated backend exception.
func (e *PayloadTooLargeError) TypeKey() string {
	return "RequestContentTooLargeException"
}

// Hint returns a user-friendly suggestion for resolving this error.
func (e *PayloadTooLargeError) Hint() string {
	return fmt.Sprintf("Reduce request body size to under %d bytes.", e.MaxSize)
}
