// Package types defines the wire types exchanged with the simulated backend.
//
// Field names and envelopes follow the REST conventions of the real service
// (camelCase JSON, {count, value} list envelopes, the typeKey/message error
// body) so that an unmodified client can consume them.
package types

import (
	"errors"
	"net/http"
	"time"
)

// ListResponse is the {count, value} envelope used by every collection endpoint.
type ListResponse[T any] struct {
	Count int `json:"count"`
	Value []T `json:"value"`
}

// NewList wraps items in a ListResponse. A nil slice is encoded as [].
func NewList[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Count: len(items), Value: items}
}

// ErrorResponse mirrors the error body of the real service. Message always
// names the offending resource kind and id when one is involved.
type ErrorResponse struct {
	ID             string `json:"$id"`
	InnerException any    `json:"innerException"`
	Message        string `json:"message"`
	TypeName       string `json:"typeName"`
	TypeKey        string `json:"typeKey"`
	ErrorCode      int    `json:"errorCode"`
	EventID        int    `json:"eventId"`
	StatusCode     int    `json:"statusCode"`
	Hint           string `json:"hint,omitempty"`
}

// StatusCodeError is an error that maps to an HTTP status code.
type StatusCodeError interface {
	error
	StatusCode() int
}

// HintError is an error that carries a resolution hint.
type HintError interface {
	error
	Hint() string
}

// TypeKeyError is an error that names the backend exception it simulates.
type TypeKeyError interface {
	error
	TypeKey() string
}

// eventID is the event id the service reports for request failures.
const eventID = 3000

// ErrorFromError converts err into the wire error body. Errors that do not
// implement StatusCodeError become 500s.
func ErrorFromError(err error) *ErrorResponse {
	resp := &ErrorResponse{
		ID:         "1",
		Message:    err.Error(),
		StatusCode: http.StatusInternalServerError,
		TypeKey:    "VssServiceException",
		EventID:    eventID,
	}

	var sc StatusCodeError
	if errors.As(err, &sc) {
		resp.StatusCode = sc.StatusCode()
	}
	var tk TypeKeyError
	if errors.As(err, &tk) {
		resp.TypeKey = tk.TypeKey()
	} else {
		resp.TypeKey = defaultTypeKey(resp.StatusCode)
	}
	var he HintError
	if errors.As(err, &he) {
		resp.Hint = he.Hint()
	}
	resp.TypeName = "Microsoft.VisualStudio.Services.WebApi." + resp.TypeKey + ", Microsoft.VisualStudio.Services.WebApi"
	return resp
}

func defaultTypeKey(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "InvalidArgumentValueException"
	case http.StatusUnauthorized:
		return "UnauthorizedRequestException"
	case http.StatusNotFound:
		return "NotFoundException"
	case http.StatusConflict:
		return "ConflictException"
	default:
		return "VssServiceException"
	}
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status    string    `json:"status"`
	Uptime    int       `json:"uptime"`
	Timestamp time.Time `json:"timestamp"`
}

// MessageResponse is a simple acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}
