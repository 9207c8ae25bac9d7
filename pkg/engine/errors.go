package engine

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrServerStopped is returned by Start once the server has been stopped.
// A stopped server cannot be restarted; create a new one.
var ErrServerStopped = errors.New("server has been stopped")

// BindError is returned by Start when the listen address cannot be bound.
type BindError struct {
	Addr string
	Err  error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("failed to bind %s: %v", e.Addr, e.Err)
}

func (e *BindError) Unwrap() error {
	return e.Err
}

// UnauthorizedError is returned when credentials are required but missing.
type UnauthorizedError struct {
	Path string
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("TF400813: the request to %s is not authorized", e.Path)
}

// StatusCode returns the HTTP status code for this error.
func (e *UnauthorizedError) StatusCode() int {
	return http.StatusUnauthorized
}

// TypeKey names the simulated backend exception.
func (e *UnauthorizedError) TypeKey() string {
	return "UnauthorizedRequestException"
}

// Hint returns a user-friendly suggestion for resolving this error.
func (e *UnauthorizedError) Hint() string {
	return "Send an Authorization header (basic auth with a personal access token), or start the server with auth disabled."
}

// RouteNotFoundError is returned when no route matches the method and path.
type RouteNotFoundError struct {
	Method string
	Path   string
}

func (e *RouteNotFoundError) Error() string {
	return fmt.Sprintf("no route matches %s %s", e.Method, e.Path)
}

// StatusCode returns the HTTP status code for this error.
func (e *RouteNotFoundError) StatusCode() int {
	return http.StatusNotFound
}

// TypeKey names the simulated backend exception.
func (e *RouteNotFoundError) TypeKey() string {
	return "ResourceNotFoundException"
}

// Hint returns a user-friendly suggestion for resolving this error.
func (e *RouteNotFoundError) Hint() string {
	return "Check the method and path. Send OPTIONS /_apis/ to list the resource locations this server supports."
}

// CollectionNotFoundError is returned when the scope names a collection the
// server does not host.
type CollectionNotFoundError struct {
	Collection string
}

func (e *CollectionNotFoundError) Error() string {
	return fmt.Sprintf("collection %s not found", e.Collection)
}

// StatusCode returns the HTTP status code for this error.
func (e *CollectionNotFoundError) StatusCode() int {
	return http.StatusNotFound
}

// TypeKey names the simulated backend exception.
func (e *CollectionNotFoundError) TypeKey() string {
	return "CollectionDoesNotExistException"
}

// Hint returns a user-friendly suggestion for resolving this error.
func (e *CollectionNotFoundError) Hint() string {
	return "Use the collection URL reported by the server (CollectionURL)."
}

// internalError wraps a recovered panic.
type internalError struct {
	value any
}

func (e *internalError) Error() string {
	return fmt.Sprintf("internal server error: %v", e.value)
}
