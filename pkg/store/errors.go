package store

import (
	"fmt"
	"net/http"
)

// Resource kinds, as they appear in error messages.
const (
	KindProject        = "project"
	KindDefinition     = "build definition"
	KindBuild          = "build"
	KindWorkItem       = "work item"
	KindTaskDefinition = "task definition"
)

// NotFoundError is returned when a resource is not found.
type NotFoundError struct {
	Kind string
	ID   string
	// Project is set when the lookup was scoped to a project.
	Project string
}

func (e *NotFoundError) Error() string {
	if e.Project != "" {
		return fmt.Sprintf("%s %s not found in project %s", e.Kind, e.ID, e.Project)
	}
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// StatusCode returns the HTTP status code for this error.
func (e *NotFoundError) StatusCode() int {
	return http.StatusNotFound
}

// TypeKey names the simulated backend exception.
func (e *NotFoundError) TypeKey() string {
	switch e.Kind {
	case KindProject:
		return "ProjectDoesNotExistWithNameException"
	case KindDefinition:
		return "DefinitionNotFoundException"
	case KindBuild:
		return "BuildNotFoundException"
	case KindWorkItem:
		return "WorkItemUnauthorizedAccessException"
	case KindTaskDefinition:
		return "TaskDefinitionNotFoundException"
	default:
		return "NotFoundException"
	}
}

// Hint returns a user-friendly suggestion for resolving this error.
func (e *NotFoundError) Hint() string {
	if e.Project != "" {
		return fmt.Sprintf("Check that %s %s exists and belongs to project %q.", e.Kind, e.ID, e.Project)
	}
	return fmt.Sprintf("Check that %s %s exists. Seed it via fixtures or create it first.", e.Kind, e.ID)
}

// ConflictError is returned when a resource with the same identity already exists.
type ConflictError struct {
	Kind string
	ID   string
	// Detail describes the conflicting identity, e.g. a version.
	Detail string
}

func (e *ConflictError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s %s %s already exists", e.Kind, e.ID, e.Detail)
	}
	return fmt.Sprintf("%s %s already exists", e.Kind, e.ID)
}

// StatusCode returns the HTTP status code for this error.
func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}

// TypeKey names the simulated backend exception.
func (e *ConflictError) TypeKey() string {
	if e.Kind == KindTaskDefinition {
		return "TaskDefinitionExistsException"
	}
	return "ConflictException"
}

// Hint returns a user-friendly suggestion for resolving this error.
func (e *ConflictError) Hint() string {
	if e.Kind == KindTaskDefinition {
		return "Bump the task version or upload with overwrite=true."
	}
	return "Use a different id or update the existing resource."
}

// ValidationError is returned when input validation fails.
type ValidationError struct {
	Message string
	Field   string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return e.Message
}

// StatusCode returns the HTTP status code for this error.
func (e *ValidationError) StatusCode() int {
	return http.StatusBadRequest
}

// TypeKey names the simulated backend exception.
func (e *ValidationError) TypeKey() string {
	return "InvalidArgumentValueException"
}

// Hint returns a user-friendly suggestion for resolving this error.
func (e *ValidationError) Hint() string {
	if e.Field != "" {
		return fmt.Sprintf("Check the value of field %q in your request.", e.Field)
	}
	return "Check your request body format and required fields."
}
