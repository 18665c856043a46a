package domain

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input. Field names the offending field when known;
	// Fields carries every failing field when several were checked at once.
	ValidationError struct {
		Field   string
		Message string
		Fields  map[string]string
	}

	// UnauthorizedError indicates authentication failure
	UnauthorizedError struct {
		Message string
	}

	// ForbiddenError indicates the actor's role does not permit the operation
	ForbiddenError struct {
		Message string
	}

	// ServiceUnavailableError indicates an external collaborator (renderer, AI service, mailer) failed
	ServiceUnavailableError struct {
		Service string
		Message string
	}
)

// Error implementations
func (e *NotFoundError) Error() string           { return e.Message }
func (e *ValidationError) Error() string         { return e.Message }
func (e *UnauthorizedError) Error() string       { return e.Message }
func (e *ForbiddenError) Error() string          { return e.Message }
func (e *ServiceUnavailableError) Error() string { return e.Message }

// StatusCode implementations (HTTPError interface)
func (e *NotFoundError) StatusCode() int           { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int         { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int       { return http.StatusUnauthorized }
func (e *ForbiddenError) StatusCode() int          { return http.StatusForbidden }
func (e *ServiceUnavailableError) StatusCode() int { return http.StatusServiceUnavailable }

// Is lets the typed errors match their sentinels with errors.Is()
func (e *NotFoundError) Is(target error) bool           { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool         { return target == ErrValidation }
func (e *UnauthorizedError) Is(target error) bool       { return target == ErrUnauthorized }
func (e *ForbiddenError) Is(target error) bool          { return target == ErrForbidden }
func (e *ServiceUnavailableError) Is(target error) bool { return target == ErrServiceUnavailable }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrValidation         = errors.New("validation failed")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrServiceUnavailable = errors.New("service unavailable")
)

// ConflictError represents a resource conflict with details about the existing resource
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (user, document)
	ResourceID   string // ID of the existing/conflicting resource
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return e.Message
}

// StatusCode implements the HTTPError interface
func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Unavailable wraps a collaborator failure as a ServiceUnavailableError.
func Unavailable(service string, err error) error {
	msg := service + " unavailable"
	if err != nil {
		msg += ": " + err.Error()
	}
	return &ServiceUnavailableError{Service: service, Message: msg}
}

// NewFieldValidationError builds a ValidationError from per-field failures.
// The alphabetically first field is reported as Field.
func NewFieldValidationError(failures map[string]error) *ValidationError {
	keys := make([]string, 0, len(failures))
	for k := range failures {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make(map[string]string, len(keys))
	for _, k := range keys {
		fields[k] = failures[k].Error()
	}

	verr := &ValidationError{Message: "validation failed", Fields: fields}
	if len(keys) > 0 {
		verr.Field = keys[0]
		verr.Message = fmt.Sprintf("%s: %s", keys[0], fields[keys[0]])
	}
	return verr
}
