package apperrors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrInvalidFormat      = errors.New("invalid token format")
	ErrAccountDisabled    = errors.New("account is disabled")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// User errors
	ErrUserNotFound            = errors.New("user not found")
	ErrEmailAlreadyExists      = errors.New("email already exists")
	ErrStudentNumberExists     = errors.New("student number already exists")
	ErrSupervisorHasAssignment = errors.New("supervisor still has assigned students")

	ErrRateLimited = errors.New("rate limit exceeded")
)

// Workflow errors
var (
	// ErrInvalidTransition is returned when an event is not legal from the current state.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrUnknownReference is returned when a referenced supervisor or student does not resolve.
	ErrUnknownReference = errors.New("unknown reference")
	// ErrVersionConflict is returned when an entity changed since it was read.
	ErrVersionConflict = errors.New("version conflict")
	// ErrUnauthorized is the workflow name for a denied actor; it matches ErrPermissionDenied.
	ErrUnauthorized = ErrPermissionDenied
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// NewInvalidTransitionError names the current state and the rejected event.
func NewInvalidTransitionError(state, event string) error {
	return NewCustomError(ErrInvalidTransition, fmt.Sprintf("event %q is not allowed in state %q", event, state)).
		WithCode("WF_001").
		WithDetails(map[string]interface{}{"state": state, "event": event})
}

// NewUnauthorizedError reports an actor that may not perform an event.
func NewUnauthorizedError(message string) error {
	return NewCustomError(ErrUnauthorized, message).WithCode("FORBIDDEN")
}

// NewValidationError reports a missing or malformed payload field.
func NewValidationError(field, message string) error {
	return NewCustomError(ErrValidationFailed, message).
		WithCode("VAL_001").
		WithDetails(map[string]interface{}{"field": field})
}

// NewUnknownReferenceError reports a reference that does not resolve.
func NewUnknownReferenceError(kind string, id int64) error {
	return NewCustomError(ErrUnknownReference, fmt.Sprintf("%s %d does not exist", kind, id)).
		WithCode("RES_001").
		WithDetails(map[string]interface{}{"kind": kind, "id": id})
}

// NewVersionConflictError reports a stale write against entity id.
func NewVersionConflictError(entity string, id, version int64) error {
	return NewCustomError(ErrVersionConflict, fmt.Sprintf("%s %d was modified concurrently", entity, id)).
		WithCode("RES_004").
		WithDetails(map[string]interface{}{"entity": entity, "id": id, "version": version})
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err       error
	Message   string
	StatusMsg string
	Code      string
	Details   map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// WithStatusMsg adds a user-friendly status message
func (e *CustomError) WithStatusMsg(msg string) *CustomError {
	e.StatusMsg = msg
	return e
}
