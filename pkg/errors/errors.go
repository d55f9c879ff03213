package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a unique error code
type ErrorCode int

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details []string  `json:"details,omitempty"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Error codes for every failure kind the services surface.
const (
	ErrValidation ErrorCode = iota + 1000
	ErrNotFound
	ErrAlreadyExists
	ErrReferentialIntegrity
	ErrStorage
	ErrCorruption
	ErrInitialization
	ErrInternal
)

// CodeOf extracts the error code from err, or ErrInternal when err is not
// an *AppError.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternal
}

// Error constructors
func NewValidation(entity string, missing []string) *AppError {
	return &AppError{
		Code:    ErrValidation,
		Message: fmt.Sprintf("invalid %s: missing or malformed fields: %s", entity, strings.Join(missing, ", ")),
		Details: missing,
	}
}

func NewValidationMessage(message string) *AppError {
	return &AppError{
		Code:    ErrValidation,
		Message: message,
	}
}

func NewNotFound(resource, id string) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s %s not found", resource, id),
	}
}

func NewAlreadyExists(resource, id string) *AppError {
	return &AppError{
		Code:    ErrAlreadyExists,
		Message: fmt.Sprintf("%s %s already exists", resource, id),
	}
}

func NewReferentialIntegrity(collection, id string) *AppError {
	return &AppError{
		Code:    ErrReferentialIntegrity,
		Message: fmt.Sprintf("referenced %s %s does not exist", collection, id),
		Details: []string{collection, id},
	}
}

func NewStillReferenced(resource, id string, appointments, records int) *AppError {
	return &AppError{
		Code:    ErrReferentialIntegrity,
		Message: fmt.Sprintf("%s %s is still referenced by %d appointment(s) and %d medical record(s)", resource, id, appointments, records),
	}
}

func NewStorage(message string, err error) *AppError {
	return &AppError{
		Code:    ErrStorage,
		Message: message,
		Err:     err,
	}
}

func NewCorruption(collection, id string, err error) *AppError {
	return &AppError{
		Code:    ErrCorruption,
		Message: fmt.Sprintf("corrupted data for %s %s", collection, id),
		Err:     err,
	}
}

func NewInitialization(err error) *AppError {
	return &AppError{
		Code:    ErrInitialization,
		Message: "storage initialization failed",
		Err:     err,
	}
}

func NewInternal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal error",
		Err:     err,
	}
}
