package store

import (
	"errors"
	"fmt"
)

// StoreError is a failure surfaced to callers of the entity store.
// It carries a stable machine-checkable code plus a human-readable message;
// conditions the normalizer can silently default around never become errors.
type StoreError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Entity names the affected entity kind ("document", "highlight", ...).
	Entity string

	// ID identifies the affected record, when known.
	ID string
}

// ErrorCode categorizes store errors.
type ErrorCode string

const (
	// ErrCodeNotFound indicates the id does not reference an existing record.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeInvalidInput indicates a validation failure before any write.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// ErrCodeDuplicateName indicates a case-insensitive collection name clash.
	ErrCodeDuplicateName ErrorCode = "DUPLICATE_NAME"
)

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.Entity != "" && e.ID != "" {
		return fmt.Sprintf("%s: %s (%s=%s)", e.Code, e.Message, e.Entity, e.ID)
	}
	if e.Entity != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Entity)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsNotFound reports whether err is a not-found store error.
// Uses errors.As to handle wrapped errors.
func IsNotFound(err error) bool {
	var se *StoreError
	return errors.As(err, &se) && se.Code == ErrCodeNotFound
}

// IsInvalidInput reports whether err is a validation failure.
func IsInvalidInput(err error) bool {
	var se *StoreError
	return errors.As(err, &se) && se.Code == ErrCodeInvalidInput
}

// IsDuplicateName reports whether err is a duplicate-name failure.
func IsDuplicateName(err error) bool {
	var se *StoreError
	return errors.As(err, &se) && se.Code == ErrCodeDuplicateName
}

// NewNotFoundError creates a StoreError for an unknown record id.
func NewNotFoundError(entity, id string) *StoreError {
	return &StoreError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found", entity),
		Entity:  entity,
		ID:      id,
	}
}

// NewInvalidInputError creates a StoreError for a validation failure.
func NewInvalidInputError(entity, message string) *StoreError {
	return &StoreError{
		Code:    ErrCodeInvalidInput,
		Message: message,
		Entity:  entity,
	}
}

// NewDuplicateNameError creates a StoreError for a collection name clash.
func NewDuplicateNameError(name string) *StoreError {
	return &StoreError{
		Code:    ErrCodeDuplicateName,
		Message: fmt.Sprintf("a collection named %q already exists", name),
		Entity:  "collection",
	}
}
