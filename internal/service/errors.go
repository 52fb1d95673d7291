package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrInvalidInput         = errors.New("invalid input")
	ErrConflict             = errors.New("conflict")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrContractNotPersisted = errors.New("contract must be saved on the dados tab first")
	ErrInvalidCredentials   = errors.New("invalid credentials")
)

// ValidationError names the form field that blocked a submission.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

func fieldError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
