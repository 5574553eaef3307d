package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Learning session specific errors
	ErrInvalidTerm    ErrorCode = "INVALID_TERM"
	ErrGeneration     ErrorCode = "GENERATION_FAILED"
	ErrTermNotSaved   ErrorCode = "TERM_NOT_SAVED"
	ErrAlreadySaved   ErrorCode = "ALREADY_SAVED"
	ErrNoCachedResult ErrorCode = "NO_CACHED_RESULT"
	ErrInvalidToken   ErrorCode = "INVALID_TOKEN"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// HasCode reports whether err is a DomainError carrying the given code.
func HasCode(err error, code ErrorCode) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// Helper functions for common errors

func NewInternalError(message string, cause error) *DomainError {
	return NewError(ErrInternal, message, cause)
}

func NewInvalidTermError() *DomainError {
	return NewError(ErrInvalidTerm, "Send me an English word or short phrase (1-4 words).", nil)
}

func NewGenerationError(cause error) *DomainError {
	return NewError(ErrGeneration, "Failed to generate content", cause)
}

func NewTermNotSavedError(term string) *DomainError {
	return NewError(ErrTermNotSaved, fmt.Sprintf("Term is not saved yet: %s", term), nil)
}

func NewAlreadySavedError(term string) *DomainError {
	return NewError(ErrAlreadySaved, fmt.Sprintf("Term is already saved: %s", term), nil)
}

func NewNoCachedResultError(term string) *DomainError {
	return NewError(ErrNoCachedResult, fmt.Sprintf("No generated result to save for: %s", term), nil)
}

func NewInvalidTokenError() *DomainError {
	return NewError(ErrInvalidToken, "Interaction token is malformed or tampered with", nil)
}
