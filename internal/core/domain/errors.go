package domain

import (
	"errors"
	"strings"
)

// Error kinds. Every error a service returns matches exactly one of these
// with errors.Is, and handlers choose the HTTP status from the kind.
var (
	ErrValidation          = errors.New("validation failed")
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrForbidden           = errors.New("forbidden")
	ErrConflict            = errors.New("conflict")
	ErrNotFound            = errors.New("resource not found")
	ErrPaymentNotConfirmed = errors.New("payment not confirmed")
	ErrPaymentProvider     = errors.New("payment provider unavailable")
	ErrStore               = errors.New("store error")
	ErrInvalidCredentials  = errors.New("invalid credentials")
)

// Error is a domain error with a caller-facing message.
type Error struct {
	kind error
	msg  string
}

// NewError creates an error of the given kind
func NewError(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.kind }

// Auth errors
var (
	ErrTokenMissing = NewError(ErrUnauthenticated, "Access denied. No token provided.")
	ErrTokenExpired = NewError(ErrUnauthenticated, "Access token expired")
	ErrTokenInvalid = NewError(ErrUnauthenticated, "Invalid access token")
	ErrRoleRequired = NewError(ErrForbidden, "Access denied. Insufficient permissions.")
)

// User errors
var (
	ErrUserNotFound       = NewError(ErrNotFound, "User not found")
	ErrStudentNotFound    = NewError(ErrNotFound, "Student not found")
	ErrEmailAlreadyExists = NewError(ErrConflict, "Email already in use")
)

// Fee and payment errors
var (
	ErrFeeNotAssigned      = NewError(ErrNotFound, "Fee not assigned to this student")
	ErrFeeCatalogMissing   = NewError(ErrStore, "Default fee missing from catalog")
	ErrDuplicatePayment    = NewError(ErrConflict, "Payment already recorded")
	ErrPaymentNotSucceeded = NewError(ErrPaymentNotConfirmed, "Payment not successful")
	ErrOverpayment         = NewError(ErrValidation, "Payment amount exceeds outstanding balance")
)

// NewConflictError reports which unique fields are already taken,
// e.g. "Student ID and Email already exists".
func NewConflictError(fields ...string) *Error {
	return NewError(ErrConflict, strings.Join(fields, " and ")+" already exists")
}

// FieldError describes one invalid input field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries field-level detail for a rejected request
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError creates a validation error for a single field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	return e.Fields[0].Message
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
