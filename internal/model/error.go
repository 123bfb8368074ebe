package model

import (
	"errors"
	"fmt"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeProductNotFound    = "PRODUCT_NOT_FOUND"
	ErrCodeCatalogUnavailable = "CATALOG_UNAVAILABLE"
	ErrCodeInvalidProductID   = "INVALID_PRODUCT_ID"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrProductNotFound    = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrCatalogUnavailable = NewDomainError(ErrCodeCatalogUnavailable, "Catalog is unavailable")
	ErrInvalidProductID   = NewDomainError(ErrCodeInvalidProductID, "Product ID must be a positive integer")
)

// FetchError describes a failed catalog read. Err is the domain error
// (ErrProductNotFound or ErrCatalogUnavailable); Cause is the underlying
// transport or decode failure, if any.
type FetchError struct {
	Op     string
	ID     int
	Status int
	Err    error
	Cause  error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("catalog %s", e.Op)
	if e.ID != 0 {
		msg += fmt.Sprintf(" (id=%d)", e.ID)
	}
	if e.Status != 0 {
		msg += fmt.Sprintf(": status %d", e.Status)
	}
	msg += ": " + e.Err.Error()
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() []error {
	errs := []error{e.Err}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// CodeOf returns the domain error code carried by err, or ErrCodeInternalError.
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ErrCodeInternalError
}
