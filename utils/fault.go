package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes used across the booking and payment services.
const (
	CodeValidation = "validationError"
	CodeConflict   = "conflictError"
	CodeNotFound   = "notFoundError"
	CodeForbidden  = "forbiddenError"
	CodeUpstream   = "upstreamError"
	CodeSignature  = "signatureError"
)

// ServiceError is a typed service-level failure with a stable code the HTTP
// boundary maps onto a status.
type ServiceError struct {
	Code    string
	Message string
	Cause   error
}

func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ServiceError) Unwrap() error { return e.Cause }

func NewValidationError(msg string) error {
	return &ServiceError{Code: CodeValidation, Message: msg}
}

func NewConflictError(msg string) error {
	return &ServiceError{Code: CodeConflict, Message: msg}
}

func NewNotFoundError(msg string) error {
	return &ServiceError{Code: CodeNotFound, Message: msg}
}

func NewForbiddenError(msg string) error {
	return &ServiceError{Code: CodeForbidden, Message: msg}
}

func NewUpstreamError(msg string, cause error) error {
	return &ServiceError{Code: CodeUpstream, Message: msg, Cause: cause}
}

func NewSignatureError(msg string) error {
	return &ServiceError{Code: CodeSignature, Message: msg}
}

// CodeOf extracts the service error code, or empty when err is not typed.
func CodeOf(err error) string {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// HasCode reports whether err carries the given service error code.
func HasCode(err error, code string) bool {
	return CodeOf(err) == code
}

// HTTPStatus maps a service error code to a response status.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeConflict:
		return http.StatusConflict
	case CodeNotFound:
		return http.StatusNotFound
	case CodeForbidden:
		return http.StatusForbidden
	case CodeSignature:
		return http.StatusUnauthorized
	case CodeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
