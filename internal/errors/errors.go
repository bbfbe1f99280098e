package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Sentinel errors shared across the application. Components mark their
// failures with one of these so callers can branch on Is* helpers instead
// of matching strings or HTTP status codes.
var (
	ErrTransport          = New(ErrCodeTransport, "transport error")
	ErrUnauthorized       = New(ErrCodeUnauthorized, "unauthorized")
	ErrPermissionDenied   = New(ErrCodePermissionDenied, "permission denied")
	ErrNotFound           = New(ErrCodeNotFound, "resource not found")
	ErrValidation         = New(ErrCodeValidation, "validation error")
	ErrConfig             = New(ErrCodeConfig, "configuration error")
	ErrHTTPClient         = New(ErrCodeHTTPClient, "http client error")
	ErrFeatureUnavailable = New(ErrCodeFeatureUnavailable, "feature unavailable")
	ErrCollectionCreate   = New(ErrCodeCollectionCreate, "collection creation failed")
	ErrSystem             = New(ErrCodeSystemError, "system error")
)

const (
	ErrCodeTransport          = "transport_error"
	ErrCodeUnauthorized       = "unauthorized"
	ErrCodePermissionDenied   = "permission_denied"
	ErrCodeNotFound           = "not_found"
	ErrCodeValidation         = "validation_error"
	ErrCodeConfig             = "config_error"
	ErrCodeHTTPClient         = "http_client_error"
	ErrCodeFeatureUnavailable = "feature_unavailable"
	ErrCodeCollectionCreate   = "collection_create_failed"
	ErrCodeSystemError        = "system_error"
)

// InternalError represents a domain error
type InternalError struct {
	Code    string // Machine-readable error code
	Message string // Human-readable error message
	Err     error  // Underlying error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is implements error matching for wrapped errors
func (e *InternalError) Is(target error) bool {
	if target == nil {
		return false
	}

	t, ok := target.(*InternalError)
	if !ok {
		return errors.Is(e.Err, target)
	}

	return e.Code == t.Code
}

// New creates a new InternalError with the given code and message.
func New(code string, message string) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
	}
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

// IsTransport checks if an error is a network-level transport error
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsUnauthorized checks if an error is a 401 unauthorized error
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsPermissionDenied checks if an error is a 403 permission error
func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsConfig checks if an error is a configuration error
func IsConfig(err error) bool {
	return errors.Is(err, ErrConfig)
}

// IsFeatureUnavailable checks if an error marks a remote feature as
// unavailable rather than failed
func IsFeatureUnavailable(err error) bool {
	return errors.Is(err, ErrFeatureUnavailable)
}

// IsCollectionCreate checks if an error is a fatal collection creation error
func IsCollectionCreate(err error) bool {
	return errors.Is(err, ErrCollectionCreate)
}
