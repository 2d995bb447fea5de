package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Payphone-Digital/chirpy/internal/constants"
)

// DomainError represents a domain-specific error with a code and message
type DomainError struct {
	Code    string
	Message string
	Err     error // underlying error for wrapping
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is and errors.As
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches any DomainError carrying the same code.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if errors.As(target, &t) {
		return t.Code == e.Code
	}
	return false
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with domain error context
func WrapError(domainErr *DomainError, err error) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Err:     err,
	}
}

// WithMessage returns a copy of domainErr carrying a more specific message.
func WithMessage(domainErr *DomainError, message string) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: message,
		Err:     domainErr.Err,
	}
}

// Error codes as they appear in the response body
const (
	CodeInternal           = "ERR_INTERNAL_SERVER"
	CodeInvalidMessage     = "ERR_INVALID_MESSAGE"
	CodeInvalidEmail       = "ERR_INVALID_EMAIL"
	CodeInvalidPassword    = "ERR_INVALID_PASSWORD"
	CodeInvalidName        = "ERR_INVALID_NAME"
	CodeInvalidCreds       = "ERR_INVALID_CREDS"
	CodeEmailRegistered    = "ERR_EMAIL_ALREADY_REGISTERED"
	CodeInvalidAccessToken = "ERR_INVALID_ACCESS_TOKEN"
	CodeInvalidRefresh     = "ERR_INVALID_REFRESH_TOKEN"
	CodeNotFound           = "ERR_NOT_FOUND"
	CodeForbidden          = "ERR_FORBIDDEN_ACCESS"
)

// Predefined domain errors
var (
	// Input validation
	ErrInvalidEmail    = NewDomainError(CodeInvalidEmail, "invalid email format")
	ErrInvalidPassword = NewDomainError(CodeInvalidPassword, fmt.Sprintf("Password must be between %d and %d characters long", constants.MinPasswordLength, constants.MaxPasswordLength))
	ErrInvalidName     = NewDomainError(CodeInvalidName, fmt.Sprintf("Name must be between %d and %d characters long", constants.MinNameLength, constants.MaxNameLength))
	ErrInvalidMessage  = NewDomainError(CodeInvalidMessage, fmt.Sprintf("the message should between %d and %d characters", constants.MinMessageLength, constants.MaxMessageLength))
	ErrEmptyMessage    = NewDomainError(CodeInvalidMessage, "the message must not empty")

	// Identity
	ErrInvalidCredentials  = NewDomainError(CodeInvalidCreds, "incorrect email or password")
	ErrEmailRegistered     = NewDomainError(CodeEmailRegistered, "given email is already registered.")
	ErrInvalidAccessToken  = NewDomainError(CodeInvalidAccessToken, "invalid access token")
	ErrInvalidRefreshToken = NewDomainError(CodeInvalidRefresh, "invalid refresh token")

	// Resources
	ErrNotFound  = NewDomainError(CodeNotFound, "resource is not found")
	ErrForbidden = NewDomainError(CodeForbidden, "user don't have authorization to access this resource")

	// System errors
	ErrInternal = NewDomainError(CodeInternal, "internal server error")
)

// IsDomainError checks if an error is a domain error
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// GetDomainError extracts the domain error from an error
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// ToHTTPStatus maps domain errors to HTTP status codes
// This should only be used in the handler/presentation layer
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErrorToHTTPStatus(domainErr)
	}

	// Default to internal server error for unknown errors
	return http.StatusInternalServerError
}

func domainErrorToHTTPStatus(err *DomainError) int {
	switch err.Code {
	// 400 Bad Request
	case CodeInvalidMessage, CodeInvalidEmail, CodeInvalidPassword, CodeInvalidName:
		return http.StatusBadRequest

	// 401 Unauthorized
	case CodeInvalidCreds, CodeInvalidAccessToken, CodeInvalidRefresh:
		return http.StatusUnauthorized

	// 403 Forbidden
	case CodeForbidden:
		return http.StatusForbidden

	// 404 Not Found
	case CodeNotFound:
		return http.StatusNotFound

	// 409 Conflict
	case CodeEmailRegistered:
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}

// GetErrorMessage safely extracts error message
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}

	return err.Error()
}

// GetErrorCode returns the response code for err, falling back to the
// internal server code for anything that is not a DomainError.
func GetErrorCode(err error) string {
	if d := GetDomainError(err); d != nil {
		return d.Code
	}
	return CodeInternal
}
