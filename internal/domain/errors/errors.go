// Package errors provides domain-specific error types.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Error codes for domain errors.
const (
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeInternal           = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"

	ErrCodeRecipientNotFound         = "RECIPIENT_NOT_FOUND"
	ErrCodeSessionNotFound           = "SESSION_NOT_FOUND"
	ErrCodeSessionExpired            = "SESSION_EXPIRED"
	ErrCodeRegenerationLimitExceeded = "REGENERATION_LIMIT_EXCEEDED"
	ErrCodeVariantNotFound           = "VARIANT_NOT_FOUND"
	ErrCodeGenerationFailed          = "GENERATION_FAILED"
	ErrCodeGenerationRateLimited     = "GENERATION_RATE_LIMITED"
	ErrCodeDeliveryFailed            = "DELIVERY_FAILED"
)

// Element types carried by regeneration and variant errors.
const (
	ElementText  = "text"
	ElementImage = "image"
)

// DomainError represents a domain-specific error.
type DomainError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"`

	// ElementType is "text" or "image" for regeneration and variant errors.
	ElementType string `json:"elementType,omitempty"`
	// Index is the offending variant index for VARIANT_NOT_FOUND.
	Index int `json:"index,omitempty"`
	// Max is the configured regeneration budget for REGENERATION_LIMIT_EXCEEDED.
	Max int `json:"max,omitempty"`
	// RetryAfter is the backoff hint for GENERATION_RATE_LIMITED.
	RetryAfter time.Duration `json:"-"`
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new not found error.
func NewNotFoundError(resource, identifier string) *DomainError {
	return &DomainError{
		Code:       ErrCodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		Details:    identifier,
		HTTPStatus: http.StatusNotFound,
	}
}

// NewValidationError creates a new validation error.
func NewValidationError(message string, details string) *DomainError {
	return &DomainError{
		Code:       ErrCodeValidation,
		Message:    message,
		Details:    details,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewInternalError creates a new internal error.
func NewInternalError(message string, err error) *DomainError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &DomainError{
		Code:       ErrCodeInternal,
		Message:    message,
		Details:    details,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewServiceUnavailableError creates a new service unavailable error.
func NewServiceUnavailableError(service string, err error) *DomainError {
	return &DomainError{
		Code:       ErrCodeServiceUnavailable,
		Message:    fmt.Sprintf("%s is unavailable", service),
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        err,
	}
}

// NewRecipientNotFoundError is returned when the directory has no matching recipient.
func NewRecipientNotFoundError(name string) *DomainError {
	return &DomainError{
		Code:       ErrCodeRecipientNotFound,
		Message:    "recipient not found",
		Details:    name,
		HTTPStatus: http.StatusNotFound,
	}
}

// NewSessionNotFoundError is returned for unknown session identifiers.
func NewSessionNotFoundError(sessionID string) *DomainError {
	return &DomainError{
		Code:       ErrCodeSessionNotFound,
		Message:    "session not found",
		Details:    sessionID,
		HTTPStatus: http.StatusNotFound,
	}
}

// NewSessionExpiredError is returned when a session outlived its TTL.
func NewSessionExpiredError(sessionID string) *DomainError {
	return &DomainError{
		Code:       ErrCodeSessionExpired,
		Message:    "session expired",
		Details:    sessionID,
		HTTPStatus: http.StatusGone,
	}
}

// NewRegenerationLimitError is returned when an element type has no regenerations left.
func NewRegenerationLimitError(elementType string, limit int) *DomainError {
	return &DomainError{
		Code:        ErrCodeRegenerationLimitExceeded,
		Message:     fmt.Sprintf("%s regeneration limit of %d reached", elementType, limit),
		HTTPStatus:  http.StatusTooManyRequests,
		ElementType: elementType,
		Max:         limit,
	}
}

// NewVariantNotFoundError is returned for a variant index outside the session's lists.
func NewVariantNotFoundError(elementType string, index int) *DomainError {
	return &DomainError{
		Code:        ErrCodeVariantNotFound,
		Message:     fmt.Sprintf("%s variant %d not found", elementType, index),
		HTTPStatus:  http.StatusNotFound,
		ElementType: elementType,
		Index:       index,
	}
}

// NewGenerationError wraps a failure of the text or image generation backend.
func NewGenerationError(elementType string, err error) *DomainError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &DomainError{
		Code:        ErrCodeGenerationFailed,
		Message:     fmt.Sprintf("%s generation failed", elementType),
		Details:     details,
		HTTPStatus:  http.StatusBadGateway,
		ElementType: elementType,
		Err:         err,
	}
}

// NewGenerationRateLimitedError wraps a rate-limit response of the generation backend.
func NewGenerationRateLimitedError(elementType string, retryAfter time.Duration, err error) *DomainError {
	return &DomainError{
		Code:        ErrCodeGenerationRateLimited,
		Message:     fmt.Sprintf("%s generation is rate limited", elementType),
		Details:     fmt.Sprintf("retry after %s", retryAfter),
		HTTPStatus:  http.StatusServiceUnavailable,
		ElementType: elementType,
		RetryAfter:  retryAfter,
		Err:         err,
	}
}

// NewDeliveryError wraps a failure of the messaging channel.
func NewDeliveryError(err error) *DomainError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &DomainError{
		Code:       ErrCodeDeliveryFailed,
		Message:    "card delivery failed",
		Details:    details,
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

// IsDomainError checks if the error is a domain error.
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// GetDomainError extracts the domain error from an error.
func GetDomainError(err error) (*DomainError, bool) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr, true
	}
	return nil, false
}

// HasCode reports whether err is a domain error with the given code.
func HasCode(err error, code string) bool {
	domainErr, ok := GetDomainError(err)
	return ok && domainErr.Code == code
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return HasCode(err, ErrCodeNotFound)
}

// IsValidationError checks if the error is a validation error.
func IsValidationError(err error) bool {
	return HasCode(err, ErrCodeValidation)
}

// IsSessionUnavailable reports whether the session is unknown or expired.
func IsSessionUnavailable(err error) bool {
	return HasCode(err, ErrCodeSessionNotFound) || HasCode(err, ErrCodeSessionExpired)
}

// IsRegenerationLimitExceeded checks if the error is a regeneration limit error.
func IsRegenerationLimitExceeded(err error) bool {
	return HasCode(err, ErrCodeRegenerationLimitExceeded)
}

// IsGenerationError reports whether err is a generation failure of either kind.
func IsGenerationError(err error) bool {
	return HasCode(err, ErrCodeGenerationFailed) || HasCode(err, ErrCodeGenerationRateLimited)
}
