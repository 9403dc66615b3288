// Package errs provides standardized error types for the dispatch application.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes several error types for common error scenarios:
//   - ValueIsRequiredError: For when a required value is missing
//   - ValueIsInvalidError: For when a value is invalid
//   - ValueIsOutOfRangeError: For when a value falls outside allowed bounds
//   - ObjectNotFoundError: For when an object cannot be found
//   - ProviderError: For when an external provider answers with a non-success status
//   - UnavailableError: For when an external provider does not answer at all
//   - DistanceLookupError: For when a distance matrix request fails outright
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method for error wrapping/unwrapping support
//
// This standardized approach to error handling improves error reporting,
// makes error handling more consistent, and enables better error classification
// and handling throughout the application.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors used as unwrap targets for errors.Is classification.
var (
	ErrObjectNotFound    = errors.New("object not found")
	ErrValueIsInvalid    = errors.New("value is invalid")
	ErrValueIsOutOfRange = errors.New("value is out of range")
	ErrValueIsRequired   = errors.New("value is required")
	ErrProvider          = errors.New("provider rejected request")
	ErrUnavailable       = errors.New("service unavailable")
	ErrDistanceLookup    = errors.New("distance lookup failed")
)

// sanitize collapses newlines so formatted values cannot break log lines.
func sanitize(v any) string {
	s := fmt.Sprintf("%s", v)
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return s
}

// ObjectNotFoundError indicates that a requested object does not exist.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

// NewObjectNotFoundError creates an ObjectNotFoundError without an underlying cause.
func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

// NewObjectNotFoundErrorWithCause creates an ObjectNotFoundError wrapping an underlying cause.
func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %s)",
			ErrObjectNotFound, e.ParamName, sanitize(e.ID), e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrObjectNotFound, sanitize(e.ID))
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ValueIsInvalidError indicates that a provided value failed validation.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

// NewValueIsInvalidError creates a ValueIsInvalidError without an underlying cause.
func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

// NewValueIsInvalidErrorWithCause creates a ValueIsInvalidError wrapping an underlying cause.
func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsInvalid, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName)
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError indicates that a value falls outside its allowed bounds.
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

// NewValueIsOutOfRangeError creates a ValueIsOutOfRangeError without an underlying cause.
func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

// NewValueIsOutOfRangeErrorWithCause creates a ValueIsOutOfRangeError wrapping an underlying cause.
func NewValueIsOutOfRangeErrorWithCause(
	paramName string, value, minValue, maxValue any, cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

func (e *ValueIsOutOfRangeError) Error() string {
	msg := fmt.Sprintf("%s: %v is %s, min value is %v, max value is %v",
		ErrValueIsInvalid, sanitizeValue(e.Value), e.ParamName, e.Min, e.Max)
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %s)", msg, e.Cause)
	}
	return msg
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// sanitizeValue keeps numeric values untouched but strips newlines from strings.
func sanitizeValue(v any) any {
	if s, ok := v.(string); ok {
		return sanitize(s)
	}
	return v
}

// ValueIsRequiredError indicates that a required value was not provided.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

// NewValueIsRequiredError creates a ValueIsRequiredError without an underlying cause.
func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

// NewValueIsRequiredErrorWithCause creates a ValueIsRequiredError wrapping an underlying cause.
func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsRequired, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName)
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// ProviderError indicates that an external provider answered the request but
// reported a non-success status. It is distinct from UnavailableError, which
// means the provider did not answer at all.
type ProviderError struct {
	Provider string
	Status   string
	Cause    error
}

// NewProviderError creates a ProviderError for the given provider and reported status.
func NewProviderError(provider, status string) *ProviderError {
	return &ProviderError{Provider: provider, Status: status}
}

// NewProviderErrorWithCause creates a ProviderError wrapping an underlying cause.
func NewProviderErrorWithCause(provider, status string, cause error) *ProviderError {
	return &ProviderError{Provider: provider, Status: status, Cause: cause}
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s returned %s (cause: %s)", ErrProvider, e.Provider, sanitize(e.Status), e.Cause)
	}
	return fmt.Sprintf("%s: %s returned %s", ErrProvider, e.Provider, sanitize(e.Status))
}

func (e *ProviderError) Unwrap() error {
	return ErrProvider
}

// UnavailableError indicates that an external service produced no response,
// typically a transport failure or timeout.
type UnavailableError struct {
	Service string
	Cause   error
}

// NewUnavailableError creates an UnavailableError without an underlying cause.
func NewUnavailableError(service string) *UnavailableError {
	return &UnavailableError{Service: service}
}

// NewUnavailableErrorWithCause creates an UnavailableError wrapping an underlying cause.
func NewUnavailableErrorWithCause(service string, cause error) *UnavailableError {
	return &UnavailableError{Service: service, Cause: cause}
}

func (e *UnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrUnavailable, e.Service, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrUnavailable, e.Service)
}

func (e *UnavailableError) Unwrap() error {
	return ErrUnavailable
}

// DistanceLookupError indicates that a distance matrix request failed as a
// whole: transport error, provider error, or a result-count mismatch against
// the destination count. Per-destination routing failures are not errors and
// are represented by the unreachable sentinel instead.
type DistanceLookupError struct {
	Detail string
	Cause  error
}

// NewDistanceLookupError creates a DistanceLookupError without an underlying cause.
func NewDistanceLookupError(detail string) *DistanceLookupError {
	return &DistanceLookupError{Detail: detail}
}

// NewDistanceLookupErrorWithCause creates a DistanceLookupError wrapping an underlying cause.
func NewDistanceLookupErrorWithCause(detail string, cause error) *DistanceLookupError {
	return &DistanceLookupError{Detail: detail, Cause: cause}
}

func (e *DistanceLookupError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrDistanceLookup, e.Detail, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrDistanceLookup, e.Detail)
}

func (e *DistanceLookupError) Unwrap() error {
	return ErrDistanceLookup
}
