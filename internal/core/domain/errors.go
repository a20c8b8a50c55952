// Package domain defines the core domain models for FitPlan.
package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business domain error with a structured error code.
// Codes use the format FP-<AREA>-<NNNN>.
type DomainError struct {
	Code    string // Error code (e.g., "FP-SESS-4220")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a DomainError with the same code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// Session Errors (SESS)
// ============================================================================

var (
	// ErrSessionMalformed indicates the stored user record could not be decoded.
	ErrSessionMalformed = NewDomainError("FP-SESS-4220", "stored session record is malformed")

	// ErrSessionInvalid indicates a record offered for storage is not a JSON object.
	ErrSessionInvalid = NewDomainError("FP-SESS-4001", "session record must be a JSON object")
)

// ============================================================================
// Route Errors (ROUT)
// ============================================================================

var (
	// ErrRouteUndetermined indicates the active route could not be resolved.
	ErrRouteUndetermined = NewDomainError("FP-ROUT-4040", "active route could not be determined")

	// ErrTrackerReleased indicates the tracker subscription was already released.
	ErrTrackerReleased = NewDomainError("FP-ROUT-4090", "route tracker already released")
)

// ============================================================================
// Plan Errors (PLAN)
// ============================================================================

var (
	// ErrPlanRequestFailed indicates the completion service call failed.
	ErrPlanRequestFailed = NewDomainError("FP-PLAN-5020", "plan request failed")

	// ErrPlanEmptyResponse indicates the completion service returned no candidates.
	ErrPlanEmptyResponse = NewDomainError("FP-PLAN-5021", "completion returned no candidates")

	// ErrPlanRateLimited indicates the local request budget is exhausted.
	ErrPlanRateLimited = NewDomainError("FP-PLAN-4290", "plan request rate limited")
)

// ============================================================================
// System Errors (SYS)
// ============================================================================

var (
	// ErrInternal indicates an internal error.
	ErrInternal = NewDomainError("FP-SYS-5000", "internal error")

	// ErrStorage indicates a storage layer error.
	ErrStorage = NewDomainError("FP-SYS-5001", "storage error")

	// ErrBadRequest indicates a malformed request.
	ErrBadRequest = NewDomainError("FP-SYS-4000", "bad request")

	// ErrRateLimited indicates too many requests.
	ErrRateLimited = NewDomainError("FP-SYS-4290", "too many requests")

	// ErrInvalidConfig indicates the configuration failed validation.
	ErrInvalidConfig = NewDomainError("FP-CONF-4000", "invalid configuration")
)
