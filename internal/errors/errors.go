package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// MalformedRecord indicates one analyzer's raw output could not be parsed
	MalformedRecord ErrorCode = "MALFORMED_RECORD"
	// UnknownCode indicates a native rule code with no category/severity mapping
	UnknownCode ErrorCode = "UNKNOWN_CODE"
	// CoverageDegraded indicates an expected analyzer contributed nothing
	CoverageDegraded ErrorCode = "COVERAGE_DEGRADED"
	// ConfigurationInvalid indicates a policy table failed a structural check
	ConfigurationInvalid ErrorCode = "CONFIGURATION_INVALID"
	// BundleInvalid indicates the diagnostics bundle itself is unusable
	BundleInvalid ErrorCode = "BUNDLE_INVALID"
	// StoreUnavailable indicates the report history store cannot be opened
	StoreUnavailable ErrorCode = "STORE_UNAVAILABLE"
	// InternalError indicates an unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// RevqError represents an engine error with a stable code and message
type RevqError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	cause   error
}

// New creates a new RevqError
func New(code ErrorCode, message string, cause error) *RevqError {
	return &RevqError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Newf creates a new RevqError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *RevqError {
	return &RevqError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface
func (e *RevqError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *RevqError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *RevqError) WithDetails(details interface{}) *RevqError {
	e.Details = details
	return e
}

// CodeOf extracts the stable code from err, or INTERNAL_ERROR if err
// carries no RevqError in its chain.
func CodeOf(err error) ErrorCode {
	var re *RevqError
	if errors.As(err, &re) {
		return re.Code
	}
	return InternalError
}

// IsFatal reports whether err must block report generation. Only
// configuration and bundle-level failures are fatal; per-record and
// per-analyzer conditions are recovered locally.
func IsFatal(err error) bool {
	switch CodeOf(err) {
	case ConfigurationInvalid, BundleInvalid:
		return true
	}
	return false
}
