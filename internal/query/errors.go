package query

import (
	"errors"
	"fmt"
)

// ConstructionError reports an invalid request made while building a Query.
//
// Construction errors are synchronous and local: they are returned to the
// immediate caller of the offending builder call and never retried.
type ConstructionError struct {
	// Code identifies the error category.
	Code ConstructionErrorCode

	// Message is a human-readable description.
	Message string
}

// ConstructionErrorCode categorizes construction errors.
type ConstructionErrorCode string

const (
	// ErrCodeDistinctReduced indicates DISTINCT and REDUCED were both requested.
	ErrCodeDistinctReduced ConstructionErrorCode = "DISTINCT_REDUCED"

	// ErrCodeUnknownOption indicates an unrecognized constructor option key.
	ErrCodeUnknownOption ConstructionErrorCode = "UNKNOWN_OPTION"

	// ErrCodeInvalidOption indicates a recognized option with an unusable value.
	ErrCodeInvalidOption ConstructionErrorCode = "INVALID_OPTION"

	// ErrCodeSliceStep indicates a slice step other than 1.
	ErrCodeSliceStep ConstructionErrorCode = "SLICE_STEP"

	// ErrCodeSliceBounds indicates negative or inverted slice bounds.
	ErrCodeSliceBounds ConstructionErrorCode = "SLICE_BOUNDS"
)

// Error implements the error interface.
func (e *ConstructionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsConstructionError returns true if err is (or wraps) a ConstructionError.
func IsConstructionError(err error) bool {
	var ce *ConstructionError
	return errors.As(err, &ce)
}

// ErrorCode returns the ConstructionErrorCode carried by err, or "".
func ErrorCode(err error) ConstructionErrorCode {
	var ce *ConstructionError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

func newConstructionError(code ConstructionErrorCode, format string, args ...any) *ConstructionError {
	return &ConstructionError{Code: code, Message: fmt.Sprintf(format, args...)}
}
