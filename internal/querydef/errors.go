package querydef

import (
	"fmt"

	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// Error code constants, shared with the CLI.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Glob or directory scan error
	ErrCodeNoFiles     = "E003" // No definition files matched
	ErrCodeLoadFailed  = "E004" // File unreadable or not parseable
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE evaluation failed
	ErrCodeWriteFailed = "E007" // Output write error

	// Definition errors
	ErrCodeNoQueries     = "E201" // File defines no queries
	ErrCodeInvalidTerm   = "E202" // Unparseable term
	ErrCodeInvalidSelect = "E203" // Non-variable projection entry
	ErrCodeInvalidWhere  = "E204" // Malformed where entry
	ErrCodeInvalidFilter = "E205" // Malformed filter
	ErrCodeInvalidOrder  = "E206" // Malformed order_by key
	ErrCodeInvalidPrefix = "E207" // Invalid prefix binding
	ErrCodeInvalidQuery  = "E208" // Query construction rejected the definition
)

// LoadError represents an error that occurred while loading definitions.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newLoadError(code, format string, args ...any) *LoadError {
	return &LoadError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error, code string) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Code: code, Message: err.Error()}
	}

	// Report the first error; CUE tends to repeat the root cause
	first := errs[0]
	loadErr := &LoadError{Code: code, Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		loadErr.Pos = positions[0]
	}
	return loadErr
}
