package store

import (
	"errors"
	"fmt"
)

// LoadErrorCode categorizes load failures.
type LoadErrorCode string

const (
	// ErrCodeMissingFile indicates the input path does not exist.
	ErrCodeMissingFile LoadErrorCode = "MISSING_FILE"

	// ErrCodeUnreadable indicates the input exists but cannot be read.
	ErrCodeUnreadable LoadErrorCode = "UNREADABLE"

	// ErrCodeMalformed indicates a structural problem: empty or duplicate
	// header, or a row whose width disagrees with the header.
	ErrCodeMalformed LoadErrorCode = "MALFORMED"

	// ErrCodeMissingKeyColumn indicates the required key column is absent.
	ErrCodeMissingKeyColumn LoadErrorCode = "MISSING_KEY_COLUMN"
)

// ErrUnknownColumn is returned by lookups naming a column the table lacks.
var ErrUnknownColumn = errors.New("unknown column")

// LoadError reports why a table could not be loaded.
type LoadError struct {
	// Code identifies the error category.
	Code LoadErrorCode

	// Path is the input file, if known.
	Path string

	// Line is the 1-based input line for row-level errors (0 if unknown).
	Line int

	// Message is a human-readable description.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	switch {
	case e.Path != "" && e.Line > 0:
		msg = fmt.Sprintf("%s (%s:%d)", msg, e.Path, e.Line)
	case e.Path != "":
		msg = fmt.Sprintf("%s (%s)", msg, e.Path)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// IsLoadError returns true if err is (or wraps) a *LoadError.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}

// LoadErrorCodeOf returns the code of a wrapped *LoadError, or "".
func LoadErrorCodeOf(err error) LoadErrorCode {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Code
	}
	return ""
}
