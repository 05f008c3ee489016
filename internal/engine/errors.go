package engine

import (
	"errors"
	"fmt"
)

// RuleError represents a recomputation rule rejecting its inputs.
//
// Rule errors are recoverable: the caller keeps the previous artifact and
// reports the failure. They include:
//   - Invalid selection: a control value or pointer index outside its domain
//   - Insufficient data: the selected rows cannot produce the chart
//   - Unknown artifact: no rule is registered under the requested name
type RuleError struct {
	// Code identifies the error category.
	Code RuleErrorCode

	// Message is a human-readable description.
	Message string

	// Artifact names the artifact being recomputed, if any.
	Artifact string

	// Details contains additional context.
	Details map[string]string
}

// RuleErrorCode categorizes rule errors.
type RuleErrorCode string

const (
	// ErrCodeInvalidSelection indicates a control value, column name, or
	// pointer curve number outside its domain.
	ErrCodeInvalidSelection RuleErrorCode = "INVALID_SELECTION"

	// ErrCodeInsufficientData indicates the selected rows are too few (or
	// sum to zero) for the chart.
	ErrCodeInsufficientData RuleErrorCode = "INSUFFICIENT_DATA"

	// ErrCodeUnknownArtifact indicates no rule is registered for the name.
	ErrCodeUnknownArtifact RuleErrorCode = "UNKNOWN_ARTIFACT"
)

// Error implements the error interface.
func (e *RuleError) Error() string {
	if e.Artifact != "" {
		return fmt.Sprintf("%s: %s (artifact=%s)", e.Code, e.Message, e.Artifact)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// CodeOf returns the code of a wrapped *RuleError, or "".
func CodeOf(err error) RuleErrorCode {
	var re *RuleError
	if errors.As(err, &re) {
		return re.Code
	}
	return ""
}

// IsInvalidSelection returns true if the error is an invalid selection.
// Uses errors.As to handle wrapped errors.
func IsInvalidSelection(err error) bool {
	return CodeOf(err) == ErrCodeInvalidSelection
}

// IsInsufficientData returns true if the error is an insufficient data error.
func IsInsufficientData(err error) bool {
	return CodeOf(err) == ErrCodeInsufficientData
}

// IsUnknownArtifact returns true if the error names an unregistered artifact.
func IsUnknownArtifact(err error) bool {
	return CodeOf(err) == ErrCodeUnknownArtifact
}

// NewInvalidSelection creates a RuleError for an out-of-domain input.
func NewInvalidSelection(artifact, message string, details map[string]string) *RuleError {
	return &RuleError{
		Code:     ErrCodeInvalidSelection,
		Message:  message,
		Artifact: artifact,
		Details:  details,
	}
}

// NewInsufficientData creates a RuleError for a row set too small to chart.
func NewInsufficientData(artifact string, rows, need int) *RuleError {
	return &RuleError{
		Code:     ErrCodeInsufficientData,
		Message:  fmt.Sprintf("selection has %d usable rows, need at least %d", rows, need),
		Artifact: artifact,
		Details: map[string]string{
			"rows": fmt.Sprintf("%d", rows),
			"need": fmt.Sprintf("%d", need),
		},
	}
}

func newUnknownArtifact(name string) *RuleError {
	return &RuleError{
		Code:     ErrCodeUnknownArtifact,
		Message:  fmt.Sprintf("no artifact named %q", name),
		Artifact: name,
	}
}
