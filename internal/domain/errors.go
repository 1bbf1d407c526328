package domain

import (
	"errors"
	"fmt"
)

// Sentinels matched with errors.Is against the typed errors below
var (
	ErrValidation         = errors.New("invalid input")
	ErrDataUnavailable    = errors.New("data unavailable")
	ErrProjectionDiverged = errors.New("projection diverged")
	ErrNotFound           = errors.New("not found")
)

// ValidationError is returned before any simulation runs
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError creates a ValidationError for the given field
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// DataUnavailableError wraps a collaborator failure
// The projection core recovers from it with fallback values; it is never surfaced
type DataUnavailableError struct {
	Source string
	Err    error
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Source, e.Err)
}

func (e *DataUnavailableError) Is(target error) bool {
	return target == ErrDataUnavailable
}

func (e *DataUnavailableError) Unwrap() error {
	return e.Err
}

// ProjectionDivergedError is returned when a simulation phase hits the iteration cap
type ProjectionDivergedError struct {
	Phase  string
	Months int
}

func (e *ProjectionDivergedError) Error() string {
	return fmt.Sprintf("%s phase did not terminate within %d months", e.Phase, e.Months)
}

func (e *ProjectionDivergedError) Is(target error) bool {
	return target == ErrProjectionDiverged
}
