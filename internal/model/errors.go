package model

import (
	"errors"
	"fmt"
)

// Core error taxonomy. Operations wrap these with fmt.Errorf("...: %w") so
// callers can classify failures with errors.Is; the API layer maps them to
// HTTP statuses. No stored data is mutated on any failed operation.
var (
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
	ErrAlreadyDecided = errors.New("claim already decided")
)

// ValidationError reports missing or malformed caller input. The caller can
// always recover by correcting the input and retrying.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}
