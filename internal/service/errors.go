package service

import (
	"errors"
	"fmt"
)

// Common sentinel errors for ReadingService
var (
	// ErrSessionNotFound indicates that no active session has the given ID.
	ErrSessionNotFound = errors.New("reading session not found")

	// ErrSessionBusy indicates that the interpretation queue rejected a
	// job; the session was moved to the error state and may be retried.
	ErrSessionBusy = errors.New("interpretation queue is full")

	// ErrSaveFailed indicates that persisting a completed reading failed.
	// The reading itself is intact; the save may be retried independently.
	ErrSaveFailed = errors.New("failed to save reading")

	// ErrNotSavable indicates a save was requested for a session that has
	// no completed interpretation yet.
	ErrNotSavable = errors.New("session has no completed reading to save")
)

// ReadingServiceError wraps errors from the reading service with context.
type ReadingServiceError struct {
	// Operation is the operation that failed (e.g., "start_reading").
	Operation string
	// Message is a human-readable description of the error.
	Message string
	// Err is the underlying error that caused the failure.
	Err error
}

// Error implements the error interface for ReadingServiceError.
func (e *ReadingServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("reading service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("reading service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ReadingServiceError) Unwrap() error {
	return e.Err
}
