package gemini

import "errors"

// Package-specific errors. API failures are reported through the sentinel
// taxonomy in the interpret package so callers never depend on this one.
var (
	// ErrEmptyRequest is returned when a narrative is requested for a
	// reading with no placed cards.
	ErrEmptyRequest = errors.New("narrative request has no placed cards")
)
