package catalog

import (
	"errors"
	"fmt"
)

// Common catalog errors.
var (
	// ErrNotFound is returned when a requested catalog entry does not exist.
	// This is the generic version of the entry-specific not found errors.
	ErrNotFound = errors.New("catalog entry not found")

	// ErrCardNotFound indicates that the requested card does not exist in
	// the card catalog.
	ErrCardNotFound = fmt.Errorf("%w: card", ErrNotFound)

	// ErrSpreadNotFound indicates that the requested spread does not exist
	// in the spread catalog.
	ErrSpreadNotFound = fmt.Errorf("%w: spread", ErrNotFound)
)
