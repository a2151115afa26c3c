package interpret

import "errors"

// Common errors returned by narrative generation
var (
	// ErrNarrativeUnavailable is returned when the external narrative
	// collaborator is not configured or cannot be reached. The assembler
	// absorbs it via the deterministic fallback.
	ErrNarrativeUnavailable = errors.New("narrative generation unavailable")

	// ErrInvalidResponse is returned when the generation service response
	// cannot be parsed or is malformed.
	ErrInvalidResponse = errors.New("invalid response from narrative service")

	// ErrContentBlocked is returned when the generation service blocks the
	// content due to safety filters.
	ErrContentBlocked = errors.New("content blocked by narrative service safety filters")

	// ErrTransientFailure is returned for temporary errors that might
	// resolve on retry.
	ErrTransientFailure = errors.New("transient error during narrative generation")

	// ErrInvalidConfig is returned when the narrative generator
	// configuration is invalid.
	ErrInvalidConfig = errors.New("invalid narrative generator configuration")

	// ErrNoPlacedCards is returned when assembly is requested for an empty
	// reading. This is a programming error in the caller, not a degraded
	// mode.
	ErrNoPlacedCards = errors.New("cannot assemble an interpretation with no placed cards")
)
