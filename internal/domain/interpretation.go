package domain

import "errors"

// Interpretation-specific validation errors
var (
	// ErrInterpretationSummaryEmpty is returned when an interpretation is
	// missing its summary line.
	ErrInterpretationSummaryEmpty = errors.New("interpretation summary cannot be empty")

	// ErrInterpretationSectionsEmpty is returned when an interpretation has
	// no per-card sections.
	ErrInterpretationSectionsEmpty = errors.New("interpretation must have at least one section")
)

// InterpretationSection is the per-card portion of an interpretation. The
// sections of an interpretation are keyed one-to-one with the session's
// placed cards, in the same order.
type InterpretationSection struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Keywords []string `json:"keywords,omitempty"`
}

// Interpretation is the assembled narrative for a completed reading. It is
// produced once per session and is immutable after creation.
// CombinedNarrative is present only for readings of more than one card.
type Interpretation struct {
	Summary           string                  `json:"summary"`
	Sections          []InterpretationSection `json:"sections"`
	CombinedNarrative string                  `json:"combined_narrative,omitempty"`
	Conclusion        string                  `json:"conclusion,omitempty"`
}

// Validate checks if the Interpretation has valid data.
// Returns an error if any field fails validation.
func (i *Interpretation) Validate() error {
	if i.Summary == "" {
		return ErrInterpretationSummaryEmpty
	}

	if len(i.Sections) == 0 {
		return ErrInterpretationSectionsEmpty
	}

	return nil
}
