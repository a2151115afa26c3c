package domain

import "errors"

// Spread-specific validation errors
var (
	// ErrSpreadIDEmpty is returned when a spread ID is empty.
	ErrSpreadIDEmpty = errors.New("spread ID cannot be empty")

	// ErrSpreadCardCountInvalid is returned when a spread's required card
	// count is not positive.
	ErrSpreadCardCountInvalid = errors.New("spread card count must be positive")

	// ErrSpreadLabelsMismatch is returned when the number of position labels
	// does not match the required card count.
	ErrSpreadLabelsMismatch = errors.New(
		"spread position labels must match required card count")

	// ErrSpreadTableTooSmall is returned when a spread's table size is
	// smaller than its required card count.
	ErrSpreadTableTooSmall = errors.New(
		"spread table size cannot be smaller than required card count")
)

// Spread describes a reading layout: how many cards are drawn and what each
// drawn position means. Spreads are immutable catalog entries; the session
// state machine and the assembler only ever look up PositionLabels, never
// branch on the spread ID.
type Spread struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	RequiredCardCount int      `json:"required_card_count"`
	PositionLabels    []string `json:"position_labels"`

	// TableSize is how many face-down candidate cards are dealt for the
	// user to select from. Zero means the full deck is dealt.
	TableSize int `json:"table_size"`
}

// Validate checks if the Spread has valid data.
// Returns an error if any field fails validation.
func (s *Spread) Validate() error {
	if s.ID == "" {
		return ErrSpreadIDEmpty
	}

	if s.RequiredCardCount <= 0 {
		return ErrSpreadCardCountInvalid
	}

	if len(s.PositionLabels) != s.RequiredCardCount {
		return ErrSpreadLabelsMismatch
	}

	if s.TableSize != 0 && s.TableSize < s.RequiredCardCount {
		return ErrSpreadTableTooSmall
	}

	return nil
}
