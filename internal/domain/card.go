package domain

import "errors"

// ArcanaType distinguishes the two card categories of a tarot deck.
type ArcanaType string

// Possible arcana types.
const (
	ArcanaMajor ArcanaType = "major"
	ArcanaMinor ArcanaType = "minor"
)

// Suit is the minor arcana suit of a card. Major arcana cards have no suit.
type Suit string

// The four minor arcana suits.
const (
	SuitCups      Suit = "cups"
	SuitWands     Suit = "wands"
	SuitSwords    Suit = "swords"
	SuitPentacles Suit = "pentacles"
)

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardNameEmpty is returned when a card name is empty.
	ErrCardNameEmpty = errors.New("card name cannot be empty")

	// ErrCardArcanaInvalid is returned when a card's arcana type is not
	// major or minor.
	ErrCardArcanaInvalid = errors.New("card arcana type must be major or minor")

	// ErrCardSuitInvalid is returned when a minor arcana card is missing a
	// suit, carries an unknown suit, or a major arcana card carries one.
	ErrCardSuitInvalid = errors.New("card suit is invalid for its arcana type")

	// ErrCardMeaningEmpty is returned when a card is missing upright or
	// reversed meaning text.
	ErrCardMeaningEmpty = errors.New("card meaning text cannot be empty")
)

// Card represents a single tarot card definition. Cards are loaded once by
// the catalog and are never mutated by reading sessions; sessions only borrow
// references to them.
type Card struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Arcana           ArcanaType `json:"arcana"`
	Suit             Suit       `json:"suit,omitempty"`
	ImageRef         string     `json:"image_ref"`
	UprightMeaning   string     `json:"upright_meaning"`
	ReversedMeaning  string     `json:"reversed_meaning"`
	UprightKeywords  []string   `json:"upright_keywords"`
	ReversedKeywords []string   `json:"reversed_keywords"`
}

// Validate checks if the Card has valid data.
// Returns an error if any field fails validation.
func (c *Card) Validate() error {
	if c.ID == "" {
		return ErrCardIDEmpty
	}

	if c.Name == "" {
		return ErrCardNameEmpty
	}

	switch c.Arcana {
	case ArcanaMajor:
		if c.Suit != "" {
			return ErrCardSuitInvalid
		}
	case ArcanaMinor:
		if !isValidSuit(c.Suit) {
			return ErrCardSuitInvalid
		}
	default:
		return ErrCardArcanaInvalid
	}

	if c.UprightMeaning == "" || c.ReversedMeaning == "" {
		return ErrCardMeaningEmpty
	}

	return nil
}

// Meaning returns the meaning text matching the given orientation.
func (c *Card) Meaning(reversed bool) string {
	if reversed {
		return c.ReversedMeaning
	}
	return c.UprightMeaning
}

// Keywords returns the keyword list matching the given orientation.
func (c *Card) Keywords(reversed bool) []string {
	if reversed {
		return c.ReversedKeywords
	}
	return c.UprightKeywords
}

// isValidSuit checks if the given suit is one of the four minor arcana suits.
func isValidSuit(s Suit) bool {
	switch s {
	case SuitCups, SuitWands, SuitSwords, SuitPentacles:
		return true
	default:
		return false
	}
}
