package deck

import (
	"errors"
	"fmt"

	"github.com/phrazzld/arcana-api/internal/domain"
)

// Deck operation errors
var (
	// ErrInvalidSize is returned when a requested deck size exceeds the
	// number of available cards or is not positive.
	ErrInvalidSize = errors.New("invalid deck size")

	// ErrIndexOutOfRange is returned when a draw index does not refer to a
	// card remaining in the deck.
	ErrIndexOutOfRange = errors.New("draw index out of range")
)

// Deck is an ordered sequence of card references scoped to one session.
// A deck never contains the same card ID twice. Shuffle and Draw return new
// decks rather than mutating the receiver, so a caller's reference is never
// changed out from under it.
type Deck []*domain.Card

// Build creates a deck from the given cards. If size is zero the full set is
// used; otherwise a uniformly random subset without replacement of that size
// is selected using the given source.
// Returns ErrInvalidSize if size is negative or exceeds the available cards.
func Build(cards []*domain.Card, size int, src Source) (Deck, error) {
	if size < 0 || size > len(cards) {
		return nil, fmt.Errorf("%w: %d of %d available", ErrInvalidSize, size, len(cards))
	}

	out := make(Deck, len(cards))
	copy(out, cards)

	if size == 0 || size == len(cards) {
		return out, nil
	}

	// Partial Fisher-Yates: after k swaps the first k entries are a uniform
	// subset without replacement.
	for i := 0; i < size; i++ {
		j := i + src.Intn(len(out)-i)
		out[i], out[j] = out[j], out[i]
	}
	return out[:size], nil
}

// Shuffle returns a uniformly shuffled copy of the deck. Every permutation
// is equally likely given a uniform source.
func Shuffle(d Deck, src Source) Deck {
	out := make(Deck, len(d))
	copy(out, d)
	src.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Draw removes and returns the card at the given index, together with a new
// deck excluding it. The receiver deck is left unchanged.
// Returns ErrIndexOutOfRange if the index does not refer to a remaining card.
func Draw(d Deck, index int) (*domain.Card, Deck, error) {
	if index < 0 || index >= len(d) {
		return nil, nil, fmt.Errorf("%w: index %d, deck size %d", ErrIndexOutOfRange, index, len(d))
	}

	card := d[index]
	rest := make(Deck, 0, len(d)-1)
	rest = append(rest, d[:index]...)
	rest = append(rest, d[index+1:]...)
	return card, rest, nil
}

// IndexOf returns the position of the card with the given ID, or -1 if the
// deck does not contain it.
func (d Deck) IndexOf(cardID string) int {
	for i, c := range d {
		if c.ID == cardID {
			return i
		}
	}
	return -1
}
