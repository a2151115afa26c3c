package session

import (
	"errors"
	"fmt"

	"github.com/phrazzld/arcana-api/internal/deck"
	"github.com/phrazzld/arcana-api/internal/domain"
)

// Session-specific errors
var (
	// ErrCardNotOnTable is returned when a selected card ID is not among the
	// dealt table cards, either because it was never dealt or because it was
	// already drawn.
	ErrCardNotOnTable = fmt.Errorf("%w: card not on table", deck.ErrIndexOutOfRange)

	// ErrStaleInterpretation is returned when an interpretation result
	// arrives for a generation the session has since moved past. The caller
	// must discard the result.
	ErrStaleInterpretation = errors.New("interpretation result is stale")
)

// Session owns one reading flow: the domain session plus the dealt table,
// the randomness boundary, and the interpretation generation counter.
type Session struct {
	reading *domain.ReadingSession

	// cards is the full candidate set the table is rebuilt from on each
	// start (the catalog's deck, borrowed).
	cards []*domain.Card

	table   deck.Deck
	src     deck.Source
	decider *deck.OrientationDecider

	// generation identifies the current interpretation attempt. It advances
	// when interpretation starts and when the session resets, so a result
	// carrying an old generation is recognizably stale.
	generation uint64
}

// New creates a session orchestrator in the idle state.
func New(
	reading *domain.ReadingSession,
	cards []*domain.Card,
	src deck.Source,
	decider *deck.OrientationDecider,
) (*Session, error) {
	if reading == nil {
		return nil, errors.New("reading session cannot be nil")
	}
	if src == nil {
		return nil, errors.New("randomness source cannot be nil")
	}
	if decider == nil {
		return nil, errors.New("orientation decider cannot be nil")
	}
	if len(cards) < reading.Spread.RequiredCardCount {
		return nil, fmt.Errorf("%w: %d cards for a %d-card spread",
			deck.ErrInvalidSize, len(cards), reading.Spread.RequiredCardCount)
	}

	return &Session{
		reading: reading,
		cards:   cards,
		src:     src,
		decider: decider,
	}, nil
}

// Reading returns the underlying domain session. Callers outside the
// service layer must treat it as read-only.
func (s *Session) Reading() *domain.ReadingSession {
	return s.reading
}

// State returns the session's current state.
func (s *Session) State() domain.SessionState {
	return s.reading.State
}

// Generation returns the current interpretation generation.
func (s *Session) Generation() uint64 {
	return s.generation
}

// TableSize returns the number of cards remaining on the table.
func (s *Session) TableSize() int {
	return len(s.table)
}

// TableCardIDs returns the IDs of the cards remaining on the table, in
// table order. Selections refer to these IDs.
func (s *Session) TableCardIDs() []string {
	ids := make([]string, len(s.table))
	for i, c := range s.table {
		ids[i] = c.ID
	}
	return ids
}

// Start moves the session from idle to shuffling, building and shuffling
// the table for the spread. The spread's table size selects a uniform
// subset of the candidate cards; zero deals the full deck.
func (s *Session) Start() error {
	if err := s.reading.TransitionTo(domain.SessionStateShuffling); err != nil {
		return err
	}

	built, err := deck.Build(s.cards, s.reading.Spread.TableSize, s.src)
	if err != nil {
		// A table that cannot be built is session-fatal, not user input;
		// only retry or reset are legal afterwards.
		s.reading.LastError = err.Error()
		if tErr := s.reading.TransitionTo(domain.SessionStateError); tErr != nil {
			return errors.Join(err, tErr)
		}
		return err
	}

	s.table = deck.Shuffle(built, s.src)
	return nil
}

// Deal is the explicit settle signal that moves shuffling to dealt. The
// engine does not run timers; the caller decides when shuffling has
// visually completed.
func (s *Session) Deal() error {
	return s.reading.TransitionTo(domain.SessionStateDealt)
}

// SelectCard draws the card with the given ID from the table, decides its
// orientation once, and places it in the next spread position. The first
// selection moves dealt to selecting. When the placement fills the spread,
// the session enters interpreting and the returned generation identifies
// the interpretation attempt; otherwise the returned bool is false.
//
// Rejected selections (duplicate, spread full, card not on table, wrong
// state) leave the session entirely unchanged.
func (s *Session) SelectCard(cardID string) (full bool, generation uint64, err error) {
	switch s.reading.State {
	case domain.SessionStateDealt:
		// First selection; transition below after validation.
	case domain.SessionStateSelecting:
	default:
		return false, 0, domain.ErrInvalidTransition
	}

	if s.reading.SpreadFull() {
		return false, 0, domain.ErrSpreadFull
	}

	index := s.table.IndexOf(cardID)
	if index < 0 {
		// Distinguish "already placed" from "never dealt".
		for _, placed := range s.reading.PlacedCards {
			if placed.Card.ID == cardID {
				return false, 0, domain.ErrDuplicateSelection
			}
		}
		return false, 0, fmt.Errorf("%w: %q", ErrCardNotOnTable, cardID)
	}

	card, rest, err := deck.Draw(s.table, index)
	if err != nil {
		return false, 0, err
	}

	reversed := s.decider.Decide()
	if err := s.reading.Place(card, reversed); err != nil {
		return false, 0, err
	}
	s.table = rest

	if s.reading.State == domain.SessionStateDealt {
		if err := s.reading.TransitionTo(domain.SessionStateSelecting); err != nil {
			return false, 0, err
		}
	}

	if !s.reading.SpreadFull() {
		return false, 0, nil
	}

	if err := s.reading.TransitionTo(domain.SessionStateInterpreting); err != nil {
		return false, 0, err
	}
	s.generation++
	return true, s.generation, nil
}

// CompleteInterpretation attaches a finished interpretation and moves the
// session to complete. Results for any generation other than the current
// one, or arriving outside the interpreting state, are rejected with
// ErrStaleInterpretation and must be discarded by the caller.
func (s *Session) CompleteInterpretation(generation uint64, interp *domain.Interpretation) error {
	if generation != s.generation || s.reading.State != domain.SessionStateInterpreting {
		return ErrStaleInterpretation
	}

	if err := interp.Validate(); err != nil {
		return err
	}

	if err := s.reading.TransitionTo(domain.SessionStateComplete); err != nil {
		return err
	}
	s.reading.Interpretation = interp
	return nil
}

// FailInterpretation records an interpretation failure and moves the
// session to error. Stale failures are rejected like stale completions.
func (s *Session) FailInterpretation(generation uint64, cause error) error {
	if generation != s.generation || s.reading.State != domain.SessionStateInterpreting {
		return ErrStaleInterpretation
	}

	if err := s.reading.TransitionTo(domain.SessionStateError); err != nil {
		return err
	}
	if cause != nil {
		s.reading.LastError = cause.Error()
	}
	return nil
}

// Retry moves an errored session back to interpreting and returns the new
// interpretation generation.
func (s *Session) Retry() (uint64, error) {
	if err := s.reading.TransitionTo(domain.SessionStateInterpreting); err != nil {
		return 0, err
	}
	s.reading.LastError = ""
	s.generation++
	return s.generation, nil
}

// Reset returns the session to idle from any state, clearing placed cards,
// interpretation, errors, and the table. The generation advances so any
// in-flight interpretation resolves as stale.
func (s *Session) Reset() {
	s.reading.Reset()
	s.table = nil
	s.generation++
}

// Abort marks the session cancelled mid-flow. Only reset is legal
// afterwards.
func (s *Session) Abort() error {
	if err := s.reading.TransitionTo(domain.SessionStateAborted); err != nil {
		return err
	}
	s.generation++
	return nil
}
