package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// SessionState represents the lifecycle state of a reading session.
type SessionState string

// Possible session states. A session starts idle and ends complete or
// aborted; error is recoverable via retry or reset.
const (
	SessionStateIdle         SessionState = "idle"
	SessionStateShuffling    SessionState = "shuffling"
	SessionStateDealt        SessionState = "dealt"
	SessionStateSelecting    SessionState = "selecting"
	SessionStateInterpreting SessionState = "interpreting"
	SessionStateComplete     SessionState = "complete"
	SessionStateError        SessionState = "error"
	SessionStateAborted      SessionState = "aborted"
)

// validSessionTransitions is the data-driven transition table for the
// session state machine. Reset is handled separately because it is legal
// from every state.
var validSessionTransitions = map[SessionState][]SessionState{
	SessionStateIdle:         {SessionStateShuffling},
	SessionStateShuffling:    {SessionStateDealt, SessionStateError, SessionStateAborted},
	SessionStateDealt:        {SessionStateSelecting, SessionStateAborted},
	SessionStateSelecting:    {SessionStateSelecting, SessionStateInterpreting, SessionStateAborted},
	SessionStateInterpreting: {SessionStateComplete, SessionStateError},
	SessionStateComplete:     {},
	SessionStateError:        {SessionStateInterpreting},
	SessionStateAborted:      {},
}

// Common validation and transition errors for ReadingSession
var (
	ErrEmptySessionID     = errors.New("session ID cannot be empty")
	ErrEmptySessionUserID = errors.New("session user ID cannot be empty")
	ErrSessionSpreadNil   = errors.New("session spread cannot be nil")
	ErrInvalidState       = errors.New("invalid session state")

	// ErrInvalidTransition is returned when a state change is not allowed
	// by the session transition table.
	ErrInvalidTransition = errors.New("invalid session state transition")

	// ErrDuplicateSelection is returned when a card is selected that is
	// already among the session's placed cards. The session is unchanged.
	ErrDuplicateSelection = errors.New("card already selected in this reading")

	// ErrSpreadFull is returned when a card is selected after the spread's
	// required card count has been reached. The session is unchanged.
	ErrSpreadFull = errors.New("spread already has all cards selected")
)

// PlacedCard is a card drawn into a spread position. The card reference is
// borrowed from the deck at draw time; the orientation is decided once at
// draw time and never recomputed.
type PlacedCard struct {
	Card       *Card  `json:"card"`
	Position   int    `json:"position"`
	IsReversed bool   `json:"is_reversed"`
	Label      string `json:"label"`
}

// ReadingSession tracks one reading from shuffle to interpretation. It is
// owned exclusively by its session orchestrator for its lifetime and handed
// off read-only to the reading store on save.
type ReadingSession struct {
	ID             uuid.UUID       `json:"id"`
	UserID         uuid.UUID       `json:"user_id"`
	Spread         *Spread         `json:"spread"`
	Question       string          `json:"question,omitempty"`
	PlacedCards    []PlacedCard    `json:"placed_cards"`
	State          SessionState    `json:"state"`
	Interpretation *Interpretation `json:"interpretation,omitempty"`
	LastError      string          `json:"last_error,omitempty"`
	SaveError      string          `json:"save_error,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// NewReadingSession creates a new ReadingSession in the idle state for the
// given user, spread, and optional question.
// Returns an error if validation fails.
func NewReadingSession(userID uuid.UUID, spread *Spread, question string) (*ReadingSession, error) {
	session := &ReadingSession{
		ID:          uuid.New(),
		UserID:      userID,
		Spread:      spread,
		Question:    question,
		PlacedCards: make([]PlacedCard, 0),
		State:       SessionStateIdle,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := session.Validate(); err != nil {
		return nil, err
	}

	return session, nil
}

// Validate checks if the ReadingSession has valid data.
// Returns an error if any field fails validation.
func (s *ReadingSession) Validate() error {
	if s.ID == uuid.Nil {
		return ErrEmptySessionID
	}

	if s.UserID == uuid.Nil {
		return ErrEmptySessionUserID
	}

	if s.Spread == nil {
		return ErrSessionSpreadNil
	}

	if err := s.Spread.Validate(); err != nil {
		return err
	}

	if !isValidSessionState(s.State) {
		return ErrInvalidState
	}

	return nil
}

// TransitionTo moves the session to the given state if the transition table
// allows it, updating the UpdatedAt timestamp.
// Returns ErrInvalidTransition otherwise, leaving the session unchanged.
func (s *ReadingSession) TransitionTo(state SessionState) error {
	if !isValidSessionState(state) {
		return ErrInvalidState
	}

	for _, allowed := range validSessionTransitions[s.State] {
		if allowed == state {
			s.State = state
			s.UpdatedAt = time.Now().UTC()
			return nil
		}
	}

	return ErrInvalidTransition
}

// Reset returns the session to idle, clearing placed cards, interpretation,
// and any recorded errors. Reset is legal from every state.
func (s *ReadingSession) Reset() {
	s.PlacedCards = s.PlacedCards[:0]
	s.Interpretation = nil
	s.LastError = ""
	s.SaveError = ""
	s.State = SessionStateIdle
	s.UpdatedAt = time.Now().UTC()
}

// Place appends a drawn card to the session, assigning the next sequential
// position. Selection order determines position: the first placed card fills
// position 0 and so on, matching the spread's semantic slots.
// Returns ErrSpreadFull when the spread already has all of its cards and
// ErrDuplicateSelection when the card is already placed; the session is
// unchanged in both cases.
func (s *ReadingSession) Place(card *Card, isReversed bool) error {
	if len(s.PlacedCards) >= s.Spread.RequiredCardCount {
		return ErrSpreadFull
	}

	for _, placed := range s.PlacedCards {
		if placed.Card.ID == card.ID {
			return ErrDuplicateSelection
		}
	}

	position := len(s.PlacedCards)
	s.PlacedCards = append(s.PlacedCards, PlacedCard{
		Card:       card,
		Position:   position,
		IsReversed: isReversed,
		Label:      s.Spread.PositionLabels[position],
	})
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// Clone returns a detached copy of the session with its own placed-card
// slice. Card, spread, and interpretation pointers are shared; they are
// immutable once created.
func (s *ReadingSession) Clone() *ReadingSession {
	clone := *s
	clone.PlacedCards = make([]PlacedCard, len(s.PlacedCards))
	copy(clone.PlacedCards, s.PlacedCards)
	return &clone
}

// SpreadFull reports whether the session has placed all cards the spread
// requires.
func (s *ReadingSession) SpreadFull() bool {
	return len(s.PlacedCards) == s.Spread.RequiredCardCount
}

// isValidSessionState checks if the given state is a valid SessionState.
func isValidSessionState(state SessionState) bool {
	_, ok := validSessionTransitions[state]
	return ok
}
