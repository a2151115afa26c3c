package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/arcana-api/internal/catalog"
	"github.com/phrazzld/arcana-api/internal/deck"
	"github.com/phrazzld/arcana-api/internal/domain"
	"github.com/phrazzld/arcana-api/internal/interpret"
	"github.com/phrazzld/arcana-api/internal/session"
	"github.com/phrazzld/arcana-api/internal/store"
	"github.com/phrazzld/arcana-api/internal/task"
)

// TaskRunner defines the interface for submitting background tasks.
type TaskRunner interface {
	// Submit adds a task to the processing queue.
	Submit(ctx context.Context, t task.Task) error
}

// SourceFactory produces a fresh randomness source per session. Tests
// inject seeded sources for deterministic shuffles and orientations.
type SourceFactory func() deck.Source

// SessionSnapshot is the read-only view of an active session the service
// hands to callers. TableCards lists the selectable candidate card IDs in
// table order.
type SessionSnapshot struct {
	Reading    domain.ReadingSession
	TableCards []string
}

// ReadingService provides reading-session operations. All session events
// are serialized per session; no two transitions interleave on the same
// session instance.
type ReadingService interface {
	// StartReading creates a session for the given spread and moves it to
	// shuffling (table built and shuffled on entry).
	StartReading(ctx context.Context, userID uuid.UUID, spreadID, question string) (*SessionSnapshot, error)

	// Deal is the explicit settle signal moving shuffling to dealt.
	Deal(ctx context.Context, sessionID uuid.UUID) (*SessionSnapshot, error)

	// SelectCard places one card. Filling the spread starts background
	// interpretation.
	SelectCard(ctx context.Context, sessionID uuid.UUID, cardID string) (*SessionSnapshot, error)

	// Retry re-runs interpretation for a session in the error state.
	Retry(ctx context.Context, sessionID uuid.UUID) (*SessionSnapshot, error)

	// Reset returns a session to idle from any state. Always legal.
	Reset(ctx context.Context, sessionID uuid.UUID) (*SessionSnapshot, error)

	// Abort cancels a session mid-flow.
	Abort(ctx context.Context, sessionID uuid.UUID) (*SessionSnapshot, error)

	// RetrySave re-attempts persistence of a completed reading whose
	// earlier save failed.
	RetrySave(ctx context.Context, sessionID uuid.UUID) (*SessionSnapshot, error)

	// GetSession returns a snapshot of an active session.
	GetSession(ctx context.Context, sessionID uuid.UUID) (*SessionSnapshot, error)

	// GetReading returns a saved reading from the repository.
	GetReading(ctx context.Context, readingID uuid.UUID) (*domain.ReadingSession, error)

	// FetchHistory returns a user's saved readings, newest first.
	FetchHistory(ctx context.Context, userID uuid.UUID, page, limit int) ([]*domain.ReadingSession, error)
}

// activeSession pairs a session orchestrator with the mutex that
// serializes its events.
type activeSession struct {
	mu   sync.Mutex
	sess *session.Session
}

// readingServiceImpl implements the ReadingService interface.
type readingServiceImpl struct {
	cards     *catalog.CardCatalog
	spreads   *catalog.SpreadCatalog
	readings  store.ReadingStore
	assembler *interpret.Assembler
	runner    TaskRunner
	newSource SourceFactory
	reversal  float64
	logger    *slog.Logger

	mu       sync.RWMutex
	sessions map[uuid.UUID]*activeSession
}

// NewReadingService creates a ReadingService with the given collaborators.
func NewReadingService(
	cards *catalog.CardCatalog,
	spreads *catalog.SpreadCatalog,
	readings store.ReadingStore,
	assembler *interpret.Assembler,
	runner TaskRunner,
	newSource SourceFactory,
	reversalChance float64,
	logger *slog.Logger,
) (ReadingService, error) {
	if cards == nil || spreads == nil {
		return nil, errors.New("catalogs cannot be nil")
	}
	if readings == nil {
		return nil, errors.New("reading store cannot be nil")
	}
	if assembler == nil {
		return nil, errors.New("assembler cannot be nil")
	}
	if runner == nil {
		return nil, errors.New("task runner cannot be nil")
	}
	if newSource == nil {
		return nil, errors.New("source factory cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &readingServiceImpl{
		cards:     cards,
		spreads:   spreads,
		readings:  readings,
		assembler: assembler,
		runner:    runner,
		newSource: newSource,
		reversal:  reversalChance,
		logger:    logger.With(slog.String("component", "reading_service")),
		sessions:  make(map[uuid.UUID]*activeSession),
	}, nil
}

// StartReading implements ReadingService.StartReading.
func (s *readingServiceImpl) StartReading(
	ctx context.Context,
	userID uuid.UUID,
	spreadID, question string,
) (*SessionSnapshot, error) {
	spread, err := s.spreads.GetSpread(spreadID)
	if err != nil {
		return nil, err
	}

	reading, err := domain.NewReadingSession(userID, spread, question)
	if err != nil {
		return nil, &ReadingServiceError{Operation: "start_reading", Message: "invalid session", Err: err}
	}

	src := s.newSource()
	sess, err := session.New(reading, s.cards.GetAllCards(), src,
		deck.NewOrientationDeciderWithChance(src, s.reversal))
	if err != nil {
		return nil, &ReadingServiceError{Operation: "start_reading", Message: "session setup failed", Err: err}
	}

	if err := sess.Start(); err != nil {
		return nil, &ReadingServiceError{Operation: "start_reading", Message: "shuffle failed", Err: err}
	}

	active := &activeSession{sess: sess}
	s.mu.Lock()
	s.sessions[reading.ID] = active
	s.mu.Unlock()

	s.logger.Info("reading started",
		slog.String("session_id", reading.ID.String()),
		slog.String("spread_id", spreadID),
		slog.String("user_id", userID.String()))

	return snapshot(sess), nil
}

// Deal implements ReadingService.Deal.
func (s *readingServiceImpl) Deal(ctx context.Context, sessionID uuid.UUID) (*SessionSnapshot, error) {
	return s.withSession(sessionID, func(sess *session.Session) error {
		return sess.Deal()
	})
}

// SelectCard implements ReadingService.SelectCard.
func (s *readingServiceImpl) SelectCard(
	ctx context.Context,
	sessionID uuid.UUID,
	cardID string,
) (*SessionSnapshot, error) {
	return s.withSession(sessionID, func(sess *session.Session) error {
		full, generation, err := sess.SelectCard(cardID)
		if err != nil {
			return err
		}
		if full {
			s.startInterpretation(ctx, sess, generation)
		}
		return nil
	})
}

// Retry implements ReadingService.Retry.
func (s *readingServiceImpl) Retry(ctx context.Context, sessionID uuid.UUID) (*SessionSnapshot, error) {
	return s.withSession(sessionID, func(sess *session.Session) error {
		generation, err := sess.Retry()
		if err != nil {
			return err
		}
		s.startInterpretation(ctx, sess, generation)
		return nil
	})
}

// Reset implements ReadingService.Reset.
func (s *readingServiceImpl) Reset(ctx context.Context, sessionID uuid.UUID) (*SessionSnapshot, error) {
	return s.withSession(sessionID, func(sess *session.Session) error {
		sess.Reset()
		return nil
	})
}

// Abort implements ReadingService.Abort.
func (s *readingServiceImpl) Abort(ctx context.Context, sessionID uuid.UUID) (*SessionSnapshot, error) {
	return s.withSession(sessionID, func(sess *session.Session) error {
		return sess.Abort()
	})
}

// RetrySave implements ReadingService.RetrySave.
func (s *readingServiceImpl) RetrySave(ctx context.Context, sessionID uuid.UUID) (*SessionSnapshot, error) {
	return s.withSession(sessionID, func(sess *session.Session) error {
		reading := sess.Reading()
		if reading.State != domain.SessionStateComplete || reading.Interpretation == nil {
			return ErrNotSavable
		}
		if err := s.readings.Save(ctx, reading); err != nil && !errors.Is(err, store.ErrDuplicate) {
			reading.SaveError = err.Error()
			return fmt.Errorf("%w: %v", ErrSaveFailed, err)
		}
		reading.SaveError = ""
		return nil
	})
}

// GetSession implements ReadingService.GetSession.
func (s *readingServiceImpl) GetSession(ctx context.Context, sessionID uuid.UUID) (*SessionSnapshot, error) {
	return s.withSession(sessionID, func(sess *session.Session) error {
		return nil
	})
}

// GetReading implements ReadingService.GetReading.
func (s *readingServiceImpl) GetReading(ctx context.Context, readingID uuid.UUID) (*domain.ReadingSession, error) {
	return s.readings.GetByID(ctx, readingID)
}

// FetchHistory implements ReadingService.FetchHistory.
func (s *readingServiceImpl) FetchHistory(
	ctx context.Context,
	userID uuid.UUID,
	page, limit int,
) ([]*domain.ReadingSession, error) {
	return s.readings.FetchHistory(ctx, userID, page, limit)
}

// withSession runs fn under the session's event lock and returns a
// post-event snapshot. Session events never interleave (one lock per
// session), which is the engine's concurrency contract.
func (s *readingServiceImpl) withSession(
	sessionID uuid.UUID,
	fn func(sess *session.Session) error,
) (*SessionSnapshot, error) {
	s.mu.RLock()
	active, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	active.mu.Lock()
	defer active.mu.Unlock()

	if err := fn(active.sess); err != nil {
		return nil, err
	}
	return snapshot(active.sess), nil
}

// startInterpretation submits a background interpretation job for the
// given generation. Submission failure is a session failure (error state);
// the caller may retry.
func (s *readingServiceImpl) startInterpretation(ctx context.Context, sess *session.Session, generation uint64) {
	job := newInterpretationTask(s, sess.Reading().ID, generation)
	if err := s.runner.Submit(ctx, job); err != nil {
		s.logger.Warn("failed to enqueue interpretation",
			slog.String("session_id", sess.Reading().ID.String()),
			slog.String("error", err.Error()))
		if failErr := sess.FailInterpretation(generation, fmt.Errorf("%w: %v", ErrSessionBusy, err)); failErr != nil {
			s.logger.Error("failed to record interpretation enqueue failure",
				slog.String("session_id", sess.Reading().ID.String()),
				slog.String("error", failErr.Error()))
		}
	}
}

// interpret runs the assembler for one generation and applies the outcome
// under the session lock, discarding stale results.
func (s *readingServiceImpl) interpret(ctx context.Context, sessionID uuid.UUID, generation uint64) error {
	s.mu.RLock()
	active, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		// Session evicted; nothing to apply the result to.
		return nil
	}

	// Snapshot the inputs under the lock, assemble outside it. The
	// generation guard makes a post-assembly state change harmless.
	active.mu.Lock()
	reading := active.sess.Reading()
	if reading.State != domain.SessionStateInterpreting || active.sess.Generation() != generation {
		active.mu.Unlock()
		return nil
	}
	spread := reading.Spread
	placed := make([]domain.PlacedCard, len(reading.PlacedCards))
	copy(placed, reading.PlacedCards)
	question := reading.Question
	active.mu.Unlock()

	interp, err := s.assembler.Assemble(ctx, spread, placed, question)

	active.mu.Lock()
	defer active.mu.Unlock()

	if err != nil {
		if failErr := active.sess.FailInterpretation(generation, err); failErr != nil {
			if errors.Is(failErr, session.ErrStaleInterpretation) {
				s.logDiscard(sessionID, generation)
				return nil
			}
			return failErr
		}
		return nil
	}

	if err := active.sess.CompleteInterpretation(generation, interp); err != nil {
		if errors.Is(err, session.ErrStaleInterpretation) {
			s.logDiscard(sessionID, generation)
			return nil
		}
		return err
	}

	// Persist the completed reading. A save failure is recorded on the
	// session but never rolls back the interpretation.
	if err := s.readings.Save(ctx, active.sess.Reading()); err != nil {
		s.logger.Error("failed to save completed reading",
			slog.String("session_id", sessionID.String()),
			slog.String("error", err.Error()))
		active.sess.Reading().SaveError = err.Error()
	}

	return nil
}

// logDiscard records a stale interpretation being dropped.
func (s *readingServiceImpl) logDiscard(sessionID uuid.UUID, generation uint64) {
	s.logger.Info("discarding stale interpretation result",
		slog.String("session_id", sessionID.String()),
		slog.Uint64("generation", generation))
}

// snapshot copies the session's observable state. Card and interpretation
// pointers are shared but immutable.
func snapshot(sess *session.Session) *SessionSnapshot {
	return &SessionSnapshot{
		Reading:    *sess.Reading().Clone(),
		TableCards: sess.TableCardIDs(),
	}
}
