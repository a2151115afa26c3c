package session_test

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/arcana-api/internal/deck"
	"github.com/phrazzld/arcana-api/internal/domain"
	"github.com/phrazzld/arcana-api/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeCards(n int) []*domain.Card {
	cards := make([]*domain.Card, n)
	for i := range cards {
		cards[i] = &domain.Card{
			ID:              fmt.Sprintf("card.%02d", i),
			Name:            fmt.Sprintf("Card %d", i),
			Arcana:          domain.ArcanaMajor,
			UprightMeaning:  "up",
			ReversedMeaning: "down",
		}
	}
	return cards
}

func threeCardSpread() *domain.Spread {
	return &domain.Spread{
		ID:                "three-card",
		Name:              "Three Card",
		RequiredCardCount: 3,
		PositionLabels:    []string{"Past", "Present", "Future"},
		TableSize:         12,
	}
}

// newTestSession builds a dealt session over a seeded source so selections
// are reproducible.
func newTestSession(t *testing.T, spread *domain.Spread, seed int64) *session.Session {
	t.Helper()

	reading, err := domain.NewReadingSession(uuid.New(), spread, "")
	require.NoError(t, err)

	src := rand.New(rand.NewSource(seed))
	sess, err := session.New(reading, makeCards(78), src, deck.NewOrientationDecider(src))
	require.NoError(t, err)

	require.NoError(t, sess.Start())
	require.Equal(t, domain.SessionStateShuffling, sess.State())
	require.NoError(t, sess.Deal())
	require.Equal(t, domain.SessionStateDealt, sess.State())

	return sess
}

func TestSessionFullSelectionFlow(t *testing.T) {
	t.Parallel()

	sess := newTestSession(t, threeCardSpread(), 1)
	table := sess.TableCardIDs()
	require.Len(t, table, 12)

	full, _, err := sess.SelectCard(table[0])
	require.NoError(t, err)
	assert.False(t, full)
	assert.Equal(t, domain.SessionStateSelecting, sess.State())
	assert.Equal(t, 11, sess.TableSize())

	full, _, err = sess.SelectCard(table[5])
	require.NoError(t, err)
	assert.False(t, full)

	full, generation, err := sess.SelectCard(table[9])
	require.NoError(t, err)
	assert.True(t, full)
	assert.Equal(t, domain.SessionStateInterpreting, sess.State())
	assert.Equal(t, sess.Generation(), generation)

	// Positions fill in selection order.
	placed := sess.Reading().PlacedCards
	require.Len(t, placed, 3)
	for i, label := range []string{"Past", "Present", "Future"} {
		assert.Equal(t, i, placed[i].Position)
		assert.Equal(t, label, placed[i].Label)
	}
}

func TestSessionDuplicateSelectionRejected(t *testing.T) {
	t.Parallel()

	sess := newTestSession(t, threeCardSpread(), 2)
	table := sess.TableCardIDs()

	_, _, err := sess.SelectCard(table[3])
	require.NoError(t, err)

	_, _, err = sess.SelectCard(table[3])
	assert.ErrorIs(t, err, domain.ErrDuplicateSelection)
	assert.Equal(t, domain.SessionStateSelecting, sess.State())
	assert.Len(t, sess.Reading().PlacedCards, 1)
	assert.Equal(t, 11, sess.TableSize())
}

func TestSessionSelectCardNotOnTable(t *testing.T) {
	t.Parallel()

	sess := newTestSession(t, threeCardSpread(), 3)

	_, _, err := sess.SelectCard("card.nonexistent")
	assert.ErrorIs(t, err, session.ErrCardNotOnTable)
	assert.Equal(t, domain.SessionStateDealt, sess.State())
	assert.Empty(t, sess.Reading().PlacedCards)
}

func TestSessionSelectBeforeDeal(t *testing.T) {
	t.Parallel()

	reading, err := domain.NewReadingSession(uuid.New(), threeCardSpread(), "")
	require.NoError(t, err)

	src := rand.New(rand.NewSource(4))
	sess, err := session.New(reading, makeCards(78), src, deck.NewOrientationDecider(src))
	require.NoError(t, err)
	require.NoError(t, sess.Start())

	_, _, err = sess.SelectCard("card.00")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestSessionInterpretationLifecycle(t *testing.T) {
	t.Parallel()

	interp := &domain.Interpretation{
		Summary:  "A Three Card reading of 3 cards.",
		Sections: []domain.InterpretationSection{{Title: "a"}, {Title: "b"}, {Title: "c"}},
	}

	t.Run("complete with current generation", func(t *testing.T) {
		t.Parallel()

		sess := newTestSession(t, threeCardSpread(), 5)
		gen := fillSpread(t, sess)

		require.NoError(t, sess.CompleteInterpretation(gen, interp))
		assert.Equal(t, domain.SessionStateComplete, sess.State())
		assert.Equal(t, interp, sess.Reading().Interpretation)
	})

	t.Run("fail then retry", func(t *testing.T) {
		t.Parallel()

		sess := newTestSession(t, threeCardSpread(), 6)
		gen := fillSpread(t, sess)

		require.NoError(t, sess.FailInterpretation(gen, errors.New("generator exploded")))
		assert.Equal(t, domain.SessionStateError, sess.State())
		assert.Equal(t, "generator exploded", sess.Reading().LastError)

		newGen, err := sess.Retry()
		require.NoError(t, err)
		assert.NotEqual(t, gen, newGen)
		assert.Equal(t, domain.SessionStateInterpreting, sess.State())
		assert.Empty(t, sess.Reading().LastError)

		require.NoError(t, sess.CompleteInterpretation(newGen, interp))
		assert.Equal(t, domain.SessionStateComplete, sess.State())
	})

	t.Run("stale result after reset is rejected", func(t *testing.T) {
		t.Parallel()

		sess := newTestSession(t, threeCardSpread(), 7)
		gen := fillSpread(t, sess)

		sess.Reset()
		assert.Equal(t, domain.SessionStateIdle, sess.State())

		err := sess.CompleteInterpretation(gen, interp)
		assert.ErrorIs(t, err, session.ErrStaleInterpretation)
		assert.Nil(t, sess.Reading().Interpretation)

		err = sess.FailInterpretation(gen, errors.New("late failure"))
		assert.ErrorIs(t, err, session.ErrStaleInterpretation)
		assert.Empty(t, sess.Reading().LastError)
	})

	t.Run("stale result after retry is rejected", func(t *testing.T) {
		t.Parallel()

		sess := newTestSession(t, threeCardSpread(), 8)
		gen := fillSpread(t, sess)

		require.NoError(t, sess.FailInterpretation(gen, errors.New("first attempt")))
		newGen, err := sess.Retry()
		require.NoError(t, err)

		// The first attempt resolves late; only the retry's generation wins.
		assert.ErrorIs(t, sess.CompleteInterpretation(gen, interp), session.ErrStaleInterpretation)
		require.NoError(t, sess.CompleteInterpretation(newGen, interp))
	})
}

func TestSessionAbort(t *testing.T) {
	t.Parallel()

	sess := newTestSession(t, threeCardSpread(), 9)
	_, _, err := sess.SelectCard(sess.TableCardIDs()[0])
	require.NoError(t, err)

	require.NoError(t, sess.Abort())
	assert.Equal(t, domain.SessionStateAborted, sess.State())

	// Aborted sessions accept nothing but reset.
	_, _, err = sess.SelectCard(sess.TableCardIDs()[0])
	assert.Error(t, err)

	sess.Reset()
	assert.Equal(t, domain.SessionStateIdle, sess.State())
	require.NoError(t, sess.Start())
	assert.Equal(t, domain.SessionStateShuffling, sess.State())
}

func TestSessionCelticCrossDealsFullDeck(t *testing.T) {
	t.Parallel()

	spread := &domain.Spread{
		ID:                "celtic-cross",
		Name:              "Celtic Cross",
		RequiredCardCount: 10,
		PositionLabels: []string{
			"Present", "Challenge", "Past", "Future", "Above",
			"Below", "Advice", "External Influence", "Hope/Fear", "Outcome",
		},
		TableSize: 0,
	}

	sess := newTestSession(t, spread, 10)
	assert.Equal(t, 78, sess.TableSize())
}

func TestStartFailsWhenTableExceedsDeck(t *testing.T) {
	t.Parallel()

	spread := &domain.Spread{
		ID:                "grand-tableau",
		Name:              "Grand Tableau",
		RequiredCardCount: 3,
		PositionLabels:    []string{"Past", "Present", "Future"},
		TableSize:         100,
	}

	reading, err := domain.NewReadingSession(uuid.New(), spread, "")
	require.NoError(t, err)

	src := rand.New(rand.NewSource(7))
	sess, err := session.New(reading, makeCards(78), src, deck.NewOrientationDecider(src))
	require.NoError(t, err)

	err = sess.Start()
	require.ErrorIs(t, err, deck.ErrInvalidSize)
	assert.Equal(t, domain.SessionStateError, sess.State())
	assert.NotEmpty(t, reading.LastError)

	sess.Reset()
	assert.Equal(t, domain.SessionStateIdle, sess.State())
}

// fillSpread selects cards until the spread is full and returns the
// interpretation generation.
func fillSpread(t *testing.T, sess *session.Session) uint64 {
	t.Helper()

	for {
		table := sess.TableCardIDs()
		require.NotEmpty(t, table)
		full, generation, err := sess.SelectCard(table[0])
		require.NoError(t, err)
		if full {
			return generation
		}
	}
}
