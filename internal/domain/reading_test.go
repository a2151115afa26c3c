package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/arcana-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSpread(count int) *domain.Spread {
	labels := make([]string, count)
	for i := range labels {
		labels[i] = "Position"
	}
	return &domain.Spread{
		ID:                "test-spread",
		Name:              "Test Spread",
		RequiredCardCount: count,
		PositionLabels:    labels,
		TableSize:         0,
	}
}

func testCard(id string) *domain.Card {
	return &domain.Card{
		ID:               id,
		Name:             "Card " + id,
		Arcana:           domain.ArcanaMajor,
		UprightMeaning:   "upright meaning",
		ReversedMeaning:  "reversed meaning",
		UprightKeywords:  []string{"up"},
		ReversedKeywords: []string{"down"},
	}
}

func TestNewReadingSession(t *testing.T) {
	t.Parallel()

	t.Run("creates idle session with valid inputs", func(t *testing.T) {
		t.Parallel()

		session, err := domain.NewReadingSession(uuid.New(), testSpread(3), "What lies ahead?")
		require.NoError(t, err)

		assert.Equal(t, domain.SessionStateIdle, session.State)
		assert.Equal(t, "What lies ahead?", session.Question)
		assert.Empty(t, session.PlacedCards)
		assert.NotEqual(t, uuid.Nil, session.ID)
	})

	t.Run("rejects nil user", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewReadingSession(uuid.Nil, testSpread(3), "")
		assert.ErrorIs(t, err, domain.ErrEmptySessionUserID)
	})

	t.Run("rejects nil spread", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewReadingSession(uuid.New(), nil, "")
		assert.ErrorIs(t, err, domain.ErrSessionSpreadNil)
	})
}

func TestSessionTransitions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		from    domain.SessionState
		to      domain.SessionState
		wantErr error
	}{
		{"idle to shuffling", domain.SessionStateIdle, domain.SessionStateShuffling, nil},
		{"shuffling to dealt", domain.SessionStateShuffling, domain.SessionStateDealt, nil},
		{"shuffling to error", domain.SessionStateShuffling, domain.SessionStateError, nil},
		{"shuffling to aborted", domain.SessionStateShuffling, domain.SessionStateAborted, nil},
		{"dealt to selecting", domain.SessionStateDealt, domain.SessionStateSelecting, nil},
		{"selecting to selecting", domain.SessionStateSelecting, domain.SessionStateSelecting, nil},
		{"selecting to interpreting", domain.SessionStateSelecting, domain.SessionStateInterpreting, nil},
		{"interpreting to complete", domain.SessionStateInterpreting, domain.SessionStateComplete, nil},
		{"interpreting to error", domain.SessionStateInterpreting, domain.SessionStateError, nil},
		{"error to interpreting", domain.SessionStateError, domain.SessionStateInterpreting, nil},

		{"idle to dealt skips shuffling", domain.SessionStateIdle, domain.SessionStateDealt, domain.ErrInvalidTransition},
		{"dealt to interpreting skips selecting", domain.SessionStateDealt, domain.SessionStateInterpreting, domain.ErrInvalidTransition},
		{"interpreting to aborted", domain.SessionStateInterpreting, domain.SessionStateAborted, domain.ErrInvalidTransition},
		{"complete is terminal", domain.SessionStateComplete, domain.SessionStateInterpreting, domain.ErrInvalidTransition},
		{"aborted is terminal", domain.SessionStateAborted, domain.SessionStateShuffling, domain.ErrInvalidTransition},
		{"error to complete without retry", domain.SessionStateError, domain.SessionStateComplete, domain.ErrInvalidTransition},
		{"unknown target state", domain.SessionStateIdle, domain.SessionState("limbo"), domain.ErrInvalidState},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			session, err := domain.NewReadingSession(uuid.New(), testSpread(3), "")
			require.NoError(t, err)
			session.State = tc.from

			err = session.TransitionTo(tc.to)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Equal(t, tc.from, session.State, "failed transition must not change state")
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.to, session.State)
			}
		})
	}
}

func TestSessionReset(t *testing.T) {
	t.Parallel()

	states := []domain.SessionState{
		domain.SessionStateIdle,
		domain.SessionStateShuffling,
		domain.SessionStateDealt,
		domain.SessionStateSelecting,
		domain.SessionStateInterpreting,
		domain.SessionStateComplete,
		domain.SessionStateError,
		domain.SessionStateAborted,
	}

	for _, state := range states {
		t.Run(string(state), func(t *testing.T) {
			t.Parallel()

			session, err := domain.NewReadingSession(uuid.New(), testSpread(1), "question")
			require.NoError(t, err)
			require.NoError(t, session.Place(testCard("major.00"), false))

			session.State = state
			session.Interpretation = &domain.Interpretation{Summary: "s", Sections: []domain.InterpretationSection{{}}}
			session.LastError = "boom"
			session.SaveError = "disk full"

			session.Reset()

			assert.Equal(t, domain.SessionStateIdle, session.State)
			assert.Empty(t, session.PlacedCards)
			assert.Nil(t, session.Interpretation)
			assert.Empty(t, session.LastError)
			assert.Empty(t, session.SaveError)
		})
	}
}

func TestSessionClone(t *testing.T) {
	t.Parallel()

	session, err := domain.NewReadingSession(uuid.New(), testSpread(3), "question")
	require.NoError(t, err)
	require.NoError(t, session.Place(testCard("major.00"), false))
	session.State = domain.SessionStateSelecting

	clone := session.Clone()
	require.Equal(t, session.ID, clone.ID)
	require.Len(t, clone.PlacedCards, 1)

	// Mutating the original must not leak into the clone.
	session.Reset()
	assert.Equal(t, domain.SessionStateSelecting, clone.State)
	assert.Len(t, clone.PlacedCards, 1)

	// And the other way around.
	clone.PlacedCards[0].IsReversed = true
	require.NoError(t, session.Place(testCard("major.01"), false))
	assert.False(t, session.PlacedCards[0].IsReversed)
}

func TestSessionPlace(t *testing.T) {
	t.Parallel()

	t.Run("assigns sequential positions and labels", func(t *testing.T) {
		t.Parallel()

		spread := &domain.Spread{
			ID:                "three-card",
			Name:              "Three Card",
			RequiredCardCount: 3,
			PositionLabels:    []string{"Past", "Present", "Future"},
		}
		session, err := domain.NewReadingSession(uuid.New(), spread, "")
		require.NoError(t, err)

		require.NoError(t, session.Place(testCard("major.00"), false))
		require.NoError(t, session.Place(testCard("major.01"), true))
		require.NoError(t, session.Place(testCard("major.02"), false))

		require.Len(t, session.PlacedCards, 3)
		assert.Equal(t, 0, session.PlacedCards[0].Position)
		assert.Equal(t, "Past", session.PlacedCards[0].Label)
		assert.Equal(t, 1, session.PlacedCards[1].Position)
		assert.Equal(t, "Present", session.PlacedCards[1].Label)
		assert.True(t, session.PlacedCards[1].IsReversed)
		assert.Equal(t, "Future", session.PlacedCards[2].Label)
		assert.True(t, session.SpreadFull())
	})

	t.Run("rejects duplicate card", func(t *testing.T) {
		t.Parallel()

		session, err := domain.NewReadingSession(uuid.New(), testSpread(3), "")
		require.NoError(t, err)

		require.NoError(t, session.Place(testCard("major.05"), false))
		err = session.Place(testCard("major.05"), true)
		assert.ErrorIs(t, err, domain.ErrDuplicateSelection)
		assert.Len(t, session.PlacedCards, 1)
	})

	t.Run("rejects placement beyond spread size", func(t *testing.T) {
		t.Parallel()

		session, err := domain.NewReadingSession(uuid.New(), testSpread(1), "")
		require.NoError(t, err)

		require.NoError(t, session.Place(testCard("major.00"), false))
		err = session.Place(testCard("major.01"), false)
		assert.ErrorIs(t, err, domain.ErrSpreadFull)
		assert.Len(t, session.PlacedCards, 1)
	})
}
