package catalog_test

import (
	"testing"

	"github.com/phrazzld/arcana-api/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpreadCatalogBuiltins(t *testing.T) {
	t.Parallel()

	cat := catalog.NewSpreadCatalog()
	spreads := cat.ListSpreads()
	require.Len(t, spreads, 3)

	tests := []struct {
		id        string
		cardCount int
		labels    []string
	}{
		{"one-card", 1, []string{"Message for you"}},
		{"three-card", 3, []string{"Past", "Present", "Future"}},
		{"celtic-cross", 10, []string{
			"Present", "Challenge", "Past", "Future", "Above",
			"Below", "Advice", "External Influence", "Hope/Fear", "Outcome",
		}},
	}

	for _, tc := range tests {
		t.Run(tc.id, func(t *testing.T) {
			t.Parallel()

			spread, err := cat.GetSpread(tc.id)
			require.NoError(t, err)
			assert.NoError(t, spread.Validate())
			assert.Equal(t, tc.cardCount, spread.RequiredCardCount)
			assert.Equal(t, tc.labels, spread.PositionLabels)
		})
	}
}

func TestSpreadTableSizes(t *testing.T) {
	t.Parallel()

	cat := catalog.NewSpreadCatalog()

	oneCard, err := cat.GetSpread("one-card")
	require.NoError(t, err)
	assert.Equal(t, 12, oneCard.TableSize)

	threeCard, err := cat.GetSpread("three-card")
	require.NoError(t, err)
	assert.Equal(t, 12, threeCard.TableSize)

	// The celtic cross deals the whole deck.
	celtic, err := cat.GetSpread("celtic-cross")
	require.NoError(t, err)
	assert.Equal(t, 0, celtic.TableSize)
}

func TestGetSpreadNotFound(t *testing.T) {
	t.Parallel()

	_, err := catalog.NewSpreadCatalog().GetSpread("horseshoe")
	assert.ErrorIs(t, err, catalog.ErrSpreadNotFound)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}
