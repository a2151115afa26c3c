package catalog

import (
	"fmt"

	"github.com/phrazzld/arcana-api/internal/domain"
)

// defaultTableSize is how many candidate cards the small spreads deal to
// the table. Larger spreads deal the full deck.
const defaultTableSize = 12

// SpreadCatalog holds the built-in reading spreads. Adding a spread means
// adding an entry here; nothing downstream branches on spread IDs.
type SpreadCatalog struct {
	spreads []*domain.Spread
	byID    map[string]*domain.Spread
}

// builtinSpreads returns the spreads the engine ships with.
func builtinSpreads() []*domain.Spread {
	return []*domain.Spread{
		{
			ID:                "one-card",
			Name:              "One Card",
			RequiredCardCount: 1,
			PositionLabels:    []string{"Message for you"},
			TableSize:         defaultTableSize,
		},
		{
			ID:                "three-card",
			Name:              "Three Card",
			RequiredCardCount: 3,
			PositionLabels:    []string{"Past", "Present", "Future"},
			TableSize:         defaultTableSize,
		},
		{
			ID:                "celtic-cross",
			Name:              "Celtic Cross",
			RequiredCardCount: 10,
			PositionLabels: []string{
				"Present", "Challenge", "Past", "Future", "Above",
				"Below", "Advice", "External Influence", "Hope/Fear", "Outcome",
			},
			// Full deck on the table.
			TableSize: 0,
		},
	}
}

// NewSpreadCatalog builds the spread catalog from the built-in spreads.
// It panics on malformed built-in spread data, since that is a programming
// error rather than a runtime condition.
func NewSpreadCatalog() *SpreadCatalog {
	spreads := builtinSpreads()
	byID := make(map[string]*domain.Spread, len(spreads))
	for _, s := range spreads {
		if err := s.Validate(); err != nil {
			// ALLOW-PANIC: Built-in spread data failing validation is a bug.
			panic(fmt.Sprintf("invalid built-in spread %q: %v", s.ID, err))
		}
		byID[s.ID] = s
	}

	return &SpreadCatalog{spreads: spreads, byID: byID}
}

// GetSpread retrieves a spread by its ID.
// Returns ErrSpreadNotFound if no spread has the given ID.
func (c *SpreadCatalog) GetSpread(id string) (*domain.Spread, error) {
	spread, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSpreadNotFound, id)
	}
	return spread, nil
}

// ListSpreads returns all spreads in catalog order. The returned slice is a
// copy; the spreads themselves are shared and must not be mutated.
func (c *SpreadCatalog) ListSpreads() []*domain.Spread {
	out := make([]*domain.Spread, len(c.spreads))
	copy(out, c.spreads)
	return out
}
