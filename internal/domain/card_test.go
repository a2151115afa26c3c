package domain_test

import (
	"testing"

	"github.com/phrazzld/arcana-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestCardValidate(t *testing.T) {
	t.Parallel()

	valid := domain.Card{
		ID:              "minor.cups.ace",
		Name:            "Ace of Cups",
		Arcana:          domain.ArcanaMinor,
		Suit:            domain.SuitCups,
		UprightMeaning:  "up",
		ReversedMeaning: "down",
	}

	tests := []struct {
		name    string
		mutate  func(c *domain.Card)
		wantErr error
	}{
		{"valid minor card", func(c *domain.Card) {}, nil},
		{"valid major card", func(c *domain.Card) {
			c.Arcana = domain.ArcanaMajor
			c.Suit = ""
		}, nil},
		{"empty ID", func(c *domain.Card) { c.ID = "" }, domain.ErrCardIDEmpty},
		{"empty name", func(c *domain.Card) { c.Name = "" }, domain.ErrCardNameEmpty},
		{"unknown arcana", func(c *domain.Card) { c.Arcana = "middle" }, domain.ErrCardArcanaInvalid},
		{"major card with suit", func(c *domain.Card) { c.Arcana = domain.ArcanaMajor }, domain.ErrCardSuitInvalid},
		{"minor card without suit", func(c *domain.Card) { c.Suit = "" }, domain.ErrCardSuitInvalid},
		{"minor card with unknown suit", func(c *domain.Card) { c.Suit = "coins" }, domain.ErrCardSuitInvalid},
		{"missing upright meaning", func(c *domain.Card) { c.UprightMeaning = "" }, domain.ErrCardMeaningEmpty},
		{"missing reversed meaning", func(c *domain.Card) { c.ReversedMeaning = "" }, domain.ErrCardMeaningEmpty},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			card := valid
			tc.mutate(&card)

			err := card.Validate()
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCardOrientationAccessors(t *testing.T) {
	t.Parallel()

	card := domain.Card{
		ID:               "major.00",
		Name:             "The Fool",
		Arcana:           domain.ArcanaMajor,
		UprightMeaning:   "a fresh journey",
		ReversedMeaning:  "the journey stalls",
		UprightKeywords:  []string{"beginnings"},
		ReversedKeywords: []string{"hesitation"},
	}

	assert.Equal(t, "a fresh journey", card.Meaning(false))
	assert.Equal(t, "the journey stalls", card.Meaning(true))
	assert.Equal(t, []string{"beginnings"}, card.Keywords(false))
	assert.Equal(t, []string{"hesitation"}, card.Keywords(true))
}

func TestSpreadValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		spread  domain.Spread
		wantErr error
	}{
		{
			"valid spread",
			domain.Spread{ID: "one-card", Name: "One Card", RequiredCardCount: 1, PositionLabels: []string{"Message"}, TableSize: 12},
			nil,
		},
		{
			"full deck table size",
			domain.Spread{ID: "big", Name: "Big", RequiredCardCount: 10, PositionLabels: make([]string, 10), TableSize: 0},
			nil,
		},
		{
			"empty ID",
			domain.Spread{RequiredCardCount: 1, PositionLabels: []string{"a"}},
			domain.ErrSpreadIDEmpty,
		},
		{
			"zero card count",
			domain.Spread{ID: "x", RequiredCardCount: 0},
			domain.ErrSpreadCardCountInvalid,
		},
		{
			"label count mismatch",
			domain.Spread{ID: "x", RequiredCardCount: 3, PositionLabels: []string{"only one"}},
			domain.ErrSpreadLabelsMismatch,
		},
		{
			"table smaller than spread",
			domain.Spread{ID: "x", RequiredCardCount: 5, PositionLabels: make([]string, 5), TableSize: 3},
			domain.ErrSpreadTableTooSmall,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := tc.spread.Validate()
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
