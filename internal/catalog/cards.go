package catalog

import (
	"fmt"
	"strings"

	"github.com/phrazzld/arcana-api/internal/domain"
)

// CardCatalog holds the full 78-card tarot deck. The deck is enumerated
// programmatically: 22 major arcana (major.00 through major.21) followed by
// 56 minor arcana (minor.<suit>.<rank>), in canonical order.
type CardCatalog struct {
	cards []*domain.Card
	byID  map[string]*domain.Card
}

// NewCardCatalog builds the card catalog.
// It panics on malformed built-in card data, since that is a programming
// error rather than a runtime condition.
func NewCardCatalog() *CardCatalog {
	cards := make([]*domain.Card, 0, 78)
	cards = append(cards, majorArcanaCards()...)
	cards = append(cards, minorArcanaCards()...)

	byID := make(map[string]*domain.Card, len(cards))
	for _, c := range cards {
		if err := c.Validate(); err != nil {
			// ALLOW-PANIC: Built-in catalog data failing validation is a bug.
			panic(fmt.Sprintf("invalid built-in card %q: %v", c.ID, err))
		}
		byID[c.ID] = c
	}

	return &CardCatalog{cards: cards, byID: byID}
}

// GetAllCards returns every card in canonical deck order. The returned slice
// is a copy; the cards themselves are shared and must not be mutated.
func (c *CardCatalog) GetAllCards() []*domain.Card {
	out := make([]*domain.Card, len(c.cards))
	copy(out, c.cards)
	return out
}

// GetCardByID retrieves a card by its stable ID.
// Returns ErrCardNotFound if no card has the given ID.
func (c *CardCatalog) GetCardByID(id string) (*domain.Card, error) {
	card, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrCardNotFound, id)
	}
	return card, nil
}

// Size returns the number of cards in the catalog.
func (c *CardCatalog) Size() int {
	return len(c.cards)
}

// majorEntry is the data row for one major arcana card.
type majorEntry struct {
	name     string
	upright  string
	reversed string
	upKw     []string
	revKw    []string
}

// majorArcana lists the 22 trumps in order, 0 through 21.
var majorArcana = []majorEntry{
	{"The Fool",
		"A leap of faith and a fresh journey; approach what comes with openness and trust.",
		"Hesitation or recklessness; the journey stalls when fear or carelessness takes the lead.",
		[]string{"beginnings", "innocence", "spontaneity"},
		[]string{"recklessness", "hesitation", "naivety"}},
	{"The Magician",
		"You have every tool you need; focused will turns intention into reality.",
		"Scattered energy or manipulation; talents misdirected away from their true purpose.",
		[]string{"manifestation", "willpower", "resourcefulness"},
		[]string{"manipulation", "untapped talent", "illusion"}},
	{"The High Priestess",
		"Trust the quiet voice within; knowledge arrives through stillness, not force.",
		"Intuition ignored; secrets kept from you or from yourself cloud the way forward.",
		[]string{"intuition", "mystery", "inner voice"},
		[]string{"secrets", "disconnection", "silence"}},
	{"The Empress",
		"Abundance and nurture surround you; what you tend now will flourish.",
		"Creative block or smothering care; growth needs room to breathe.",
		[]string{"abundance", "nurture", "creation"},
		[]string{"dependence", "creative block", "neglect"}},
	{"The Emperor",
		"Structure and steady authority bring order; lead with discipline and fairness.",
		"Rigidity or domination; control held too tightly becomes a cage.",
		[]string{"authority", "structure", "stability"},
		[]string{"rigidity", "domination", "inflexibility"}},
	{"The Hierophant",
		"Tradition and trusted guidance light the path; learn from what has endured.",
		"Convention chafes; it may be time to question inherited rules.",
		[]string{"tradition", "guidance", "conformity"},
		[]string{"rebellion", "dogma", "restriction"}},
	{"The Lovers",
		"A union or a choice of the heart; alignment of values brings harmony.",
		"Disharmony or avoidance of a necessary choice; values are out of step.",
		[]string{"love", "harmony", "choice"},
		[]string{"imbalance", "disharmony", "indecision"}},
	{"The Chariot",
		"Willpower and direction carry you to victory; hold the reins firmly.",
		"Forces pull in opposite directions; without focus the wheels spin in place.",
		[]string{"willpower", "victory", "determination"},
		[]string{"lack of direction", "aggression", "obstacles"}},
	{"Strength",
		"Courage tempered with compassion; gentle persistence tames what force cannot.",
		"Self-doubt gnaws at resolve; reconnect with your quiet inner power.",
		[]string{"courage", "compassion", "patience"},
		[]string{"self-doubt", "weakness", "insecurity"}},
	{"The Hermit",
		"Withdraw to seek your own counsel; the answer is found in solitude.",
		"Isolation has run too long; the lantern is meant to be carried back.",
		[]string{"introspection", "solitude", "wisdom"},
		[]string{"isolation", "loneliness", "withdrawal"}},
	{"Wheel of Fortune",
		"The wheel turns in your favor; change arrives whether invited or not.",
		"A downturn in the cycle; resisting change only prolongs it.",
		[]string{"change", "cycles", "destiny"},
		[]string{"bad luck", "resistance", "upheaval"}},
	{"Justice",
		"Truth and fairness prevail; actions meet their rightful consequences.",
		"An imbalance of the scales; dishonesty or unfairness demands correction.",
		[]string{"fairness", "truth", "accountability"},
		[]string{"unfairness", "dishonesty", "avoidance"}},
	{"The Hanged Man",
		"Surrender and see anew; the pause itself is the progress.",
		"Stalling without insight; sacrifice made with no lesson taken.",
		[]string{"surrender", "perspective", "pause"},
		[]string{"stalling", "indecision", "resistance"}},
	{"Death",
		"An ending clears the ground; transformation follows what is released.",
		"Clinging to what is finished; the longer the hold, the harder the letting go.",
		[]string{"endings", "transformation", "release"},
		[]string{"stagnation", "fear of change", "clinging"}},
	{"Temperance",
		"Patience and blending of opposites; the middle way restores balance.",
		"Excess or impatience tips the vessel; moderation has been lost.",
		[]string{"balance", "moderation", "patience"},
		[]string{"excess", "imbalance", "impatience"}},
	{"The Devil",
		"Chains worn by choice; name the attachment to loosen its grip.",
		"The grip loosens; freedom returns as illusions of powerlessness fall away.",
		[]string{"attachment", "restriction", "temptation"},
		[]string{"release", "reclaimed power", "detachment"}},
	{"The Tower",
		"Sudden upheaval topples the false; what survives the fall is true.",
		"Disaster narrowly averted or dreaded; change resisted builds pressure.",
		[]string{"upheaval", "revelation", "awakening"},
		[]string{"averted disaster", "fear of change", "delayed collapse"}},
	{"The Star",
		"Hope and renewal after the storm; quiet faith guides the healing.",
		"Faith runs thin; reconnect with what once inspired you.",
		[]string{"hope", "renewal", "inspiration"},
		[]string{"despair", "disconnection", "discouragement"}},
	{"The Moon",
		"Illusion and intuition mingle; move slowly through the uncertain light.",
		"Confusion begins to lift; fears prove smaller in daylight.",
		[]string{"illusion", "intuition", "uncertainty"},
		[]string{"clarity", "released fear", "truth emerging"}},
	{"The Sun",
		"Joy, vitality, and success; warmth spreads to everything you touch.",
		"A cloud passes across the light; joy is delayed, not denied.",
		[]string{"joy", "success", "vitality"},
		[]string{"temporary gloom", "pessimism", "dimmed enthusiasm"}},
	{"Judgement",
		"A reckoning and a rebirth; answer the call to rise renewed.",
		"Harsh self-judgement or a call ignored; forgiveness opens the way.",
		[]string{"rebirth", "reckoning", "awakening"},
		[]string{"self-doubt", "harsh judgement", "refusal"}},
	{"The World",
		"Completion and integration; the long cycle closes in accomplishment.",
		"Loose ends delay the close; the final step remains untaken.",
		[]string{"completion", "integration", "accomplishment"},
		[]string{"incompletion", "loose ends", "delay"}},
}

// majorArcanaCards builds the 22 major arcana cards in order.
func majorArcanaCards() []*domain.Card {
	cards := make([]*domain.Card, 0, len(majorArcana))
	for i, entry := range majorArcana {
		id := fmt.Sprintf("major.%02d", i)
		cards = append(cards, &domain.Card{
			ID:               id,
			Name:             entry.name,
			Arcana:           domain.ArcanaMajor,
			ImageRef:         imageRef(id),
			UprightMeaning:   entry.upright,
			ReversedMeaning:  entry.reversed,
			UprightKeywords:  entry.upKw,
			ReversedKeywords: entry.revKw,
		})
	}
	return cards
}

// imageRef derives the opaque image handle for a card ID. The engine never
// interprets it; clients resolve it against their asset set.
func imageRef(id string) string {
	return "cards/" + strings.ReplaceAll(id, ".", "/") + ".png"
}
