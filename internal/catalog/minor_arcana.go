package catalog

import (
	"fmt"

	"github.com/phrazzld/arcana-api/internal/domain"
)

// suitEntry carries the thematic domain of one minor arcana suit, used to
// compose the meaning text of its fourteen cards.
type suitEntry struct {
	suit    domain.Suit
	theme   string
	keyword string
}

// minorSuits lists the four suits in canonical deck order.
var minorSuits = []suitEntry{
	{domain.SuitWands, "creativity, ambition, and action", "passion"},
	{domain.SuitCups, "emotion, intuition, and relationships", "feeling"},
	{domain.SuitSwords, "intellect, conflict, and truth", "thought"},
	{domain.SuitPentacles, "work, resources, and the material world", "craft"},
}

// rankEntry carries the upright and reversed theme of one minor arcana rank.
// The composed meaning is "<theme> in matters of <suit domain>".
type rankEntry struct {
	rank     string
	name     string
	upright  string
	reversed string
	upKw     string
	revKw    string
}

// minorRanks lists the fourteen ranks in canonical order, ace through king.
var minorRanks = []rankEntry{
	{"ace", "Ace",
		"A fresh start and raw potential",
		"A blocked or false start",
		"beginnings", "delay"},
	{"two", "Two",
		"A balance to strike and a choice to make",
		"Indecision and uneasy footing",
		"choice", "indecision"},
	{"three", "Three",
		"Early growth and shared effort bearing first fruit",
		"Friction and setbacks among collaborators",
		"growth", "setback"},
	{"four", "Four",
		"Stability earned and a moment of rest",
		"Stagnation disguised as security",
		"stability", "stagnation"},
	{"five", "Five",
		"Conflict and loss that test your footing",
		"Recovery and reconciliation after the struggle",
		"conflict", "recovery"},
	{"six", "Six",
		"A turning point toward harmony and visible progress",
		"A backward glance that holds up the crossing",
		"progress", "nostalgia"},
	{"seven", "Seven",
		"A pause to assess and the grit to persevere",
		"Doubt that tempts you to abandon the long game",
		"perseverance", "doubt"},
	{"eight", "Eight",
		"Swift movement and deepening mastery",
		"Haste or inertia pulling against the craft",
		"momentum", "haste"},
	{"nine", "Nine",
		"Fruition near at hand and resilience to finish",
		"A weight carried alone for too long",
		"resilience", "strain"},
	{"ten", "Ten",
		"Culmination and the full weight of completion",
		"An overload that resists its own ending",
		"completion", "overload"},
	{"page", "Page",
		"A curious messenger and a spark of study",
		"Immature enthusiasm or news delayed",
		"curiosity", "immaturity"},
	{"knight", "Knight",
		"Committed pursuit at full gallop",
		"Recklessness that outruns the goal",
		"pursuit", "recklessness"},
	{"queen", "Queen",
		"Nurturing mastery that holds the suit's gifts with grace",
		"Insecurity that withholds what it could freely give",
		"mastery", "insecurity"},
	{"king", "King",
		"Seasoned command and responsibility worn well",
		"Authority hardened into rigidity",
		"authority", "rigidity"},
}

// minorArcanaCards builds the 56 minor arcana cards, suit by suit in rank
// order, composing meaning text from the rank theme and the suit domain.
func minorArcanaCards() []*domain.Card {
	cards := make([]*domain.Card, 0, len(minorSuits)*len(minorRanks))
	for _, s := range minorSuits {
		for _, r := range minorRanks {
			id := fmt.Sprintf("minor.%s.%s", s.suit, r.rank)
			cards = append(cards, &domain.Card{
				ID:               id,
				Name:             fmt.Sprintf("%s of %s", r.name, suitTitle(s.suit)),
				Arcana:           domain.ArcanaMinor,
				Suit:             s.suit,
				ImageRef:         imageRef(id),
				UprightMeaning:   fmt.Sprintf("%s in matters of %s.", r.upright, s.theme),
				ReversedMeaning:  fmt.Sprintf("%s in matters of %s.", r.reversed, s.theme),
				UprightKeywords:  []string{r.upKw, s.keyword},
				ReversedKeywords: []string{r.revKw, s.keyword},
			})
		}
	}
	return cards
}

// suitTitle returns the display form of a suit name.
func suitTitle(s domain.Suit) string {
	switch s {
	case domain.SuitWands:
		return "Wands"
	case domain.SuitCups:
		return "Cups"
	case domain.SuitSwords:
		return "Swords"
	case domain.SuitPentacles:
		return "Pentacles"
	default:
		return string(s)
	}
}
