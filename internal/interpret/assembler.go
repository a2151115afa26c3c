package interpret

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/arcana-api/internal/domain"
)

// Assembler turns the final (card, position, orientation) tuples of a
// reading into a structured Interpretation. Section order always matches
// placed-card order, and assembly never hard-fails on narrative generation
// problems; it only degrades to the deterministic fallback text.
type Assembler struct {
	narrative NarrativeGenerator
	logger    *slog.Logger
}

// NewAssembler creates an Assembler. The narrative generator may be nil, in
// which case the deterministic fallback is always used.
func NewAssembler(narrative NarrativeGenerator, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Assembler{
		narrative: narrative,
		logger:    logger.With(slog.String("component", "assembler")),
	}
}

// Assemble produces the interpretation for a completed reading. It
// guarantees len(Sections) == len(placedCards) with matching order, a
// combined narrative only when more than one card was drawn, and a
// conclusion that quotes the question verbatim when one was asked.
// Returns ErrNoPlacedCards if the reading is empty.
func (a *Assembler) Assemble(
	ctx context.Context,
	spread *domain.Spread,
	placedCards []domain.PlacedCard,
	question string,
) (*domain.Interpretation, error) {
	if len(placedCards) == 0 {
		return nil, ErrNoPlacedCards
	}

	sections := make([]domain.InterpretationSection, 0, len(placedCards))
	for _, placed := range placedCards {
		title := fmt.Sprintf("%s: %s", placed.Label, placed.Card.Name)
		if placed.IsReversed {
			title += " (Reversed)"
		}
		sections = append(sections, domain.InterpretationSection{
			Title:    title,
			Content:  placed.Card.Meaning(placed.IsReversed),
			Keywords: placed.Card.Keywords(placed.IsReversed),
		})
	}

	interp := &domain.Interpretation{
		Summary:    summaryLine(spread, len(placedCards)),
		Sections:   sections,
		Conclusion: fallbackConclusion(question),
	}

	if len(placedCards) > 1 {
		interp.CombinedNarrative = a.combinedNarrative(ctx, spread, placedCards, question, interp)
	}

	return interp, nil
}

// combinedNarrative asks the external generator for prose and falls back to
// the deterministic template on any failure. It may also upgrade the
// conclusion when the generator supplies one that still quotes the question.
func (a *Assembler) combinedNarrative(
	ctx context.Context,
	spread *domain.Spread,
	placedCards []domain.PlacedCard,
	question string,
	interp *domain.Interpretation,
) string {
	if a.narrative == nil {
		return fallbackNarrative(placedCards)
	}

	result, err := a.narrative.GenerateNarrative(ctx, NarrativeRequest{
		Spread:      spread,
		PlacedCards: placedCards,
		Question:    question,
	})
	if err != nil || result == nil || result.CombinedNarrative == "" {
		a.logger.WarnContext(ctx, "narrative generation failed, using fallback",
			slog.String("spread_id", spread.ID),
			slog.Any("error", err))
		return fallbackNarrative(placedCards)
	}

	if result.Conclusion != "" && (question == "" || strings.Contains(result.Conclusion, question)) {
		interp.Conclusion = result.Conclusion
	}
	return result.CombinedNarrative
}

// summaryLine is the one-line restatement of spread type and card count.
func summaryLine(spread *domain.Spread, count int) string {
	noun := "cards"
	if count == 1 {
		noun = "card"
	}
	return fmt.Sprintf("A %s reading of %d %s.", spread.Name, count, noun)
}

// fallbackConclusion produces the conclusion when no generated one is
// usable. When a question was asked it is referenced verbatim.
func fallbackConclusion(question string) string {
	if question != "" {
		return fmt.Sprintf(
			"Hold your question %q in mind as you sit with these cards; their answer unfolds in how you carry it forward.",
			question)
	}
	return "Sit with these cards and notice which image stays with you; that is where your attention is being called."
}

// fallbackNarrative weaves the deterministic combined narrative from the
// card sequence and position labels. It is keyed to the full sequence so
// two different readings never share a narrative.
func fallbackNarrative(placedCards []domain.PlacedCard) string {
	var b strings.Builder
	for i, placed := range placedCards {
		name := placed.Card.Name
		if placed.IsReversed {
			name += ", reversed,"
		}
		switch {
		case i == 0:
			fmt.Fprintf(&b, "Your reading opens with %s in the %s position", name, placed.Label)
		case i == len(placedCards)-1:
			fmt.Fprintf(&b, ", and settles on %s as %s", name, placed.Label)
		default:
			fmt.Fprintf(&b, ", moves through %s as %s", name, placed.Label)
		}
	}
	b.WriteString(". Read together, the cards trace a single thread: what each position names, its card answers.")
	return b.String()
}
