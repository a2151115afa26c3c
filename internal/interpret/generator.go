package interpret

import (
	"context"

	"github.com/phrazzld/arcana-api/internal/domain"
)

// NarrativeRequest carries the full card sequence of a reading to a
// narrative generator.
type NarrativeRequest struct {
	Spread      *domain.Spread
	PlacedCards []domain.PlacedCard
	Question    string
}

// NarrativeResult is the generated prose for a reading. Either field may be
// empty; the assembler fills gaps from its deterministic fallback.
type NarrativeResult struct {
	CombinedNarrative string
	Conclusion        string
}

// NarrativeGenerator defines the interface for producing the combined
// narrative of a multi-card reading. This interface is the boundary between
// the engine and external AI/LLM services; implementations must be safe to
// call concurrently.
type NarrativeGenerator interface {
	// GenerateNarrative produces narrative text for the given card
	// sequence. It returns one of the sentinel errors in errors.go when
	// generation fails; callers must be prepared for failure and fall back
	// to deterministic text.
	GenerateNarrative(ctx context.Context, req NarrativeRequest) (*NarrativeResult, error)
}
