package deck

import "math/rand"

// ReversalChance is the fixed probability that a drawn card lands reversed.
const ReversalChance = 0.20

// Source is the randomness boundary for deck operations. Production code
// wires a *rand.Rand seeded from crypto-quality entropy; tests inject a
// seeded generator for deterministic shuffles and orientations.
type Source interface {
	// Intn returns a uniform int in [0, n).
	Intn(n int) int

	// Float64 returns a uniform float64 in [0.0, 1.0).
	Float64() float64

	// Shuffle pseudo-randomizes the order of n elements using swap.
	Shuffle(n int, swap func(i, j int))
}

// Ensure *rand.Rand satisfies Source.
var _ Source = (*rand.Rand)(nil)

// OrientationDecider decides whether a drawn card is reversed.
type OrientationDecider struct {
	src    Source
	chance float64
}

// NewOrientationDecider creates a decider with the standard reversal chance.
func NewOrientationDecider(src Source) *OrientationDecider {
	return &OrientationDecider{src: src, chance: ReversalChance}
}

// NewOrientationDeciderWithChance creates a decider with a custom reversal
// probability, clamped to [0, 1]. Used by tests and by configuration.
func NewOrientationDeciderWithChance(src Source, chance float64) *OrientationDecider {
	if chance < 0 {
		chance = 0
	}
	if chance > 1 {
		chance = 1
	}
	return &OrientationDecider{src: src, chance: chance}
}

// Decide returns true when the card should be reversed. Each call is an
// independent draw against the configured probability.
func (o *OrientationDecider) Decide() bool {
	return o.src.Float64() < o.chance
}
