// Package deck owns the mutable card sequence of one reading session:
// building a table from the catalog, fair shuffling, and removal-on-draw.
// All randomness flows through an injected source so shuffle fairness and
// orientation probability are testable with a seeded generator.
package deck
