// Package interpret assembles the structured interpretation of a completed
// reading. The assembler owns the deterministic structural shape (summary,
// ordered per-card sections, conclusion); the combined narrative may be
// delegated to an external generation service behind the NarrativeGenerator
// interface, and any failure there degrades to a local deterministic
// fallback rather than failing the session.
package interpret
