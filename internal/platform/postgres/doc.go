// Package postgres provides PostgreSQL-backed implementations of the store
// interfaces. Composite fields (spread, placed cards, interpretation) are
// persisted as JSONB snapshots so a saved reading round-trips without
// rejoining catalog state.
package postgres
