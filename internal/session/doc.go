// Package session orchestrates the lifecycle of a single reading: building
// and shuffling the table, tracking selections against the spread, and
// guarding the asynchronous interpretation step with a generation counter so
// a stale result can never attach to a session that was reset meanwhile.
//
// A Session is not safe for concurrent use. The engine assumes one event at
// a time per session; the service layer serializes access.
package session
