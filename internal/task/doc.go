// Package task provides background processing for interpretation jobs: a
// bounded queue drained by a fixed worker pool. Jobs carry the session
// generation they were started for, so results resolving after a reset are
// recognized as stale and discarded by the submitter.
package task
