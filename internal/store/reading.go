package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/arcana-api/internal/domain"
)

// ReadingStore defines the interface for reading persistence. The engine
// hands completed sessions to Save read-only; implementations must not
// mutate them.
type ReadingStore interface {
	// Save persists a completed reading session, including its placed
	// cards and interpretation.
	// Returns ErrInvalidEntity for sessions failing domain validation and
	// ErrDuplicate if the session ID was already saved.
	Save(ctx context.Context, session *domain.ReadingSession) error

	// GetByID retrieves a saved reading by its session ID.
	// Returns ErrReadingNotFound if the reading does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ReadingSession, error)

	// FetchHistory retrieves a user's saved readings, newest first.
	// page is 1-based; limit caps the page size. Implementations return an
	// empty slice, not an error, when the page is past the end.
	FetchHistory(ctx context.Context, userID uuid.UUID, page, limit int) ([]*domain.ReadingSession, error)

	// WithTx returns a new ReadingStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller,
	// typically through RunInTransaction.
	WithTx(tx *sql.Tx) ReadingStore
}
