package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/arcana-api/internal/domain"
	"github.com/phrazzld/arcana-api/internal/platform/logger"
	"github.com/phrazzld/arcana-api/internal/store"
)

// PostgreSQL error codes
const pgUniqueViolationCode = "23505"

// PostgresReadingStore implements the store.ReadingStore interface
// using a PostgreSQL database as the storage backend.
type PostgresReadingStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReadingStore creates a new PostgreSQL implementation of the
// ReadingStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresReadingStore(db store.DBTX, logger *slog.Logger) *PostgresReadingStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresReadingStore{
		db:     db,
		logger: logger.With(slog.String("component", "reading_store")),
	}
}

// Ensure PostgresReadingStore implements store.ReadingStore interface
var _ store.ReadingStore = (*PostgresReadingStore)(nil)

// Save implements store.ReadingStore.Save
// It persists a completed reading session with its placed cards and
// interpretation as JSONB snapshots.
// Returns store.ErrDuplicate if the session ID was already saved.
func (s *PostgresReadingStore) Save(ctx context.Context, session *domain.ReadingSession) error {
	// Writes issued on a root connection run inside a transaction. A store
	// already scoped with WithTx writes on the caller's transaction.
	if db, ok := s.db.(*sql.DB); ok {
		return store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
			return s.WithTx(tx).Save(ctx, session)
		})
	}

	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		log.Warn("reading validation failed during save",
			slog.String("error", err.Error()),
			slog.String("reading_id", session.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	spreadJSON, err := json.Marshal(session.Spread)
	if err != nil {
		return fmt.Errorf("%w: marshal spread: %v", store.ErrInvalidEntity, err)
	}
	cardsJSON, err := json.Marshal(session.PlacedCards)
	if err != nil {
		return fmt.Errorf("%w: marshal placed cards: %v", store.ErrInvalidEntity, err)
	}
	var interpJSON []byte
	if session.Interpretation != nil {
		interpJSON, err = json.Marshal(session.Interpretation)
		if err != nil {
			return fmt.Errorf("%w: marshal interpretation: %v", store.ErrInvalidEntity, err)
		}
	}

	query := `
		INSERT INTO readings (id, user_id, spread_id, question, spread, placed_cards, interpretation, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		session.ID,
		session.UserID,
		session.Spread.ID,
		session.Question,
		spreadJSON,
		cardsJSON,
		interpJSON,
		session.CreatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolationCode {
			log.Warn("duplicate reading on save",
				slog.String("reading_id", session.ID.String()))
			return fmt.Errorf("%w: reading %s", store.ErrDuplicate, session.ID)
		}

		log.Error("failed to save reading",
			slog.String("error", err.Error()),
			slog.String("reading_id", session.ID.String()),
			slog.String("user_id", session.UserID.String()))
		return err
	}

	log.Info("reading saved",
		slog.String("reading_id", session.ID.String()),
		slog.String("user_id", session.UserID.String()),
		slog.String("spread_id", session.Spread.ID))
	return nil
}

// GetByID implements store.ReadingStore.GetByID
// Returns store.ErrReadingNotFound if the reading does not exist.
func (s *PostgresReadingStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ReadingSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, question, spread, placed_cards, interpretation, created_at
		FROM readings
		WHERE id = $1
	`
	row := s.db.QueryRowContext(ctx, query, id)

	session, err := scanReading(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", store.ErrReadingNotFound, id)
		}
		log.Error("failed to get reading",
			slog.String("error", err.Error()),
			slog.String("reading_id", id.String()))
		return nil, err
	}

	return session, nil
}

// FetchHistory implements store.ReadingStore.FetchHistory
// It returns the user's saved readings newest first; page is 1-based.
func (s *PostgresReadingStore) FetchHistory(
	ctx context.Context,
	userID uuid.UUID,
	page, limit int,
) ([]*domain.ReadingSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if page < 1 {
		page = 1
	}

	query := `
		SELECT id, user_id, question, spread, placed_cards, interpretation, created_at
		FROM readings
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := s.db.QueryContext(ctx, query, userID, limit, (page-1)*limit)
	if err != nil {
		log.Error("failed to fetch reading history",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	sessions := make([]*domain.ReadingSession, 0)
	for rows.Next() {
		session, err := scanReading(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// WithTx implements store.ReadingStore.WithTx
func (s *PostgresReadingStore) WithTx(tx *sql.Tx) store.ReadingStore {
	return &PostgresReadingStore{db: tx, logger: s.logger}
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanReading reconstructs a saved reading from one result row. Saved
// readings are always complete, so the state is fixed on load.
func scanReading(row rowScanner) (*domain.ReadingSession, error) {
	var (
		session    domain.ReadingSession
		spreadJSON []byte
		cardsJSON  []byte
		interpJSON []byte
	)

	err := row.Scan(
		&session.ID,
		&session.UserID,
		&session.Question,
		&spreadJSON,
		&cardsJSON,
		&interpJSON,
		&session.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	session.Spread = &domain.Spread{}
	if err := json.Unmarshal(spreadJSON, session.Spread); err != nil {
		return nil, fmt.Errorf("unmarshal spread: %w", err)
	}
	if err := json.Unmarshal(cardsJSON, &session.PlacedCards); err != nil {
		return nil, fmt.Errorf("unmarshal placed cards: %w", err)
	}
	if len(interpJSON) > 0 {
		session.Interpretation = &domain.Interpretation{}
		if err := json.Unmarshal(interpJSON, session.Interpretation); err != nil {
			return nil, fmt.Errorf("unmarshal interpretation: %w", err)
		}
	}

	session.State = domain.SessionStateComplete
	session.UpdatedAt = session.CreatedAt
	return &session, nil
}
