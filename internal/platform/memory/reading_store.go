package memory

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/arcana-api/internal/domain"
	"github.com/phrazzld/arcana-api/internal/store"
)

// MemoryReadingStore implements store.ReadingStore with an in-process map.
// It is safe for concurrent use.
type MemoryReadingStore struct {
	mu       sync.RWMutex
	readings map[uuid.UUID]*domain.ReadingSession
}

// NewMemoryReadingStore creates an empty in-memory reading store.
func NewMemoryReadingStore() *MemoryReadingStore {
	return &MemoryReadingStore{
		readings: make(map[uuid.UUID]*domain.ReadingSession),
	}
}

// Ensure MemoryReadingStore implements store.ReadingStore interface
var _ store.ReadingStore = (*MemoryReadingStore)(nil)

// Save implements store.ReadingStore.Save
func (s *MemoryReadingStore) Save(ctx context.Context, session *domain.ReadingSession) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.readings[session.ID]; exists {
		return fmt.Errorf("%w: reading %s", store.ErrDuplicate, session.ID)
	}

	// Persist a detached copy; the caller's session keeps mutating after
	// save (reset, read again) and must not reach the stored record.
	s.readings[session.ID] = session.Clone()
	return nil
}

// GetByID implements store.ReadingStore.GetByID
func (s *MemoryReadingStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ReadingSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.readings[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrReadingNotFound, id)
	}
	return session.Clone(), nil
}

// FetchHistory implements store.ReadingStore.FetchHistory
func (s *MemoryReadingStore) FetchHistory(
	ctx context.Context,
	userID uuid.UUID,
	page, limit int,
) ([]*domain.ReadingSession, error) {
	if page < 1 {
		page = 1
	}

	s.mu.RLock()
	matched := make([]*domain.ReadingSession, 0)
	for _, session := range s.readings {
		if session.UserID == userID {
			matched = append(matched, session.Clone())
		}
	}
	s.mu.RUnlock()

	// Newest first, matching the postgres ordering.
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	start := (page - 1) * limit
	if start >= len(matched) {
		return []*domain.ReadingSession{}, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], nil
}

// WithTx implements store.ReadingStore.WithTx
// The memory store has no transactions; it returns itself.
func (s *MemoryReadingStore) WithTx(tx *sql.Tx) store.ReadingStore {
	return s
}
