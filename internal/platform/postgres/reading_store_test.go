package postgres_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/arcana-api/internal/domain"
	"github.com/phrazzld/arcana-api/internal/platform/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingDriver backs a *sql.DB with a connection that records executed
// statements and transaction outcomes.
type recordingDriver struct {
	conn *recordingConn
}

func (d *recordingDriver) Open(name string) (driver.Conn, error) {
	return d.conn, nil
}

type recordingConn struct {
	execs      []string
	committed  bool
	rolledBack bool
}

func (c *recordingConn) Prepare(query string) (driver.Stmt, error) {
	return nil, errors.New("prepare not supported")
}
func (c *recordingConn) Close() error { return nil }

func (c *recordingConn) Begin() (driver.Tx, error) { return &recordingTx{conn: c}, nil }

func (c *recordingConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	c.execs = append(c.execs, query)
	return driver.RowsAffected(1), nil
}

type recordingTx struct {
	conn *recordingConn
}

func (t *recordingTx) Commit() error { t.conn.committed = true; return nil }

func (t *recordingTx) Rollback() error { t.conn.rolledBack = true; return nil }

var recordingDriverSeq atomic.Int64

func newRecordingDB(t *testing.T) (*sql.DB, *recordingConn) {
	t.Helper()

	conn := &recordingConn{}
	name := fmt.Sprintf("postgres-fake-%d", recordingDriverSeq.Add(1))
	sql.Register(name, &recordingDriver{conn: conn})

	db, err := sql.Open(name, "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, conn
}

func completedReading(t *testing.T) *domain.ReadingSession {
	t.Helper()

	spread := &domain.Spread{
		ID:                "one-card",
		Name:              "One Card",
		RequiredCardCount: 1,
		PositionLabels:    []string{"Message for you"},
		TableSize:         12,
	}
	session, err := domain.NewReadingSession(uuid.New(), spread, "what now?")
	require.NoError(t, err)

	require.NoError(t, session.Place(&domain.Card{
		ID:              "major.00",
		Name:            "The Fool",
		Arcana:          domain.ArcanaMajor,
		UprightMeaning:  "up",
		ReversedMeaning: "down",
	}, false))
	session.State = domain.SessionStateComplete
	session.Interpretation = &domain.Interpretation{
		Summary:  "A One Card reading of 1 card.",
		Sections: []domain.InterpretationSection{{Title: "Message for you: The Fool", Content: "up"}},
	}
	session.CreatedAt = time.Now().UTC()
	return session
}

func TestPostgresSaveRunsInTransaction(t *testing.T) {
	t.Parallel()

	db, conn := newRecordingDB(t)
	s := postgres.NewPostgresReadingStore(db, nil)

	err := s.Save(context.Background(), completedReading(t))
	require.NoError(t, err)

	assert.True(t, conn.committed, "save must commit its transaction")
	assert.False(t, conn.rolledBack)
	require.Len(t, conn.execs, 1)
	assert.Contains(t, conn.execs[0], "INSERT INTO readings")
}

func TestPostgresSaveRejectsInvalidReading(t *testing.T) {
	t.Parallel()

	db, conn := newRecordingDB(t)
	s := postgres.NewPostgresReadingStore(db, nil)

	reading := completedReading(t)
	reading.Spread = nil

	err := s.Save(context.Background(), reading)
	assert.Error(t, err)
	assert.Empty(t, conn.execs, "invalid readings never reach the database")
}
