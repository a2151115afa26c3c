package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/arcana-api/internal/task"
)

// TaskTypeInterpretation identifies interpretation jobs in runner logs.
const TaskTypeInterpretation = "interpretation"

// interpretationTask is the background job that assembles a reading's
// interpretation. It carries the generation it was started for so the
// service can discard its result if the session moved on.
type interpretationTask struct {
	id         uuid.UUID
	service    *readingServiceImpl
	sessionID  uuid.UUID
	generation uint64
}

var _ task.Task = (*interpretationTask)(nil)

func newInterpretationTask(service *readingServiceImpl, sessionID uuid.UUID, generation uint64) *interpretationTask {
	return &interpretationTask{
		id:         uuid.New(),
		service:    service,
		sessionID:  sessionID,
		generation: generation,
	}
}

// ID implements task.Task.
func (t *interpretationTask) ID() uuid.UUID {
	return t.id
}

// Type implements task.Task.
func (t *interpretationTask) Type() string {
	return TaskTypeInterpretation
}

// Execute runs the assembly and applies the outcome to the session.
func (t *interpretationTask) Execute(ctx context.Context) error {
	return t.service.interpret(ctx, t.sessionID, t.generation)
}
