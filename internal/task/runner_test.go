package task_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/arcana-api/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingTask signals on execution.
type recordingTask struct {
	id   uuid.UUID
	done chan struct{}
	err  error
	once sync.Once
}

func newRecordingTask(err error) *recordingTask {
	return &recordingTask{id: uuid.New(), done: make(chan struct{}), err: err}
}

func (t *recordingTask) ID() uuid.UUID { return t.id }
func (t *recordingTask) Type() string  { return "recording" }

func (t *recordingTask) Execute(ctx context.Context) error {
	t.once.Do(func() { close(t.done) })
	return t.err
}

func (t *recordingTask) waitDone(tb testing.TB) {
	tb.Helper()
	select {
	case <-t.done:
	case <-time.After(5 * time.Second):
		tb.Fatal("task was never executed")
	}
}

func TestRunnerExecutesSubmittedTasks(t *testing.T) {
	t.Parallel()

	runner := task.NewRunner(task.RunnerConfig{WorkerCount: 2, QueueSize: 8}, nil)
	runner.Start()
	defer runner.Stop()

	tasks := make([]*recordingTask, 5)
	for i := range tasks {
		tasks[i] = newRecordingTask(nil)
		require.NoError(t, runner.Submit(context.Background(), tasks[i]))
	}

	for _, job := range tasks {
		job.waitDone(t)
	}
}

func TestRunnerSurvivesFailingTask(t *testing.T) {
	t.Parallel()

	runner := task.NewRunner(task.RunnerConfig{WorkerCount: 1, QueueSize: 8}, nil)
	runner.Start()
	defer runner.Stop()

	failing := newRecordingTask(errors.New("boom"))
	following := newRecordingTask(nil)

	require.NoError(t, runner.Submit(context.Background(), failing))
	require.NoError(t, runner.Submit(context.Background(), following))

	// A failed task is logged and the worker keeps draining.
	failing.waitDone(t)
	following.waitDone(t)
}

func TestRunnerSubmitRejectsWhenQueueFull(t *testing.T) {
	t.Parallel()

	// Never started, so nothing drains the queue.
	runner := task.NewRunner(task.RunnerConfig{WorkerCount: 1, QueueSize: 2}, nil)

	require.NoError(t, runner.Submit(context.Background(), newRecordingTask(nil)))
	require.NoError(t, runner.Submit(context.Background(), newRecordingTask(nil)))

	err := runner.Submit(context.Background(), newRecordingTask(nil))
	assert.ErrorIs(t, err, task.ErrQueueFull)
}

func TestRunnerDefaultsConfig(t *testing.T) {
	t.Parallel()

	runner := task.NewRunner(task.RunnerConfig{}, nil)
	runner.Start()
	defer runner.Stop()

	job := newRecordingTask(nil)
	require.NoError(t, runner.Submit(context.Background(), job))
	job.waitDone(t)
}
