package job

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubJob struct {
	id      uuid.UUID
	execute func(ctx context.Context) error
}

func (j *stubJob) ID() uuid.UUID   { return j.id }
func (j *stubJob) Type() string    { return "stub" }
func (j *stubJob) Payload() []byte { return nil }
func (j *stubJob) Status() Status  { return StatusPending }
func (j *stubJob) Execute(ctx context.Context) error {
	if j.execute != nil {
		return j.execute(ctx)
	}
	return nil
}

func TestQueueEnqueueAndConsume(t *testing.T) {
	q := NewQueue(2, slog.Default())
	j := &stubJob{id: uuid.New()}

	require.NoError(t, q.Enqueue(j))

	got := <-q.Channel()
	assert.Equal(t, j.ID(), got.ID())
}

func TestQueueFull(t *testing.T) {
	q := NewQueue(1, slog.Default())

	require.NoError(t, q.Enqueue(&stubJob{id: uuid.New()}))

	err := q.Enqueue(&stubJob{id: uuid.New()})
	assert.ErrorIs(t, err, ErrQueueFull)
}

func TestQueueClosed(t *testing.T) {
	q := NewQueue(1, slog.Default())
	q.Close()

	err := q.Enqueue(&stubJob{id: uuid.New()})
	assert.ErrorIs(t, err, ErrQueueClosed)

	_, ok := <-q.Channel()
	assert.False(t, ok)

	// Closing twice is safe.
	q.Close()
}
