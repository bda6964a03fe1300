package job

import (
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerRunOnStart(t *testing.T) {
	store := newMemJobStore()
	runner := NewRunner(store, testRunnerConfig(), slog.Default())
	require.NoError(t, runner.Start())
	defer runner.Stop()

	var runs atomic.Int32
	newJob := func() (Job, error) {
		return &stubJob{id: uuid.New(), execute: func(context.Context) error {
			runs.Add(1)
			return nil
		}}, nil
	}

	sched := NewScheduler(runner, newJob, time.Hour, true, slog.Default())
	sched.Start()
	defer sched.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for runs.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	assert.Equal(t, int32(1), runs.Load())
}

func TestSchedulerTicks(t *testing.T) {
	store := newMemJobStore()
	runner := NewRunner(store, testRunnerConfig(), slog.Default())
	require.NoError(t, runner.Start())
	defer runner.Stop()

	var runs atomic.Int32
	newJob := func() (Job, error) {
		return &stubJob{id: uuid.New(), execute: func(context.Context) error {
			runs.Add(1)
			return nil
		}}, nil
	}

	sched := NewScheduler(runner, newJob, 10*time.Millisecond, false, slog.Default())
	sched.Start()

	deadline := time.Now().Add(2 * time.Second)
	for runs.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	sched.Stop()

	assert.GreaterOrEqual(t, runs.Load(), int32(2))
}
