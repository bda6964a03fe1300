package job

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memJobStore is an in-memory Store for runner tests.
type memJobStore struct {
	mu      sync.Mutex
	records map[uuid.UUID]Record
}

func newMemJobStore() *memJobStore {
	return &memJobStore{records: make(map[uuid.UUID]Record)}
}

func (s *memJobStore) SaveJob(_ context.Context, j Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[j.ID()] = Record{
		ID:        j.ID(),
		Type:      j.Type(),
		Payload:   j.Payload(),
		Status:    j.Status(),
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	return nil
}

func (s *memJobStore) UpdateJobStatus(_ context.Context, jobID uuid.UUID, status Status, errorMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[jobID]
	if !ok {
		return errors.New("job not found")
	}
	rec.Status = status
	rec.ErrorMessage = errorMsg
	rec.UpdatedAt = time.Now().UTC()
	s.records[jobID] = rec
	return nil
}

func (s *memJobStore) GetPendingJobs(_ context.Context) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Record
	for _, rec := range s.records {
		if rec.Status == StatusPending {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *memJobStore) GetProcessingJobs(_ context.Context, olderThan time.Duration) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := time.Now().Add(-olderThan)
	var out []Record
	for _, rec := range s.records {
		if rec.Status == StatusProcessing && (olderThan == 0 || rec.UpdatedAt.Before(cutoff)) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *memJobStore) status(jobID uuid.UUID) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records[jobID].Status
}

func waitForStatus(t *testing.T, store *memJobStore, jobID uuid.UUID, want Status) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if store.status(jobID) == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s never reached status %q (last %q)", jobID, want, store.status(jobID))
}

func testRunnerConfig() RunnerConfig {
	cfg := DefaultRunnerConfig()
	cfg.WorkerCount = 1
	cfg.QueueSize = 10
	cfg.StuckJobCheckInterval = time.Hour
	return cfg
}

func TestRunnerProcessesSubmittedJob(t *testing.T) {
	store := newMemJobStore()
	runner := NewRunner(store, testRunnerConfig(), slog.Default())
	require.NoError(t, runner.Start())
	defer runner.Stop()

	done := make(chan struct{})
	j := &stubJob{id: uuid.New(), execute: func(context.Context) error {
		close(done)
		return nil
	}}

	require.NoError(t, runner.Submit(context.Background(), j))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job was never executed")
	}
	waitForStatus(t, store, j.ID(), StatusCompleted)
}

func TestRunnerRecordsFailure(t *testing.T) {
	store := newMemJobStore()
	runner := NewRunner(store, testRunnerConfig(), slog.Default())

	var handledErr error
	var handledMu sync.Mutex
	runner.SetErrorHandler(func(_ Job, err error) {
		handledMu.Lock()
		handledErr = err
		handledMu.Unlock()
	})

	require.NoError(t, runner.Start())
	defer runner.Stop()

	j := &stubJob{id: uuid.New(), execute: func(context.Context) error {
		return errors.New("boom")
	}}
	require.NoError(t, runner.Submit(context.Background(), j))

	waitForStatus(t, store, j.ID(), StatusFailed)

	handledMu.Lock()
	defer handledMu.Unlock()
	require.Error(t, handledErr)
	assert.Contains(t, store.records[j.ID()].ErrorMessage, "boom")
}

func TestRunnerRecoversPersistedJobs(t *testing.T) {
	store := newMemJobStore()

	executed := make(chan uuid.UUID, 2)
	factory := func(rec Record) (Job, error) {
		return &stubJob{id: rec.ID, execute: func(context.Context) error {
			executed <- rec.ID
			return nil
		}}, nil
	}

	pendingID := uuid.New()
	processingID := uuid.New()
	store.records[pendingID] = Record{ID: pendingID, Type: "stub", Status: StatusPending, UpdatedAt: time.Now()}
	store.records[processingID] = Record{ID: processingID, Type: "stub", Status: StatusProcessing, UpdatedAt: time.Now()}

	runner := NewRunner(store, testRunnerConfig(), slog.Default())
	runner.RegisterFactory("stub", factory)
	require.NoError(t, runner.Start())
	defer runner.Stop()

	got := map[uuid.UUID]bool{}
	for i := 0; i < 2; i++ {
		select {
		case id := <-executed:
			got[id] = true
		case <-time.After(2 * time.Second):
			t.Fatal("recovered jobs were not executed")
		}
	}
	assert.True(t, got[pendingID])
	assert.True(t, got[processingID])

	waitForStatus(t, store, pendingID, StatusCompleted)
	waitForStatus(t, store, processingID, StatusCompleted)
}

func TestRunnerSkipsUnknownJobType(t *testing.T) {
	store := newMemJobStore()
	orphanID := uuid.New()
	store.records[orphanID] = Record{ID: orphanID, Type: "unknown", Status: StatusPending, UpdatedAt: time.Now()}

	runner := NewRunner(store, testRunnerConfig(), slog.Default())
	require.NoError(t, runner.Start())
	runner.Stop()

	assert.Equal(t, StatusPending, store.status(orphanID))
}
