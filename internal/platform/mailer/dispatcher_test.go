package mailer

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureSender records deliveries and can be told to fail.
type captureSender struct {
	mu   sync.Mutex
	sent []Message
	err  error
}

func (s *captureSender) Send(ctx context.Context, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *captureSender) delivered() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.sent))
	copy(out, s.sent)
	return out
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestDispatcherDelivers(t *testing.T) {
	sender := &captureSender{}
	d := NewDispatcher(sender, DispatcherConfig{WorkerCount: 2, QueueSize: 10}, testLogger())
	defer d.Stop()

	require.True(t, d.Enqueue(Message{To: "ada@example.com", Subject: "Overdue Task Alert: Pour foundation"}))
	waitFor(t, func() bool { return len(sender.delivered()) == 1 })
	assert.Equal(t, "ada@example.com", sender.delivered()[0].To)
}

func TestDispatcherSwallowsFailures(t *testing.T) {
	sender := &captureSender{err: errors.New("smtp: connection refused")}
	d := NewDispatcher(sender, DispatcherConfig{WorkerCount: 1, QueueSize: 4}, testLogger())
	defer d.Stop()

	assert.True(t, d.Enqueue(Message{To: "a@example.com"}))
	// Nothing to assert beyond "no panic, no block": failure is logged
	// and dropped after a single attempt.
	time.Sleep(20 * time.Millisecond)
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	block := make(chan struct{})
	slow := &blockingSender{release: block}
	d := NewDispatcher(slow, DispatcherConfig{WorkerCount: 1, QueueSize: 1}, testLogger())
	defer func() {
		close(block)
		d.Stop()
	}()

	d.Enqueue(Message{To: "first"}) // taken by the worker
	waitFor(t, func() bool { return slow.started.Load() })
	d.Enqueue(Message{To: "second"}) // sits in the buffer
	assert.False(t, d.Enqueue(Message{To: "third"}), "full queue must drop, not block")
}

type blockingSender struct {
	release chan struct{}
	started atomic.Bool
}

func (s *blockingSender) Send(ctx context.Context, msg Message) error {
	s.started.Store(true)
	select {
	case <-s.release:
	case <-ctx.Done():
	}
	return nil
}
