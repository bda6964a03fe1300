package mailer

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// sendTimeout bounds a single delivery attempt.
const sendTimeout = 10 * time.Second

// DispatcherConfig holds configuration for the mail dispatcher.
type DispatcherConfig struct {
	// WorkerCount determines how many concurrent deliveries run.
	// If zero or negative, defaults to 1.
	WorkerCount int

	// QueueSize determines the buffer for pending messages. When the
	// buffer is full further messages are dropped, not blocked on.
	QueueSize int
}

// Dispatcher is a bounded worker pool that delivers notifications off
// the caller's critical path. Exactly one attempt is made per message;
// failures are logged and swallowed. Enqueue never blocks.
type Dispatcher struct {
	sender Sender
	queue  chan Message
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	logger *slog.Logger
}

// NewDispatcher creates a Dispatcher over the given sender.
func NewDispatcher(sender Sender, cfg DispatcherConfig, logger *slog.Logger) *Dispatcher {
	workerCount := cfg.WorkerCount
	if workerCount <= 0 {
		workerCount = 1
	}
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 100
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		sender: sender,
		queue:  make(chan Message, queueSize),
		ctx:    ctx,
		cancel: cancel,
		logger: logger.With(slog.String("component", "mail_dispatcher")),
	}

	for i := 0; i < workerCount; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}

	return d
}

// Enqueue hands a message to the pool without waiting for delivery.
// Returns false when the queue is full and the message was dropped.
func (d *Dispatcher) Enqueue(msg Message) bool {
	select {
	case d.queue <- msg:
		return true
	default:
		d.logger.Warn("mail queue full, dropping notification",
			"to", msg.To, "subject", msg.Subject)
		return false
	}
}

// Stop drains nothing and waits for in-flight deliveries to finish.
// Pending queued messages are abandoned; delivery is best-effort.
func (d *Dispatcher) Stop() {
	d.cancel()
	d.wg.Wait()
}

func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()

	for {
		select {
		case <-d.ctx.Done():
			return
		case msg := <-d.queue:
			sendCtx, cancel := context.WithTimeout(d.ctx, sendTimeout)
			if err := d.sender.Send(sendCtx, msg); err != nil {
				// One attempt only; the sweep's state transitions
				// have already been committed regardless.
				d.logger.Warn("notification delivery failed",
					"error", err, "to", msg.To, "worker_id", id)
			}
			cancel()
		}
	}
}
