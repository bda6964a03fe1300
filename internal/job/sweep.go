package job

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/taskboard/taskboard-api/internal/domain"
	"github.com/taskboard/taskboard-api/internal/events"
	"github.com/taskboard/taskboard-api/internal/platform/mailer"
)

// SweepStore defines the persistence operations the overdue sweep needs.
type SweepStore interface {
	// MarkOverdue flags incomplete tasks whose due date has passed.
	// Returns the number of newly flagged tasks.
	MarkOverdue(ctx context.Context, today time.Time) (int64, error)

	// ClearOverdueCompleted unflags tasks that were completed while
	// still flagged overdue. Returns the number of rows changed.
	ClearOverdueCompleted(ctx context.Context) (int64, error)

	// ClearOverdueNotYetDue unflags tasks whose due date moved into the
	// future. Returns the number of rows changed.
	ClearOverdueNotYetDue(ctx context.Context, today time.Time) (int64, error)

	// ListOverdue returns all tasks currently flagged overdue, with
	// assignees populated.
	ListOverdue(ctx context.Context) ([]*domain.Task, error)
}

// Notifier delivers overdue alerts. Satisfied by mailer.Dispatcher.
type Notifier interface {
	Enqueue(msg mailer.Message) bool
}

// SweepResult summarizes one sweep run.
type SweepResult struct {
	NewlyOverdue     int64 `json:"newly_overdue"`
	ClearedCompleted int64 `json:"cleared_completed"`
	ClearedFuture    int64 `json:"cleared_future"`
	Notified         int   `json:"notified"`
}

// sweepPayload is the persisted payload of a sweep job.
type sweepPayload struct {
	RequestedAt time.Time `json:"requested_at"`
}

// SweepJob recomputes the overdue flag across all tasks and notifies
// assignees of tasks that remain overdue. One run performs three
// passes: mark newly overdue tasks, clear the flag on completed tasks,
// and clear it on tasks whose due date moved into the future.
type SweepJob struct {
	id      uuid.UUID
	payload []byte
	status  Status

	store    SweepStore
	notifier Notifier
	emitter  events.Emitter
	logger   *slog.Logger
	now      func() time.Time
}

// NewSweepJob creates a sweep job ready for submission.
func NewSweepJob(store SweepStore, notifier Notifier, emitter events.Emitter, logger *slog.Logger) (*SweepJob, error) {
	if store == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	payload, err := json.Marshal(sweepPayload{RequestedAt: time.Now().UTC()})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sweep payload: %w", err)
	}

	return &SweepJob{
		id:       uuid.New(),
		payload:  payload,
		status:   StatusPending,
		store:    store,
		notifier: notifier,
		emitter:  emitter,
		logger:   logger.With("job_type", TypeOverdueSweep),
		now:      time.Now,
	}, nil
}

// NewSweepJobFactory returns a Factory that rebuilds sweep jobs from
// persisted records after a restart.
func NewSweepJobFactory(store SweepStore, notifier Notifier, emitter events.Emitter, logger *slog.Logger) Factory {
	return func(rec Record) (Job, error) {
		j, err := NewSweepJob(store, notifier, emitter, logger)
		if err != nil {
			return nil, err
		}
		j.id = rec.ID
		j.payload = rec.Payload
		j.status = rec.Status
		return j, nil
	}
}

// ID returns the job's unique identifier.
func (j *SweepJob) ID() uuid.UUID { return j.id }

// Type returns the job type identifier.
func (j *SweepJob) Type() string { return TypeOverdueSweep }

// Payload returns the serialized job parameters.
func (j *SweepJob) Payload() []byte { return j.payload }

// Status returns the current job status.
func (j *SweepJob) Status() Status { return j.status }

// Execute runs the sweep.
func (j *SweepJob) Execute(ctx context.Context) error {
	today := dateOf(j.now())
	result := SweepResult{}

	marked, err := j.store.MarkOverdue(ctx, today)
	if err != nil {
		return fmt.Errorf("failed to mark overdue tasks: %w", err)
	}
	result.NewlyOverdue = marked

	cleared, err := j.store.ClearOverdueCompleted(ctx)
	if err != nil {
		return fmt.Errorf("failed to clear completed overdue tasks: %w", err)
	}
	result.ClearedCompleted = cleared

	future, err := j.store.ClearOverdueNotYetDue(ctx, today)
	if err != nil {
		return fmt.Errorf("failed to clear rescheduled overdue tasks: %w", err)
	}
	result.ClearedFuture = future

	result.Notified = j.notifyAssignees(ctx)

	sweepRunsTotal.Inc()
	tasksMarkedOverdueTotal.Add(float64(result.NewlyOverdue))

	if j.emitter != nil && (result.NewlyOverdue > 0 || result.ClearedCompleted > 0 || result.ClearedFuture > 0) {
		event := events.NewTaskChangedEvent(events.ActionSwept, uuid.Nil)
		if err := j.emitter.EmitTaskChanged(ctx, event); err != nil {
			j.logger.Error("failed to emit sweep event", "error", err)
		}
	}

	j.logger.Info("overdue sweep completed",
		"newly_overdue", result.NewlyOverdue,
		"cleared_completed", result.ClearedCompleted,
		"cleared_future", result.ClearedFuture,
		"notified", result.Notified)

	return nil
}

// notifyAssignees sends at most one alert per assignee across all
// overdue tasks, referencing the first overdue task seen for each.
func (j *SweepJob) notifyAssignees(ctx context.Context) int {
	if j.notifier == nil {
		return 0
	}

	overdue, err := j.store.ListOverdue(ctx)
	if err != nil {
		j.logger.Error("failed to list overdue tasks for notification", "error", err)
		return 0
	}

	seen := make(map[string]bool)
	notified := 0

	for _, t := range overdue {
		for _, a := range t.Assignees {
			if a.Email == "" || seen[a.Email] {
				continue
			}
			seen[a.Email] = true

			msg := mailer.Message{
				To:      a.Email,
				Subject: fmt.Sprintf("Overdue Task Alert: %s", t.Title),
				Body:    overdueMessageBody(a.Name, t),
			}
			if j.notifier.Enqueue(msg) {
				notified++
				notificationsEnqueuedTotal.Inc()
			}
		}
	}

	return notified
}

func overdueMessageBody(name string, t *domain.Task) string {
	return fmt.Sprintf(
		"Hi %s,\n\nThe task %q in project %q is overdue (due %s). Please update its status or reschedule it.\n",
		name, t.Title, t.ProjectName, t.DueDateString())
}

// dateOf truncates a timestamp to midnight in its own location.
func dateOf(ts time.Time) time.Time {
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location())
}
