package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ChangeAction identifies what happened to a task.
type ChangeAction string

// Possible change actions. ActionSwept marks the bulk flag updates a
// sweep run applies; the CRUD actions map to the API mutation paths.
const (
	ActionCreated ChangeAction = "created"
	ActionUpdated ChangeAction = "updated"
	ActionDeleted ChangeAction = "deleted"
	ActionSwept   ChangeAction = "swept"
)

// TaskChangedEvent signals that a task was created, updated or deleted,
// or that a sweep rewrote overdue flags. Consumers only need the fact of
// the change; TaskID is informational (uuid.Nil for sweeps) and carried
// for logging.
type TaskChangedEvent struct {
	ID         uuid.UUID    `json:"id"`
	Action     ChangeAction `json:"action"`
	TaskID     uuid.UUID    `json:"task_id"`
	OccurredAt time.Time    `json:"occurred_at"`
}

// NewTaskChangedEvent creates an event for the given action and task.
func NewTaskChangedEvent(action ChangeAction, taskID uuid.UUID) *TaskChangedEvent {
	return &TaskChangedEvent{
		ID:         uuid.New(),
		Action:     action,
		TaskID:     taskID,
		OccurredAt: time.Now().UTC(),
	}
}

// Handler defines an interface for components that react to task
// changes. Handlers must treat events as best-effort signals: a handler
// error never undoes the mutation that produced the event.
type Handler interface {
	// HandleTaskChanged processes the given event within the provided context.
	HandleTaskChanged(ctx context.Context, event *TaskChangedEvent) error
}

// Emitter defines an interface for components that publish task change
// events, decoupling mutation paths from the reactions they trigger.
type Emitter interface {
	// EmitTaskChanged publishes the given event to all registered handlers.
	EmitTaskChanged(ctx context.Context, event *TaskChangedEvent) error
}
