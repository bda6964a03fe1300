package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/taskboard/taskboard-api/internal/domain"
)

// TaskStore defines persistence operations for tasks, including the
// bulk conditional updates the overdue sweep relies on. Each bulk
// update is a single statement: no reader observes a partially-applied
// pass.
type TaskStore interface {
	// Create saves a new task together with its assignee references.
	// Returns ErrInvalidEntity if the project or a contributor does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task with its project name and assignees.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// List retrieves all tasks in default order (due date, then creation,
	// both descending), with project names and assignees attached.
	List(ctx context.Context) ([]*domain.Task, error)

	// ListByProject retrieves one project's tasks, newest first.
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Task, error)

	// ListDue retrieves incomplete tasks whose due date is on or before
	// the given day.
	ListDue(ctx context.Context, today time.Time) ([]*domain.Task, error)

	// ListOverdue retrieves the current overdue set, with project names
	// and assignees attached.
	ListOverdue(ctx context.Context) ([]*domain.Task, error)

	// Update replaces a task's mutable fields and its assignee set.
	// The overdue flag is not touched here; only the sweep mutates it.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task. Returns ErrTaskNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// MarkOverdue flags every incomplete task with a due date strictly
	// before today that is not already flagged. Returns the number of
	// rows transitioned.
	MarkOverdue(ctx context.Context, today time.Time) (int64, error)

	// ClearOverdueCompleted unflags tasks that have been completed.
	// Returns the number of rows transitioned.
	ClearOverdueCompleted(ctx context.Context) (int64, error)

	// ClearOverdueNotYetDue unflags tasks whose due date is today or
	// later, covering due-date edits that move a task back into the
	// future. Returns the number of rows transitioned.
	ClearOverdueNotYetDue(ctx context.Context, today time.Time) (int64, error)
}
