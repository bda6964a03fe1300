package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/taskboard/taskboard-api/internal/domain"
	"github.com/taskboard/taskboard-api/internal/events"
	"github.com/taskboard/taskboard-api/internal/store"
)

// TaskInput carries the writable fields of a task. The overdue flag is
// absent on purpose: only the sweep mutates it.
type TaskInput struct {
	ProjectID   uuid.UUID
	Title       string
	Description string
	DueDate     *time.Time
	IsCompleted bool
	AssigneeIDs []uuid.UUID
}

// TaskService implements task management use cases. Every mutation
// publishes a task change event after the write is durable.
type TaskService struct {
	tasks   store.TaskStore
	emitter events.Emitter
	logger  *slog.Logger
	now     func() time.Time
}

// NewTaskService creates a new TaskService.
func NewTaskService(tasks store.TaskStore, emitter events.Emitter, logger *slog.Logger) (*TaskService, error) {
	if tasks == nil {
		return nil, fmt.Errorf("task store cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	return &TaskService{
		tasks:   tasks,
		emitter: emitter,
		logger:  logger.With(slog.String("component", "task_service")),
		now:     time.Now,
	}, nil
}

// Create registers a new task under input.ProjectID.
func (s *TaskService) Create(ctx context.Context, input TaskInput) (*domain.Task, error) {
	task, err := domain.NewTask(input.ProjectID, input.Title, input.Description, input.DueDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	task.IsCompleted = input.IsCompleted
	task.Assignees = assigneeRefs(input.AssigneeIDs)

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "task created",
		"task_id", task.ID, "project_id", task.ProjectID)
	s.emitTaskChanged(ctx, events.ActionCreated, task.ID)

	// Reload to pick up the project name and assignee details.
	return s.tasks.GetByID(ctx, task.ID)
}

// Get retrieves one task by ID.
func (s *TaskService) Get(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, id)
}

// List retrieves all tasks.
func (s *TaskService) List(ctx context.Context) ([]*domain.Task, error) {
	return s.tasks.List(ctx)
}

// ListByProject retrieves one project's tasks.
func (s *TaskService) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Task, error) {
	return s.tasks.ListByProject(ctx, projectID)
}

// ListDue retrieves incomplete tasks due today or earlier.
func (s *TaskService) ListDue(ctx context.Context) ([]*domain.Task, error) {
	return s.tasks.ListDue(ctx, dateOf(s.now()))
}

// ListOverdue retrieves the current overdue set.
func (s *TaskService) ListOverdue(ctx context.Context) ([]*domain.Task, error) {
	return s.tasks.ListOverdue(ctx)
}

// Update replaces a task's writable fields and assignee set.
func (s *TaskService) Update(ctx context.Context, id uuid.UUID, input TaskInput) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.ProjectID != uuid.Nil {
		task.ProjectID = input.ProjectID
	}
	task.Title = input.Title
	task.Description = input.Description
	task.DueDate = input.DueDate
	task.IsCompleted = input.IsCompleted
	task.Assignees = assigneeRefs(input.AssigneeIDs)

	if err := task.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	s.emitTaskChanged(ctx, events.ActionUpdated, task.ID)

	return s.tasks.GetByID(ctx, task.ID)
}

// Delete removes a task.
func (s *TaskService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.tasks.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "task deleted", "task_id", id)
	s.emitTaskChanged(ctx, events.ActionDeleted, id)
	return nil
}

func (s *TaskService) emitTaskChanged(ctx context.Context, action events.ChangeAction, taskID uuid.UUID) {
	if s.emitter == nil {
		return
	}
	event := events.NewTaskChangedEvent(action, taskID)
	if err := s.emitter.EmitTaskChanged(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "task change handler failed",
			"action", action, "task_id", taskID, "error", err)
	}
}

// assigneeRefs turns contributor IDs into assignee references; the
// store fills in names and emails on read.
func assigneeRefs(ids []uuid.UUID) []domain.Assignee {
	if len(ids) == 0 {
		return nil
	}
	refs := make([]domain.Assignee, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, domain.Assignee{ContributorID: id})
	}
	return refs
}

// dateOf truncates a timestamp to midnight in its own location.
func dateOf(ts time.Time) time.Time {
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location())
}
