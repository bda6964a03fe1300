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

// ProjectInput carries the writable fields of a project.
type ProjectInput struct {
	Name        string
	Description string
	Location    string
	Status      domain.ProjectStatus
}

// ProjectService implements project management use cases.
type ProjectService struct {
	projects store.ProjectStore
	emitter  events.Emitter
	logger   *slog.Logger
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projects store.ProjectStore, emitter events.Emitter, logger *slog.Logger) (*ProjectService, error) {
	if projects == nil {
		return nil, fmt.Errorf("project store cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	return &ProjectService{
		projects: projects,
		emitter:  emitter,
		logger:   logger.With(slog.String("component", "project_service")),
	}, nil
}

// Create registers a new project.
func (s *ProjectService) Create(ctx context.Context, input ProjectInput) (*domain.Project, error) {
	project, err := domain.NewProject(input.Name, input.Description, input.Location, input.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if err := s.projects.Create(ctx, project); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "project created",
		"project_id", project.ID, "name", project.Name)
	return project, nil
}

// Get retrieves one project by ID.
func (s *ProjectService) Get(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

// List retrieves all projects.
func (s *ProjectService) List(ctx context.Context) ([]*domain.Project, error) {
	return s.projects.List(ctx)
}

// Update replaces a project's writable fields.
func (s *ProjectService) Update(ctx context.Context, id uuid.UUID, input ProjectInput) (*domain.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	project.Name = input.Name
	project.Description = input.Description
	project.Location = input.Location
	if input.Status != "" {
		project.Status = input.Status
	}
	project.UpdatedAt = time.Now().UTC()

	if err := project.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}

	return project, nil
}

// Delete removes a project and, through the storage cascade, its tasks.
// A task change event is emitted because cached task listings may have
// referenced the deleted tasks.
func (s *ProjectService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.projects.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "project deleted", "project_id", id)
	s.emitTaskChanged(ctx, events.ActionDeleted, uuid.Nil)
	return nil
}

// emitTaskChanged publishes a task change event, logging handler
// failures without propagating them: the mutation is already durable.
func (s *ProjectService) emitTaskChanged(ctx context.Context, action events.ChangeAction, taskID uuid.UUID) {
	if s.emitter == nil {
		return
	}
	event := events.NewTaskChangedEvent(action, taskID)
	if err := s.emitter.EmitTaskChanged(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "task change handler failed",
			"action", action, "task_id", taskID, "error", err)
	}
}
