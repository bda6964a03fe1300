package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskboard/taskboard-api/internal/domain"
)

// ProjectStore defines persistence operations for projects.
type ProjectStore interface {
	// Create saves a new project.
	// Returns ErrProjectNameExists if the name is already taken.
	Create(ctx context.Context, project *domain.Project) error

	// GetByID retrieves a project by its unique ID.
	// Returns ErrProjectNotFound if the project does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error)

	// List retrieves all projects in default order (newest first).
	List(ctx context.Context) ([]*domain.Project, error)

	// Update replaces a project's mutable fields.
	// Returns ErrProjectNotFound if the project does not exist and
	// ErrProjectNameExists if the new name collides with another project.
	Update(ctx context.Context, project *domain.Project) error

	// Delete removes a project. Owned tasks are removed by the storage
	// layer's cascade. Returns ErrProjectNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}
