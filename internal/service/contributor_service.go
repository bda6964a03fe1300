package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/taskboard/taskboard-api/internal/domain"
	"github.com/taskboard/taskboard-api/internal/store"
)

// ContributorInput carries the writable fields of a contributor and its
// backing user account. On update, empty Name, Email and Password leave
// the corresponding account fields unchanged.
type ContributorInput struct {
	Name     string
	Email    string
	Password string
	Skills   []string
	JoinedOn *time.Time
}

// ContributorService implements contributor management use cases.
type ContributorService struct {
	contributors store.ContributorStore
	logger       *slog.Logger
}

// NewContributorService creates a new ContributorService.
func NewContributorService(contributors store.ContributorStore, logger *slog.Logger) (*ContributorService, error) {
	if contributors == nil {
		return nil, fmt.Errorf("contributor store cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	return &ContributorService{
		contributors: contributors,
		logger:       logger.With(slog.String("component", "contributor_service")),
	}, nil
}

// Create registers a new contributor together with its backing user.
func (s *ContributorService) Create(ctx context.Context, input ContributorInput) (*domain.Contributor, error) {
	user, err := domain.NewUser(input.Email, input.Name, input.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	contributor, err := domain.NewContributor(user.ID, input.Skills, input.JoinedOn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if err := s.contributors.Create(ctx, contributor, user); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "contributor created",
		"contributor_id", contributor.ID, "user_id", user.ID)
	return contributor, nil
}

// Get retrieves one contributor by ID.
func (s *ContributorService) Get(ctx context.Context, id uuid.UUID) (*domain.Contributor, error) {
	return s.contributors.GetByID(ctx, id)
}

// List retrieves all contributors.
func (s *ContributorService) List(ctx context.Context) ([]*domain.Contributor, error) {
	return s.contributors.List(ctx)
}

// Update replaces a contributor's profile and account fields.
func (s *ContributorService) Update(ctx context.Context, id uuid.UUID, input ContributorInput) (*domain.Contributor, error) {
	contributor, err := s.contributors.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	contributor.Name = input.Name
	contributor.Email = input.Email
	contributor.Skills = input.Skills
	contributor.JoinedOn = input.JoinedOn

	if err := s.contributors.Update(ctx, contributor, input.Password); err != nil {
		return nil, err
	}

	return s.contributors.GetByID(ctx, id)
}

// Delete removes a contributor. Task assignments referencing it are
// removed by the storage cascade.
func (s *ContributorService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.contributors.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "contributor deleted", "contributor_id", id)
	return nil
}
