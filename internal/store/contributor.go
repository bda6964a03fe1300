package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskboard/taskboard-api/internal/domain"
)

// ContributorStore defines persistence operations for contributors.
// A contributor is backed by exactly one user; Create registers both
// atomically.
type ContributorStore interface {
	// Create saves a new contributor and its backing user in one
	// transaction. Returns ErrEmailExists if the user email is taken.
	Create(ctx context.Context, contributor *domain.Contributor, user *domain.User) error

	// GetByID retrieves a contributor with its user's name and email.
	// Returns ErrContributorNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Contributor, error)

	// List retrieves all contributors, most recently joined first.
	List(ctx context.Context) ([]*domain.Contributor, error)

	// Update replaces the contributor's profile fields and, when name,
	// email or password are set on the contributor, the backing user's
	// account fields, in one transaction.
	// Returns ErrContributorNotFound if it does not exist and
	// ErrEmailExists on an email collision.
	Update(ctx context.Context, contributor *domain.Contributor, newPassword string) error

	// Delete removes a contributor and, through the ownership cascade,
	// its backing user profile link. Returns ErrContributorNotFound if
	// it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}
