package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Contributor
var (
	ErrEmptyContributorID     = errors.New("contributor ID cannot be empty")
	ErrEmptyContributorUserID = errors.New("contributor user ID cannot be empty")
)

// Contributor is the project-facing profile of exactly one backing user.
// It owns the account-adjacent profile data (skills, join date); the
// name and email are carried from the user record for display and search.
type Contributor struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Skills    []string   `json:"skills"`
	JoinedOn  *time.Time `json:"joined_on,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewContributor creates a new Contributor backed by the given user.
// Returns an error if validation fails.
func NewContributor(userID uuid.UUID, skills []string, joinedOn *time.Time) (*Contributor, error) {
	contributor := &Contributor{
		ID:        uuid.New(),
		UserID:    userID,
		Skills:    skills,
		JoinedOn:  joinedOn,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := contributor.Validate(); err != nil {
		return nil, err
	}

	return contributor, nil
}

// Validate checks if the Contributor has valid data.
func (c *Contributor) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyContributorID
	}

	if c.UserID == uuid.Nil {
		return ErrEmptyContributorUserID
	}

	return nil
}

// QueryField exposes a contributor's listable fields to the query composer.
func (c *Contributor) QueryField(name string) (string, bool) {
	switch name {
	case "id":
		return c.ID.String(), true
	case "name":
		return c.Name, true
	case "email":
		return c.Email, true
	case "joined_on":
		if c.JoinedOn == nil {
			return "", true
		}
		return c.JoinedOn.UTC().Format(time.RFC3339), true
	case "created_at":
		return c.CreatedAt.UTC().Format(time.RFC3339), true
	default:
		return "", false
	}
}
