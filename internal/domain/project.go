package domain

import (
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ProjectStatus represents the lifecycle state of a project
type ProjectStatus string

// Possible project status values
const (
	ProjectStatusActive    ProjectStatus = "ACTIVE"
	ProjectStatusCompleted ProjectStatus = "COMPLETED"
	ProjectStatusOnHold    ProjectStatus = "ON_HOLD"
)

// Common validation errors for Project
var (
	ErrEmptyProjectID       = errors.New("project ID cannot be empty")
	ErrEmptyProjectName     = errors.New("project name cannot be empty")
	ErrInvalidProjectStatus = errors.New("invalid project status")
)

// Project represents a unit of work that owns a collection of tasks.
// Deleting a project cascades to its tasks at the storage layer.
type Project struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Location    string        `json:"location"`
	Status      ProjectStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// NewProject creates a new Project with the given name, description,
// location and status. An empty status defaults to ACTIVE.
// Returns an error if validation fails.
func NewProject(name, description, location string, status ProjectStatus) (*Project, error) {
	if status == "" {
		status = ProjectStatusActive
	}

	project := &Project{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Location:    location,
		Status:      status,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := project.Validate(); err != nil {
		return nil, err
	}

	return project, nil
}

// Validate checks if the Project has valid data.
// Returns an error if any field fails validation.
func (p *Project) Validate() error {
	if p.ID == uuid.Nil {
		return ErrEmptyProjectID
	}

	if p.Name == "" {
		return ErrEmptyProjectName
	}

	if !isValidProjectStatus(p.Status) {
		return ErrInvalidProjectStatus
	}

	return nil
}

// QueryField exposes a project's listable fields to the query composer.
// The second return value reports whether the field name is known.
func (p *Project) QueryField(name string) (string, bool) {
	switch name {
	case "id":
		return p.ID.String(), true
	case "name":
		return p.Name, true
	case "description":
		return p.Description, true
	case "location":
		return p.Location, true
	case "status":
		return string(p.Status), true
	case "created_at":
		// Fixed-width UTC encoding so lexicographic order matches chronological order.
		return p.CreatedAt.UTC().Format(time.RFC3339), true
	case "updated_at":
		return p.UpdatedAt.UTC().Format(time.RFC3339), true
	default:
		return "", false
	}
}

// isValidProjectStatus checks if the given status is a valid ProjectStatus.
func isValidProjectStatus(status ProjectStatus) bool {
	switch status {
	case ProjectStatusActive, ProjectStatusCompleted, ProjectStatusOnHold:
		return true
	default:
		return false
	}
}

// formatBool renders a boolean the way the query composer compares it.
func formatBool(b bool) string {
	return strconv.FormatBool(b)
}
