package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Task
var (
	ErrEmptyTaskID        = errors.New("task ID cannot be empty")
	ErrEmptyTaskProjectID = errors.New("task project ID cannot be empty")
	ErrEmptyTaskTitle     = errors.New("task title cannot be empty")
)

// dateLayout is the wire and comparison format for due dates.
const dateLayout = "2006-01-02"

// Assignee is the slice of contributor data a task carries for display
// and for overdue notifications. The task references the contributor,
// it does not own it.
type Assignee struct {
	ContributorID uuid.UUID `json:"contributor_id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
}

// Task represents a unit of work belonging to exactly one project.
// IsOverdue is derived state: it is only ever mutated by the overdue
// sweep, never set directly through the API.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	ProjectID   uuid.UUID  `json:"project_id"`
	ProjectName string     `json:"project_name,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	IsCompleted bool       `json:"is_completed"`
	IsOverdue   bool       `json:"is_overdue"`
	Assignees   []Assignee `json:"assigned_to"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewTask creates a new Task under the given project.
// The overdue flag always starts false; only a sweep sets it.
// Returns an error if validation fails.
func NewTask(projectID uuid.UUID, title, description string, dueDate *time.Time) (*Task, error) {
	task := &Task{
		ID:          uuid.New(),
		ProjectID:   projectID,
		Title:       title,
		Description: description,
		DueDate:     dueDate,
		IsCompleted: false,
		IsOverdue:   false,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.ProjectID == uuid.Nil {
		return ErrEmptyTaskProjectID
	}

	if t.Title == "" {
		return ErrEmptyTaskTitle
	}

	return nil
}

// DueDateString returns the task's due date in YYYY-MM-DD form,
// or the empty string when no due date is set.
func (t *Task) DueDateString() string {
	if t.DueDate == nil {
		return ""
	}
	return t.DueDate.Format(dateLayout)
}

// QueryField exposes a task's listable fields to the query composer.
func (t *Task) QueryField(name string) (string, bool) {
	switch name {
	case "id":
		return t.ID.String(), true
	case "project_id":
		return t.ProjectID.String(), true
	case "project_name":
		return t.ProjectName, true
	case "title":
		return t.Title, true
	case "description":
		return t.Description, true
	case "due_date":
		return t.DueDateString(), true
	case "is_completed":
		return formatBool(t.IsCompleted), true
	case "is_overdue":
		return formatBool(t.IsOverdue), true
	case "created_at":
		return t.CreatedAt.UTC().Format(time.RFC3339), true
	case "updated_at":
		return t.UpdatedAt.UTC().Format(time.RFC3339), true
	default:
		return "", false
	}
}
