package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/taskboard/taskboard-api/internal/domain"
	"github.com/taskboard/taskboard-api/internal/query"
	"github.com/taskboard/taskboard-api/internal/store"
)

// dateLayout is the wire format for date-only fields.
const dateLayout = "2006-01-02"

// RegisterRequest represents the request body for user registration
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Name     string `json:"name"     validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest represents the request body for user login
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest represents the request body for refreshing an access token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse represents the response for successful authentication
type AuthResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
}

// ProjectRequest represents the request body for creating or replacing a project
type ProjectRequest struct {
	Name        string `json:"name"        validate:"required,max=200"`
	Description string `json:"description"`
	Location    string `json:"location"    validate:"max=200"`
	Status      string `json:"status"      validate:"omitempty,oneof=ACTIVE COMPLETED ON_HOLD"`
}

// CreateTaskRequest represents the request body for creating a task
type CreateTaskRequest struct {
	ProjectID   uuid.UUID   `json:"project_id"   validate:"required"`
	Title       string      `json:"title"        validate:"required,max=200"`
	Description string      `json:"description"`
	DueDate     string      `json:"due_date"     validate:"omitempty,datetime=2006-01-02"`
	IsCompleted bool        `json:"is_completed"`
	AssignedTo  []uuid.UUID `json:"assigned_to"`
}

// UpdateTaskRequest represents the request body for replacing a task.
// An absent project ID keeps the task in its current project.
type UpdateTaskRequest struct {
	ProjectID   uuid.UUID   `json:"project_id"`
	Title       string      `json:"title"        validate:"required,max=200"`
	Description string      `json:"description"`
	DueDate     string      `json:"due_date"     validate:"omitempty,datetime=2006-01-02"`
	IsCompleted bool        `json:"is_completed"`
	AssignedTo  []uuid.UUID `json:"assigned_to"`
}

// CreateContributorRequest represents the request body for registering a contributor
type CreateContributorRequest struct {
	Name     string   `json:"name"      validate:"required,max=200"`
	Email    string   `json:"email"     validate:"required,email"`
	Password string   `json:"password"  validate:"required,min=8,max=72"`
	Skills   []string `json:"skills"`
	JoinedOn string   `json:"joined_on" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateContributorRequest represents the request body for updating a
// contributor. Empty name, email and password keep the current values.
type UpdateContributorRequest struct {
	Name     string   `json:"name"      validate:"omitempty,max=200"`
	Email    string   `json:"email"     validate:"omitempty,email"`
	Password string   `json:"password"  validate:"omitempty,min=8,max=72"`
	Skills   []string `json:"skills"`
	JoinedOn string   `json:"joined_on" validate:"omitempty,datetime=2006-01-02"`
}

// ProjectResponse represents the response data for a project
type ProjectResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AssigneeResponse represents one task assignee
type AssigneeResponse struct {
	ContributorID uuid.UUID `json:"contributor_id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
}

// TaskResponse represents the response data for a task
type TaskResponse struct {
	ID          uuid.UUID          `json:"id"`
	ProjectID   uuid.UUID          `json:"project_id"`
	ProjectName string             `json:"project_name"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	DueDate     *string            `json:"due_date"`
	IsCompleted bool               `json:"is_completed"`
	IsOverdue   bool               `json:"is_overdue"`
	AssignedTo  []AssigneeResponse `json:"assigned_to"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// ContributorResponse represents the response data for a contributor
type ContributorResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Skills    []string  `json:"skills"`
	JoinedOn  *string   `json:"joined_on"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DashboardResponse represents the aggregate counts for the dashboard
type DashboardResponse struct {
	Projects       DashboardProjects         `json:"projects"`
	Tasks          DashboardTasks            `json:"tasks"`
	Contributors   DashboardContributors     `json:"contributors"`
	RecentProjects []store.ProjectTaskCounts `json:"recent_projects"`
}

// DashboardProjects holds the project counts of the dashboard
type DashboardProjects struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
	OnHold    int `json:"on_hold"`
}

// DashboardTasks holds the task counts of the dashboard
type DashboardTasks struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Overdue   int `json:"overdue"`
}

// DashboardContributors holds the contributor counts of the dashboard
type DashboardContributors struct {
	Total int `json:"total"`
}

// PageResponse is the pagination envelope wrapping every listing
// response. Next and Previous are page numbers, null at either edge.
type PageResponse struct {
	Count    int  `json:"count"`
	Page     int  `json:"page"`
	PageSize int  `json:"page_size"`
	Next     *int `json:"next"`
	Previous *int `json:"previous"`
	Results  any  `json:"results"`
}

// newPageResponse builds the pagination envelope from a result page,
// converting each record to its response representation.
func newPageResponse[T any, R any](p query.Page[T], convert func(T) R) PageResponse {
	results := make([]R, 0, len(p.Results))
	for _, item := range p.Results {
		results = append(results, convert(item))
	}

	resp := PageResponse{
		Count:    p.Count,
		Page:     p.Number,
		PageSize: p.Size,
		Results:  results,
	}
	if p.HasNext {
		next := p.Number + 1
		resp.Next = &next
	}
	if p.HasPrevious {
		prev := p.Number - 1
		resp.Previous = &prev
	}
	return resp
}

// projectToResponse converts a domain.Project to a ProjectResponse
func projectToResponse(p *domain.Project) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Location:    p.Location,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// taskToResponse converts a domain.Task to a TaskResponse
func taskToResponse(t *domain.Task) TaskResponse {
	resp := TaskResponse{
		ID:          t.ID,
		ProjectID:   t.ProjectID,
		ProjectName: t.ProjectName,
		Title:       t.Title,
		Description: t.Description,
		IsCompleted: t.IsCompleted,
		IsOverdue:   t.IsOverdue,
		AssignedTo:  make([]AssigneeResponse, 0, len(t.Assignees)),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}

	if t.DueDate != nil {
		due := t.DueDate.Format(dateLayout)
		resp.DueDate = &due
	}

	for _, a := range t.Assignees {
		resp.AssignedTo = append(resp.AssignedTo, AssigneeResponse{
			ContributorID: a.ContributorID,
			Name:          a.Name,
			Email:         a.Email,
		})
	}

	return resp
}

// contributorToResponse converts a domain.Contributor to a ContributorResponse
func contributorToResponse(c *domain.Contributor) ContributorResponse {
	resp := ContributorResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Skills:    c.Skills,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if resp.Skills == nil {
		resp.Skills = []string{}
	}
	if c.JoinedOn != nil {
		joined := c.JoinedOn.Format(dateLayout)
		resp.JoinedOn = &joined
	}
	return resp
}

// parseOptionalDate parses a date-only field that has already passed
// format validation. Empty means absent.
func parseOptionalDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	d, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil
	}
	return &d
}
