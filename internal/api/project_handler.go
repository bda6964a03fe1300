package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/taskboard/taskboard-api/internal/api/shared"
	"github.com/taskboard/taskboard-api/internal/domain"
	"github.com/taskboard/taskboard-api/internal/query"
	"github.com/taskboard/taskboard-api/internal/service"
)

// projectQueryFields declares the searchable, filterable and orderable
// fields of the project listing.
var projectQueryFields = query.Fields{
	Searchable: []string{"name", "status", "location"},
	Filterable: []string{"status", "location"},
	Orderable:  []string{"name", "created_at", "status"},
}

// ProjectHandler handles project-related API requests.
type ProjectHandler struct {
	projectService *service.ProjectService
	taskService    *service.TaskService
	validator      *validator.Validate
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *service.ProjectService, taskService *service.TaskService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		taskService:    taskService,
		validator:      validator.New(),
	}
}

// List handles GET /api/projects requests.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projectService.List(r.Context())
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	params := query.ParseParams(r.URL.Query(), projectQueryFields)
	filtered := query.Apply(projects, params, projectQueryFields)
	page := query.Paginate(filtered, params.Page, params.PageSize)

	shared.RespondWithJSON(w, r, http.StatusOK, newPageResponse(page, projectToResponse))
}

// Create handles POST /api/projects requests.
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProjectRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	project, err := h.projectService.Create(r.Context(), service.ProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		Status:      domain.ProjectStatus(req.Status),
	})
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, projectToResponse(project))
}

// Get handles GET /api/projects/{id} requests.
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	project, err := h.projectService.Get(r.Context(), id)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, projectToResponse(project))
}

// Update handles PUT /api/projects/{id} requests.
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req ProjectRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	project, err := h.projectService.Update(r.Context(), id, service.ProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		Status:      domain.ProjectStatus(req.Status),
	})
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, projectToResponse(project))
}

// Delete handles DELETE /api/projects/{id} requests.
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.projectService.Delete(r.Context(), id); err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Tasks handles GET /api/projects/{id}/tasks requests, listing one
// project's tasks with the task listing's query surface.
func (h *ProjectHandler) Tasks(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	// A missing project yields 404 rather than an empty listing.
	if _, err := h.projectService.Get(r.Context(), id); err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	tasks, err := h.taskService.ListByProject(r.Context(), id)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	params := query.ParseParams(r.URL.Query(), taskQueryFields)
	filtered := query.Apply(tasks, params, taskQueryFields)
	page := query.Paginate(filtered, params.Page, params.PageSize)

	shared.RespondWithJSON(w, r, http.StatusOK, newPageResponse(page, taskToResponse))
}

// pathID parses the {id} URL parameter, responding with 400 on garbage.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid ID format")
		return uuid.Nil, false
	}
	return id, true
}
