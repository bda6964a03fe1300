package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/taskboard/taskboard-api/internal/api/shared"
	"github.com/taskboard/taskboard-api/internal/cache"
	"github.com/taskboard/taskboard-api/internal/query"
	"github.com/taskboard/taskboard-api/internal/service"
)

// OverdueCacheNamespace prefixes every cached overdue listing key, so
// the invalidation hook can purge the whole namespace at once.
const OverdueCacheNamespace = "overdue_tasks"

// taskQueryFields declares the searchable, filterable and orderable
// fields of the task listing.
var taskQueryFields = query.Fields{
	Searchable: []string{"title", "description", "project_name"},
	Filterable: []string{"is_completed", "project_id", "is_overdue"},
	Orderable:  []string{"title", "due_date", "created_at"},
}

// overdueQueryFields is the query surface of the due and overdue
// listings. The overdue flag itself is fixed by the endpoint, so it
// is not filterable here.
var overdueQueryFields = query.Fields{
	Searchable: []string{"title", "description", "project_name"},
	Filterable: []string{"is_completed", "project_id"},
	Orderable:  []string{"title", "due_date", "created_at"},
}

// TaskHandler handles task-related API requests. The overdue listing
// is served through the cache gateway; all other reads hit the store
// directly.
type TaskHandler struct {
	taskService *service.TaskService
	gateway     *cache.Gateway
	validator   *validator.Validate
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *service.TaskService, gateway *cache.Gateway) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		gateway:     gateway,
		validator:   validator.New(),
	}
}

// List handles GET /api/tasks requests.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.List(r.Context())
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	params := query.ParseParams(r.URL.Query(), taskQueryFields)
	filtered := query.Apply(tasks, params, taskQueryFields)
	page := query.Paginate(filtered, params.Page, params.PageSize)

	shared.RespondWithJSON(w, r, http.StatusOK, newPageResponse(page, taskToResponse))
}

// Due handles GET /api/tasks/due requests: incomplete tasks due today
// or earlier.
func (h *TaskHandler) Due(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.ListDue(r.Context())
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	params := query.ParseParams(r.URL.Query(), overdueQueryFields)
	filtered := query.Apply(tasks, params, overdueQueryFields)
	page := query.Paginate(filtered, params.Page, params.PageSize)

	shared.RespondWithJSON(w, r, http.StatusOK, newPageResponse(page, taskToResponse))
}

// Overdue handles GET /api/tasks/overdue requests. Responses are cached
// per full parameter set; task mutations and sweep runs purge the
// namespace.
func (h *TaskHandler) Overdue(w http.ResponseWriter, r *http.Request) {
	key := cache.Key(OverdueCacheNamespace, r.URL.Query())

	if body, ok := h.gateway.Get(r.Context(), key); ok {
		shared.RespondWithRawJSON(w, r, http.StatusOK, body)
		return
	}

	tasks, err := h.taskService.ListOverdue(r.Context())
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	params := query.ParseParams(r.URL.Query(), overdueQueryFields)
	filtered := query.Apply(tasks, params, overdueQueryFields)
	page := query.Paginate(filtered, params.Page, params.PageSize)
	response := newPageResponse(page, taskToResponse)

	body, err := json.Marshal(response)
	if err != nil {
		slog.Error("failed to encode overdue listing for cache", "error", err)
		shared.RespondWithJSON(w, r, http.StatusOK, response)
		return
	}

	h.gateway.Set(r.Context(), key, body)
	shared.RespondWithRawJSON(w, r, http.StatusOK, body)
}

// Create handles POST /api/tasks requests.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	task, err := h.taskService.Create(r.Context(), service.TaskInput{
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     parseOptionalDate(req.DueDate),
		IsCompleted: req.IsCompleted,
		AssigneeIDs: req.AssignedTo,
	})
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// Get handles GET /api/tasks/{id} requests.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.Get(r.Context(), id)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// Update handles PUT /api/tasks/{id} requests.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	task, err := h.taskService.Update(r.Context(), id, service.TaskInput{
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     parseOptionalDate(req.DueDate),
		IsCompleted: req.IsCompleted,
		AssigneeIDs: req.AssignedTo,
	})
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// Delete handles DELETE /api/tasks/{id} requests.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.taskService.Delete(r.Context(), id); err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
