package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/taskboard/taskboard-api/internal/api/shared"
	"github.com/taskboard/taskboard-api/internal/query"
	"github.com/taskboard/taskboard-api/internal/service"
)

// contributorQueryFields declares the searchable, filterable and
// orderable fields of the contributor listing.
var contributorQueryFields = query.Fields{
	Searchable: []string{"name", "email"},
	Filterable: []string{"name", "email"},
	Orderable:  []string{"name", "email"},
}

// ContributorHandler handles contributor-related API requests.
type ContributorHandler struct {
	contributorService *service.ContributorService
	validator          *validator.Validate
}

// NewContributorHandler creates a new ContributorHandler.
func NewContributorHandler(contributorService *service.ContributorService) *ContributorHandler {
	return &ContributorHandler{
		contributorService: contributorService,
		validator:          validator.New(),
	}
}

// List handles GET /api/contributors requests.
func (h *ContributorHandler) List(w http.ResponseWriter, r *http.Request) {
	contributors, err := h.contributorService.List(r.Context())
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	params := query.ParseParams(r.URL.Query(), contributorQueryFields)
	filtered := query.Apply(contributors, params, contributorQueryFields)
	page := query.Paginate(filtered, params.Page, params.PageSize)

	shared.RespondWithJSON(w, r, http.StatusOK, newPageResponse(page, contributorToResponse))
}

// Create handles POST /api/contributors requests, registering both the
// contributor profile and its backing user account.
func (h *ContributorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateContributorRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	contributor, err := h.contributorService.Create(r.Context(), service.ContributorInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Skills:   req.Skills,
		JoinedOn: parseOptionalDate(req.JoinedOn),
	})
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, contributorToResponse(contributor))
}

// Get handles GET /api/contributors/{id} requests.
func (h *ContributorHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	contributor, err := h.contributorService.Get(r.Context(), id)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, contributorToResponse(contributor))
}

// Update handles PUT /api/contributors/{id} requests.
func (h *ContributorHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req UpdateContributorRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	contributor, err := h.contributorService.Update(r.Context(), id, service.ContributorInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Skills:   req.Skills,
		JoinedOn: parseOptionalDate(req.JoinedOn),
	})
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, contributorToResponse(contributor))
}

// Delete handles DELETE /api/contributors/{id} requests.
func (h *ContributorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.contributorService.Delete(r.Context(), id); err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
