package api

import (
	"net/http"

	"github.com/taskboard/taskboard-api/internal/api/shared"
	"github.com/taskboard/taskboard-api/internal/service"
	"github.com/taskboard/taskboard-api/internal/store"
)

// DashboardHandler serves the aggregate counts endpoint.
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Get handles GET /api/dashboard requests.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	summary, err := h.dashboardService.Summary(r.Context())
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	recent := summary.RecentProjects
	if recent == nil {
		recent = []store.ProjectTaskCounts{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DashboardResponse{
		Projects: DashboardProjects{
			Total:     summary.TotalProjects,
			Active:    summary.ActiveProjects,
			Completed: summary.CompletedProjects,
			OnHold:    summary.OnHoldProjects,
		},
		Tasks: DashboardTasks{
			Total:     summary.TotalTasks,
			Completed: summary.CompletedTasks,
			Overdue:   summary.OverdueTasks,
		},
		Contributors: DashboardContributors{
			Total: summary.TotalContributors,
		},
		RecentProjects: recent,
	})
}
