package store

import "context"

// ProjectTaskCounts is one dashboard row: a project annotated with its
// task totals.
type ProjectTaskCounts struct {
	ProjectID      string `json:"id"`
	Name           string `json:"name"`
	Status         string `json:"status"`
	TotalTasks     int    `json:"total_tasks"`
	CompletedTasks int    `json:"completed_tasks"`
	OverdueTasks   int    `json:"overdue_tasks"`
}

// DashboardSummary holds the cross-entity counts served by the
// dashboard endpoint.
type DashboardSummary struct {
	TotalProjects     int
	ActiveProjects    int
	CompletedProjects int
	OnHoldProjects    int

	TotalTasks     int
	CompletedTasks int
	OverdueTasks   int

	TotalContributors int

	RecentProjects []ProjectTaskCounts
}

// StatsStore computes read-only aggregate counts across entities.
type StatsStore interface {
	// DashboardSummary returns entity counts plus per-project task
	// counts for the five most recently created projects.
	DashboardSummary(ctx context.Context) (*DashboardSummary, error)
}
