package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taskboard/taskboard-api/internal/store"
)

// DashboardService serves the aggregate counts behind the dashboard.
type DashboardService struct {
	stats  store.StatsStore
	logger *slog.Logger
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(stats store.StatsStore, logger *slog.Logger) (*DashboardService, error) {
	if stats == nil {
		return nil, fmt.Errorf("stats store cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	return &DashboardService{
		stats:  stats,
		logger: logger.With(slog.String("component", "dashboard_service")),
	}, nil
}

// Summary computes the dashboard counts.
func (s *DashboardService) Summary(ctx context.Context) (*store.DashboardSummary, error) {
	return s.stats.DashboardSummary(ctx)
}
