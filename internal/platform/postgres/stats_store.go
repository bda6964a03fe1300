package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taskboard/taskboard-api/internal/domain"
	"github.com/taskboard/taskboard-api/internal/store"
)

// recentProjectCount is how many recently created projects the
// dashboard lists with per-project task counts.
const recentProjectCount = 5

// PostgresStatsStore implements the store.StatsStore interface
// using a PostgreSQL database as the storage backend.
type PostgresStatsStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresStatsStore creates a new PostgreSQL implementation of the
// StatsStore interface. If logger is nil, a default logger will be used.
func NewPostgresStatsStore(db store.DBTX, logger *slog.Logger) *PostgresStatsStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresStatsStore{
		db:     db,
		logger: logger.With(slog.String("component", "stats_store")),
	}
}

// Ensure PostgresStatsStore implements store.StatsStore interface
var _ store.StatsStore = (*PostgresStatsStore)(nil)

// DashboardSummary implements store.StatsStore.DashboardSummary
func (s *PostgresStatsStore) DashboardSummary(ctx context.Context) (*store.DashboardSummary, error) {
	summary := &store.DashboardSummary{}

	countsQuery := `
		SELECT
			(SELECT COUNT(*) FROM projects),
			(SELECT COUNT(*) FROM projects WHERE status = $1),
			(SELECT COUNT(*) FROM projects WHERE status = $2),
			(SELECT COUNT(*) FROM projects WHERE status = $3),
			(SELECT COUNT(*) FROM tasks),
			(SELECT COUNT(*) FROM tasks WHERE is_completed = TRUE),
			(SELECT COUNT(*) FROM tasks WHERE is_overdue = TRUE),
			(SELECT COUNT(*) FROM contributors)
	`

	err := s.db.QueryRowContext(ctx, countsQuery,
		domain.ProjectStatusActive,
		domain.ProjectStatusCompleted,
		domain.ProjectStatusOnHold,
	).Scan(
		&summary.TotalProjects,
		&summary.ActiveProjects,
		&summary.CompletedProjects,
		&summary.OnHoldProjects,
		&summary.TotalTasks,
		&summary.CompletedTasks,
		&summary.OverdueTasks,
		&summary.TotalContributors,
	)
	if err != nil {
		s.logger.Error("failed to compute dashboard counts", "error", err)
		return nil, fmt.Errorf("failed to compute dashboard counts: %w", err)
	}

	recentQuery := `
		SELECT p.id, p.name, p.status,
			COUNT(t.id),
			COUNT(t.id) FILTER (WHERE t.is_completed),
			COUNT(t.id) FILTER (WHERE t.is_overdue)
		FROM projects p
		LEFT JOIN tasks t ON t.project_id = p.id
		GROUP BY p.id, p.name, p.status, p.created_at
		ORDER BY p.created_at DESC
		LIMIT $1
	`

	rows, err := s.db.QueryContext(ctx, recentQuery, recentProjectCount)
	if err != nil {
		s.logger.Error("failed to query recent projects", "error", err)
		return nil, fmt.Errorf("failed to query recent projects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var row store.ProjectTaskCounts
		if err := rows.Scan(
			&row.ProjectID,
			&row.Name,
			&row.Status,
			&row.TotalTasks,
			&row.CompletedTasks,
			&row.OverdueTasks,
		); err != nil {
			return nil, fmt.Errorf("failed to scan recent project row: %w", err)
		}
		summary.RecentProjects = append(summary.RecentProjects, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recent project rows: %w", err)
	}

	return summary, nil
}
