package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/taskboard/taskboard-api/internal/domain"
	"github.com/taskboard/taskboard-api/internal/store"
)

// taskColumns is the select list shared by every task query. The join
// to projects provides the denormalized project name.
const taskColumns = `
	t.id, t.project_id, p.name, t.title, t.description, t.due_date,
	t.is_completed, t.is_overdue, t.created_at, t.updated_at
`

// PostgresTaskStore implements the store.TaskStore interface using a
// PostgreSQL database as the storage backend. It owns the tasks table
// and the task_assignees join table; writes touching both run in one
// transaction.
type PostgresTaskStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface. If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db *sql.DB, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// Create implements store.TaskStore.Create
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now

	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		query := `
			INSERT INTO tasks (id, project_id, title, description, due_date,
				is_completed, is_overdue, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`

		_, err := tx.ExecContext(ctx, query,
			task.ID,
			task.ProjectID,
			task.Title,
			task.Description,
			dueDateArg(task.DueDate),
			task.IsCompleted,
			task.IsOverdue,
			task.CreatedAt,
			task.UpdatedAt,
		)
		if err != nil {
			s.logger.Error("failed to create task", "task_id", task.ID, "error", err)
			return MapError(err)
		}

		return s.replaceAssignees(ctx, tx, task.ID, task.Assignees)
	})
}

// GetByID implements store.TaskStore.GetByID
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks t
		JOIN projects p ON p.id = t.project_id
		WHERE t.id = $1
	`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		s.logger.Error("failed to get task", "task_id", id, "error", err)
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	if err := s.attachAssignees(ctx, []*domain.Task{task}); err != nil {
		return nil, err
	}

	return task, nil
}

// List implements store.TaskStore.List
func (s *PostgresTaskStore) List(ctx context.Context) ([]*domain.Task, error) {
	return s.listWhere(ctx, "", "ORDER BY t.due_date DESC NULLS LAST, t.created_at DESC")
}

// ListByProject implements store.TaskStore.ListByProject
func (s *PostgresTaskStore) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Task, error) {
	return s.listWhere(ctx, "WHERE t.project_id = $1", "ORDER BY t.created_at DESC", projectID)
}

// ListDue implements store.TaskStore.ListDue
func (s *PostgresTaskStore) ListDue(ctx context.Context, today time.Time) ([]*domain.Task, error) {
	return s.listWhere(ctx,
		"WHERE t.is_completed = FALSE AND t.due_date IS NOT NULL AND t.due_date <= $1",
		"ORDER BY t.due_date ASC, t.created_at ASC",
		today)
}

// ListOverdue implements store.TaskStore.ListOverdue
func (s *PostgresTaskStore) ListOverdue(ctx context.Context) ([]*domain.Task, error) {
	return s.listWhere(ctx,
		"WHERE t.is_overdue = TRUE",
		"ORDER BY t.due_date ASC, t.created_at ASC")
}

// listWhere runs one task query with the given WHERE and ORDER BY
// fragments, then attaches assignees in a single second query.
func (s *PostgresTaskStore) listWhere(ctx context.Context, where, order string, args ...any) ([]*domain.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks t
		JOIN projects p ON p.id = t.project_id
		` + where + `
		` + order

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		s.logger.Error("failed to list tasks", "error", err)
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}

	if err := s.attachAssignees(ctx, tasks); err != nil {
		return nil, err
	}

	return tasks, nil
}

// Update implements store.TaskStore.Update
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	task.UpdatedAt = time.Now().UTC()

	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		query := `
			UPDATE tasks
			SET project_id = $1, title = $2, description = $3, due_date = $4,
				is_completed = $5, updated_at = $6
			WHERE id = $7
		`

		result, err := tx.ExecContext(ctx, query,
			task.ProjectID,
			task.Title,
			task.Description,
			dueDateArg(task.DueDate),
			task.IsCompleted,
			task.UpdatedAt,
			task.ID,
		)
		if err != nil {
			s.logger.Error("failed to update task", "task_id", task.ID, "error", err)
			return MapError(err)
		}

		if err := CheckRowsAffected(result, "task"); err != nil {
			return store.ErrTaskNotFound
		}

		return s.replaceAssignees(ctx, tx, task.ID, task.Assignees)
	})
}

// Delete implements store.TaskStore.Delete
// Assignee rows are removed by the ON DELETE CASCADE on task_assignees.
func (s *PostgresTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		s.logger.Error("failed to delete task", "task_id", id, "error", err)
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "task"); err != nil {
		return store.ErrTaskNotFound
	}

	return nil
}

// MarkOverdue implements store.TaskStore.MarkOverdue
func (s *PostgresTaskStore) MarkOverdue(ctx context.Context, today time.Time) (int64, error) {
	query := `
		UPDATE tasks
		SET is_overdue = TRUE, updated_at = $1
		WHERE is_completed = FALSE
			AND is_overdue = FALSE
			AND due_date IS NOT NULL
			AND due_date < $2
	`
	return s.bulkUpdate(ctx, query, time.Now().UTC(), today)
}

// ClearOverdueCompleted implements store.TaskStore.ClearOverdueCompleted
func (s *PostgresTaskStore) ClearOverdueCompleted(ctx context.Context) (int64, error) {
	query := `
		UPDATE tasks
		SET is_overdue = FALSE, updated_at = $1
		WHERE is_overdue = TRUE AND is_completed = TRUE
	`
	return s.bulkUpdate(ctx, query, time.Now().UTC())
}

// ClearOverdueNotYetDue implements store.TaskStore.ClearOverdueNotYetDue
func (s *PostgresTaskStore) ClearOverdueNotYetDue(ctx context.Context, today time.Time) (int64, error) {
	query := `
		UPDATE tasks
		SET is_overdue = FALSE, updated_at = $1
		WHERE is_overdue = TRUE
			AND due_date IS NOT NULL
			AND due_date >= $2
	`
	return s.bulkUpdate(ctx, query, time.Now().UTC(), today)
}

// bulkUpdate executes one conditional UPDATE and reports how many rows
// it transitioned.
func (s *PostgresTaskStore) bulkUpdate(ctx context.Context, query string, args ...any) (int64, error) {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		s.logger.Error("bulk task update failed", "error", err)
		return 0, fmt.Errorf("bulk task update failed: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

// replaceAssignees rewrites the task's assignee set inside the caller's
// transaction.
func (s *PostgresTaskStore) replaceAssignees(ctx context.Context, tx *sql.Tx, taskID uuid.UUID, assignees []domain.Assignee) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM task_assignees WHERE task_id = $1`, taskID); err != nil {
		return fmt.Errorf("failed to clear task assignees: %w", err)
	}

	for _, a := range assignees {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO task_assignees (task_id, contributor_id) VALUES ($1, $2)`,
			taskID, a.ContributorID)
		if err != nil {
			if IsForeignKeyViolation(err) {
				return fmt.Errorf("%w: unknown contributor %s", store.ErrInvalidEntity, a.ContributorID)
			}
			return fmt.Errorf("failed to add task assignee: %w", err)
		}
	}

	return nil
}

// attachAssignees loads the assignees for all given tasks in one query
// and fills each task's Assignees slice in place.
func (s *PostgresTaskStore) attachAssignees(ctx context.Context, tasks []*domain.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*domain.Task, len(tasks))
	ids := make([]uuid.UUID, 0, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
		ids = append(ids, t.ID)
	}

	query := `
		SELECT ta.task_id, c.id, u.name, u.email
		FROM task_assignees ta
		JOIN contributors c ON c.id = ta.contributor_id
		JOIN users u ON u.id = c.user_id
		WHERE ta.task_id = ANY($1)
		ORDER BY u.name ASC
	`

	rows, err := s.db.QueryContext(ctx, query, ids)
	if err != nil {
		s.logger.Error("failed to load task assignees", "error", err)
		return fmt.Errorf("failed to load task assignees: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var taskID uuid.UUID
		var a domain.Assignee
		if err := rows.Scan(&taskID, &a.ContributorID, &a.Name, &a.Email); err != nil {
			return fmt.Errorf("failed to scan assignee row: %w", err)
		}
		if t, ok := byID[taskID]; ok {
			t.Assignees = append(t.Assignees, a)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating assignee rows: %w", err)
	}

	return nil
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanTask reads one task row in taskColumns order.
func scanTask(row scanner) (*domain.Task, error) {
	var task domain.Task
	var dueDate sql.NullTime

	err := row.Scan(
		&task.ID,
		&task.ProjectID,
		&task.ProjectName,
		&task.Title,
		&task.Description,
		&dueDate,
		&task.IsCompleted,
		&task.IsOverdue,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if dueDate.Valid {
		d := dueDate.Time
		task.DueDate = &d
	}

	return &task, nil
}

// dueDateArg converts an optional due date into a nullable SQL argument.
func dueDateArg(d *time.Time) any {
	if d == nil {
		return nil
	}
	return *d
}
