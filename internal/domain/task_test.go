package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	projectID := uuid.New()
	due := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	task, err := NewTask(projectID, "Pour foundation", "block B", &due)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, task.ID)
	assert.Equal(t, projectID, task.ProjectID)
	assert.False(t, task.IsCompleted)
	assert.False(t, task.IsOverdue, "new tasks must never start overdue")
	assert.Equal(t, "2026-03-14", task.DueDateString())
}

func TestTaskValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(task *Task)
		wantErr error
	}{
		{
			name:    "valid task",
			modify:  func(task *Task) {},
			wantErr: nil,
		},
		{
			name:    "missing ID",
			modify:  func(task *Task) { task.ID = uuid.Nil },
			wantErr: ErrEmptyTaskID,
		},
		{
			name:    "missing project",
			modify:  func(task *Task) { task.ProjectID = uuid.Nil },
			wantErr: ErrEmptyTaskProjectID,
		},
		{
			name:    "missing title",
			modify:  func(task *Task) { task.Title = "" },
			wantErr: ErrEmptyTaskTitle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, err := NewTask(uuid.New(), "Inspect wiring", "", nil)
			require.NoError(t, err)

			tt.modify(task)
			err = task.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestTaskQueryField(t *testing.T) {
	due := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	task, err := NewTask(uuid.New(), "Urgent fix", "roof leak", &due)
	require.NoError(t, err)
	task.ProjectName = "Harbor Renovation"
	task.IsCompleted = true

	cases := map[string]string{
		"title":        "Urgent fix",
		"description":  "roof leak",
		"project_name": "Harbor Renovation",
		"due_date":     "2025-12-01",
		"is_completed": "true",
		"is_overdue":   "false",
	}
	for field, want := range cases {
		got, ok := task.QueryField(field)
		assert.True(t, ok, field)
		assert.Equal(t, want, got, field)
	}

	_, ok := task.QueryField("no_such_field")
	assert.False(t, ok)

	task.DueDate = nil
	got, ok := task.QueryField("due_date")
	assert.True(t, ok)
	assert.Equal(t, "", got)
}
