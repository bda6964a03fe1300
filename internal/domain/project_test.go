package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProject(t *testing.T) {
	t.Run("defaults status to active", func(t *testing.T) {
		project, err := NewProject("Harbor Renovation", "", "Oslo", "")
		require.NoError(t, err)
		assert.Equal(t, ProjectStatusActive, project.Status)
		assert.NotEqual(t, uuid.Nil, project.ID)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewProject("", "", "", ProjectStatusActive)
		assert.ErrorIs(t, err, ErrEmptyProjectName)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		_, err := NewProject("Harbor Renovation", "", "", ProjectStatus("PAUSED"))
		assert.ErrorIs(t, err, ErrInvalidProjectStatus)
	})
}

func TestProjectQueryField(t *testing.T) {
	project, err := NewProject("Harbor Renovation", "pier rebuild", "Oslo", ProjectStatusOnHold)
	require.NoError(t, err)

	got, ok := project.QueryField("status")
	assert.True(t, ok)
	assert.Equal(t, "ON_HOLD", got)

	got, ok = project.QueryField("location")
	assert.True(t, ok)
	assert.Equal(t, "Oslo", got)

	_, ok = project.QueryField("budget")
	assert.False(t, ok)
}
