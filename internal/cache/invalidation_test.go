package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskboard/taskboard-api/internal/events"
)

func TestInvalidationHook(t *testing.T) {
	ctx := context.Background()
	gateway := NewGateway(NewMemoryStore(), time.Minute, testLogger())
	hook := NewInvalidationHook(gateway, "overdue_tasks", testLogger())

	emitter := events.NewInMemoryEmitter(testLogger())
	emitter.RegisterHandler(hook)

	gateway.Set(ctx, "overdue_tasks:default", []byte("stale"))
	gateway.Set(ctx, "overdue_tasks:page=2", []byte("stale"))
	gateway.Set(ctx, "projects:default", []byte("fresh"))

	err := emitter.EmitTaskChanged(ctx, events.NewTaskChangedEvent(events.ActionUpdated, uuid.New()))
	require.NoError(t, err)

	_, ok := gateway.Get(ctx, "overdue_tasks:default")
	assert.False(t, ok, "a task mutation must purge every overdue listing entry")
	_, ok = gateway.Get(ctx, "overdue_tasks:page=2")
	assert.False(t, ok)
	_, ok = gateway.Get(ctx, "projects:default")
	assert.True(t, ok, "other namespaces are untouched")
}

func TestInvalidationHookNeverFailsTheMutation(t *testing.T) {
	gateway := NewGateway(brokenStore{}, time.Minute, testLogger())
	hook := NewInvalidationHook(gateway, "overdue_tasks", testLogger())

	err := hook.HandleTaskChanged(context.Background(),
		events.NewTaskChangedEvent(events.ActionDeleted, uuid.New()))
	assert.NoError(t, err)
}
