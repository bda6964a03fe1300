package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskboard/taskboard-api/internal/cache"
	"github.com/taskboard/taskboard-api/internal/domain"
	"github.com/taskboard/taskboard-api/internal/events"
	"github.com/taskboard/taskboard-api/internal/service"
	"github.com/taskboard/taskboard-api/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memTaskStore is an in-memory store.TaskStore for handler tests.
type memTaskStore struct {
	tasks []*domain.Task
}

func (s *memTaskStore) Create(_ context.Context, task *domain.Task) error {
	copied := *task
	s.tasks = append(s.tasks, &copied)
	return nil
}

func (s *memTaskStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Task, error) {
	for _, t := range s.tasks {
		if t.ID == id {
			copied := *t
			return &copied, nil
		}
	}
	return nil, store.ErrTaskNotFound
}

func (s *memTaskStore) List(context.Context) ([]*domain.Task, error) { return s.tasks, nil }

func (s *memTaskStore) ListByProject(_ context.Context, projectID uuid.UUID) ([]*domain.Task, error) {
	var out []*domain.Task
	for _, t := range s.tasks {
		if t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *memTaskStore) ListDue(context.Context, time.Time) ([]*domain.Task, error) {
	return nil, nil
}

func (s *memTaskStore) ListOverdue(context.Context) ([]*domain.Task, error) {
	var out []*domain.Task
	for _, t := range s.tasks {
		if t.IsOverdue {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *memTaskStore) Update(_ context.Context, task *domain.Task) error {
	for i, t := range s.tasks {
		if t.ID == task.ID {
			copied := *task
			s.tasks[i] = &copied
			return nil
		}
	}
	return store.ErrTaskNotFound
}

func (s *memTaskStore) Delete(_ context.Context, id uuid.UUID) error {
	for i, t := range s.tasks {
		if t.ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return nil
		}
	}
	return store.ErrTaskNotFound
}

func (s *memTaskStore) MarkOverdue(context.Context, time.Time) (int64, error) { return 0, nil }
func (s *memTaskStore) ClearOverdueCompleted(context.Context) (int64, error)  { return 0, nil }
func (s *memTaskStore) ClearOverdueNotYetDue(context.Context, time.Time) (int64, error) {
	return 0, nil
}

// testTask builds an overdue or regular task for listing tests.
func testTask(title string, overdue bool) *domain.Task {
	due := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	return &domain.Task{
		ID:          uuid.New(),
		ProjectID:   uuid.New(),
		ProjectName: "Apollo",
		Title:       title,
		DueDate:     &due,
		IsOverdue:   overdue,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
}

type taskHandlerEnv struct {
	handler    *TaskHandler
	tasks      *memTaskStore
	cacheStore *cache.MemoryStore
	emitter    *events.InMemoryEmitter
}

func newTaskHandlerEnv(t *testing.T) *taskHandlerEnv {
	t.Helper()

	tasks := &memTaskStore{}
	logger := testLogger()

	cacheStore := cache.NewMemoryStore()
	gateway := cache.NewGateway(cacheStore, time.Minute, logger)

	emitter := events.NewInMemoryEmitter(logger)
	emitter.RegisterHandler(cache.NewInvalidationHook(gateway, OverdueCacheNamespace, logger))

	svc, err := service.NewTaskService(tasks, emitter, logger)
	require.NoError(t, err)

	return &taskHandlerEnv{
		handler:    NewTaskHandler(svc, gateway),
		tasks:      tasks,
		cacheStore: cacheStore,
		emitter:    emitter,
	}
}

func doRequest(handler http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func decodePage(t *testing.T, w *httptest.ResponseRecorder) (PageResponse, []TaskResponse) {
	t.Helper()
	var page PageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))

	raw, err := json.Marshal(page.Results)
	require.NoError(t, err)
	var tasks []TaskResponse
	require.NoError(t, json.Unmarshal(raw, &tasks))
	return page, tasks
}

func TestTaskHandlerOverdueCachesResponse(t *testing.T) {
	env := newTaskHandlerEnv(t)
	env.tasks.tasks = []*domain.Task{
		testTask("Late one", true),
		testTask("On time", false),
	}

	w := doRequest(env.handler.Overdue, http.MethodGet, "/api/tasks/overdue", "")
	require.Equal(t, http.StatusOK, w.Code)

	page, results := decodePage(t, w)
	assert.Equal(t, 1, page.Count)
	require.Len(t, results, 1)
	assert.Equal(t, "Late one", results[0].Title)

	assert.Equal(t, 1, env.cacheStore.Len(), "first hit populates the cache")

	// Mutating the underlying data does not change the cached response.
	env.tasks.tasks[1].IsOverdue = true

	w = doRequest(env.handler.Overdue, http.MethodGet, "/api/tasks/overdue", "")
	page, _ = decodePage(t, w)
	assert.Equal(t, 1, page.Count, "second hit is served from cache")
}

func TestTaskHandlerOverdueDistinctParamsDistinctEntries(t *testing.T) {
	env := newTaskHandlerEnv(t)
	env.tasks.tasks = []*domain.Task{testTask("Late one", true)}

	doRequest(env.handler.Overdue, http.MethodGet, "/api/tasks/overdue", "")
	doRequest(env.handler.Overdue, http.MethodGet, "/api/tasks/overdue?page=2", "")
	doRequest(env.handler.Overdue, http.MethodGet, "/api/tasks/overdue", "")

	assert.Equal(t, 2, env.cacheStore.Len())
}

func TestTaskHandlerOverdueSearchAndOrdering(t *testing.T) {
	env := newTaskHandlerEnv(t)
	env.tasks.tasks = []*domain.Task{
		testTask("Urgent fix", true),
		testTask("Routine check", true),
	}

	w := doRequest(env.handler.Overdue, http.MethodGet, "/api/tasks/overdue?search=urgent", "")
	require.Equal(t, http.StatusOK, w.Code)

	page, results := decodePage(t, w)
	assert.Equal(t, 1, page.Count)
	require.Len(t, results, 1)
	assert.Equal(t, "Urgent fix", results[0].Title)

	w = doRequest(env.handler.Overdue, http.MethodGet, "/api/tasks/overdue?ordering=title", "")
	require.Equal(t, http.StatusOK, w.Code)

	_, results = decodePage(t, w)
	require.Len(t, results, 2)
	assert.Equal(t, "Routine check", results[0].Title)
}

func TestTaskHandlerMutationInvalidatesOverdueCache(t *testing.T) {
	env := newTaskHandlerEnv(t)
	env.tasks.tasks = []*domain.Task{testTask("Late one", true)}

	doRequest(env.handler.Overdue, http.MethodGet, "/api/tasks/overdue", "")
	require.Equal(t, 1, env.cacheStore.Len())

	projectID := uuid.New()
	body := fmt.Sprintf(`{"project_id":%q,"title":"New task"}`, projectID)
	w := doRequest(env.handler.Create, http.MethodPost, "/api/tasks", body)
	require.Equal(t, http.StatusCreated, w.Code)

	assert.Equal(t, 0, env.cacheStore.Len(), "create purges the overdue namespace")

	// Next read recomputes and repopulates.
	w = doRequest(env.handler.Overdue, http.MethodGet, "/api/tasks/overdue", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, env.cacheStore.Len())
}

func TestTaskHandlerCreateValidation(t *testing.T) {
	env := newTaskHandlerEnv(t)

	w := doRequest(env.handler.Create, http.MethodPost, "/api/tasks", `{"title":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(env.handler.Create, http.MethodPost, "/api/tasks", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(env.handler.Create, http.MethodPost, "/api/tasks",
		fmt.Sprintf(`{"project_id":%q,"title":"x","due_date":"15-01-2026"}`, uuid.New()))
	assert.Equal(t, http.StatusBadRequest, w.Code, "malformed due date is rejected")
}

func TestTaskHandlerListFiltersAndPaginates(t *testing.T) {
	env := newTaskHandlerEnv(t)
	for i := 0; i < 15; i++ {
		task := testTask(fmt.Sprintf("Task %02d", i), i%2 == 0)
		env.tasks.tasks = append(env.tasks.tasks, task)
	}

	w := doRequest(env.handler.List, http.MethodGet, "/api/tasks?is_overdue=true&ordering=title&page_size=5", "")
	require.Equal(t, http.StatusOK, w.Code)

	page, results := decodePage(t, w)
	assert.Equal(t, 8, page.Count)
	require.Len(t, results, 5)
	assert.Equal(t, "Task 00", results[0].Title)
	require.NotNil(t, page.Next)
	assert.Equal(t, 2, *page.Next)
	assert.Nil(t, page.Previous)
}

func TestTaskHandlerGetUnknownID(t *testing.T) {
	env := newTaskHandlerEnv(t)

	r := chi.NewRouter()
	r.Get("/api/tasks/{id}", env.handler.Get)

	req := httptest.NewRequest(http.MethodGet, "/api/tasks/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/tasks/not-a-uuid", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
