package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/sakif/droplog/internal/apperror"
	"github.com/sakif/droplog/internal/model"
)

// ErrToggleInFlight is returned when a toggle is requested for a task whose
// previous toggle has not resolved yet.
//
// A toggle flips whatever state the server currently holds, so two
// unconfirmed toggles in flight could resolve to either value. The service
// rejects the second call instead of queueing it; callers disable the
// control (or retry after resolution); at-most-one toggle per task id is
// in flight at any moment.
var ErrToggleInFlight = errors.New("a toggle for this task is already in flight")

// TaskService translates task operations into backend requests.
type TaskService struct {
	gateway Gateway
	logger  *slog.Logger

	mu       sync.Mutex
	inFlight map[string]struct{} // task ids with an unresolved toggle
}

// NewTaskService creates a TaskService.
func NewTaskService(gateway Gateway, logger *slog.Logger) *TaskService {
	return &TaskService{
		gateway:  gateway,
		logger:   logger,
		inFlight: make(map[string]struct{}),
	}
}

// List fetches all tasks.
func (s *TaskService) List(ctx context.Context) ([]model.Task, error) {
	return s.fetchList(ctx, "/api/tasks")
}

// Today fetches the daily view: tasks flagged for recurring completion.
func (s *TaskService) Today(ctx context.Context) ([]model.Task, error) {
	return s.fetchList(ctx, "/api/tasks/today")
}

func (s *TaskService) fetchList(ctx context.Context, path string) ([]model.Task, error) {
	if err := requireAuth(s.gateway); err != nil {
		return nil, err
	}

	env, err := s.gateway.Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("service/task: listing tasks: %w", err)
	}

	tasks := []model.Task{}
	if len(env.Data) > 0 {
		if err := env.Decode(&tasks); err != nil {
			return nil, fmt.Errorf("service/task: %w", err)
		}
	}
	return tasks, nil
}

// Stats fetches the server-computed aggregate counters. Toggles do NOT
// update these synchronously; views refetch stats after mutations.
func (s *TaskService) Stats(ctx context.Context) (*model.TaskStats, error) {
	if err := requireAuth(s.gateway); err != nil {
		return nil, err
	}

	env, err := s.gateway.Get(ctx, "/api/tasks/stats")
	if err != nil {
		return nil, fmt.Errorf("service/task: fetching stats: %w", err)
	}

	stats := &model.TaskStats{}
	if err := env.Decode(stats); err != nil {
		return nil, fmt.Errorf("service/task: %w", err)
	}
	return stats, nil
}

// Create submits a new task.
func (s *TaskService) Create(ctx context.Context, task *model.Task) (*model.Task, error) {
	if err := requireAuth(s.gateway); err != nil {
		return nil, err
	}
	payload, err := sanitizeTask(task)
	if err != nil {
		return nil, err
	}

	env, err := s.gateway.Post(ctx, "/api/tasks", payload)
	if err != nil {
		return nil, fmt.Errorf("service/task: creating task: %w", err)
	}

	created := &model.Task{}
	if err := env.Decode(created); err != nil {
		return nil, fmt.Errorf("service/task: %w", err)
	}
	s.logger.Info("task created", slog.String("id", created.ID), slog.String("title", created.Title))
	return created, nil
}

// BulkCreate submits several tasks in one request (used when importing an
// airdrop's task checklist).
func (s *TaskService) BulkCreate(ctx context.Context, tasks []model.Task) ([]model.Task, error) {
	if err := requireAuth(s.gateway); err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, apperror.ValidationFailed("tasks", "at least one task is required")
	}

	payloads := make([]model.Task, 0, len(tasks))
	for i := range tasks {
		p, err := sanitizeTask(&tasks[i])
		if err != nil {
			return nil, err
		}
		payloads = append(payloads, *p)
	}

	env, err := s.gateway.Post(ctx, "/api/tasks/bulk", map[string]any{"tasks": payloads})
	if err != nil {
		return nil, fmt.Errorf("service/task: bulk creating %d tasks: %w", len(tasks), err)
	}

	created := []model.Task{}
	if len(env.Data) > 0 {
		if err := env.Decode(&created); err != nil {
			return nil, fmt.Errorf("service/task: %w", err)
		}
	}
	s.logger.Info("tasks bulk created", slog.Int("count", len(created)))
	return created, nil
}

// Update replaces a task.
func (s *TaskService) Update(ctx context.Context, id string, task *model.Task) (*model.Task, error) {
	if err := requireAuth(s.gateway); err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "task id is required")
	}
	payload, err := sanitizeTask(task)
	if err != nil {
		return nil, err
	}

	env, err := s.gateway.Put(ctx, "/api/tasks/"+url.PathEscape(id), payload)
	if err != nil {
		return nil, fmt.Errorf("service/task: updating task %s: %w", id, err)
	}

	updated := &model.Task{}
	if err := env.Decode(updated); err != nil {
		return nil, fmt.Errorf("service/task: %w", err)
	}
	return updated, nil
}

// Delete removes a task.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	if err := requireAuth(s.gateway); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "task id is required")
	}

	if _, err := s.gateway.Delete(ctx, "/api/tasks/"+url.PathEscape(id)); err != nil {
		return fmt.Errorf("service/task: deleting task %s: %w", id, err)
	}
	return nil
}

// Toggle flips the task's completion state on the server and returns the
// authoritative updated task.
//
// The protocol is a blind flip (the request carries no desired value), so
// Toggle is NOT idempotent at the call site: two resolved calls flip twice.
// The per-id in-flight guard enforces the invariant that a toggle is never
// applied twice without an intervening server confirmation; the second
// concurrent call for the same id fails with ErrToggleInFlight instead of
// racing.
func (s *TaskService) Toggle(ctx context.Context, id string) (*model.Task, error) {
	if err := requireAuth(s.gateway); err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "task id is required")
	}

	s.mu.Lock()
	if _, busy := s.inFlight[id]; busy {
		s.mu.Unlock()
		return nil, fmt.Errorf("service/task: toggling task %s: %w", id, ErrToggleInFlight)
	}
	s.inFlight[id] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.inFlight, id)
		s.mu.Unlock()
	}()

	env, err := s.gateway.Patch(ctx, "/api/tasks/"+url.PathEscape(id)+"/toggle", nil)
	if err != nil {
		return nil, fmt.Errorf("service/task: toggling task %s: %w", id, err)
	}

	updated := &model.Task{}
	if err := env.Decode(updated); err != nil {
		return nil, fmt.Errorf("service/task: %w", err)
	}

	s.logger.Info("task toggled",
		slog.String("id", id),
		slog.Bool("completed", updated.Completed),
	)
	return updated, nil
}

// sanitizeTask validates and normalizes an outgoing task payload, returning
// a copy.
func sanitizeTask(t *model.Task) (*model.Task, error) {
	if t == nil {
		return nil, apperror.ValidationFailed("task", "task payload is required")
	}

	out := *t
	out.Title = strings.TrimSpace(out.Title)
	if out.Title == "" {
		return nil, apperror.ValidationFailed("title", "task title is required")
	}
	out.Project = strings.TrimSpace(out.Project)
	out.Description = strings.TrimSpace(out.Description)
	if out.Category == "" {
		out.Category = "general"
	}
	return &out, nil
}
