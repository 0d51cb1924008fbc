package services

import (
	"context"

	"farmbook/internal/core"
	"farmbook/internal/store"
)

// TaskService handles task CRUD and completion toggling.
type TaskService struct {
	store store.TaskStore
}

func NewTaskService(s store.TaskStore) *TaskService {
	return &TaskService{store: s}
}

func (s *TaskService) List(ctx context.Context) ([]core.Task, error) {
	return s.store.ListTasks(ctx)
}

func (s *TaskService) ListByFarm(ctx context.Context, farmID int64) ([]core.Task, error) {
	return s.store.ListTasksByFarm(ctx, farmID)
}

func (s *TaskService) Get(ctx context.Context, id int64) (*core.Task, error) {
	return s.store.GetTask(ctx, id)
}

func (s *TaskService) Create(ctx context.Context, t core.Task) (core.Task, error) {
	if t.Priority == "" {
		t.Priority = core.PriorityMedium
	}
	if err := t.Validate(); err != nil {
		return core.Task{}, &store.ValidationError{Err: err}
	}
	return s.store.CreateTask(ctx, t)
}

func (s *TaskService) Update(ctx context.Context, id int64, p store.TaskPatch) (core.Task, error) {
	if p.Priority != nil && !p.Priority.Valid() {
		return core.Task{}, &store.ValidationError{Field: "priority", Err: core.ErrInvalidPriority}
	}
	if p.DueDate != nil {
		if _, err := core.ParseDay(*p.DueDate); err != nil {
			return core.Task{}, &store.ValidationError{Field: "due date", Err: core.ErrInvalidDate}
		}
	}
	return s.store.UpdateTask(ctx, id, p)
}

func (s *TaskService) Delete(ctx context.Context, id int64) error {
	return s.store.DeleteTask(ctx, id)
}

// ToggleComplete flips the completed flag and returns the new state.
func (s *TaskService) ToggleComplete(ctx context.Context, id int64) (core.Task, error) {
	t, err := s.store.GetTask(ctx, id)
	if err != nil {
		return core.Task{}, err
	}
	if t == nil {
		return core.Task{}, store.ErrNotFound
	}

	completed := !t.Completed
	return s.store.UpdateTask(ctx, id, store.TaskPatch{Completed: &completed})
}
