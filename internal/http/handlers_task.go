package http

import (
	"errors"
	"net/http"
	"time"

	"farmbook/internal/core"
	"farmbook/internal/log"
	"farmbook/internal/store"
)

func (s *Server) handleTaskList(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.tasks.List(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Task list error", log.FieldError, err)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<div class="error">Could not load tasks</div>`))
		return
	}

	now := time.Now()
	type row struct {
		ID           int64
		FarmID       int64
		CropID       *int64
		Title        string
		Description  string
		Priority     string
		PriorityTone string
		DueDate      string
		Completed    bool
		Overdue      bool
	}
	rows := make([]row, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, row{
			ID:           t.ID,
			FarmID:       t.FarmID,
			CropID:       t.CropID,
			Title:        t.Title,
			Description:  t.Description,
			Priority:     string(t.Priority),
			PriorityTone: string(t.Priority.Tone()),
			DueDate:      t.DueDate,
			Completed:    t.Completed,
			Overdue:      core.Overdue(t, now),
		})
	}

	s.render(w, r, "tasks.html", struct{ Tasks []row }{rows})
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	farmID, ok := ParseID(r.Form, "farm_id")
	if !ok {
		BadRequestError("Missing farm id").Write(w)
		return
	}
	priority := core.TaskPriority(sanitizeInput(r.Form.Get("priority")))
	if priority == "" {
		priority = core.PriorityMedium
	}
	task := core.Task{
		FarmID:      farmID,
		CropID:      ParseOptionalID(r.Form, "crop_id"),
		Title:       sanitizeInput(r.Form.Get("title")),
		Description: sanitizeInput(r.Form.Get("description")),
		Priority:    priority,
		DueDate:     sanitizeInput(r.Form.Get("due_date")),
	}

	created, err := s.tasks.Create(r.Context(), task)
	if err != nil {
		if store.IsValidation(err) {
			UnprocessableEntityError("Invalid task data: " + err.Error()).Write(w)
			return
		}
		s.logger.ErrorContext(r.Context(), "Failed to save task",
			log.FieldError, err, log.FieldFarmID, farmID)
		InternalServerError("Error saving task").Write(w)
		return
	}

	s.statsCache.Purge()
	s.logger.InfoContext(r.Context(), "Task created",
		log.FieldTaskID, created.ID, log.FieldFarmID, created.FarmID, log.FieldOperation, log.OpCreate)

	NewHTMXResponse().
		TriggerRecordsChanged("task").
		TriggerStatsRefresh().
		TriggerFormReset().
		TriggerSuccessNotification("Task added").
		Write(w)
}

// handleUpdateTask applies a partial update. Only submitted fields
// change; completion state goes through the toggle endpoint.
func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	id, ok := ParseID(r.Form, "id")
	if !ok {
		BadRequestError("Missing task id").Write(w)
		return
	}

	var patch store.TaskPatch
	if r.Form.Has("title") {
		title := sanitizeInput(r.Form.Get("title"))
		patch.Title = &title
	}
	if r.Form.Has("description") {
		description := sanitizeInput(r.Form.Get("description"))
		patch.Description = &description
	}
	if r.Form.Has("priority") {
		priority := core.TaskPriority(sanitizeInput(r.Form.Get("priority")))
		patch.Priority = &priority
	}
	if r.Form.Has("due_date") {
		due := sanitizeInput(r.Form.Get("due_date"))
		patch.DueDate = &due
	}

	updated, err := s.tasks.Update(r.Context(), id, patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFoundError("Task not found").Write(w)
			return
		}
		if store.IsValidation(err) {
			UnprocessableEntityError("Invalid task data: " + err.Error()).Write(w)
			return
		}
		s.logger.ErrorContext(r.Context(), "Failed to update task", log.FieldError, err, log.FieldTaskID, id)
		InternalServerError("Error updating task").Write(w)
		return
	}

	s.statsCache.Purge()
	s.logger.InfoContext(r.Context(), "Task updated",
		log.FieldTaskID, updated.ID, log.FieldOperation, log.OpUpdate)

	NewHTMXResponse().
		TriggerRecordsChanged("task").
		TriggerStatsRefresh().
		TriggerSuccessNotification("Task updated").
		Write(w)
}

func (s *Server) handleToggleTask(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	id, ok := ParseID(r.Form, "id")
	if !ok {
		BadRequestError("Missing task id").Write(w)
		return
	}

	task, err := s.tasks.ToggleComplete(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFoundError("Task not found").Write(w)
			return
		}
		s.logger.ErrorContext(r.Context(), "Failed to toggle task", log.FieldError, err, log.FieldTaskID, id)
		InternalServerError("Error updating task").Write(w)
		return
	}

	s.statsCache.Purge()
	s.logger.InfoContext(r.Context(), "Task toggled",
		log.FieldTaskID, id, "completed", task.Completed, log.FieldOperation, log.OpUpdate)

	msg := "Task reopened"
	if task.Completed {
		msg = "Task completed"
	}
	NewHTMXResponse().
		TriggerRecordsChanged("task").
		TriggerStatsRefresh().
		TriggerSuccessNotification(msg).
		Write(w)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if resp := RequireDeleteOrPOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	id, ok := ParseID(r.Form, "id")
	if !ok {
		BadRequestError("Missing task id").Write(w)
		return
	}

	if err := s.tasks.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFoundError("Task not found").Write(w)
			return
		}
		s.logger.ErrorContext(r.Context(), "Failed to delete task", log.FieldError, err, log.FieldTaskID, id)
		InternalServerError("Error deleting task").Write(w)
		return
	}

	s.statsCache.Purge()
	s.logger.InfoContext(r.Context(), "Task deleted", log.FieldTaskID, id, log.FieldOperation, log.OpDelete)

	NewHTMXResponse().
		TriggerRecordsChanged("task").
		TriggerStatsRefresh().
		TriggerSuccessNotification("Task deleted").
		Write(w)
}
