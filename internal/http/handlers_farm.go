package http

import (
	"errors"
	"fmt"
	"net/http"

	"farmbook/internal/core"
	"farmbook/internal/log"
	"farmbook/internal/store"
)

// handleFarmList renders the farm table partial.
func (s *Server) handleFarmList(w http.ResponseWriter, r *http.Request) {
	farms, err := s.farms.List(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Farm list error", log.FieldError, err)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<div class="error">Could not load farms</div>`))
		return
	}

	type row struct {
		ID       int64
		Name     string
		Location string
		Size     string
	}
	rows := make([]row, 0, len(farms))
	for _, f := range farms {
		rows = append(rows, row{
			ID:       f.ID,
			Name:     f.Name,
			Location: f.Location,
			Size:     fmt.Sprintf("%.1f acres", f.SizeAcres),
		})
	}

	s.render(w, r, "farms.html", struct{ Farms []row }{rows})
}

func (s *Server) handleCreateFarm(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	size, _ := ParseFloat(r.Form, "size")
	farm := core.Farm{
		Name:      sanitizeInput(r.Form.Get("name")),
		Location:  sanitizeInput(r.Form.Get("location")),
		SizeAcres: size,
	}

	created, err := s.farms.Create(r.Context(), farm)
	if err != nil {
		if store.IsValidation(err) {
			UnprocessableEntityError("Invalid farm data: " + err.Error()).Write(w)
			return
		}
		s.logger.ErrorContext(r.Context(), "Failed to save farm", log.FieldError, err, "name", farm.Name)
		InternalServerError("Error saving farm").Write(w)
		return
	}

	s.statsCache.Purge()
	s.logger.InfoContext(r.Context(), "Farm created",
		log.FieldFarmID, created.ID, "name", created.Name, log.FieldOperation, log.OpCreate)

	NewHTMXResponse().
		TriggerRecordsChanged("farm").
		TriggerStatsRefresh().
		TriggerFormReset().
		TriggerSuccessNotification(fmt.Sprintf("Farm %q added", created.Name)).
		Write(w)
}

// handleUpdateFarm applies a partial update. Only the submitted
// fields change; anything absent from the form keeps its stored value.
func (s *Server) handleUpdateFarm(w http.ResponseWriter, r *http.Request) {
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
		BadRequestError("Missing farm id").Write(w)
		return
	}

	var patch store.FarmPatch
	if r.Form.Has("name") {
		name := sanitizeInput(r.Form.Get("name"))
		patch.Name = &name
	}
	if r.Form.Has("location") {
		location := sanitizeInput(r.Form.Get("location"))
		patch.Location = &location
	}
	if r.Form.Has("size") {
		size, ok := ParseFloat(r.Form, "size")
		if !ok {
			UnprocessableEntityError("Size must be a number").Write(w)
			return
		}
		patch.SizeAcres = &size
	}

	updated, err := s.farms.Update(r.Context(), id, patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFoundError("Farm not found").Write(w)
			return
		}
		if store.IsValidation(err) {
			UnprocessableEntityError("Invalid farm data: " + err.Error()).Write(w)
			return
		}
		s.logger.ErrorContext(r.Context(), "Failed to update farm", log.FieldError, err, log.FieldFarmID, id)
		InternalServerError("Error updating farm").Write(w)
		return
	}

	s.statsCache.Purge()
	s.logger.InfoContext(r.Context(), "Farm updated",
		log.FieldFarmID, updated.ID, "name", updated.Name, log.FieldOperation, log.OpUpdate)

	NewHTMXResponse().
		TriggerRecordsChanged("farm").
		TriggerStatsRefresh().
		TriggerSuccessNotification(fmt.Sprintf("Farm %q updated", updated.Name)).
		Write(w)
}

func (s *Server) handleDeleteFarm(w http.ResponseWriter, r *http.Request) {
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
		BadRequestError("Missing farm id").Write(w)
		return
	}

	if err := s.farms.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFoundError("Farm not found").Write(w)
			return
		}
		s.logger.ErrorContext(r.Context(), "Failed to delete farm", log.FieldError, err, log.FieldFarmID, id)
		InternalServerError("Error deleting farm").Write(w)
		return
	}

	s.statsCache.Purge()
	s.logger.InfoContext(r.Context(), "Farm deleted", log.FieldFarmID, id, log.FieldOperation, log.OpDelete)

	NewHTMXResponse().
		TriggerRecordsChanged("farm").
		TriggerStatsRefresh().
		TriggerSuccessNotification("Farm deleted").
		Write(w)
}
