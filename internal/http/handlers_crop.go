package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"farmbook/internal/core"
	"farmbook/internal/log"
	"farmbook/internal/store"
)

// handleCropList renders the crop table partial, with growth progress
// derived from the planting window.
func (s *Server) handleCropList(w http.ResponseWriter, r *http.Request) {
	crops, err := s.crops.List(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Crop list error", log.FieldError, err)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<div class="error">Could not load crops</div>`))
		return
	}

	now := time.Now()
	type row struct {
		ID         int64
		FarmID     int64
		CropType   string
		Area       string
		Planted    string
		Harvest    string
		Status     string
		StatusTone string
		Progress   int
		CanAdvance bool
	}
	rows := make([]row, 0, len(crops))
	for _, c := range crops {
		_, canAdvance := c.Status.Next()
		rows = append(rows, row{
			ID:         c.ID,
			FarmID:     c.FarmID,
			CropType:   c.CropType,
			Area:       fmt.Sprintf("%.1f acres", c.AreaAcres),
			Planted:    c.PlantingDate,
			Harvest:    c.ExpectedHarvestDate,
			Status:     string(c.Status),
			StatusTone: string(c.Status.Tone()),
			Progress:   core.GrowthProgress(c, now),
			CanAdvance: canAdvance,
		})
	}

	s.render(w, r, "crops.html", struct{ Crops []row }{rows})
}

func (s *Server) handleCreateCrop(w http.ResponseWriter, r *http.Request) {
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
	area, _ := ParseFloat(r.Form, "area")
	crop := core.Crop{
		FarmID:              farmID,
		CropType:            sanitizeInput(r.Form.Get("crop_type")),
		AreaAcres:           area,
		PlantingDate:        sanitizeInput(r.Form.Get("planting_date")),
		ExpectedHarvestDate: sanitizeInput(r.Form.Get("harvest_date")),
	}

	created, err := s.crops.Create(r.Context(), crop)
	if err != nil {
		if store.IsValidation(err) {
			UnprocessableEntityError("Invalid crop data: " + err.Error()).Write(w)
			return
		}
		s.logger.ErrorContext(r.Context(), "Failed to save crop",
			log.FieldError, err, log.FieldFarmID, farmID, "crop_type", crop.CropType)
		InternalServerError("Error saving crop").Write(w)
		return
	}

	s.statsCache.Purge()
	s.logger.InfoContext(r.Context(), "Crop created",
		log.FieldCropID, created.ID, log.FieldFarmID, created.FarmID,
		"crop_type", created.CropType, log.FieldOperation, log.OpCreate)

	NewHTMXResponse().
		TriggerRecordsChanged("crop").
		TriggerStatsRefresh().
		TriggerFormReset().
		TriggerSuccessNotification(fmt.Sprintf("Crop %q planted", created.CropType)).
		Write(w)
}

// handleUpdateCrop applies a partial update to a crop. Submitted
// fields change, absent fields keep their stored values. The status
// field accepts any valid stage so a mistaken advance can be undone.
func (s *Server) handleUpdateCrop(w http.ResponseWriter, r *http.Request) {
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
		BadRequestError("Missing crop id").Write(w)
		return
	}

	var patch store.CropPatch
	if r.Form.Has("crop_type") {
		cropType := sanitizeInput(r.Form.Get("crop_type"))
		patch.CropType = &cropType
	}
	if r.Form.Has("area") {
		area, ok := ParseFloat(r.Form, "area")
		if !ok {
			UnprocessableEntityError("Area must be a number").Write(w)
			return
		}
		patch.AreaAcres = &area
	}
	if r.Form.Has("planting_date") {
		planted := sanitizeInput(r.Form.Get("planting_date"))
		patch.PlantingDate = &planted
	}
	if r.Form.Has("harvest_date") {
		harvest := sanitizeInput(r.Form.Get("harvest_date"))
		patch.ExpectedHarvestDate = &harvest
	}
	if r.Form.Has("status") {
		status := core.CropStatus(sanitizeInput(r.Form.Get("status")))
		patch.Status = &status
	}

	updated, err := s.crops.Update(r.Context(), id, patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFoundError("Crop not found").Write(w)
			return
		}
		if store.IsValidation(err) {
			UnprocessableEntityError("Invalid crop data: " + err.Error()).Write(w)
			return
		}
		s.logger.ErrorContext(r.Context(), "Failed to update crop", log.FieldError, err, log.FieldCropID, id)
		InternalServerError("Error updating crop").Write(w)
		return
	}

	s.statsCache.Purge()
	s.logger.InfoContext(r.Context(), "Crop updated",
		log.FieldCropID, updated.ID, "crop_type", updated.CropType, log.FieldOperation, log.OpUpdate)

	NewHTMXResponse().
		TriggerRecordsChanged("crop").
		TriggerStatsRefresh().
		TriggerSuccessNotification(fmt.Sprintf("Crop %q updated", updated.CropType)).
		Write(w)
}

// handleAdvanceCrop moves a crop to its next growth stage.
func (s *Server) handleAdvanceCrop(w http.ResponseWriter, r *http.Request) {
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
		BadRequestError("Missing crop id").Write(w)
		return
	}

	crop, err := s.crops.Advance(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFoundError("Crop not found").Write(w)
			return
		}
		if store.IsValidation(err) {
			UnprocessableEntityError(err.Error()).Write(w)
			return
		}
		s.logger.ErrorContext(r.Context(), "Failed to advance crop", log.FieldError, err, log.FieldCropID, id)
		InternalServerError("Error updating crop").Write(w)
		return
	}

	s.logger.InfoContext(r.Context(), "Crop advanced",
		log.FieldCropID, id, "status", string(crop.Status), log.FieldOperation, log.OpUpdate)

	NewHTMXResponse().
		TriggerRecordsChanged("crop").
		TriggerSuccessNotification(fmt.Sprintf("%s is now %s", crop.CropType, crop.Status)).
		Write(w)
}

func (s *Server) handleDeleteCrop(w http.ResponseWriter, r *http.Request) {
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
		BadRequestError("Missing crop id").Write(w)
		return
	}

	if err := s.crops.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFoundError("Crop not found").Write(w)
			return
		}
		s.logger.ErrorContext(r.Context(), "Failed to delete crop", log.FieldError, err, log.FieldCropID, id)
		InternalServerError("Error deleting crop").Write(w)
		return
	}

	s.statsCache.Purge()
	s.logger.InfoContext(r.Context(), "Crop deleted", log.FieldCropID, id, log.FieldOperation, log.OpDelete)

	NewHTMXResponse().
		TriggerRecordsChanged("crop").
		TriggerStatsRefresh().
		TriggerSuccessNotification("Crop deleted").
		Write(w)
}
