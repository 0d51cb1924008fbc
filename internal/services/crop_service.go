package services

import (
	"context"
	"fmt"

	"farmbook/internal/core"
	"farmbook/internal/store"
)

// CropService handles crop CRUD and the lifecycle transitions.
type CropService struct {
	store store.CropStore
}

func NewCropService(s store.CropStore) *CropService {
	return &CropService{store: s}
}

func (s *CropService) List(ctx context.Context) ([]core.Crop, error) {
	return s.store.ListCrops(ctx)
}

func (s *CropService) ListByFarm(ctx context.Context, farmID int64) ([]core.Crop, error) {
	return s.store.ListCropsByFarm(ctx, farmID)
}

func (s *CropService) Get(ctx context.Context, id int64) (*core.Crop, error) {
	return s.store.GetCrop(ctx, id)
}

func (s *CropService) Create(ctx context.Context, c core.Crop) (core.Crop, error) {
	if c.Status == "" {
		c.Status = core.StatusPlanted
	}
	if err := c.Validate(); err != nil {
		return core.Crop{}, &store.ValidationError{Err: err}
	}
	return s.store.CreateCrop(ctx, c)
}

func (s *CropService) Update(ctx context.Context, id int64, p store.CropPatch) (core.Crop, error) {
	if p.Status != nil && !p.Status.Valid() {
		return core.Crop{}, &store.ValidationError{Field: "status", Err: core.ErrInvalidStatus}
	}
	return s.store.UpdateCrop(ctx, id, p)
}

func (s *CropService) Delete(ctx context.Context, id int64) error {
	return s.store.DeleteCrop(ctx, id)
}

// Advance moves the crop to the next lifecycle stage. The lifecycle
// only runs forward; a harvested crop stays harvested.
func (s *CropService) Advance(ctx context.Context, id int64) (core.Crop, error) {
	c, err := s.store.GetCrop(ctx, id)
	if err != nil {
		return core.Crop{}, err
	}
	if c == nil {
		return core.Crop{}, store.ErrNotFound
	}

	next, ok := c.Status.Next()
	if !ok {
		return core.Crop{}, &store.ValidationError{
			Field: "status",
			Err:   fmt.Errorf("crop is already %s", c.Status),
		}
	}

	return s.store.UpdateCrop(ctx, id, store.CropPatch{Status: &next})
}
