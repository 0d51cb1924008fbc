package services

import (
	"context"

	"farmbook/internal/core"
	"farmbook/internal/store"
)

// FarmService handles farm CRUD.
type FarmService struct {
	store store.FarmStore
}

func NewFarmService(s store.FarmStore) *FarmService {
	return &FarmService{store: s}
}

func (s *FarmService) List(ctx context.Context) ([]core.Farm, error) {
	return s.store.ListFarms(ctx)
}

func (s *FarmService) Get(ctx context.Context, id int64) (*core.Farm, error) {
	return s.store.GetFarm(ctx, id)
}

func (s *FarmService) Create(ctx context.Context, f core.Farm) (core.Farm, error) {
	if err := f.Validate(); err != nil {
		return core.Farm{}, &store.ValidationError{Err: err}
	}
	return s.store.CreateFarm(ctx, f)
}

func (s *FarmService) Update(ctx context.Context, id int64, p store.FarmPatch) (core.Farm, error) {
	if p.Name != nil && *p.Name == "" {
		return core.Farm{}, &store.ValidationError{Field: "name", Err: core.ErrEmptyName}
	}
	if p.SizeAcres != nil && *p.SizeAcres <= 0 {
		return core.Farm{}, &store.ValidationError{Field: "size", Err: core.ErrInvalidSize}
	}
	return s.store.UpdateFarm(ctx, id, p)
}

func (s *FarmService) Delete(ctx context.Context, id int64) error {
	return s.store.DeleteFarm(ctx, id)
}
