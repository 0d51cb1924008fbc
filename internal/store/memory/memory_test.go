package memory

import (
	"context"
	"errors"
	"testing"

	"farmbook/internal/core"
	"farmbook/internal/store"
)

func TestFarmCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()

	created, err := s.CreateFarm(ctx, core.Farm{Name: "North Field", SizeAcres: 120})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected assigned id")
	}

	got, err := s.GetFarm(ctx, created.ID)
	if err != nil || got == nil || got.Name != "North Field" {
		t.Fatalf("get: %v %v", got, err)
	}

	missing, err := s.GetFarm(ctx, 999)
	if err != nil || missing != nil {
		t.Fatalf("unknown id should read as absent, got %v %v", missing, err)
	}

	name := "South Field"
	updated, err := s.UpdateFarm(ctx, created.ID, store.FarmPatch{Name: &name})
	if err != nil || updated.Name != "South Field" {
		t.Fatalf("update: %v %v", updated, err)
	}
	if updated.SizeAcres != 120 {
		t.Fatalf("patch must not touch unset fields")
	}

	if _, err := s.UpdateFarm(ctx, 999, store.FarmPatch{}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := s.DeleteFarm(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteFarm(ctx, created.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("double delete should be ErrNotFound, got %v", err)
	}
}

func TestListCropsByFarm(t *testing.T) {
	ctx := context.Background()
	s := New()

	farm, _ := s.CreateFarm(ctx, core.Farm{Name: "A", SizeAcres: 1})
	other, _ := s.CreateFarm(ctx, core.Farm{Name: "B", SizeAcres: 1})
	s.CreateCrop(ctx, core.Crop{FarmID: farm.ID, CropType: "Corn"})
	s.CreateCrop(ctx, core.Crop{FarmID: other.ID, CropType: "Wheat"})
	s.CreateCrop(ctx, core.Crop{FarmID: farm.ID, CropType: "Soy"})

	crops, err := s.ListCropsByFarm(ctx, farm.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(crops) != 2 || crops[0].CropType != "Corn" || crops[1].CropType != "Soy" {
		t.Fatalf("unexpected crops: %v", crops)
	}
}

func TestCreateCropDefaultsStatus(t *testing.T) {
	ctx := context.Background()
	s := New()
	c, _ := s.CreateCrop(ctx, core.Crop{FarmID: 1, CropType: "Corn"})
	if c.Status != core.StatusPlanted {
		t.Fatalf("expected default status Planted, got %s", c.Status)
	}
}

func TestTaskPatchCompleted(t *testing.T) {
	ctx := context.Background()
	s := New()
	task, _ := s.CreateTask(ctx, core.Task{FarmID: 1, Title: "Irrigate", DueDate: "2024-06-01"})

	done := true
	got, err := s.UpdateTask(ctx, task.ID, store.TaskPatch{Completed: &done})
	if err != nil || !got.Completed {
		t.Fatalf("toggle: %v %v", got, err)
	}
	if got.Title != "Irrigate" {
		t.Fatalf("patch must not touch unset fields")
	}
}

func TestIDsAreStable(t *testing.T) {
	ctx := context.Background()
	s := New()
	e1, _ := s.CreateExpense(ctx, core.Expense{FarmID: 1, Amount: 10, Date: "2024-01-01"})
	_ = s.DeleteExpense(ctx, e1.ID)
	e2, _ := s.CreateExpense(ctx, core.Expense{FarmID: 1, Amount: 20, Date: "2024-01-02"})
	if e2.ID == e1.ID {
		t.Fatalf("ids must not be reused")
	}
}
