package services

import (
	"context"
	"errors"
	"testing"

	"farmbook/internal/core"
	"farmbook/internal/store"
	"farmbook/internal/store/memory"
)

func TestCropServiceAdvance(t *testing.T) {
	ctx := context.Background()
	svc := NewCropService(memory.New())

	crop, err := svc.Create(ctx, core.Crop{
		FarmID:              1,
		CropType:            "Corn",
		AreaAcres:           40,
		PlantingDate:        "2024-03-01",
		ExpectedHarvestDate: "2024-09-01",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if crop.Status != core.StatusPlanted {
		t.Fatalf("new crop should start Planted, got %s", crop.Status)
	}

	want := []core.CropStatus{core.StatusGrowing, core.StatusReady, core.StatusHarvested}
	for _, status := range want {
		got, err := svc.Advance(ctx, crop.ID)
		if err != nil {
			t.Fatalf("advance to %s: %v", status, err)
		}
		if got.Status != status {
			t.Fatalf("got %s, want %s", got.Status, status)
		}
	}

	// The lifecycle never moves past Harvested.
	if _, err := svc.Advance(ctx, crop.ID); !store.IsValidation(err) {
		t.Fatalf("expected validation error after harvest, got %v", err)
	}

	stored, _ := svc.Get(ctx, crop.ID)
	if stored.Status != core.StatusHarvested {
		t.Fatalf("failed advance must not change state, got %s", stored.Status)
	}
}

func TestCropServiceAdvanceMissing(t *testing.T) {
	svc := NewCropService(memory.New())
	if _, err := svc.Advance(context.Background(), 42); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCropServiceUpdateRejectsUnknownStatus(t *testing.T) {
	svc := NewCropService(memory.New())
	bad := core.CropStatus("Composted")
	if _, err := svc.Update(context.Background(), 1, store.CropPatch{Status: &bad}); !store.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
